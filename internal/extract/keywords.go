package extract

import "strings"

// Keyword sets driving row classification. They are package-level named
// constants so classification thresholds have a single point of change.

// dependentKeywords classify a relationship value as naming a household
// member rather than the employee.
var dependentKeywords = []string{
	"SPOUSE", "CHILD", "SON", "DAUGHTER", "WIFE", "HUSBAND", "DEPENDENT",
}

// jobTitleKeywords catch relationship columns that have been repurposed to
// store job titles, which otherwise read as dependent rows.
var jobTitleKeywords = []string{
	"MANAGER", "ASSISTANT", "ACCOUNTANT", "DIRECTOR", "COORDINATOR",
	"SPECIALIST", "ANALYST", "SUPERVISOR", "EXECUTIVE", "OFFICER",
	"REPRESENTATIVE", "TECHNICIAN", "ADMINISTRATOR", "CARE", "PATIENT",
	"STAFF", "CLERK", "LEAD", "SENIOR", "JUNIOR", "PRINCIPAL",
}

// dependentColumnHints flag unmapped columns that encode dependents as free
// text ("Dependents", "Spouse Name", ...).
var dependentColumnHints = []string{"dependent", "spouse", "child"}

// relationshipColumnHints locate unmapped relationship columns, consulted
// only when the Relationship field itself is unmapped.
var relationshipColumnHints = []string{"relationship", "relation"}

// namePriorityHints order the unmapped-column name scan toward columns whose
// header suggests they hold person names.
var namePriorityHints = []string{"first", "last", "name", "dependent"}

// nonNameColumnHints exclude columns whose header marks non-person content
// from the name-like fallback scan.
var nonNameColumnHints = []string{
	"zip", "code", "phone", "email", "address", "city", "state",
	"dob", "birth", "date", "id", "number", "ssn", "coverage", "plan",
}

// birthColumnHints locate date-of-birth columns that never made it into the
// field mapping.
var birthColumnHints = []string{"birth", "dob"}

// annotationRelationships are scanned inside a dependent parenthetical when
// no explicit "Relationship:" label is present.
var annotationRelationships = []string{"WIFE", "SPOUSE", "SON", "DAUGHTER", "CHILD"}

// containsAny reports whether s contains any of the keywords. Callers are
// responsible for case-folding s to the keywords' case.
func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
