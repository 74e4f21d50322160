package extract

import (
	"strings"
	"unicode"

	"github.com/mstepanek/rollcall/internal/model"
)

// TraceFunc receives classification diagnostics. Nil disables tracing.
type TraceFunc func(format string, args ...any)

// RowKind is the classification outcome for one row.
type RowKind int

const (
	RowSkip RowKind = iota
	RowEmployee
	RowDependent
)

// Classification carries everything record extraction needs from one
// classified row. Relationship is the verbatim source value; the classifier
// never normalizes or invents relationship strings.
type Classification struct {
	Kind          RowKind
	First         string
	Last          string
	Relationship  string
	EmployeeName  string
	DependentsCol string // free-text dependents cell, drives same-row expansion
}

// Classifier decides, row by row on one sheet, whether a row describes an
// employee, a dependent, or neither. It weighs three signals in priority
// order: relationship content, employee-name presence, and name-like values
// in unmapped columns.
type Classifier struct {
	sheet   *model.Sheet
	mapping model.FieldMapping
	cfg     model.ExtractConfig
	trace   TraceFunc

	mapped    map[string]bool // actual columns consumed by the mapping
	unmapped  []string        // remaining columns, in sheet order
	relMapped bool
}

// NewClassifier builds a classifier for one sheet. The mapped-column set is
// resolved once up front so per-row scans only touch unmapped columns.
func NewClassifier(sheet *model.Sheet, mapping model.FieldMapping, cfg model.ExtractConfig, trace TraceFunc) *Classifier {
	mapped := make(map[string]bool)
	for field := range mapping {
		for _, ref := range mapping.RefsFor(field, sheet.Name) {
			if actual, ok := FindColumn(sheet, ref.Column); ok {
				mapped[actual] = true
			}
		}
	}

	var unmapped []string
	for _, c := range sheet.Columns {
		if !mapped[c] {
			unmapped = append(unmapped, c)
		}
	}

	return &Classifier{
		sheet:     sheet,
		mapping:   mapping,
		cfg:       cfg,
		trace:     trace,
		mapped:    mapped,
		unmapped:  unmapped,
		relMapped: mapping.Has(model.FieldRelationship),
	}
}

// Classify computes all signals for the row, then decides its kind and
// extracts the person name. A row classified as employee or dependent but
// yielding no first and no last name degrades to RowSkip.
func (c *Classifier) Classify(row model.Row) Classification {
	employeeName := c.firstValue(row, model.FieldEmployeeName)
	relationship := c.firstValue(row, model.FieldRelationship)

	dependentsCol := ""
	for _, col := range c.unmapped {
		if !containsAny(strings.ToLower(col), dependentColumnHints) {
			continue
		}
		if v := Clean(c.sheet.Cell(row, col)); v != "" {
			dependentsCol = v
			break
		}
	}

	// Relationship content is the strongest signal: a cell that literally
	// says "Spouse" beats every other indicator. The job-title check
	// disambiguates relationship columns repurposed to hold job titles.
	relIndicatesDependent := false
	relIsJobTitle := false
	if relationship != "" {
		upper := strings.ToUpper(strings.TrimSpace(relationship))
		relIndicatesDependent = containsAny(upper, dependentKeywords)
		relIsJobTitle = containsAny(upper, jobTitleKeywords) || len(upper) > c.cfg.JobTitleMinLen
	}

	firstVal := c.firstValue(row, model.FieldFirstName)
	lastVal := c.firstValue(row, model.FieldLastName)
	hasNames := firstVal != "" || lastVal != ""

	isEmployee := (employeeName != "" && !relIndicatesDependent) ||
		(hasNames && relIsJobTitle && !relIndicatesDependent)

	// Fallback for files with no mapped name columns at all: an unmapped
	// column that plausibly holds a person name counts as a name signal.
	nameInUnmapped := ""
	if !hasNames && !isEmployee {
		nameInUnmapped = c.scanUnmappedForName(row)
		if nameInUnmapped != "" {
			hasNames = true
		}
	}

	// A mapped Relationship field is authoritative; the unmapped scan runs
	// only when no relationship column was mapped anywhere.
	relInUnmapped := ""
	if !c.relMapped {
		for _, col := range c.unmapped {
			if !containsAny(strings.ToLower(col), relationshipColumnHints) {
				continue
			}
			if v := Clean(c.sheet.Cell(row, col)); v != "" {
				relInUnmapped = v
				break
			}
		}
	}

	isDependent := relIndicatesDependent ||
		(!isEmployee && !relIsJobTitle &&
			(dependentsCol != "" || relationship != "" || relInUnmapped != "" || hasNames))

	if !c.relMapped && relInUnmapped != "" {
		relationship = relInUnmapped
	}

	decision := Classification{
		Relationship:  relationship,
		EmployeeName:  employeeName,
		DependentsCol: dependentsCol,
	}

	switch {
	case isEmployee:
		decision.Kind = RowEmployee
		decision.First, decision.Last = c.employeeNameParts(employeeName, firstVal, lastVal)
	case isDependent:
		decision.Kind = RowDependent
		decision.First, decision.Last = c.dependentNameParts(firstVal, lastVal, dependentsCol, nameInUnmapped, employeeName)
	default:
		c.tracef("row %d: not identified as employee or dependent, skipping", row.Index)
		return decision
	}

	if decision.First == "" && decision.Last == "" {
		c.tracef("row %d: no name found, dropping", row.Index)
		decision.Kind = RowSkip
	}
	return decision
}

// firstValue returns the first non-null cell among the field's mapped
// references on this sheet.
func (c *Classifier) firstValue(row model.Row, field string) string {
	for _, ref := range c.mapping.RefsFor(field, c.sheet.Name) {
		actual, ok := FindColumn(c.sheet, ref.Column)
		if !ok {
			continue
		}
		if v := Clean(c.sheet.Cell(row, actual)); v != "" {
			return v
		}
	}
	return ""
}

// scanUnmappedForName looks through unmapped columns for a value that reads
// like a person name, trying name-suggestive headers before the rest.
func (c *Classifier) scanUnmappedForName(row model.Row) string {
	var priority, others []string
	for _, col := range c.unmapped {
		if containsAny(strings.ToLower(col), namePriorityHints) {
			priority = append(priority, col)
		} else {
			others = append(others, col)
		}
	}

	for _, col := range append(priority, others...) {
		v := Clean(c.sheet.Cell(row, col))
		if v == "" || !looksLikeName(v) {
			continue
		}
		if containsAny(strings.ToLower(col), nonNameColumnHints) {
			continue
		}
		c.tracef("row %d: name-like value in unmapped column %q: %q", row.Index, col, v)
		return v
	}
	return ""
}

// employeeNameParts extracts the employee name: genuinely separate
// first/last columns win, then a split of the combined Employee Name, then
// reinterpreting the First Name column as a full name.
func (c *Classifier) employeeNameParts(employeeName, firstVal, lastVal string) (first, last string) {
	if hasSeparateNameColumns(firstVal, lastVal) {
		return firstVal, lastVal
	}

	if employeeName != "" {
		first, last = SplitFullName(employeeName)
	}

	if first == "" || last == "" {
		if firstVal != "" {
			if len(strings.Fields(firstVal)) > 1 {
				f, l := SplitFullName(firstVal)
				if f != "" && l != "" {
					first = f
					if lastVal != "" {
						last = lastVal
					} else {
						last = l
					}
				} else {
					first = firstVal
				}
			} else {
				first = firstVal
			}
		}
		if lastVal != "" {
			last = lastVal
		}
	}

	return Clean(first), Clean(last)
}

// dependentNameParts extracts a dependent name. The free-text Dependents
// cell (minus any trailing parenthetical) outranks everything except
// genuinely separate first/last columns; a name in the Employee Name column
// covers files that store every household member's name there.
func (c *Classifier) dependentNameParts(firstVal, lastVal, dependentsCol, nameInUnmapped, employeeName string) (first, last string) {
	if hasSeparateNameColumns(firstVal, lastVal) {
		return firstVal, lastVal
	}

	if dependentsCol != "" {
		name := dependentsCol
		if i := strings.Index(name, "("); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		first, last = SplitFullName(name)
	}

	if (first == "" || last == "") && nameInUnmapped != "" {
		first, last = SplitFullName(nameInUnmapped)
	}

	if first == "" || last == "" {
		if firstVal != "" {
			if strings.ContainsAny(firstVal, " ,") {
				f, l := SplitFullName(firstVal)
				if f != "" {
					first = f
				}
				if l != "" {
					last = l
				}
			} else {
				first = firstVal
			}
		}
		if lastVal != "" {
			if strings.ContainsAny(lastVal, " ,") {
				f, l := SplitFullName(lastVal)
				if f != "" {
					first = f
				}
				if l != "" {
					last = l
				}
			} else if last == "" {
				last = lastVal
			}
		}
	}

	// Last resort: some files put every household member's name in the
	// Employee Name column, dependents included.
	if first == "" && last == "" && employeeName != "" {
		first, last = SplitFullName(employeeName)
	}

	return Clean(first), Clean(last)
}

// hasSeparateNameColumns reports whether the first/last cells look like
// genuinely separate name parts rather than a full name crammed into one.
func hasSeparateNameColumns(firstVal, lastVal string) bool {
	return firstVal != "" && lastVal != "" &&
		len(strings.Fields(firstVal)) <= 2 && len(strings.Fields(lastVal)) == 1
}

func looksLikeName(v string) bool {
	if len(strings.TrimSpace(v)) <= 2 {
		return false
	}
	for _, r := range v {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func (c *Classifier) tracef(format string, args ...any) {
	if c.trace != nil {
		c.trace(format, args...)
	}
}
