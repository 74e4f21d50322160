package extract

import (
	"strconv"
	"strings"

	"github.com/mstepanek/rollcall/internal/model"
)

// Extractor applies the row classifier across all sheets of a workbook and
// expands each row into zero or more person records.
type Extractor struct {
	cfg   model.ExtractConfig
	trace TraceFunc
}

// NewExtractor creates an extractor. trace may be nil.
func NewExtractor(cfg model.ExtractConfig, trace TraceFunc) *Extractor {
	return &Extractor{cfg: cfg, trace: trace}
}

// Extract walks every row of every sheet in document order and returns the
// flat, ordered record list. Rows with no extractable name are dropped;
// sheets and mapping are never mutated.
func (e *Extractor) Extract(sheets []model.Sheet, mapping model.FieldMapping) []model.Record {
	var records []model.Record
	for i := range sheets {
		records = append(records, e.extractSheet(&sheets[i], mapping)...)
	}
	return records
}

func (e *Extractor) extractSheet(sheet *model.Sheet, mapping model.FieldMapping) []model.Record {
	classifier := NewClassifier(sheet, mapping, e.cfg, e.trace)

	var records []model.Record
	for _, row := range sheet.Rows {
		records = append(records, e.expandRow(classifier, sheet, mapping, row)...)
	}
	return records
}

// expandRow turns one source row into 0..N records: nothing for skipped
// rows, one record for a plain employee or standalone dependent, or two when
// an employee row also carries a dependent in a free-text Dependents cell.
func (e *Extractor) expandRow(c *Classifier, sheet *model.Sheet, mapping model.FieldMapping, row model.Row) []model.Record {
	decision := c.Classify(row)
	if decision.Kind == RowSkip {
		return nil
	}

	rec := model.NewRecord(model.RowKey{Sheet: sheet.Name, Row: row.Index})
	rec.Set(model.FieldFirstName, decision.First)
	rec.Set(model.FieldLastName, decision.Last)
	rec.Set(model.FieldRelationship, decision.Relationship)
	e.fillPassthrough(&rec, c, row, mapping)

	if decision.Kind == RowEmployee {
		rec.Set(model.FieldDependentFlag, "N")
		out := []model.Record{rec}
		if dep, ok := e.sameRowDependent(&rec, decision); ok {
			e.tracef("row %d: expanded same-row dependent %q %q", row.Index,
				dep.Get(model.FieldFirstName), dep.Get(model.FieldLastName))
			out = append(out, dep)
		}
		return out
	}

	rec.Set(model.FieldDependentFlag, "Y")
	// Dependents' DOB often lives in a birth column that never entered the
	// mapping; prefer it when present.
	if dob := dependentBirthColumn(sheet, row); dob != "" {
		rec.Set(model.FieldDOB, dob)
	}
	return []model.Record{rec}
}

// fillPassthrough extracts the remaining mapped fields with the shared
// first-non-empty rule. Unmapped fields are emitted empty, never inferred.
func (e *Extractor) fillPassthrough(rec *model.Record, c *Classifier, row model.Row, mapping model.FieldMapping) {
	for _, field := range model.PassthroughFields() {
		if !mapping.Has(field) {
			rec.Set(field, "")
			continue
		}
		v := c.firstValue(row, field)
		if field == model.FieldDOB {
			v = NormalizeDOB(v)
		}
		rec.Set(field, v)
	}
}

// sameRowDependent builds the synthetic dependent record emitted alongside
// an employee whose Dependents cell is populated. The dependent inherits the
// employee's field values but takes its own name, relationship, and DOB from
// the cell's parenthetical annotation when present.
func (e *Extractor) sameRowDependent(employee *model.Record, decision Classification) (model.Record, bool) {
	name, annotatedRel, annotatedDOB := parseDependentAnnotation(decision.DependentsCol)

	first, last := SplitFullName(name)
	if first == "" && last == "" {
		return model.Record{}, false
	}

	dep := employee.Clone()
	dep.Set(model.FieldFirstName, first)
	dep.Set(model.FieldLastName, last)
	dep.Set(model.FieldDependentFlag, "Y")
	dep.Set(model.FieldDependentOfRow, strconv.Itoa(employee.Key.Row))

	switch {
	case annotatedRel != "":
		dep.Set(model.FieldRelationship, annotatedRel)
	case decision.Relationship != "":
		dep.Set(model.FieldRelationship, decision.Relationship)
	default:
		dep.Set(model.FieldRelationship, "")
	}

	if annotatedDOB != "" {
		dep.Set(model.FieldDOB, NormalizeDOB(annotatedDOB))
	}

	return dep, true
}

// parseDependentAnnotation splits a free-text dependents cell like
// "Jane Smith (Relationship: WIFE, Date Of Birth: 1985-02-11)" into the name
// and the annotated relationship and DOB. All sub-fields are optional.
func parseDependentAnnotation(s string) (name, relationship, dob string) {
	name = strings.TrimSpace(s)

	open := strings.Index(s, "(")
	if open < 0 {
		return name, "", ""
	}
	name = strings.TrimSpace(s[:open])

	end := strings.LastIndex(s, ")")
	if end <= open {
		end = len(s)
	}
	paren := s[open+1 : end]
	lower := strings.ToLower(paren)

	if strings.Contains(lower, "relationship") {
		if j := strings.Index(lower, "relationship:"); j >= 0 {
			relationship = untilComma(paren[j+len("relationship:"):])
		} else {
			upper := strings.ToUpper(paren)
			for _, w := range annotationRelationships {
				if strings.Contains(upper, w) {
					relationship = w
					break
				}
			}
		}
	}

	if j := strings.Index(lower, "date of birth:"); j >= 0 {
		dob = untilComma(paren[j+len("date of birth:"):])
	} else if j := strings.Index(lower, "dob:"); j >= 0 {
		dob = untilComma(paren[j+len("dob:"):])
	}

	return name, relationship, dob
}

func untilComma(s string) string {
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// dependentBirthColumn returns the normalized value of the first birth-named
// column with data on this row, or "".
func dependentBirthColumn(sheet *model.Sheet, row model.Row) string {
	for _, col := range sheet.Columns {
		if !containsAny(strings.ToLower(col), birthColumnHints) {
			continue
		}
		if v := Clean(sheet.Cell(row, col)); v != "" {
			return NormalizeDOB(v)
		}
	}
	return ""
}

func (e *Extractor) tracef(format string, args ...any) {
	if e.trace != nil {
		e.trace(format, args...)
	}
}
