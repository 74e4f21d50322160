package model

import "strings"

// Canonical output fields. The set is closed: extraction emits exactly these
// columns, empty when unmapped, and never invents values for them.
const (
	FieldFirstName       = "First Name"
	FieldLastName        = "Last Name"
	FieldEmployeeName    = "Employee Name"
	FieldDOB             = "DOB"
	FieldGender          = "Gender"
	FieldRelationship    = "Relationship To employee"
	FieldDependentFlag   = "Dependent (Y/N)"
	FieldDependentOfRow  = "Dependent Of Employee Row"
	FieldMedicalCoverage = "Medical Coverage"
	FieldMedicalPlan     = "Medical Plan Name"
	FieldDentalCoverage  = "Dental Coverage"
	FieldDentalPlan      = "Dental Plan Name"
	FieldVisionCoverage  = "Vision Coverage"
	FieldVisionPlan      = "Vision Plan Name"
	FieldCOBRA           = "COBRA Participation (Y/N)"
)

// UnknownColumn is the placeholder the mapping producer emits when no source
// column fits a canonical field.
const UnknownColumn = "UNKNOWN"

// CanonicalFields returns the closed field set in base schema order.
func CanonicalFields() []string {
	return []string{
		FieldFirstName,
		FieldLastName,
		FieldEmployeeName,
		FieldDOB,
		FieldGender,
		FieldRelationship,
		FieldDependentFlag,
		FieldMedicalCoverage,
		FieldMedicalPlan,
		FieldDentalCoverage,
		FieldDentalPlan,
		FieldVisionCoverage,
		FieldVisionPlan,
		FieldCOBRA,
	}
}

// PassthroughFields are extracted verbatim per record with the shared
// first-non-empty rule; everything else has dedicated handling.
func PassthroughFields() []string {
	return []string{
		FieldDOB,
		FieldGender,
		FieldMedicalCoverage,
		FieldMedicalPlan,
		FieldDentalCoverage,
		FieldDentalPlan,
		FieldVisionCoverage,
		FieldVisionPlan,
		FieldCOBRA,
	}
}

// ColumnRef points at one source column.
type ColumnRef struct {
	Sheet  string `json:"sheet"`
	Column string `json:"column"`
}

// FieldMapping associates canonical fields with ordered source column
// references. References are tried in order; the first non-empty cell wins.
// An absent field, or one mapped to nothing, is always emitted empty.
type FieldMapping map[string][]ColumnRef

// RefsFor returns the references for field restricted to the named sheet.
func (m FieldMapping) RefsFor(field, sheet string) []ColumnRef {
	var refs []ColumnRef
	for _, r := range m[field] {
		if r.Sheet == sheet {
			refs = append(refs, r)
		}
	}
	return refs
}

// Has reports whether field is mapped to at least one reference.
func (m FieldMapping) Has(field string) bool {
	return len(m[field]) > 0
}

// ParseRef parses a "SheetName,ColumnName" reference. Column names may
// themselves contain commas, so only the first comma splits.
func ParseRef(s string) (ColumnRef, bool) {
	i := strings.Index(s, ",")
	if i < 0 {
		return ColumnRef{}, false
	}
	ref := ColumnRef{
		Sheet:  strings.TrimSpace(s[:i]),
		Column: strings.TrimSpace(s[i+1:]),
	}
	if ref.Column == "" || strings.EqualFold(ref.Column, UnknownColumn) {
		return ColumnRef{}, false
	}
	return ref, true
}

// ParseMapping converts the wire form (field -> ["Sheet,Column", ...]) used
// by the mapping producer and saved mapping files into a FieldMapping.
// Malformed and UNKNOWN references are dropped, not rejected.
func ParseMapping(raw map[string][]string) FieldMapping {
	mapping := make(FieldMapping, len(raw))
	for field, refs := range raw {
		for _, s := range refs {
			if ref, ok := ParseRef(s); ok {
				mapping[field] = append(mapping[field], ref)
			}
		}
	}
	return mapping
}

// Wire converts the mapping back to the "Sheet,Column" wire form.
func (m FieldMapping) Wire() map[string][]string {
	raw := make(map[string][]string, len(m))
	for field, refs := range m {
		list := make([]string, len(refs))
		for i, ref := range refs {
			list[i] = ref.Sheet + "," + ref.Column
		}
		raw[field] = list
	}
	return raw
}
