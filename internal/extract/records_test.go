package extract

import (
	"testing"

	"github.com/mstepanek/rollcall/internal/model"
)

func TestExtractor_SameRowDependentExpansion(t *testing.T) {
	sheet := censusSheet(
		[]string{"Name", "Rel", "Dependents", "DOB"},
		[][]string{
			{"John Smith", "Employee", "Jane Smith (Relationship: WIFE, Date Of Birth: 1985-02-11)", "1980-01-15"},
		},
	)
	mapping := model.ParseMapping(map[string][]string{
		model.FieldEmployeeName: {"Census,Name"},
		model.FieldRelationship: {"Census,Rel"},
		model.FieldDOB:          {"Census,DOB"},
	})

	e := NewExtractor(model.DefaultConfig().Extract, nil)
	records := e.Extract([]model.Sheet{*sheet}, mapping)

	if len(records) != 2 {
		t.Fatalf("Expected employee + same-row dependent, got %d records", len(records))
	}

	emp := records[0]
	if emp.Get(model.FieldDependentFlag) != "N" {
		t.Errorf("Expected employee flag N, got %q", emp.Get(model.FieldDependentFlag))
	}
	if emp.Get(model.FieldFirstName) != "John" || emp.Get(model.FieldLastName) != "Smith" {
		t.Errorf("Unexpected employee name: %q %q", emp.Get(model.FieldFirstName), emp.Get(model.FieldLastName))
	}

	dep := records[1]
	if dep.Get(model.FieldDependentFlag) != "Y" {
		t.Errorf("Expected dependent flag Y, got %q", dep.Get(model.FieldDependentFlag))
	}
	if dep.Get(model.FieldFirstName) != "Jane" || dep.Get(model.FieldLastName) != "Smith" {
		t.Errorf("Unexpected dependent name: %q %q", dep.Get(model.FieldFirstName), dep.Get(model.FieldLastName))
	}
	if dep.Get(model.FieldRelationship) != "WIFE" {
		t.Errorf("Expected annotated relationship WIFE, got %q", dep.Get(model.FieldRelationship))
	}
	if dep.Get(model.FieldDOB) != "1985-02-11" {
		t.Errorf("Expected annotated DOB, got %q", dep.Get(model.FieldDOB))
	}
	if dep.Get(model.FieldDependentOfRow) != "0" {
		t.Errorf("Expected dependent-of row 0, got %q", dep.Get(model.FieldDependentOfRow))
	}
	if dep.Key != emp.Key {
		t.Errorf("Same-row dependent should share the employee's key")
	}
}

func TestExtractor_UnmappedFieldsEmittedEmpty(t *testing.T) {
	sheet := censusSheet(
		[]string{"Name", "Rel"},
		[][]string{{"John Smith", "Employee"}},
	)
	mapping := model.ParseMapping(map[string][]string{
		model.FieldEmployeeName: {"Census,Name"},
		model.FieldRelationship: {"Census,Rel"},
	})

	e := NewExtractor(model.DefaultConfig().Extract, nil)
	records := e.Extract([]model.Sheet{*sheet}, mapping)

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	for _, field := range model.PassthroughFields() {
		if got := records[0].Get(field); got != "" {
			t.Errorf("Expected unmapped field %q to be empty, got %q", field, got)
		}
	}
}

func TestExtractor_DependentBirthColumnOverridesDOB(t *testing.T) {
	sheet := censusSheet(
		[]string{"Name", "Rel", "Date Of Birth"},
		[][]string{{"Jane Smith", "Spouse", "1985-02-11 00:00:00"}},
	)
	mapping := model.ParseMapping(map[string][]string{
		model.FieldFirstName:    {"Census,Name"},
		model.FieldLastName:     {"Census,Name"},
		model.FieldRelationship: {"Census,Rel"},
	})

	e := NewExtractor(model.DefaultConfig().Extract, nil)
	records := e.Extract([]model.Sheet{*sheet}, mapping)

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if got := records[0].Get(model.FieldDOB); got != "1985-02-11" {
		t.Errorf("Expected DOB from birth column, got %q", got)
	}
}

func TestExtractor_NamelessRowsDropped(t *testing.T) {
	sheet := censusSheet(
		[]string{"Name", "Rel"},
		[][]string{
			{"John Smith", "Employee"},
			{"nan", "Employee"},
			{"", ""},
		},
	)

	var traced int
	trace := func(format string, args ...any) { traced++ }

	e := NewExtractor(model.DefaultConfig().Extract, trace)
	records := e.Extract([]model.Sheet{*sheet}, censusMapping())

	if len(records) != 1 {
		t.Fatalf("Expected only the named row to survive, got %d records", len(records))
	}
	if traced == 0 {
		t.Error("Expected dropped rows to be traced")
	}
}

func TestParseDependentAnnotation(t *testing.T) {
	tests := []struct {
		input string
		name  string
		rel   string
		dob   string
	}{
		{"Jane Smith (Relationship: WIFE, Date Of Birth: 1985-02-11)", "Jane Smith", "WIFE", "1985-02-11"},
		{"Jane Smith (Relationship: WIFE)", "Jane Smith", "WIFE", ""},
		{"Timmy Smith (DOB: 05/01/2010)", "Timmy Smith", "", "05/01/2010"},
		{"Jane Smith", "Jane Smith", "", ""},
		{"Jane Smith (wife relationship)", "Jane Smith", "WIFE", ""},
	}

	for _, tt := range tests {
		name, rel, dob := parseDependentAnnotation(tt.input)
		if name != tt.name || rel != tt.rel || dob != tt.dob {
			t.Errorf("parseDependentAnnotation(%q) = (%q, %q, %q), expected (%q, %q, %q)",
				tt.input, name, rel, dob, tt.name, tt.rel, tt.dob)
		}
	}
}
