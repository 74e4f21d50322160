package model

import "testing"

func TestParseRef(t *testing.T) {
	tests := []struct {
		input  string
		sheet  string
		column string
		ok     bool
	}{
		{"Census,Employee Name", "Census", "Employee Name", true},
		{"Sheet1, First, Middle", "Sheet1", "First, Middle", true},
		{" Census , DOB ", "Census", "DOB", true},
		{"Census,UNKNOWN", "", "", false},
		{"Census,unknown", "", "", false},
		{"NoComma", "", "", false},
		{"Census,", "", "", false},
	}

	for _, tt := range tests {
		ref, ok := ParseRef(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseRef(%q): expected ok=%v, got %v", tt.input, tt.ok, ok)
			continue
		}
		if ok && (ref.Sheet != tt.sheet || ref.Column != tt.column) {
			t.Errorf("ParseRef(%q): expected {%s %s}, got {%s %s}",
				tt.input, tt.sheet, tt.column, ref.Sheet, ref.Column)
		}
	}
}

func TestParseMapping_DropsMalformed(t *testing.T) {
	mapping := ParseMapping(map[string][]string{
		FieldFirstName: {"Census,First", "garbage", "Census,UNKNOWN"},
		FieldGender:    {"UNKNOWN"},
	})

	if got := len(mapping[FieldFirstName]); got != 1 {
		t.Fatalf("Expected 1 ref for first name, got %d", got)
	}
	if mapping.Has(FieldGender) {
		t.Error("Expected gender to be unmapped")
	}
}

func TestFieldMapping_RefsFor(t *testing.T) {
	mapping := FieldMapping{
		FieldDOB: {
			{Sheet: "Actives", Column: "DOB"},
			{Sheet: "Retirees", Column: "Birth Date"},
		},
	}

	refs := mapping.RefsFor(FieldDOB, "Retirees")
	if len(refs) != 1 || refs[0].Column != "Birth Date" {
		t.Errorf("Unexpected refs: %v", refs)
	}
	if refs := mapping.RefsFor(FieldDOB, "Cobra"); len(refs) != 0 {
		t.Errorf("Expected no refs for unknown sheet, got %v", refs)
	}
}

func TestFieldMapping_WireRoundTrip(t *testing.T) {
	mapping := FieldMapping{
		FieldLastName: {{Sheet: "Census", Column: "Last"}},
		FieldCOBRA:    {{Sheet: "Census", Column: "COBRA?"}},
	}

	parsed := ParseMapping(mapping.Wire())

	if len(parsed) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(parsed))
	}
	if parsed[FieldLastName][0] != (ColumnRef{Sheet: "Census", Column: "Last"}) {
		t.Errorf("Unexpected ref: %v", parsed[FieldLastName][0])
	}
}
