package extract

import "testing"

func TestIsNullLike(t *testing.T) {
	nulls := []string{"", "  ", "nan", "NaN", "NAN", "none", "None", "null", "NULL", " null "}
	for _, v := range nulls {
		if !IsNullLike(v) {
			t.Errorf("Expected %q to be null-like", v)
		}
	}

	values := []string{"John", "0", "N/A ish", "-", "Smith, John"}
	for _, v := range values {
		if IsNullLike(v) {
			t.Errorf("Expected %q not to be null-like", v)
		}
	}
}

func TestClean(t *testing.T) {
	if got := Clean("  John  "); got != "John" {
		t.Errorf("Expected 'John', got %q", got)
	}
	if got := Clean(" nan "); got != "" {
		t.Errorf("Expected empty string for 'nan', got %q", got)
	}
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		input string
		first string
		last  string
	}{
		{"John Smith", "John", "Smith"},
		{"Mary Jane Doe", "Mary Jane", "Doe"},
		{"Smith, John", "John", "Smith"},
		{"Smith,John", "John", "Smith"},
		{"Doe", "", "Doe"},
		{"", "", ""},
		{"nan", "", ""},
		{"  John   Smith  ", "John", "Smith"},
	}

	for _, tt := range tests {
		first, last := SplitFullName(tt.input)
		if first != tt.first || last != tt.last {
			t.Errorf("SplitFullName(%q) = (%q, %q), expected (%q, %q)",
				tt.input, first, last, tt.first, tt.last)
		}
	}
}

func TestNormalizeDOB(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1990-05-01", "1990-05-01"},
		{"1990-05-01 00:00:00", "1990-05-01"},
		{"05/01/1990", "1990-05-01"},
		{"5/1/1990", "1990-05-01"},
		{"1990-5-1", "1990-05-01"},
		{"25/12/1990", "1990-12-25"},
		{"1985-12-31 13:45:00", "1985-12-31"},
		{"", ""},
		{"nan", ""},
		{"not a date", "not"},
	}

	for _, tt := range tests {
		if got := NormalizeDOB(tt.input); got != tt.expected {
			t.Errorf("NormalizeDOB(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestNormalizeDOB_UnparseableSingleToken(t *testing.T) {
	// Values with no spaces and no known layout pass through verbatim
	if got := NormalizeDOB("31.12.1985"); got != "31.12.1985" {
		t.Errorf("Expected verbatim passthrough, got %q", got)
	}
}
