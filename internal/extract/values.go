package extract

import (
	"strings"
	"time"
)

// nullTokens are cell values that carry no information. Spreadsheet exports
// routinely serialize missing cells as literal "nan"/"None" strings.
var nullTokens = []string{"", "nan", "none", "null"}

// IsNullLike reports whether a raw cell value should be treated as absent.
func IsNullLike(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, t := range nullTokens {
		if v == t {
			return true
		}
	}
	return false
}

// Clean trims v and maps null-like values to "".
func Clean(v string) string {
	v = strings.TrimSpace(v)
	if IsNullLike(v) {
		return ""
	}
	return v
}

// SplitFullName splits a combined name into (first, last). "Smith, John"
// reads as last-name-first; otherwise the final whitespace token is the last
// name and everything before it is the first name. A single token is a last
// name only. Null-like input yields ("", "").
func SplitFullName(full string) (first, last string) {
	full = Clean(full)
	if full == "" {
		return "", ""
	}

	if i := strings.Index(full, ","); i >= 0 {
		last = strings.TrimSpace(full[:i])
		first = strings.TrimSpace(full[i+1:])
		return first, last
	}

	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// dobLayouts are tried in order; the first successful parse wins. Each
// zero-padded layout is followed by its non-padded variant so "5/1/1990"
// parses the same as "05/01/1990".
var dobLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02 15:04:05",
	"01/02/06",
	"1/2/06",
}

// NormalizeDOB reduces a date-of-birth cell to YYYY-MM-DD. Timestamp
// suffixes are cut at the first space. Values that match no known layout are
// passed through verbatim; this never fails.
func NormalizeDOB(v string) string {
	v = strings.TrimSpace(v)
	if IsNullLike(v) {
		return ""
	}

	if i := strings.IndexByte(v, ' '); i >= 0 {
		v = v[:i]
	}

	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02")
		}
	}

	// Already canonical
	if len(v) == 10 && v[4] == '-' && v[7] == '-' {
		return v
	}

	return v
}
