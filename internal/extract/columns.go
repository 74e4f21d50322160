package extract

import (
	"strings"

	"github.com/mstepanek/rollcall/internal/model"
)

// FindColumn resolves a loosely specified column name against a sheet's
// actual headers. Mapping metadata comes from users and language models, so
// resolution tolerates case and whitespace drift: exact match first, then
// case-insensitive, then whitespace-collapsed. A miss means "field
// unavailable on this sheet", never an error.
func FindColumn(sheet *model.Sheet, name string) (string, bool) {
	name = strings.TrimSpace(name)

	for _, c := range sheet.Columns {
		if c == name {
			return c, true
		}
	}

	for _, c := range sheet.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return c, true
		}
	}

	want := collapseSpace(strings.ToLower(name))
	for _, c := range sheet.Columns {
		if collapseSpace(strings.ToLower(c)) == want {
			return c, true
		}
	}

	return "", false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
