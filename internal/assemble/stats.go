package assemble

import (
	"fmt"
	"strings"

	"github.com/mstepanek/rollcall/internal/model"
)

// StatsMarkdown renders the extraction statistics as a markdown document
// with a summary table and a per-sheet shape table.
func StatsMarkdown(stats model.Stats, source string) string {
	var b strings.Builder

	b.WriteString("## Extraction Statistics\n\n")
	b.WriteString("### Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| **Source** | %s |\n", source)
	fmt.Fprintf(&b, "| **Total Sheets** | %d |\n", stats.SheetCount)
	fmt.Fprintf(&b, "| **Total Extracted Records** | %d |\n", stats.TotalRecords)
	fmt.Fprintf(&b, "| **Employees** | %d |\n", stats.Employees)
	fmt.Fprintf(&b, "| **Dependents** | %d |\n", stats.Dependents)

	b.WriteString("\n### Sheet Details\n\n")
	b.WriteString("| Sheet Name | Rows | Columns |\n")
	b.WriteString("|------------|------|---------|\n")
	for _, s := range stats.Sheets {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", s.Name, s.Rows, s.Columns)
	}

	return b.String()
}
