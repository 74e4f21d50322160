package llm

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mstepanek/rollcall/internal/model"
)

// sampleRows is how many data rows per sheet go into the mapping sample.
// Enough for the model to judge column content, small enough to stay cheap.
const sampleRows = 5

// Learner supplies accumulated mapping guidance for a column set. The
// history store satisfies it; a nil Learner means no guidance.
type Learner interface {
	Context(columns []string, sample string) string
}

// Mapper asks an LLM to map spreadsheet columns to canonical census fields.
type Mapper struct {
	provider Provider
	learner  Learner
	trace    func(format string, args ...any)
}

// NewMapper creates a mapper. learner and trace may be nil.
func NewMapper(provider Provider, learner Learner, trace func(format string, args ...any)) *Mapper {
	return &Mapper{provider: provider, learner: learner, trace: trace}
}

// Produce builds a thin sample of the sheets, asks the model for a mapping,
// and parses the reply into a FieldMapping.
func (m *Mapper) Produce(ctx context.Context, sheets []model.Sheet) (model.FieldMapping, error) {
	if m.provider == nil {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	sample := BuildSample(sheets)
	prompt := m.buildPrompt(sample, sheetColumns(sheets))

	m.tracef("requesting column mapping from %s", m.provider.Name())
	resp, err := m.provider.Complete(ctx, CompletionRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}
	m.tracef("mapping reply: %d tokens", resp.TokensUsed)

	raw, err := parseReply(resp.Content)
	if err != nil {
		return nil, err
	}
	raw = resolveColumnLetters(raw, sheets)

	return model.ParseMapping(raw), nil
}

// BuildSample renders a thin CSV of the workbook: per sheet, one header line
// and up to sampleRows data rows, each prefixed with the sheet name in a
// __sheet__ column.
func BuildSample(sheets []model.Sheet) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for _, sheet := range sheets {
		header := append([]string{"__sheet__"}, sheet.Columns...)
		_ = w.Write(header)

		limit := len(sheet.Rows)
		if limit > sampleRows {
			limit = sampleRows
		}
		for _, row := range sheet.Rows[:limit] {
			_ = w.Write(append([]string{sheet.Name}, row.Cells...))
		}
	}
	w.Flush()
	return buf.String()
}

func sheetColumns(sheets []model.Sheet) []string {
	var columns []string
	for _, sheet := range sheets {
		columns = append(columns, sheet.Columns...)
	}
	return columns
}

func (m *Mapper) buildPrompt(sample string, columns []string) string {
	learning := ""
	if m.learner != nil {
		learning = m.learner.Context(columns, sample)
	}

	canonical, _ := json.Marshal(model.CanonicalFields())

	return fmt.Sprintf(`You are a census-data schema expert. Analyze the spreadsheet data below and map columns to standard census fields.

%s

Data (first %d rows of each sheet):
%s

CRITICAL INSTRUCTIONS:
1. ALWAYS use "SheetName,ColumnName" format - NEVER use column letters like A, B, C
2. Look at the ACTUAL VALUES in each column to determine the mapping - content determines mapping, not headers
3. For "Relationship To employee": look for columns containing values like "Spouse", "Child", "Employee", "Self", or job titles
4. For "Medical Coverage": look for columns with values like "Employee", "E", "Employee + Spouse", "F", "ES"
5. If a column has "Job Title" as header but contains "Spouse", "Child" values, it maps to "Relationship To employee"
6. Return ONLY a valid JSON object - no explanations, no markdown
7. If no suitable column exists, use "UNKNOWN"

NAME HANDLING RULES:
- If a column contains full names ("John Smith", "Mary Jane Doe", "Smith, John"), map it to BOTH "First Name" AND "Last Name", and to "Employee Name" if available. The system splits full names itself.
- If separate "First Name" and "Last Name" columns exist, map them directly.
- Splitting logic: last word = last name, all other words = first name; "Smith, John" means last name "Smith", first name "John".

Official census fields:
%s

Required JSON format:
{"Field Name": ["SheetName,ColumnName"], "Another Field": ["Sheet1,Column1", "Sheet2,Column2"]}

Example:
{"First Name": ["Census,First"], "Last Name": ["Census,Employee Name"], "DOB": ["Census,DOB"], "Relationship To employee": ["Census,Job Title"]}`,
		learning, sampleRows, sample, canonical)
}

// parseReply extracts the JSON object from a model reply that may carry
// fences or surrounding prose, and tolerates both string and list values.
func parseReply(content string) (map[string][]string, error) {
	if content == "" {
		return nil, fmt.Errorf("empty reply from model")
	}

	if i := strings.Index(content, "```json"); i != -1 {
		rest := content[i+len("```json"):]
		if j := strings.Index(rest, "```"); j != -1 {
			content = rest[:j]
		}
	} else if i := strings.Index(content, "```"); i != -1 {
		rest := content[i+3:]
		if j := strings.Index(rest, "```"); j != -1 {
			content = rest[:j]
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in reply")
	}
	content = content[start : end+1]

	var loose map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &loose); err != nil {
		return nil, fmt.Errorf("parse mapping reply: %w", err)
	}

	raw := make(map[string][]string, len(loose))
	for field, msg := range loose {
		var list []string
		if err := json.Unmarshal(msg, &list); err == nil {
			raw[field] = list
			continue
		}
		var single string
		if err := json.Unmarshal(msg, &single); err == nil {
			raw[field] = []string{single}
			continue
		}
		return nil, fmt.Errorf("field %q: value is neither string nor list", field)
	}
	return raw, nil
}

// resolveColumnLetters rewrites refs like "Census,B" to the actual header
// name when the model falls back to spreadsheet letters despite instructions.
func resolveColumnLetters(raw map[string][]string, sheets []model.Sheet) map[string][]string {
	byName := make(map[string][]string, len(sheets))
	for _, sheet := range sheets {
		byName[sheet.Name] = sheet.Columns
	}

	out := make(map[string][]string, len(raw))
	for field, refs := range raw {
		resolved := make([]string, 0, len(refs))
		for _, ref := range refs {
			sheetName, col, ok := strings.Cut(ref, ",")
			if !ok {
				resolved = append(resolved, ref)
				continue
			}
			col = strings.TrimSpace(col)
			columns := byName[strings.TrimSpace(sheetName)]
			if len(col) == 1 && col[0] >= 'A' && col[0] <= 'Z' {
				idx := int(col[0] - 'A')
				if idx < len(columns) && columns[idx] != col {
					resolved = append(resolved, sheetName+","+columns[idx])
					continue
				}
			}
			resolved = append(resolved, ref)
		}
		out[field] = resolved
	}
	return out
}

func (m *Mapper) tracef(format string, args ...any) {
	if m.trace != nil {
		m.trace(format, args...)
	}
}
