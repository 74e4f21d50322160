package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mstepanek/rollcall/internal/model"
)

// fakeProvider records the prompt it was given and returns canned content.
type fakeProvider struct {
	content string
	prompt  string
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	f.prompt = req.Prompt
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResponse{Content: f.content, Model: "fake", TokensUsed: 10}, nil
}

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

type fakeLearner struct{ context string }

func (f *fakeLearner) Context(columns []string, sample string) string { return f.context }

func censusSheets() []model.Sheet {
	return []model.Sheet{
		{
			Name:    "Census",
			Columns: []string{"Name", "Job Title", "DOB"},
			Rows: []model.Row{
				{Index: 0, Cells: []string{"John Smith", "Employee", "1980-01-15"}},
				{Index: 1, Cells: []string{"Jane Smith", "Spouse", "1982-03-20"}},
			},
		},
	}
}

func TestBuildSample_ThinCSV(t *testing.T) {
	sample := BuildSample(censusSheets())

	lines := strings.Split(strings.TrimSpace(sample), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "__sheet__,Name,Job Title,DOB" {
		t.Errorf("Unexpected header line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Census,John Smith") {
		t.Errorf("Expected sheet name prefix on data rows, got %q", lines[1])
	}
}

func TestBuildSample_CapsRowsPerSheet(t *testing.T) {
	sheet := model.Sheet{Name: "Big", Columns: []string{"Name"}}
	for i := 0; i < 20; i++ {
		sheet.Rows = append(sheet.Rows, model.Row{Index: i, Cells: []string{fmt.Sprintf("Person %d", i)}})
	}

	sample := BuildSample([]model.Sheet{sheet})
	lines := strings.Split(strings.TrimSpace(sample), "\n")
	if len(lines) != sampleRows+1 {
		t.Errorf("Expected %d lines, got %d", sampleRows+1, len(lines))
	}
}

func TestMapper_Produce(t *testing.T) {
	provider := &fakeProvider{content: `{"First Name": ["Census,Name"], "Last Name": ["Census,Name"], "Relationship To employee": ["Census,Job Title"], "DOB": ["Census,DOB"], "Gender": ["UNKNOWN"]}`}
	mapper := NewMapper(provider, nil, nil)

	mapping, err := mapper.Produce(context.Background(), censusSheets())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	refs := mapping.RefsFor(model.FieldRelationship, "Census")
	if len(refs) != 1 || refs[0].Column != "Job Title" {
		t.Errorf("Unexpected relationship refs: %v", refs)
	}
	if mapping.Has(model.FieldGender) {
		t.Error("Expected UNKNOWN mapping to be dropped")
	}
	if !strings.Contains(provider.prompt, "__sheet__,Name,Job Title,DOB") {
		t.Error("Expected sample data embedded in prompt")
	}
	if !strings.Contains(provider.prompt, model.FieldRelationship) {
		t.Error("Expected canonical fields listed in prompt")
	}
}

func TestMapper_ProduceInjectsLearningContext(t *testing.T) {
	provider := &fakeProvider{content: `{}`}
	learner := &fakeLearner{context: "LEARNED PATTERNS from previous runs"}
	mapper := NewMapper(provider, learner, nil)

	if _, err := mapper.Produce(context.Background(), censusSheets()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(provider.prompt, learner.context) {
		t.Error("Expected learning context in prompt")
	}
}

func TestParseReply_Fenced(t *testing.T) {
	raw, err := parseReply("Here you go:\n```json\n{\"First Name\": [\"Census,First\"]}\n```\nHope that helps!")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(raw["First Name"]) != 1 || raw["First Name"][0] != "Census,First" {
		t.Errorf("Unexpected parse result: %v", raw)
	}
}

func TestParseReply_StringValueTolerated(t *testing.T) {
	raw, err := parseReply(`{"First Name": "Census,First"}`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(raw["First Name"]) != 1 || raw["First Name"][0] != "Census,First" {
		t.Errorf("Unexpected parse result: %v", raw)
	}
}

func TestParseReply_NoJSON(t *testing.T) {
	if _, err := parseReply("I could not find any columns."); err == nil {
		t.Error("Expected error when reply has no JSON object")
	}
	if _, err := parseReply(""); err == nil {
		t.Error("Expected error for empty reply")
	}
}

func TestResolveColumnLetters(t *testing.T) {
	raw := map[string][]string{
		"First Name": {"Census,A"},
		"DOB":        {"Census,DOB"},
	}
	resolved := resolveColumnLetters(raw, censusSheets())

	if resolved["First Name"][0] != "Census,Name" {
		t.Errorf("Expected letter A resolved to first column, got %q", resolved["First Name"][0])
	}
	if resolved["DOB"][0] != "Census,DOB" {
		t.Errorf("Expected named ref untouched, got %q", resolved["DOB"][0])
	}
}

func TestMapper_ProduceWithoutProvider(t *testing.T) {
	mapper := NewMapper(nil, nil, nil)
	if _, err := mapper.Produce(context.Background(), censusSheets()); err == nil {
		t.Error("Expected error when no provider is configured")
	}
}
