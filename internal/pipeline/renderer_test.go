package pipeline

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mstepanek/rollcall/internal/assemble"
	"github.com/mstepanek/rollcall/internal/model"
)

func sampleReport() model.Report {
	rec := model.NewRecord(model.RowKey{Sheet: "Census", Row: 0})
	rec.Set(model.FieldFirstName, "John")
	rec.Set(model.FieldLastName, "Smith")
	rec.Set(model.FieldRelationship, "Employee")
	rec.Set(model.FieldDependentFlag, "N")
	rec.FamilyGroup = 1

	return model.Report{
		Columns: assemble.OutputColumns(),
		Records: []model.Record{rec},
		Stats:   model.Stats{SheetCount: 1, TotalRecords: 1, Employees: 1},
	}
}

func TestRenderer_CSV(t *testing.T) {
	var buf bytes.Buffer
	var r Renderer

	if err := r.RenderCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Family Group,First Name,Last Name") {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,John,Smith") {
		t.Errorf("Unexpected row: %q", lines[1])
	}
}

func TestRenderer_XLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	var r Renderer

	if err := r.RenderXLSXFile(path, sampleReport()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open rendered workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(outputSheetName)
	if err != nil {
		t.Fatalf("read rendered sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "Family Group" || rows[1][1] != "John" {
		t.Errorf("Unexpected rendered cells: %v", rows)
	}
}
