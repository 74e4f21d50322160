package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/mstepanek/rollcall/internal/assemble"
	"github.com/mstepanek/rollcall/internal/model"
)

const outputSheetName = "Enrollment"

// Renderer writes a normalized report to its output formats.
type Renderer struct{}

// RenderCSV writes the report as CSV, header row first.
func (Renderer) RenderCSV(w io.Writer, report model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(report.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range report.Records {
		if err := cw.Write(assemble.RowCells(&report.Records[i], report.Columns)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderCSVFile writes the report as a CSV file at path.
func (r Renderer) RenderCSVFile(path string, report model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := r.RenderCSV(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// RenderXLSXFile writes the report as a single-sheet workbook at path.
func (Renderer) RenderXLSXFile(path string, report model.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(outputSheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, len(report.Columns))
	for i, c := range report.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(outputSheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range report.Records {
		cells := assemble.RowCells(&report.Records[i], report.Columns)
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell address: %w", err)
		}
		if err := f.SetSheetRow(outputSheetName, addr, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return f.SaveAs(path)
}

// RenderStatsFile writes the run statistics as a markdown file at path.
func (Renderer) RenderStatsFile(path string, stats model.Stats, source string) error {
	return os.WriteFile(path, []byte(assemble.StatsMarkdown(stats, source)), 0o644)
}

// RenderSummary prints a short run summary.
func (Renderer) RenderSummary(w io.Writer, result *Result) {
	s := result.Report.Stats
	fmt.Fprintf(w, "Processed %s: %d sheets, %d records (%d employees, %d dependents)\n",
		result.Source, s.SheetCount, s.TotalRecords, s.Employees, s.Dependents)
}
