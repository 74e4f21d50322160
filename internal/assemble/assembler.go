package assemble

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mstepanek/rollcall/internal/model"
)

// ColumnFamilyGroup is the synthetic output column carrying the family id.
const ColumnFamilyGroup = "Family Group"

// OutputColumns is the fixed presentation layout: Family Group immediately
// before First Name, and the relationship triplet immediately after Gender.
func OutputColumns() []string {
	return []string{
		ColumnFamilyGroup,
		model.FieldFirstName,
		model.FieldLastName,
		model.FieldDOB,
		model.FieldGender,
		model.FieldRelationship,
		model.FieldDependentOfRow,
		model.FieldDependentFlag,
		model.FieldMedicalCoverage,
		model.FieldMedicalPlan,
		model.FieldDentalCoverage,
		model.FieldDentalPlan,
		model.FieldVisionCoverage,
		model.FieldVisionPlan,
		model.FieldCOBRA,
	}
}

// Assemble produces the final report: grouped records re-sorted into source
// document order (sheet, then original row index; the grouping pass builds by
// appending and inserting, so the sort re-imposes upload order), the
// presentation column layout, and summary statistics. Assembly is a pure
// function of its inputs; running it twice yields identical output.
func Assemble(records []model.Record, sheets []model.Sheet) model.Report {
	ordered := make([]model.Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Key.Before(ordered[j].Key)
	})

	return model.Report{
		Columns: OutputColumns(),
		Records: ordered,
		Stats:   computeStats(sheets, ordered),
	}
}

// RowCells renders one record as presentation-ordered cells. Bookkeeping
// (source sheet and row index) never appears in the output table.
func RowCells(rec *model.Record, columns []string) []string {
	cells := make([]string, len(columns))
	for i, col := range columns {
		if col == ColumnFamilyGroup {
			cells[i] = strconv.Itoa(rec.FamilyGroup)
			continue
		}
		cells[i] = rec.Get(col)
	}
	return cells
}

func computeStats(sheets []model.Sheet, records []model.Record) model.Stats {
	stats := model.Stats{
		SheetCount:   len(sheets),
		TotalRecords: len(records),
	}

	for _, rec := range records {
		if strings.EqualFold(strings.TrimSpace(rec.Get(model.FieldRelationship)), "employee") {
			stats.Employees++
		}
	}
	stats.Dependents = stats.TotalRecords - stats.Employees

	for _, s := range sheets {
		stats.Sheets = append(stats.Sheets, model.SheetStats{
			Name:    s.Name,
			Rows:    len(s.Rows),
			Columns: len(s.Columns),
		})
	}

	return stats
}
