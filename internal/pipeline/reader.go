package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mstepanek/rollcall/internal/model"
)

// headerScanLimit bounds the header-row search: census files bury the real
// header under title rows and merged-cell artifacts, but never this deep.
const headerScanLimit = 10

// ReadWorkbook loads a census file into sheets. XLSX/XLSM workbooks go
// through excelize; a CSV file becomes a single sheet named after the file.
// Every cell is a string; the caller owns all further interpretation.
func ReadWorkbook(path string) ([]model.Sheet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcel(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func readExcel(path string) ([]model.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var sheets []model.Sheet
	for _, name := range f.GetSheetList() {
		raw, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		if sheet, ok := buildSheet(name, raw); ok {
			sheets = append(sheets, sheet)
		}
	}
	return sheets, nil
}

func readCSV(path string) ([]model.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	raw, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sheet, ok := buildSheet(name, raw)
	if !ok {
		return nil, nil
	}
	return []model.Sheet{sheet}, nil
}

// buildSheet turns raw rows into a sheet: locate the header row, skip
// everything above it, normalize and de-duplicate column names, and drop
// all-empty data rows. Surviving rows are indexed by their position in the
// cleaned sheet.
func buildSheet(name string, raw [][]string) (model.Sheet, bool) {
	if len(raw) == 0 {
		return model.Sheet{}, false
	}

	headerIdx := detectHeaderRow(raw)
	columns := normalizeColumns(raw[headerIdx])

	sheet := model.Sheet{Name: name, Columns: columns}
	index := 0
	for _, cells := range raw[headerIdx+1:] {
		if isEmptyRow(cells) {
			continue
		}
		row := model.Row{Index: index, Cells: make([]string, len(columns))}
		for i := range columns {
			if i < len(cells) {
				row.Cells[i] = strings.TrimSpace(cells[i])
			}
		}
		sheet.Rows = append(sheet.Rows, row)
		index++
	}
	return sheet, true
}

// detectHeaderRow scores the first rows of the sheet and picks the one that
// looks most like a header: many populated cells that are short, contain
// letters, and are neither numbers nor dates.
func detectHeaderRow(raw [][]string) int {
	best, bestScore := 0, 0
	limit := len(raw)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		score := 0
		for _, cell := range raw[i] {
			v := strings.TrimSpace(cell)
			if v != "" && looksLikeHeader(v) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func looksLikeHeader(v string) bool {
	if len(v) >= 50 {
		return false
	}
	hasAlpha := false
	for _, r := range v {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasAlpha = true
			break
		}
	}
	if !hasAlpha {
		return false
	}
	digits := strings.ReplaceAll(strings.ReplaceAll(v, ".", ""), "-", "")
	if digits != "" && isAllDigits(digits) {
		return false
	}
	prefix := v
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return !strings.Contains(prefix, "/")
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// normalizeColumns trims headers, names blank ones Column_N, and suffixes
// duplicates so every column name is unique.
func normalizeColumns(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("Column_%d", i)
		}
		if seen[name] {
			n := 1
			for seen[fmt.Sprintf("%s_%d", name, n)] {
				n++
			}
			name = fmt.Sprintf("%s_%d", name, n)
		}
		seen[name] = true
		columns[i] = name
	}
	return columns
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
