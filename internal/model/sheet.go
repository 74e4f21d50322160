package model

// Sheet is one tab of a workbook after header resolution: an ordered list of
// unique column names plus the data rows below the header. Sheets are
// read-only for the duration of an extraction run.
type Sheet struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Row is one data row. Index is the row's position within the cleaned sheet
// (header stripped, all-empty rows dropped); it is assigned once by the
// reader and drives both proximity matching and final ordering.
type Row struct {
	Index int      `json:"index"`
	Cells []string `json:"cells"`
}

// Cell returns the value of the named column in the given row, or "" if the
// column does not exist on this sheet.
func (s *Sheet) Cell(row Row, column string) string {
	for i, c := range s.Columns {
		if c == column {
			if i < len(row.Cells) {
				return row.Cells[i]
			}
			return ""
		}
	}
	return ""
}

// RowKey identifies a source row across sheets. It is attached to every
// record at creation time and never recomputed.
type RowKey struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
}

// Before reports whether k sorts before other in document order.
func (k RowKey) Before(other RowKey) bool {
	if k.Sheet != other.Sheet {
		return k.Sheet < other.Sheet
	}
	return k.Row < other.Row
}
