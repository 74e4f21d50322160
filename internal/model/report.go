package model

// Report is the final result of one extraction run: grouped records in
// presentation order plus summary statistics.
type Report struct {
	// Columns is the presentation column order for the record table.
	Columns []string `json:"columns"`

	Records []Record `json:"records"`

	Stats Stats `json:"stats"`
}

// Stats summarizes one extraction run.
type Stats struct {
	SheetCount   int          `json:"sheet_count"`
	TotalRecords int          `json:"total_records"`
	Employees    int          `json:"employees"`
	Dependents   int          `json:"dependents"`
	Sheets       []SheetStats `json:"sheets"`
}

// SheetStats is the per-sheet shape table.
type SheetStats struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}
