package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"
)

// coreColumns are the census headers that drive file signatures. Restricting
// the signature to these keeps it stable across cosmetic column differences.
var coreColumns = map[string]bool{
	"Employee  Name": true,
	"First":          true,
	"Coverage Level": true,
	"Gender":         true,
	"DOB":            true,
	"ZIP CODE":       true,
	"Home State":     true,
	"Job Title":      true,
	"W/C Code":       true,
	"W/C State":      true,
	"Healthcare":     true,
	"F/T or P/T":     true,
	"Annual Pay":     true,
}

// History is the persisted mapping-learning state.
type History struct {
	Mappings   []Entry             `json:"mappings"`
	Patterns   map[string]*Pattern `json:"patterns"`
	Statistics Statistics          `json:"statistics"`
}

// Entry records one confirmed mapping run.
type Entry struct {
	Timestamp     time.Time           `json:"timestamp"`
	FileName      string              `json:"file_name"`
	FileSignature string              `json:"file_signature"`
	ColumnNames   []string            `json:"column_names"`
	Original      map[string][]string `json:"original_mapping"`
	Corrected     map[string][]string `json:"corrected_mapping"`
	Corrections   []string            `json:"fields_corrected"`
}

// Pattern accumulates per-field evidence across runs: which column refs were
// confirmed and which were corrected away.
type Pattern struct {
	Common       map[string]int `json:"common_mappings"`
	Avoid        map[string]int `json:"avoid_mappings"`
	SuccessCount int            `json:"success_count"`
}

// Statistics summarizes the history.
type Statistics struct {
	TotalMappings      int        `json:"total_mappings"`
	SuccessfulMappings int        `json:"successful_mappings"`
	PatternsLearned    int        `json:"patterns_learned"`
	LastUpdated        *time.Time `json:"last_updated"`
}

func newHistory() *History {
	return &History{Patterns: make(map[string]*Pattern)}
}

// Signature derives a short stable id for a file's structure from its core
// census columns and the start of its sample data.
func Signature(columns []string, sample string) string {
	relevant := make([]string, 0, len(columns))
	for _, col := range columns {
		if coreColumns[col] {
			relevant = append(relevant, col)
		}
	}
	sort.Strings(relevant)

	if len(sample) > 200 {
		sample = sample[:200]
	}
	payload, _ := json.Marshal(struct {
		CoreColumns   []string `json:"core_columns"`
		SamplePattern string   `json:"sample_pattern"`
	}{relevant, sample})

	hash := sha256.Sum256(payload)
	return hex.EncodeToString(hash[:])[:16]
}
