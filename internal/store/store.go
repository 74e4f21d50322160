package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const historyKey = "history"

// Store persists confirmed column mappings and feeds learned guidance back
// into future mapping prompts. A small in-memory layer in front of the JSON
// file keeps repeated reads within a batch run cheap.
type Store struct {
	path   string
	mu     sync.Mutex
	memory *gocache.Cache
}

// New creates a store backed by the JSON file at path.
func New(path string, memoryTTL time.Duration) *Store {
	if memoryTTL <= 0 {
		memoryTTL = 30 * time.Minute
	}
	return &Store{
		path:   path,
		memory: gocache.New(memoryTTL, 2*memoryTTL),
	}
}

// Record stores a confirmed mapping. original is what the mapper proposed,
// corrected is what was finally used; differences between the two feed the
// avoid/common pattern counters.
func (s *Store) Record(fileName string, columns []string, sample string, original, corrected map[string][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.load()

	now := time.Now()
	entry := Entry{
		Timestamp:     now,
		FileName:      fileName,
		FileSignature: Signature(columns, sample),
		ColumnNames:   columns,
		Original:      original,
		Corrected:     corrected,
		Corrections:   correctedFields(original, corrected),
	}

	h.Mappings = append(h.Mappings, entry)
	h.Statistics.TotalMappings++
	h.Statistics.SuccessfulMappings++
	h.Statistics.LastUpdated = &now

	updatePatterns(h, entry)
	h.Statistics.PatternsLearned = len(h.Patterns)

	return s.save(h)
}

// Context returns prompt guidance for a file with the given columns: prior
// confirmed mappings for the same file signature plus cross-file patterns.
// Empty when nothing has been learned yet.
func (s *Store) Context(columns []string, sample string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.load()
	if len(h.Mappings) == 0 {
		return ""
	}

	var b strings.Builder
	signature := Signature(columns, sample)

	var similar []Entry
	for _, entry := range h.Mappings {
		if entry.FileSignature == signature {
			similar = append(similar, entry)
		}
	}
	if len(similar) > 3 {
		similar = similar[len(similar)-3:]
	}
	if len(similar) > 0 {
		b.WriteString("SIMILAR FILE STRUCTURE DETECTED.\n")
		b.WriteString("Previous successful mappings for files like this one:\n")
		for _, entry := range similar {
			fmt.Fprintf(&b, "File: %s\n", entry.FileName)
			for _, field := range sortedKeys(entry.Corrected) {
				if cols := entry.Corrected[field]; len(cols) > 0 {
					fmt.Fprintf(&b, "   %s: %s\n", field, strings.Join(cols, ", "))
				}
			}
		}
		b.WriteString("\n")
	}

	if len(h.Patterns) > 0 {
		b.WriteString("LEARNED PATTERNS from previous runs:\n")
		for _, field := range sortedPatternKeys(h.Patterns) {
			pattern := h.Patterns[field]
			if pattern.SuccessCount < 1 {
				continue
			}
			fmt.Fprintf(&b, "   %s:\n", field)
			if common := topCounts(pattern.Common, 3); len(common) > 0 {
				fmt.Fprintf(&b, "     Often correct: %s\n", strings.Join(common, ", "))
			}
			if avoid := topCounts(pattern.Avoid, 3); len(avoid) > 0 {
				fmt.Fprintf(&b, "     Often incorrect: %s\n", strings.Join(avoid, ", "))
			}
		}
		b.WriteString("Prefer the 'Often correct' mappings and avoid the 'Often incorrect' ones.\n")
	}

	return b.String()
}

// Stats reports history statistics, including mappings recorded in the last
// 24 hours.
func (s *Store) Stats() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.load()
	stats := h.Statistics
	stats.PatternsLearned = len(h.Patterns)
	return stats
}

// RecentMappings counts entries recorded within the window.
func (s *Store) RecentMappings(window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.load()
	cutoff := time.Now().Add(-window)
	count := 0
	for _, entry := range h.Mappings {
		if entry.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

// load returns the history, reading the file only when the memory layer
// misses. Callers must hold s.mu.
func (s *Store) load() *History {
	if cached, found := s.memory.Get(historyKey); found {
		return cached.(*History)
	}

	h := newHistory()
	data, err := os.ReadFile(s.path)
	if err == nil {
		if err := json.Unmarshal(data, h); err != nil {
			h = newHistory()
		}
	}
	if h.Patterns == nil {
		h.Patterns = make(map[string]*Pattern)
	}
	s.memory.Set(historyKey, h, gocache.DefaultExpiration)
	return h
}

func (s *Store) save(h *History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	s.memory.Set(historyKey, h, gocache.DefaultExpiration)
	return nil
}

func correctedFields(original, corrected map[string][]string) []string {
	var fields []string
	for field, correctedCols := range corrected {
		if !equalRefs(original[field], correctedCols) {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

func updatePatterns(h *History, entry Entry) {
	for _, field := range entry.Corrections {
		pattern := h.Patterns[field]
		if pattern == nil {
			pattern = &Pattern{
				Common: make(map[string]int),
				Avoid:  make(map[string]int),
			}
			h.Patterns[field] = pattern
		}
		pattern.SuccessCount++

		correctedCols := entry.Corrected[field]
		for _, col := range correctedCols {
			pattern.Common[col]++
		}
		for _, col := range entry.Original[field] {
			if !containsRef(correctedCols, col) {
				pattern.Avoid[col]++
			}
		}
	}
}

func equalRefs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsRef(refs []string, ref string) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}

func topCounts(counts map[string]int, n int) []string {
	type kv struct {
		key   string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for k, c := range counts {
		pairs = append(pairs, kv{k, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.key
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPatternKeys(m map[string]*Pattern) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
