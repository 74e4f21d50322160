package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mstepanek/rollcall/internal/pipeline"
)

type fakeRunner struct {
	failOn map[string]bool
}

func (r *fakeRunner) Run(ctx context.Context, path string) (*pipeline.Result, error) {
	if r.failOn[path] {
		return nil, errors.New("processing failed")
	}
	return &pipeline.Result{Source: path}, nil
}

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	processor := NewBatchProcessor(&fakeRunner{}, 4)

	paths := []string{"c.xlsx", "a.xlsx", "b.csv"}
	results := processor.ProcessPaths(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"a.xlsx", "b.csv", "c.xlsx"} {
		if results[i].Path != want {
			t.Errorf("Result %d: expected path %s, got %s", i, want, results[i].Path)
		}
		if results[i].Err() != nil {
			t.Errorf("Result %d: unexpected error %v", i, results[i].Err())
		}
	}
}

func TestBatchProcessor_CollectsFailures(t *testing.T) {
	runner := &fakeRunner{failOn: map[string]bool{"bad.xlsx": true}}
	processor := NewBatchProcessor(runner, 2)

	results := processor.ProcessPaths(context.Background(), []string{"good.xlsx", "bad.xlsx"})

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, result := range results {
		if result.Path == "bad.xlsx" && result.Err() == nil {
			t.Error("Expected error for bad.xlsx")
		}
		if result.Path == "good.xlsx" && result.Err() != nil {
			t.Errorf("Unexpected error for good.xlsx: %v", result.Err())
		}
	}
}

func TestBatchProcessor_CancelledContextSkipsWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewBatchProcessor(&fakeRunner{}, 2)

	if results := processor.ProcessPaths(ctx, []string{"a.xlsx", "b.xlsx"}); len(results) != 0 {
		t.Errorf("Expected no results with cancelled context, got %d", len(results))
	}
}

func TestBatchProcessor_EmptyPaths(t *testing.T) {
	processor := NewBatchProcessor(&fakeRunner{}, 2)

	if results := processor.ProcessPaths(context.Background(), nil); len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestReadPathsFromFile(t *testing.T) {
	listPath := filepath.Join(t.TempDir(), "files.txt")
	content := "# census batch\ncensus_a.xlsx\n\ncensus_b.csv\ncensus_a.xlsx\n"
	if err := os.WriteFile(listPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write list file: %v", err)
	}

	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"census_a.xlsx", "census_b.csv"}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d paths, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestReadPathsFromFile_Missing(t *testing.T) {
	if _, err := ReadPathsFromFile(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("Expected error for missing list file")
	}
}

func TestFindCensusFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.csv", "notes.txt", "macro.XLSM"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	paths, err := FindCensusFiles(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.xlsx"),
		filepath.Join(dir, "macro.XLSM"),
	}
	if len(paths) != len(want) {
		t.Fatalf("Expected %d paths, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("Path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestBatchProcessor_ProcessDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "only.csv"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	processor := NewBatchProcessor(&fakeRunner{}, 1)
	results, err := processor.ProcessDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Result.Source != filepath.Join(dir, "only.csv") {
		t.Errorf("Unexpected source: %s", results[0].Result.Source)
	}
}
