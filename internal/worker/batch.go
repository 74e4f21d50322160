package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mstepanek/rollcall/internal/pipeline"
)

// Runner processes one census file end to end.
type Runner interface {
	Run(ctx context.Context, path string) (*pipeline.Result, error)
}

// FileJob normalizes a single census file.
type FileJob struct {
	Path   string
	Runner Runner
}

// Execute runs the job.
func (j *FileJob) Execute(ctx context.Context) Result {
	result, err := j.Runner.Run(ctx, j.Path)
	return &FileResult{Path: j.Path, Result: result, Error: err}
}

// FileResult is the outcome of processing one file.
type FileResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// Err returns the processing error, if any.
func (r *FileResult) Err() error {
	return r.Error
}

// BatchProcessor normalizes multiple census files concurrently.
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{runner: runner, concurrency: concurrency}
}

// ProcessPaths processes the given files concurrently. Results come back
// sorted by path so batch output is stable regardless of completion order.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&FileJob{Path: path, Runner: b.runner})
	}

	results := pool.Wait()

	fileResults := make([]*FileResult, len(results))
	for i, result := range results {
		fileResults[i] = result.(*FileResult)
	}
	sort.Slice(fileResults, func(i, j int) bool {
		return fileResults[i].Path < fileResults[j].Path
	})
	return fileResults
}

// ProcessList reads file paths from a list file (one per line, # comments)
// and processes them concurrently.
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) ([]*FileResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read path list: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ProcessDir processes every census file found directly in dir.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*FileResult, error) {
	paths, err := FindCensusFiles(dir)
	if err != nil {
		return nil, err
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads paths from a file, one per line, skipping blanks
// and # comments, deduplicating.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return paths, nil
}

// FindCensusFiles lists the census workbooks and CSV files directly in dir.
func FindCensusFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".xlsx", ".xlsm", ".csv":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
