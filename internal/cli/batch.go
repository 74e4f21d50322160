package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mstepanek/rollcall/internal/pipeline"
	"github.com/mstepanek/rollcall/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	batchFormat  string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir-or-list-file>",
	Short: "Normalize multiple census files in parallel",
	Long: `Batch processes multiple census files concurrently:
- Given a directory, every .xlsx/.xlsm/.csv file in it is processed
- Given a list file, each line names one census file (# comments allowed)
- Files are processed in parallel with a configurable worker count
- One normalized output file is written per input

Example:
  rollcall batch ./census-files
  rollcall batch files.txt --concurrency 8 --output-dir ./normalized`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./rollcall-output", "output directory for normalized files")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "output format: csv or xlsx (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// LLM flags
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for mapping (openai, groq)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// batchRunner adapts the pipeline to the worker.Runner interface; every file
// gets its own mapping.
type batchRunner struct {
	p *pipeline.Pipeline
}

func (r *batchRunner) Run(ctx context.Context, path string) (*pipeline.Result, error) {
	return r.p.Run(ctx, path, nil)
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := buildConfig()
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if batchFormat != "" {
		cfg.Output.Format = batchFormat
	}
	cfg.Concurrency.Workers = concurrency

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Rollcall Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input:        %s\n", target)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	mapper, _, err := buildMapper(cfg)
	if err != nil {
		return err
	}
	var producer pipeline.MappingProducer
	if mapper != nil {
		producer = mapper
	}
	p := pipeline.New(*cfg, producer, newTrace())

	processor := worker.NewBatchProcessor(&batchRunner{p: p}, cfg.Concurrency.Workers)

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	var results []*worker.FileResult
	if info.IsDir() {
		results, err = processor.ProcessDir(ctx, target)
	} else {
		results, err = processor.ProcessList(ctx, target)
	}
	if err != nil {
		return err
	}

	var renderer pipeline.Renderer
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		base := strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
		out := filepath.Join(outputDir, base+"_normalized."+cfg.Output.Format)

		switch cfg.Output.Format {
		case "xlsx":
			err = renderer.RenderXLSXFile(out, result.Result.Report)
		default:
			err = renderer.RenderCSVFile(out, result.Result.Report)
		}
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write output: %v\n", result.Path, err)
			continue
		}

		successCount++
		s := result.Result.Report.Stats
		fmt.Fprintf(os.Stderr, "✓ %s (%d records: %d employees, %d dependents)\n",
			result.Path, s.TotalRecords, s.Employees, s.Dependents)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
