package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mstepanek/rollcall/internal/model"
	"github.com/mstepanek/rollcall/internal/pipeline"
)

var (
	mappingFile    string
	mappingOut     string
	outPath        string
	outFormat      string
	statsPath      string
	extractTimeout time.Duration
	llmProvider    string
	llmModel       string
	jobTitleLen    int
	proximity      int
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Normalize a census spreadsheet into the enrollment table",
	Long: `Extract reads a census workbook or CSV file and produces the
normalized enrollment table:
- Classify rows as employees or dependents
- Split and normalize names and dates of birth
- Link dependents to employees into family groups
- Emit the fixed-schema table as CSV or XLSX

The column mapping comes from --mapping when given; otherwise the
configured LLM provider is asked to produce one, and without a provider
the file is processed through unmapped-column scanning alone.

Example:
  rollcall extract census.xlsx
  rollcall extract census.xlsx --mapping mapping.json -o enrollment.csv
  rollcall extract census.xlsx --llm-provider groq --llm-model llama-3.3-70b-versatile`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	// Output flags
	extractCmd.Flags().StringVarP(&outPath, "output", "o", "", "output path (default: <input>_normalized.<format>)")
	extractCmd.Flags().StringVar(&outFormat, "format", "", "output format: csv or xlsx (default from config)")
	extractCmd.Flags().StringVar(&statsPath, "stats", "", "write run statistics markdown to this path")

	// Mapping flags
	extractCmd.Flags().StringVar(&mappingFile, "mapping", "", "column mapping JSON file (skips the LLM)")
	extractCmd.Flags().StringVar(&mappingOut, "mapping-out", "", "save the mapping that was used to this path")

	// Heuristic tuning
	extractCmd.Flags().IntVar(&jobTitleLen, "job-title-min-len", 0, "relationship strings longer than this read as job titles")
	extractCmd.Flags().IntVar(&proximity, "proximity-window", 0, "max row distance when linking dependents to employees")

	// LLM flags
	extractCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for mapping (openai, groq)")
	extractCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")

	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 2*time.Minute, "overall extraction timeout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	cfg := buildConfig()
	applyExtractFlags(cfg)

	var mapping model.FieldMapping
	if mappingFile != "" {
		var err error
		mapping, err = loadMappingFile(mappingFile)
		if err != nil {
			return err
		}
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

	result, err := p.Run(ctx, input, mapping)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if verbose {
		s := result.Report.Stats
		fmt.Fprintf(os.Stderr, "✓ Read %d sheets\n", s.SheetCount)
		fmt.Fprintf(os.Stderr, "✓ Extracted %d records (%d employees, %d dependents)\n",
			s.TotalRecords, s.Employees, s.Dependents)
		fmt.Fprintln(os.Stderr)
	}

	format := cfg.Output.Format
	out := outPath
	if out == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		out = base + "_normalized." + format
	}

	var renderer pipeline.Renderer
	switch format {
	case "csv":
		err = renderer.RenderCSVFile(out, result.Report)
	case "xlsx":
		err = renderer.RenderXLSXFile(out, result.Report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	fmt.Printf("✓ Wrote %s\n", out)

	if statsPath != "" {
		if err := renderer.RenderStatsFile(statsPath, result.Report.Stats, input); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
		fmt.Printf("✓ Wrote %s\n", statsPath)
	}

	if mappingOut != "" {
		if err := writeMappingFile(mappingOut, result.Mapping); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", mappingOut)
	}

	renderer.RenderSummary(os.Stdout, result)
	return nil
}

// applyExtractFlags overlays explicit CLI flags onto the config.
func applyExtractFlags(cfg *model.Config) {
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if jobTitleLen > 0 {
		cfg.Extract.JobTitleMinLen = jobTitleLen
	}
	if proximity > 0 {
		cfg.Extract.ProximityWindow = proximity
	}
	if outFormat != "" {
		cfg.Output.Format = outFormat
	}
}
