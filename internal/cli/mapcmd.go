package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mstepanek/rollcall/internal/llm"
	"github.com/mstepanek/rollcall/internal/pipeline"
)

var (
	mapOut      string
	mapRecord   bool
	mapCorrect  string
	mapTimeout  time.Duration
	mapProvider string
	mapModel    string
)

// mapCmd represents the map command
var mapCmd = &cobra.Command{
	Use:   "map <file>",
	Short: "Produce a column mapping for a census file",
	Long: `Map asks the configured LLM provider to map the file's columns to
the canonical census fields and prints the mapping as JSON.

Review the mapping, correct it if needed, and confirm it with --record
so future mapping runs learn from it:

  rollcall map census.xlsx -o mapping.json
  rollcall map census.xlsx --record
  rollcall map census.xlsx --record --corrected fixed_mapping.json`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)

	mapCmd.Flags().StringVarP(&mapOut, "output", "o", "", "write the mapping to this path instead of stdout")
	mapCmd.Flags().BoolVar(&mapRecord, "record", false, "record the mapping in the learning store")
	mapCmd.Flags().StringVar(&mapCorrect, "corrected", "", "corrected mapping file to record alongside the produced one")
	mapCmd.Flags().StringVar(&mapProvider, "llm-provider", "", "LLM provider (openai, groq)")
	mapCmd.Flags().StringVar(&mapModel, "llm-model", "", "LLM model name")
	mapCmd.Flags().DurationVar(&mapTimeout, "timeout", time.Minute, "mapping timeout")
}

func runMap(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), mapTimeout)
	defer cancel()

	cfg := buildConfig()
	if mapProvider != "" {
		cfg.LLM.Provider = mapProvider
	}
	if mapModel != "" {
		cfg.LLM.Model = mapModel
	}
	if cfg.LLM.Provider == "" {
		return fmt.Errorf("no LLM provider configured: set --llm-provider or llm.provider in config")
	}

	mapper, learner, err := buildMapper(cfg)
	if err != nil {
		return err
	}
	if mapper == nil {
		return fmt.Errorf("LLM mapping is disabled")
	}

	sheets, err := pipeline.ReadWorkbook(input)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return pipeline.ErrNoSheets
	}

	mapping, err := mapper.Produce(ctx, sheets)
	if err != nil {
		return fmt.Errorf("produce mapping: %w", err)
	}

	wire := mapping.Wire()
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	if mapOut != "" {
		if err := os.WriteFile(mapOut, data, 0o644); err != nil {
			return fmt.Errorf("write mapping: %w", err)
		}
		fmt.Printf("✓ Wrote %s\n", mapOut)
	} else {
		fmt.Println(string(data))
	}

	if mapRecord {
		if learner == nil {
			return fmt.Errorf("learning store is disabled in config")
		}
		corrected := wire
		if mapCorrect != "" {
			correctedMapping, err := loadMappingFile(mapCorrect)
			if err != nil {
				return err
			}
			corrected = correctedMapping.Wire()
		}

		var columns []string
		for _, sheet := range sheets {
			columns = append(columns, sheet.Columns...)
		}
		sample := llm.BuildSample(sheets)
		if err := learner.Record(filepath.Base(input), columns, sample, wire, corrected); err != nil {
			return fmt.Errorf("record mapping: %w", err)
		}
		fmt.Println("✓ Recorded mapping in learning store")
	}

	return nil
}
