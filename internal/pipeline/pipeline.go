package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/mstepanek/rollcall/internal/assemble"
	"github.com/mstepanek/rollcall/internal/extract"
	"github.com/mstepanek/rollcall/internal/group"
	"github.com/mstepanek/rollcall/internal/model"
)

// ErrNoSheets is returned when a file contains no usable data rows.
var ErrNoSheets = errors.New("no usable sheets in workbook")

// MappingProducer turns sheet headers and sample rows into a field mapping.
// The LLM-backed mapper satisfies this; a nil producer means the pipeline
// runs with whatever mapping the caller supplies.
type MappingProducer interface {
	Produce(ctx context.Context, sheets []model.Sheet) (model.FieldMapping, error)
}

// Result is the outcome of a single file run.
type Result struct {
	Report  model.Report
	Mapping model.FieldMapping
	Source  string
}

// Pipeline wires reading, extraction, grouping, and assembly for one file.
type Pipeline struct {
	cfg    model.Config
	mapper MappingProducer
	trace  extract.TraceFunc
}

func New(cfg model.Config, mapper MappingProducer, trace extract.TraceFunc) *Pipeline {
	return &Pipeline{cfg: cfg, mapper: mapper, trace: trace}
}

// Run processes one census file. When mapping is nil the configured mapping
// producer is consulted; without one the file is processed with an empty
// mapping, which still emits rows found through unmapped-column scanning.
func (p *Pipeline) Run(ctx context.Context, path string, mapping model.FieldMapping) (*Result, error) {
	sheets, err := ReadWorkbook(path)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	if mapping == nil {
		if p.mapper != nil {
			mapping, err = p.mapper.Produce(ctx, sheets)
			if err != nil {
				return nil, fmt.Errorf("produce mapping: %w", err)
			}
		} else {
			mapping = model.FieldMapping{}
		}
	}

	extractor := extract.NewExtractor(p.cfg.Extract, p.trace)
	records := extractor.Extract(sheets, mapping)

	grouper := group.NewGrouper(p.cfg.Extract.ProximityWindow, group.TraceFunc(p.trace))
	records = grouper.Group(records)

	report := assemble.Assemble(records, sheets)
	return &Result{Report: report, Mapping: mapping, Source: path}, nil
}
