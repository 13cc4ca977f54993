package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"DisasterPipeline/internal/domain"
	"DisasterPipeline/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source  ports.TableSource
	Cleaner ports.TableCleaner
	Sink    ports.TableSink
	Logger  *slog.Logger
}

// Pipeline implements the load -> clean -> save workflow.
type Pipeline struct {
	source  ports.TableSource
	cleaner ports.TableCleaner
	sink    ports.TableSink
	logger  *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:  deps.Source,
		cleaner: deps.Cleaner,
		sink:    deps.Sink,
		logger:  deps.Logger,
	}
}

// Run loads and joins both inputs, expands categories, drops duplicates and
// saves the result. The first failing stage aborts the run.
func (p *Pipeline) Run(ctx context.Context, job domain.Job) (domain.Report, error) {
	var report domain.Report
	if p.source == nil || p.sink == nil {
		return report, fmt.Errorf("pipeline is not configured")
	}

	p.info("loading data", "messages", job.MessagesPath, "categories", job.CategoriesPath)
	table, loaded, err := p.source.Load(ctx, job.MessagesPath, job.CategoriesPath)
	if err != nil {
		return report, fmt.Errorf("load data: %w", err)
	}
	report.MessagesRows = loaded.MessagesRows
	report.CategoriesRows = loaded.CategoriesRows
	report.JoinedRows = table.Len()

	if p.cleaner != nil {
		p.info("cleaning data", "rows", table.Len())
		var stats domain.CleanStats
		table, stats, err = p.cleaner.Clean(table)
		if err != nil {
			return report, fmt.Errorf("clean data: %w", err)
		}
		report.CategoryColumns = len(stats.CategoryColumns)
		report.CoercedTokens = stats.CoercedTokens
		report.DuplicatesDropped = stats.DuplicatesDropped
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	p.info("saving data", "database", job.Database)
	saved, err := p.sink.Save(ctx, table, job.Database)
	if err != nil {
		return report, fmt.Errorf("save data: %w", err)
	}
	report.SavedRows = saved
	report.Destination = job.Database

	p.info("cleaned data saved to database",
		"rows", report.SavedRows,
		"category_columns", report.CategoryColumns,
		"duplicates_dropped", report.DuplicatesDropped)
	return report, nil
}

func (p *Pipeline) info(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
