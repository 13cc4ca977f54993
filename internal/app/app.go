package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"DisasterPipeline/internal/cleaning"
	"DisasterPipeline/internal/config"
	"DisasterPipeline/internal/domain"
	"DisasterPipeline/internal/infrastructure/csvsource"
	"DisasterPipeline/internal/infrastructure/storage"
	"DisasterPipeline/internal/logging"
	"DisasterPipeline/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	pipeline *usecase.Pipeline
}

// New validates the configuration and builds a runnable application.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ifExists, err := storage.ParseIfExists(cfg.Storage.IfExists)
	if err != nil {
		return nil, err
	}

	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	baseLogger = baseLogger.With("run", uuid.NewString())

	loader := csvsource.NewLoader(csvsource.Options{
		Delimiter: cfg.Input.DelimiterRune(),
		JoinKey:   cfg.Input.JoinKey,
	}, baseLogger.With("component", "loader"))

	cleaner := cleaning.NewCleaner(cleaning.Options{
		Field:     cfg.Cleaning.Field,
		Separator: cfg.Cleaning.Separator,
		Strict:    cfg.Cleaning.Strict,
	}, baseLogger.With("component", "cleaner"))

	repo := storage.NewRepository(storage.DefaultRegistry(), storage.Options{
		IfExists:  ifExists,
		BatchSize: cfg.Storage.BatchSize,
	}, baseLogger.With("component", "storage"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:  loader,
		Cleaner: cleaner,
		Sink:    repo,
		Logger:  baseLogger.With("component", "pipeline"),
	})
	return &Application{pipeline: pipeline}, nil
}

// Run executes the pipeline once for job.
func (a *Application) Run(ctx context.Context, job domain.Job) (domain.Report, error) {
	return a.pipeline.Run(ctx, job)
}
