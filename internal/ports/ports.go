package ports

import (
	"context"

	"DisasterPipeline/internal/domain"
)

// TableSource loads both input datasets and returns them joined.
type TableSource interface {
	Load(ctx context.Context, messagesPath, categoriesPath string) (domain.Table, domain.LoadStats, error)
}

// TableCleaner expands packed categories and removes duplicate rows.
type TableCleaner interface {
	Clean(table domain.Table) (domain.Table, domain.CleanStats, error)
}

// TableSink persists the cleaned table and reports how many rows were written.
type TableSink interface {
	Save(ctx context.Context, table domain.Table, destination string) (int, error)
}
