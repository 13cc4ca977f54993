package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"DisasterPipeline/internal/domain"
	"DisasterPipeline/internal/ports"
)

const (
	// TableName is the fixed destination table.
	TableName = "message_table"

	defaultBatchSize = 500
)

// IfExists decides what Save does when the destination table is present.
type IfExists string

const (
	IfExistsFail    IfExists = "fail"
	IfExistsReplace IfExists = "replace"
	IfExistsAppend  IfExists = "append"
)

// ParseIfExists validates a policy name; empty selects fail.
func ParseIfExists(v string) (IfExists, error) {
	switch policy := IfExists(strings.ToLower(strings.TrimSpace(v))); policy {
	case "":
		return IfExistsFail, nil
	case IfExistsFail, IfExistsReplace, IfExistsAppend:
		return policy, nil
	default:
		return "", fmt.Errorf("if-exists policy %q: %w", v, domain.ErrInvalidConfig)
	}
}

// Options configure table handling and insert batching.
type Options struct {
	IfExists  IfExists
	BatchSize int
}

// Repository persists cleaned tables into a SQLite file or Postgres schema.
type Repository struct {
	registry  *Registry
	ifExists  IfExists
	batchSize int
	logger    *slog.Logger
}

var _ ports.TableSink = (*Repository)(nil)

// NewRepository wires a dialect registry; a nil registry uses DefaultRegistry.
func NewRepository(reg *Registry, opts Options, log *slog.Logger) *Repository {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if opts.IfExists == "" {
		opts.IfExists = IfExistsFail
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Repository{
		registry:  reg,
		ifExists:  opts.IfExists,
		batchSize: opts.BatchSize,
		logger:    log,
	}
}

// Save writes table into message_table at destination and returns the
// number of inserted rows. The store is opened and closed within the call.
func (r *Repository) Save(ctx context.Context, table domain.Table, destination string) (int, error) {
	name, dsn, err := ResolveDestination(destination)
	if err != nil {
		return 0, err
	}
	dialect, err := r.registry.Resolve(name)
	if err != nil {
		return 0, err
	}

	db, err := sqlx.ConnectContext(ctx, dialect.Driver, dsn)
	if err != nil {
		return 0, fmt.Errorf("open %s store: %w", dialect.Name, err)
	}
	defer db.Close()

	r.debug("store opened", "dialect", dialect.Name, "table", TableName)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	saved, err := r.write(ctx, tx, dialect, table)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return saved, nil
}

func (r *Repository) write(ctx context.Context, tx *sqlx.Tx, dialect Dialect, table domain.Table) (int, error) {
	exists, err := tableExists(ctx, tx, dialect, TableName)
	if err != nil {
		return 0, err
	}

	types := InferTypes(table)

	if exists {
		switch r.ifExists {
		case IfExistsReplace:
			if _, err := tx.ExecContext(ctx, "DROP TABLE "+quoteIdent(TableName)); err != nil {
				return 0, fmt.Errorf("drop table: %w", err)
			}
			exists = false
		case IfExistsAppend:
		default:
			return 0, fmt.Errorf("%s: %w", TableName, domain.ErrTableExists)
		}
	}

	if !exists {
		if _, err := tx.ExecContext(ctx, CreateTableSQL(dialect, TableName, table.Columns, types)); err != nil {
			return 0, fmt.Errorf("create table: %w", err)
		}
	}

	return r.insertRows(ctx, tx, dialect, table, types)
}

func (r *Repository) insertRows(ctx context.Context, tx *sqlx.Tx, dialect Dialect, table domain.Table, types []ColumnType) (int, error) {
	if table.Len() == 0 || len(table.Columns) == 0 {
		return 0, nil
	}

	perBatch := r.batchSize
	if limit := dialect.MaxParams / len(table.Columns); limit < perBatch {
		perBatch = limit
	}
	if perBatch < 1 {
		perBatch = 1
	}

	saved := 0
	for start := 0; start < table.Len(); start += perBatch {
		end := start + perBatch
		if end > table.Len() {
			end = table.Len()
		}

		query, args, err := InsertBuilder(dialect, TableName, table.Columns, table.Rows[start:end], types).ToSql()
		if err != nil {
			return saved, fmt.Errorf("build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return saved, fmt.Errorf("insert rows %d-%d: %w", start+1, end, err)
		}
		saved += end - start
		r.debug("batch inserted", "rows", end-start, "total", saved)
	}

	return saved, nil
}

func tableExists(ctx context.Context, tx *sqlx.Tx, dialect Dialect, table string) (bool, error) {
	query, args, err := dialect.TableExists(table).PlaceholderFormat(dialect.Placeholder).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var count int
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("query table exists: %w", err)
	}
	return count > 0, nil
}

// CreateTableSQL renders the DDL for the destination table.
func CreateTableSQL(dialect Dialect, table string, columns []string, types []ColumnType) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " " + dialect.Types[types[i]]
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

// InsertBuilder renders one multi-row INSERT for rows.
func InsertBuilder(dialect Dialect, table string, columns []string, rows [][]domain.Cell, types []ColumnType) sq.InsertBuilder {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = dialect.builderIdent(col)
	}

	builder := sq.Insert(dialect.builderIdent(table)).
		Columns(quoted...).
		PlaceholderFormat(dialect.Placeholder)

	for _, row := range rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = bindValue(cell, types[i])
		}
		builder = builder.Values(values...)
	}
	return builder
}

func (r *Repository) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
