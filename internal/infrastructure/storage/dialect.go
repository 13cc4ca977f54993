package storage

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"DisasterPipeline/internal/domain"
)

const (
	// DialectSQLite stores the table in a local database file.
	DialectSQLite = "sqlite"
	// DialectPostgres stores the table in a Postgres schema reached by URL.
	DialectPostgres = "postgres"

	sqliteSuffix = ".db"
)

// Dialect captures the driver name and SQL differences of one store.
type Dialect struct {
	Name        string
	Driver      string
	Placeholder sq.PlaceholderFormat
	// MaxParams bounds bind variables per statement.
	MaxParams int
	Types     map[ColumnType]string
	// TableExists builds a query returning the number of tables named table.
	TableExists func(table string) sq.SelectBuilder
}

// SQLite is the file-backed default store.
func SQLite() Dialect {
	return Dialect{
		Name:        DialectSQLite,
		Driver:      "sqlite",
		Placeholder: sq.Question,
		MaxParams:   32766,
		Types: map[ColumnType]string{
			TypeInteger: "INTEGER",
			TypeReal:    "REAL",
			TypeText:    "TEXT",
		},
		TableExists: func(table string) sq.SelectBuilder {
			return sq.Select("COUNT(*)").
				From("sqlite_master").
				Where(sq.Eq{"type": "table", "name": table})
		},
	}
}

// Postgres targets a server reached through a postgres:// URL.
func Postgres() Dialect {
	return Dialect{
		Name:        DialectPostgres,
		Driver:      "postgres",
		Placeholder: sq.Dollar,
		MaxParams:   65535,
		Types: map[ColumnType]string{
			TypeInteger: "BIGINT",
			TypeReal:    "DOUBLE PRECISION",
			TypeText:    "TEXT",
		},
		TableExists: func(table string) sq.SelectBuilder {
			return sq.Select("COUNT(*)").
				From("information_schema.tables").
				Where(sq.Eq{"table_name": table}).
				Where("table_schema = current_schema()")
		},
	}
}

// ResolveDestination maps the CLI database argument to a dialect name and
// data source. URLs select Postgres; anything else is a SQLite file name,
// which gets a .db suffix unless it already has one.
func ResolveDestination(destination string) (string, string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", "", fmt.Errorf("empty database name: %w", domain.ErrInvalidConfig)
	}

	lower := strings.ToLower(destination)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DialectPostgres, destination, nil
	}

	if !strings.HasSuffix(lower, sqliteSuffix) {
		destination += sqliteSuffix
	}
	return DialectSQLite, destination, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// builderIdent quotes name for SQL that goes through the placeholder
// format. Positional formats rewrite every '?', so literal ones are doubled.
func (d Dialect) builderIdent(name string) string {
	quoted := quoteIdent(name)
	if d.Placeholder == nil || d.Placeholder == sq.Question {
		return quoted
	}
	return strings.ReplaceAll(quoted, "?", "??")
}
