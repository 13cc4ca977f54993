package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DisasterPipeline/internal/domain"
)

func sampleTable() domain.Table {
	return domain.Table{
		Columns: []string{"id", "message", "original", "genre", "related", "request"},
		Rows: [][]domain.Cell{
			{domain.Text("2"), domain.Text("Weather update"), domain.NullCell(), domain.Text("direct"), domain.Text("1"), domain.Text("0")},
			{domain.Text("7"), domain.Text("Is the Hurricane over"), domain.Text("Cyclone nan fini"), domain.Text("direct"), domain.Text("1"), domain.Text("1")},
			{domain.Text("8"), domain.Text("say: \"we need water\""), domain.NullCell(), domain.Text("news"), domain.Text("0"), domain.Text("0")},
		},
	}
}

type savedRow struct {
	ID       int64          `db:"id"`
	Message  string         `db:"message"`
	Original sql.NullString `db:"original"`
	Genre    string         `db:"genre"`
	Related  int64          `db:"related"`
	Request  int64          `db:"request"`
}

func readBack(t *testing.T, path string) []savedRow {
	t.Helper()
	db, err := sqlx.Connect("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var rows []savedRow
	require.NoError(t, db.Select(&rows, `SELECT * FROM message_table ORDER BY rowid`))
	return rows
}

func TestSaveSQLite(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "DisasterResponse")
	repo := NewRepository(nil, Options{}, nil)

	saved, err := repo.Save(context.Background(), sampleTable(), dest)
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	rows := readBack(t, dest+".db")
	require.Len(t, rows, 3)
	assert.Equal(t, savedRow{ID: 2, Message: "Weather update", Genre: "direct", Related: 1, Request: 0}, rows[0])
	assert.Equal(t, sql.NullString{String: "Cyclone nan fini", Valid: true}, rows[1].Original)
	assert.Equal(t, `say: "we need water"`, rows[2].Message)
}

func TestSaveSQLiteColumnTypes(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "types.db")
	_, err := NewRepository(nil, Options{}, nil).Save(context.Background(), sampleTable(), dest)
	require.NoError(t, err)

	db, err := sqlx.Connect("sqlite", dest)
	require.NoError(t, err)
	defer db.Close()

	var ddl string
	require.NoError(t, db.Get(&ddl, `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'message_table'`))
	assert.Equal(t,
		`CREATE TABLE "message_table" ("id" INTEGER, "message" TEXT, "original" TEXT, "genre" TEXT, "related" INTEGER, "request" INTEGER)`,
		ddl)
}

func TestSaveIfExistsPolicies(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		policy   IfExists
		wantErr  error
		wantRows int
	}{
		{name: "fail", policy: IfExistsFail, wantErr: domain.ErrTableExists, wantRows: 3},
		{name: "replace", policy: IfExistsReplace, wantRows: 3},
		{name: "append", policy: IfExistsAppend, wantRows: 6},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dest := filepath.Join(t.TempDir(), "twice.db")
			ctx := context.Background()

			_, err := NewRepository(nil, Options{}, nil).Save(ctx, sampleTable(), dest)
			require.NoError(t, err)

			_, err = NewRepository(nil, Options{IfExists: tc.policy}, nil).Save(ctx, sampleTable(), dest)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			assert.Len(t, readBack(t, dest), tc.wantRows)
		})
	}
}

func TestSaveBatches(t *testing.T) {
	t.Parallel()

	tbl := domain.Table{Columns: []string{"id", "message"}}
	for i := 0; i < 1234; i++ {
		tbl.Rows = append(tbl.Rows, []domain.Cell{domain.Text(strings.Repeat("1", 1+i%5)), domain.Text("m")})
	}

	dest := filepath.Join(t.TempDir(), "batches.db")
	saved, err := NewRepository(nil, Options{BatchSize: 100}, nil).Save(context.Background(), tbl, dest)
	require.NoError(t, err)
	assert.Equal(t, 1234, saved)

	db, err := sqlx.Connect("sqlite", dest)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM message_table`))
	assert.Equal(t, 1234, count)
}

func TestSaveEmptyTable(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "empty.db")
	saved, err := NewRepository(nil, Options{}, nil).Save(context.Background(),
		domain.Table{Columns: []string{"id", "message"}}, dest)
	require.NoError(t, err)
	assert.Zero(t, saved)

	db, err := sqlx.Connect("sqlite", dest)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM message_table`))
	assert.Zero(t, count)
}

func TestSaveUnknownDialect(t *testing.T) {
	t.Parallel()

	repo := NewRepository(NewRegistry(), Options{}, nil)
	_, err := repo.Save(context.Background(), sampleTable(), filepath.Join(t.TempDir(), "x.db"))
	assert.True(t, errors.Is(err, domain.ErrUnknownDialect), "got %v", err)
}

func TestParseIfExists(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]IfExists{
		"":         IfExistsFail,
		"fail":     IfExistsFail,
		" Replace": IfExistsReplace,
		"APPEND":   IfExistsAppend,
	} {
		got, err := ParseIfExists(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseIfExists("overwrite")
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig), "got %v", err)
}
