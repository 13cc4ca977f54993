package csvsource

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"DisasterPipeline/internal/domain"
	"DisasterPipeline/internal/ports"
)

const (
	defaultKey = "id"

	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// Options configure how input files are parsed and joined.
type Options struct {
	Delimiter rune
	JoinKey   string
}

// Loader reads the messages and categories files and inner-joins them.
type Loader struct {
	delimiter rune
	key       string
	logger    *slog.Logger
}

var _ ports.TableSource = (*Loader)(nil)

// NewLoader wires parse options; delimiter defaults to ',' and key to "id".
func NewLoader(opts Options, log *slog.Logger) *Loader {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if strings.TrimSpace(opts.JoinKey) == "" {
		opts.JoinKey = defaultKey
	}
	return &Loader{delimiter: opts.Delimiter, key: opts.JoinKey, logger: log}
}

// Load parses both files and returns their inner join on the key column.
func (l *Loader) Load(ctx context.Context, messagesPath, categoriesPath string) (domain.Table, domain.LoadStats, error) {
	var stats domain.LoadStats

	messages, err := l.ReadFile(ctx, messagesPath)
	if err != nil {
		return domain.Table{}, stats, fmt.Errorf("messages: %w", err)
	}
	stats.MessagesRows = messages.Len()
	l.debug("messages parsed", "path", messagesPath, "rows", messages.Len(), "columns", len(messages.Columns))

	categories, err := l.ReadFile(ctx, categoriesPath)
	if err != nil {
		return domain.Table{}, stats, fmt.Errorf("categories: %w", err)
	}
	stats.CategoriesRows = categories.Len()
	l.debug("categories parsed", "path", categoriesPath, "rows", categories.Len(), "columns", len(categories.Columns))

	joined, err := InnerJoin(messages, categories, l.key)
	if err != nil {
		return domain.Table{}, stats, err
	}
	l.debug("inputs joined", "key", l.key, "rows", joined.Len())
	return joined, stats, nil
}

// ReadFile parses one delimited file whose first record is the header.
func (l *Loader) ReadFile(ctx context.Context, path string) (domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	table, err := Parse(bufio.NewReader(f), l.delimiter)
	if err != nil {
		return domain.Table{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}

// Parse reads a header plus rows; empty fields become null cells.
func Parse(r io.Reader, delimiter rune) (domain.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter

	header, err := reader.Read()
	if err == io.EOF {
		return domain.Table{}, fmt.Errorf("read header: empty input")
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("read header: %w", err)
	}

	table := domain.Table{Columns: make([]string, len(header))}
	for i, col := range header {
		table.Columns[i] = strings.TrimPrefix(col, "\ufeff")
	}

	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return domain.Table{}, fmt.Errorf("read row %d: %w", rowNum, err)
		}

		row := make([]domain.Cell, len(record))
		for i, v := range record {
			if v == "" {
				row[i] = domain.NullCell()
				continue
			}
			row[i] = domain.Text(v)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// InnerJoin matches left rows to right rows on key. Output follows left row
// order and, within one key, right row order. Shared non-key columns are
// suffixed with _x and _y.
func InnerJoin(left, right domain.Table, key string) (domain.Table, error) {
	li := left.Index(key)
	if li < 0 {
		return domain.Table{}, fmt.Errorf("join key %q in messages: %w", key, domain.ErrMissingColumn)
	}
	ri := right.Index(key)
	if ri < 0 {
		return domain.Table{}, fmt.Errorf("join key %q in categories: %w", key, domain.ErrMissingColumn)
	}

	shared := map[string]bool{}
	for _, col := range right.Columns {
		if col != key && left.Index(col) >= 0 {
			shared[col] = true
		}
	}

	columns := make([]string, 0, len(left.Columns)+len(right.Columns)-1)
	for _, col := range left.Columns {
		if shared[col] {
			col += leftSuffix
		}
		columns = append(columns, col)
	}
	for i, col := range right.Columns {
		if i == ri {
			continue
		}
		if shared[col] {
			col += rightSuffix
		}
		columns = append(columns, col)
	}

	byKey := make(map[string][]int, len(right.Rows))
	for i, row := range right.Rows {
		if row[ri].Null {
			continue
		}
		byKey[row[ri].Raw] = append(byKey[row[ri].Raw], i)
	}

	out := domain.Table{Columns: columns}
	for _, lrow := range left.Rows {
		if lrow[li].Null {
			continue
		}
		for _, idx := range byKey[lrow[li].Raw] {
			rrow := right.Rows[idx]
			row := make([]domain.Cell, 0, len(columns))
			row = append(row, lrow...)
			for i, cell := range rrow {
				if i == ri {
					continue
				}
				row = append(row, cell)
			}
			out.Rows = append(out.Rows, row)
		}
	}

	return out, nil
}

func (l *Loader) debug(msg string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(msg, args...)
	}
}
