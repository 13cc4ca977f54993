package cleaning

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"DisasterPipeline/internal/domain"
	"DisasterPipeline/internal/ports"
)

const (
	defaultField     = "categories"
	defaultSeparator = ";"
)

var suffixExpr = regexp.MustCompile(`-[0-9]+`)

// Options configure where the packed categories live and how strictly they parse.
type Options struct {
	Field     string
	Separator string
	Strict    bool
}

// Cleaner expands a packed "name-value;name-value" column into 0/1 columns
// and drops duplicate rows.
type Cleaner struct {
	field     string
	separator string
	strict    bool
	logger    *slog.Logger
}

var _ ports.TableCleaner = (*Cleaner)(nil)

// NewCleaner applies defaults for the field ("categories") and separator (";").
func NewCleaner(opts Options, log *slog.Logger) *Cleaner {
	if opts.Field == "" {
		opts.Field = defaultField
	}
	if opts.Separator == "" {
		opts.Separator = defaultSeparator
	}
	return &Cleaner{
		field:     opts.Field,
		separator: opts.Separator,
		strict:    opts.Strict,
		logger:    log,
	}
}

// Clean replaces the packed field with one binary column per category and
// removes rows equal in every column, keeping the first occurrence.
func (c *Cleaner) Clean(table domain.Table) (domain.Table, domain.CleanStats, error) {
	expanded, stats, err := c.expand(table)
	if err != nil {
		return domain.Table{}, domain.CleanStats{}, err
	}

	deduped, dropped := Deduplicate(expanded)
	stats.DuplicatesDropped = dropped

	if stats.CoercedTokens > 0 {
		c.warn("non-binary category values coerced to 1", "tokens", stats.CoercedTokens)
	}
	c.debug("categories expanded",
		"columns", len(stats.CategoryColumns),
		"rows", deduped.Len(),
		"duplicates", dropped)

	return deduped, stats, nil
}

func (c *Cleaner) expand(table domain.Table) (domain.Table, domain.CleanStats, error) {
	var stats domain.CleanStats

	idx := table.Index(c.field)
	if idx < 0 {
		return domain.Table{}, stats, fmt.Errorf("category field %q: %w", c.field, domain.ErrMissingColumn)
	}

	base := make([]string, 0, len(table.Columns)-1)
	for i, col := range table.Columns {
		if i != idx {
			base = append(base, col)
		}
	}

	if table.Len() == 0 {
		return domain.Table{Columns: base}, stats, nil
	}

	first := c.split(table.Rows[0][idx])
	if len(first) == 0 {
		return domain.Table{}, stats, fmt.Errorf("row 1 has no category tokens: %w", domain.ErrTokenCount)
	}

	names, err := columnNames(first, base)
	if err != nil {
		return domain.Table{}, stats, err
	}
	stats.CategoryColumns = names

	columns := make([]string, 0, len(base)+len(names))
	columns = append(columns, base...)
	columns = append(columns, names...)

	out := domain.Table{Columns: columns, Rows: make([][]domain.Cell, 0, table.Len())}
	for n, row := range table.Rows {
		tokens := c.split(row[idx])
		if len(tokens) > len(names) {
			return domain.Table{}, stats, fmt.Errorf("row %d: %d tokens, want %d: %w",
				n+1, len(tokens), len(names), domain.ErrTokenCount)
		}
		if len(tokens) < len(names) && c.strict {
			return domain.Table{}, stats, fmt.Errorf("row %d: %d tokens, want %d: %w",
				n+1, len(tokens), len(names), domain.ErrTokenCount)
		}

		cells := make([]domain.Cell, 0, len(columns))
		for i, cell := range row {
			if i != idx {
				cells = append(cells, cell)
			}
		}

		for i := range names {
			bit, ok := 1, false
			if i < len(tokens) {
				bit, ok = tokenValue(tokens[i])
			}
			if !ok {
				if c.strict {
					return domain.Table{}, stats, fmt.Errorf("row %d column %s: %q: %w",
						n+1, names[i], tokens[i], domain.ErrInvalidToken)
				}
				stats.CoercedTokens++
			}
			cells = append(cells, domain.Text(strconv.Itoa(bit)))
		}
		out.Rows = append(out.Rows, cells)
	}

	return out, stats, nil
}

func (c *Cleaner) split(cell domain.Cell) []string {
	if cell.Null {
		return nil
	}
	return strings.Split(cell.Raw, c.separator)
}

// columnNames derives category names from the first row and rejects any
// name already used by a record field or another category.
func columnNames(tokens, existing []string) ([]string, error) {
	taken := make(map[string]bool, len(existing)+len(tokens))
	for _, col := range existing {
		taken[col] = true
	}

	names := make([]string, len(tokens))
	for i, token := range tokens {
		name := ColumnName(token)
		if name == "" {
			return nil, fmt.Errorf("token %q yields an empty column name: %w", token, domain.ErrColumnCollision)
		}
		if taken[name] {
			return nil, fmt.Errorf("category %q: %w", name, domain.ErrColumnCollision)
		}
		taken[name] = true
		names[i] = name
	}
	return names, nil
}

// ColumnName strips every "-<digits>" run from a token, e.g. "aid_related-1" -> "aid_related".
func ColumnName(token string) string {
	return suffixExpr.ReplaceAllString(token, "")
}

// tokenValue maps the text after the first '-' to a bit. Only "0" yields 0;
// ok is false when the value is anything other than "0" or "1".
func tokenValue(token string) (int, bool) {
	parts := strings.Split(token, "-")
	if len(parts) < 2 {
		return 1, false
	}
	switch parts[1] {
	case "0":
		return 0, true
	case "1":
		return 1, true
	default:
		return 1, false
	}
}

func (c *Cleaner) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Cleaner) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
