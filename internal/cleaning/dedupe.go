package cleaning

import (
	"strconv"
	"strings"

	"DisasterPipeline/internal/domain"
)

// Deduplicate keeps the first of every group of rows equal in all columns.
// Null cells compare equal to each other and unequal to any text.
func Deduplicate(table domain.Table) (domain.Table, int) {
	seen := make(map[string]struct{}, table.Len())
	out := domain.Table{Columns: table.Columns, Rows: make([][]domain.Cell, 0, table.Len())}

	var b strings.Builder
	for _, row := range table.Rows {
		b.Reset()
		for _, cell := range row {
			if cell.Null {
				b.WriteString("N;")
				continue
			}
			b.WriteString(strconv.Itoa(len(cell.Raw)))
			b.WriteByte(':')
			b.WriteString(cell.Raw)
		}

		key := b.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}

	return out, table.Len() - out.Len()
}
