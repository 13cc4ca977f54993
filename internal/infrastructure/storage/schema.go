package storage

import (
	"math"
	"strconv"

	"DisasterPipeline/internal/domain"
)

// ColumnType is the storage affinity inferred for a column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeInteger
	TypeReal
)

// InferTypes picks INTEGER when every non-null cell parses as an integer,
// REAL when every one parses as a finite float, TEXT otherwise. All-null
// columns are TEXT.
func InferTypes(table domain.Table) []ColumnType {
	types := make([]ColumnType, len(table.Columns))
	for col := range table.Columns {
		types[col] = inferColumn(table.Rows, col)
	}
	return types
}

func inferColumn(rows [][]domain.Cell, col int) ColumnType {
	candidate := TypeInteger
	values := 0
	for _, row := range rows {
		cell := row[col]
		if cell.Null {
			continue
		}
		values++
		if candidate == TypeInteger {
			if _, err := strconv.ParseInt(cell.Raw, 10, 64); err == nil {
				continue
			}
			candidate = TypeReal
		}
		if _, ok := parseFinite(cell.Raw); !ok {
			return TypeText
		}
	}
	if values == 0 {
		return TypeText
	}
	return candidate
}

// bindValue converts a cell to the driver value for its column type.
func bindValue(cell domain.Cell, typ ColumnType) interface{} {
	if cell.Null {
		return nil
	}
	switch typ {
	case TypeInteger:
		if v, err := strconv.ParseInt(cell.Raw, 10, 64); err == nil {
			return v
		}
	case TypeReal:
		if v, ok := parseFinite(cell.Raw); ok {
			return v
		}
	}
	return cell.Raw
}

// parseFinite rejects "nan" and "inf" spellings that ParseFloat accepts.
func parseFinite(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
