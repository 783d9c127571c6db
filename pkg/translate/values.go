package translate

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// RowValues extracts the scalar values of one output row, positionally
// aligned with the row's schema. Null slots come back as nil. Row index 0 is
// used; translated records always hold exactly one row.
func RowValues(rec arrow.Record) ([]interface{}, error) {
	if rec.NumRows() != 1 {
		return nil, fmt.Errorf("expected a single-row record, got %d rows", rec.NumRows())
	}

	values := make([]interface{}, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		col := rec.Column(i)
		if col.IsNull(0) {
			continue
		}
		switch a := col.(type) {
		case *array.String:
			values[i] = a.Value(0)
		case *array.Float32:
			values[i] = a.Value(0)
		case *array.Float64:
			values[i] = a.Value(0)
		case *array.Int32:
			values[i] = a.Value(0)
		case *array.Int64:
			values[i] = a.Value(0)
		case *array.Boolean:
			values[i] = a.Value(0)
		case *array.Binary:
			values[i] = a.Value(0)
		default:
			return nil, fmt.Errorf("column %d has unsupported type %s", i, col.DataType())
		}
	}
	return values, nil
}

// RowMap extracts one output row as a field name to value mapping, for JSON
// rendering in the service and CLI shells.
func RowMap(rec arrow.Record) (map[string]interface{}, error) {
	values, err := RowValues(rec)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(values))
	for i, f := range rec.Schema().Fields() {
		out[f.Name] = values[i]
	}
	return out, nil
}
