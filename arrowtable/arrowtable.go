// Package arrowtable exposes an Apache Arrow record as a colback.Table.
//
// Primitive and string arrays are read in place: string cells returned by a
// view point into the record's buffers, so keep the Table (and its record)
// alive for as long as any row that holds them.
package arrowtable

import (
	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"

	"github.com/go-mizu/colback"
)

// Table wraps one arrow.Record.
type Table struct {
	rec   arrow.Record
	cols  []colback.Column
	index map[string]int
}

var _ colback.Table = (*Table)(nil)

// New retains rec and returns a table over it. Call Release when done.
// If the record has several columns with the same name, the first wins.
func New(rec arrow.Record) *Table {
	rec.Retain()
	n := int(rec.NumCols())
	t := &Table{rec: rec, cols: make([]colback.Column, n), index: make(map[string]int, n)}
	for i := 0; i < n; i++ {
		name := rec.ColumnName(i)
		t.cols[i] = newColumn(name, rec.Column(i))
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t
}

// Release releases the record retained by New.
func (t *Table) Release() { t.rec.Release() }

// Record returns the wrapped record.
func (t *Table) Record() arrow.Record { return t.rec }

func (t *Table) Height() int { return int(t.rec.NumRows()) }

func (t *Table) Column(name string) (colback.Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// DType maps an arrow type onto colback's storage types.
func DType(dt arrow.DataType) colback.DType {
	switch dt.ID() {
	case arrow.NULL:
		return colback.DTypeNull
	case arrow.BOOL:
		return colback.DTypeBool
	case arrow.UINT8:
		return colback.DTypeUInt8
	case arrow.UINT16:
		return colback.DTypeUInt16
	case arrow.UINT32:
		return colback.DTypeUInt32
	case arrow.UINT64:
		return colback.DTypeUInt64
	case arrow.INT8:
		return colback.DTypeInt8
	case arrow.INT16:
		return colback.DTypeInt16
	case arrow.INT32:
		return colback.DTypeInt32
	case arrow.INT64:
		return colback.DTypeInt64
	case arrow.FLOAT16:
		return colback.DTypeFloat16
	case arrow.FLOAT32:
		return colback.DTypeFloat32
	case arrow.FLOAT64:
		return colback.DTypeFloat64
	case arrow.STRING:
		return colback.DTypeString
	case arrow.LARGE_STRING:
		return colback.DTypeLargeString
	case arrow.BINARY:
		return colback.DTypeBinary
	case arrow.DATE32:
		return colback.DTypeDate32
	case arrow.DATE64:
		return colback.DTypeDate64
	case arrow.TIMESTAMP:
		return colback.DTypeTimestamp
	}
	return colback.DTypeOther
}

// valuer is implemented by arrow's typed arrays (*array.Uint32, *array.String, ...).
type valuer[T any] interface {
	arrow.Array
	Value(i int) T
}

type typedColumn[T any] struct {
	name string
	arr  valuer[T]
}

func (c *typedColumn[T]) Name() string         { return c.name }
func (c *typedColumn[T]) DType() colback.DType { return DType(c.arr.DataType()) }
func (c *typedColumn[T]) Len() int             { return c.arr.Len() }

func (c *typedColumn[T]) Get(idx int) (T, bool) {
	if c.arr.IsNull(idx) {
		var zero T
		return zero, false
	}
	return c.arr.Value(idx), true
}

// rawColumn is an array colback cannot read; it still reports its dtype.
type rawColumn struct {
	name string
	arr  arrow.Array
}

func (c *rawColumn) Name() string         { return c.name }
func (c *rawColumn) DType() colback.DType { return DType(c.arr.DataType()) }
func (c *rawColumn) Len() int             { return c.arr.Len() }

func typed[T any](name string, a valuer[T]) colback.Column {
	return &typedColumn[T]{name: name, arr: a}
}

func newColumn(name string, a arrow.Array) colback.Column {
	switch aa := a.(type) {
	case *array.Boolean:
		return typed[bool](name, aa)
	case *array.Uint8:
		return typed[uint8](name, aa)
	case *array.Uint16:
		return typed[uint16](name, aa)
	case *array.Uint32:
		return typed[uint32](name, aa)
	case *array.Uint64:
		return typed[uint64](name, aa)
	case *array.Int8:
		return typed[int8](name, aa)
	case *array.Int16:
		return typed[int16](name, aa)
	case *array.Int32:
		return typed[int32](name, aa)
	case *array.Int64:
		return typed[int64](name, aa)
	case *array.Float32:
		return typed[float32](name, aa)
	case *array.Float64:
		return typed[float64](name, aa)
	case *array.String:
		return typed[string](name, aa)
	}
	return &rawColumn{name: name, arr: a}
}
