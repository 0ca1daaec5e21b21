package frame

import "github.com/go-mizu/colback"

// Element is a Go type a Series can hold.
type Element interface {
	uint8 | uint16 | uint32 | uint64 |
		int8 | int16 | int32 | int64 |
		float32 | float64 | bool | string
}

// Series is one named, typed column. A nil validity slice means every cell
// is present.
type Series[T Element] struct {
	name   string
	dtype  colback.DType
	values []T
	valid  []bool
}

// NewSeries returns a series over values. valid must be nil or as long as
// values; valid[i] == false marks cell i null. The slices are not copied.
func NewSeries[T Element](name string, values []T, valid []bool) *Series[T] {
	if valid != nil && len(valid) != len(values) {
		panic("frame: validity length differs from values length")
	}
	return &Series[T]{name: name, dtype: dtypeOf[T](), values: values, valid: valid}
}

// Of returns a series with no nulls.
func Of[T Element](name string, values ...T) *Series[T] {
	return NewSeries(name, values, nil)
}

// OfNullable returns a series where nil entries are null cells.
func OfNullable[T Element](name string, values ...*T) *Series[T] {
	vals := make([]T, len(values))
	valid := make([]bool, len(values))
	for i, p := range values {
		if p != nil {
			vals[i] = *p
			valid[i] = true
		}
	}
	return NewSeries(name, vals, valid)
}

func (s *Series[T]) Name() string         { return s.name }
func (s *Series[T]) DType() colback.DType { return s.dtype }
func (s *Series[T]) Len() int             { return len(s.values) }

// Get returns cell idx and false if it is null.
func (s *Series[T]) Get(idx int) (T, bool) {
	if s.valid != nil && !s.valid[idx] {
		var zero T
		return zero, false
	}
	return s.values[idx], true
}

// NullCount returns the number of null cells.
func (s *Series[T]) NullCount() int {
	n := 0
	for _, ok := range s.valid {
		if !ok {
			n++
		}
	}
	return n
}

// Rename returns a series sharing s's data under a new name.
func (s *Series[T]) Rename(name string) *Series[T] {
	cp := *s
	cp.name = name
	return &cp
}

func dtypeOf[T Element]() colback.DType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return colback.DTypeUInt8
	case uint16:
		return colback.DTypeUInt16
	case uint32:
		return colback.DTypeUInt32
	case uint64:
		return colback.DTypeUInt64
	case int8:
		return colback.DTypeInt8
	case int16:
		return colback.DTypeInt16
	case int32:
		return colback.DTypeInt32
	case int64:
		return colback.DTypeInt64
	case float32:
		return colback.DTypeFloat32
	case float64:
		return colback.DTypeFloat64
	case bool:
		return colback.DTypeBool
	case string:
		return colback.DTypeString
	}
	return colback.DTypeOther
}

// NullColumn is a column of a single null dtype, as produced for a result
// set column that held no values.
type NullColumn struct {
	name string
	n    int
}

// Nulls returns a column of n null cells.
func Nulls(name string, n int) *NullColumn { return &NullColumn{name: name, n: n} }

func (c *NullColumn) Name() string         { return c.name }
func (c *NullColumn) DType() colback.DType { return colback.DTypeNull }
func (c *NullColumn) Len() int             { return c.n }
