package frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-mizu/colback"
)

func TestSeries(t *testing.T) {
	seven := uint16(7)
	s := OfNullable[uint16]("c", nil, &seven)
	require.Equal(t, "c", s.Name())
	require.Equal(t, colback.DTypeUInt16, s.DType())
	require.Equal(t, 2, s.Len())
	require.Equal(t, 1, s.NullCount())

	_, ok := s.Get(0)
	require.False(t, ok)
	v, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, uint16(7), v)

	r := s.Rename("d")
	require.Equal(t, "d", r.Name())
	require.Equal(t, "c", s.Name())

	var _ colback.Typed[uint16] = s
}

func TestSeriesDTypes(t *testing.T) {
	cols := map[colback.DType]colback.Column{
		colback.DTypeUInt8:   Of[uint8]("x"),
		colback.DTypeUInt16:  Of[uint16]("x"),
		colback.DTypeUInt32:  Of[uint32]("x"),
		colback.DTypeUInt64:  Of[uint64]("x"),
		colback.DTypeInt8:    Of[int8]("x"),
		colback.DTypeInt16:   Of[int16]("x"),
		colback.DTypeInt32:   Of[int32]("x"),
		colback.DTypeInt64:   Of[int64]("x"),
		colback.DTypeFloat32: Of[float32]("x"),
		colback.DTypeFloat64: Of[float64]("x"),
		colback.DTypeBool:    Of[bool]("x"),
		colback.DTypeString:  Of[string]("x"),
		colback.DTypeNull:    Nulls("x", 0),
	}
	for want, c := range cols {
		require.Equal(t, want, c.DType())
	}
}

func TestNewSeriesValidityLength(t *testing.T) {
	require.Panics(t, func() { NewSeries("x", []int32{1, 2}, []bool{true}) })
}

func TestFrame(t *testing.T) {
	f, err := New(Of[uint32]("a", 1, 2), Of("b", "x", "y"))
	require.NoError(t, err)
	require.Equal(t, 2, f.Height())
	require.Equal(t, []string{"a", "b"}, f.Names())
	require.Len(t, f.Columns(), 2)

	c, ok := f.Column("b")
	require.True(t, ok)
	require.Equal(t, colback.DTypeString, c.DType())
	_, ok = f.Column("z")
	require.False(t, ok)
}

func TestFrameErrors(t *testing.T) {
	_, err := New(Of[uint32]("a", 1), Of[uint32]("a", 2))
	require.ErrorIs(t, err, ErrDuplicateColumn)

	_, err = New(Of[uint32]("a", 1), Of[uint32]("b", 2, 3))
	require.ErrorIs(t, err, ErrLengthMismatch)

	require.Panics(t, func() { MustNew(Of[uint32]("a", 1), Of[uint32]("a", 2)) })
}

func TestFrameDropAndWith(t *testing.T) {
	f := MustNew(Of[uint32]("a", 1, 2), Of("b", true, false))

	d := f.Drop("a")
	require.Equal(t, []string{"b"}, d.Names())
	require.Equal(t, []string{"a", "b"}, f.Names(), "original untouched")
	require.Same(t, f, f.Drop("missing"))

	empty := d.Drop("b")
	require.Empty(t, empty.Names())
	require.Equal(t, 2, empty.Height())

	w, err := f.With(Of[int64]("a", 3, 4))
	require.NoError(t, err)
	c, _ := w.Column("a")
	require.Equal(t, colback.DTypeInt64, c.DType())
	require.Equal(t, []string{"a", "b"}, w.Names())

	w, err = f.With(Of[float32]("c", 1, 2))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, w.Names())

	_, err = f.With(Of[float32]("c", 1))
	require.ErrorIs(t, err, ErrLengthMismatch)
}
