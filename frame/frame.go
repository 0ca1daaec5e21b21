// Package frame is a small in-memory columnar table implementing
// colback.Table. Each column is one contiguous slice plus an optional
// validity slice.
package frame

import (
	"errors"
	"fmt"

	"github.com/go-mizu/colback"
)

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("frame: duplicate column")

	// ErrLengthMismatch is returned when columns differ in length.
	ErrLengthMismatch = errors.New("frame: column length mismatch")
)

// Frame is an immutable set of equally long, uniquely named columns.
type Frame struct {
	cols   []colback.Column
	index  map[string]int
	height int
}

var _ colback.Table = (*Frame)(nil)

// New builds a frame from cols in order.
func New(cols ...colback.Column) (*Frame, error) {
	f := &Frame{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := f.index[c.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name())
		}
		f.index[c.Name()] = i
		if i == 0 {
			f.height = c.Len()
		} else if c.Len() != f.height {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrLengthMismatch, c.Name(), c.Len(), f.height)
		}
	}
	return f, nil
}

// MustNew is like New but panics on error.
func MustNew(cols ...colback.Column) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Frame) Height() int { return f.height }

func (f *Frame) Column(name string) (colback.Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Columns returns the columns in order.
func (f *Frame) Columns() []colback.Column { return append([]colback.Column(nil), f.cols...) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name()
	}
	return out
}

// Drop returns a frame without the named column. Dropping an absent column
// returns f unchanged.
func (f *Frame) Drop(name string) *Frame {
	i, ok := f.index[name]
	if !ok {
		return f
	}
	cols := make([]colback.Column, 0, len(f.cols)-1)
	cols = append(cols, f.cols[:i]...)
	cols = append(cols, f.cols[i+1:]...)
	out, _ := New(cols...) // a subset of valid columns is valid
	if len(cols) == 0 {
		out.height = f.height
	}
	return out
}

// With returns a frame where c replaces the column of the same name, or is
// appended if there is none.
func (f *Frame) With(c colback.Column) (*Frame, error) {
	cols := append([]colback.Column(nil), f.cols...)
	if i, ok := f.index[c.Name()]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	return New(cols...)
}
