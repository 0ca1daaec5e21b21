package colback

// Table is implemented by any columnar store a view can be built over:
// frame.Frame, arrowtable.Table, or a wrapper around another engine.
//
// Every column returned by a Table must hold exactly Height() cells. Views
// assume the table is not mutated while they are in use.
type Table interface {
	Height() int
	Column(name string) (Column, bool)
}

// Column is one named column of a Table.
type Column interface {
	Name() string
	DType() DType
	Len() int
}

// Typed is implemented by columns that can read their cells as T.
// Get reports false when the cell at idx is null.
type Typed[T any] interface {
	Column
	Get(idx int) (T, bool)
}
