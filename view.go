package colback

import (
	"iter"
	"reflect"

	"github.com/go-mizu/colback/internal/logging"
)

// binding is a plan checked against one table: every field holds a typed
// reader over its source column.
type binding struct {
	plan   *Plan
	table  Table
	height int
	fields []boundField
}

type boundField struct {
	*planField
	read cellReader
}

// bind validates t against the plan in schema order and stops at the first
// missing or mistyped column.
func (p *Plan) bind(t Table) (*binding, error) {
	b := &binding{plan: p, table: t, height: t.Height(), fields: make([]boundField, len(p.fields))}
	for i := range p.fields {
		pf := &p.fields[i]
		col, ok := t.Column(pf.column)
		if !ok {
			return nil, &MissingColumnError{Column: pf.column}
		}
		want := pf.mapping.Storage
		if got := col.DType(); got != want {
			return nil, &WrongDtypeError{Column: pf.column, Expected: want, Actual: got}
		}
		read, ok := pf.mapping.bind(col)
		if !ok {
			// The column claims the right dtype but cannot serve typed reads.
			return nil, &WrongDtypeError{Column: pf.column, Expected: want, Actual: col.DType()}
		}
		b.fields[i] = boundField{planField: pf, read: read}
	}
	logging.With("view").Debug("table bound", "schema", p.schema.Name, "rows", b.height, "fields", len(b.fields))
	return b, nil
}

func (b *binding) check(idx int) error {
	if idx < 0 || idx >= b.height {
		return &IndexError{Index: idx, Len: b.height}
	}
	return nil
}

// load materializes the field's cell at idx into dst under its null policy.
// dst must be the zero value of the field's destination type.
func (f *boundField) load(idx int, dst reflect.Value) error {
	switch f.spec.Null {
	case NullAsOptional:
		v := reflect.New(f.typ.Elem())
		if f.read(idx, v.Elem()) {
			dst.Set(v)
		}
	case NullDefault:
		if !f.read(idx, dst) {
			dst.Set(f.def)
		}
	default:
		if !f.read(idx, dst) {
			return &InvalidNullError{Column: f.column, Index: idx}
		}
	}
	return nil
}

// View is a validated, typed view of a table through the row struct T.
//
// A View holds the table and its typed column readers, never a copy of the
// data. It is immutable and safe for concurrent use as long as the table
// is not modified.
type View[T any] struct {
	b *binding
}

// NewView compiles T with the package-level compiler and binds it to t.
//
// T must be a struct. Each exported field reads the column named by its
// `colback:"name=..."` tag, or by the field name. Optional fields are
// pointers and must use null=option.
//
// Example:
//
//	type Trade struct {
//	    ID    uint32
//	    Price float64 `colback:"name=px"`
//	    Venue *string `colback:"null=option"`
//	    Qty   int64   `colback:"null=default,default=0"`
//	}
//
//	v, err := colback.NewView[Trade](table)
//	if err != nil {
//	    return err // *MissingColumnError, *WrongDtypeError or a definition error
//	}
//	for t, err := range v.Iter() {
//	    if errors.Is(err, colback.ErrInvalidNull) {
//	        continue
//	    }
//	    fmt.Println(t.ID, t.Price)
//	}
func NewView[T any](t Table) (*View[T], error) {
	return BuildView[T](getCompiler(), t)
}

// BuildView is like NewView but compiles T with c.
func BuildView[T any](c *Compiler, t Table) (*View[T], error) {
	p, err := c.Compile(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	b, err := p.bind(t)
	if err != nil {
		return nil, err
	}
	return &View[T]{b: b}, nil
}

// Len returns the number of rows in the table.
func (v *View[T]) Len() int { return v.b.height }

// Table returns the table the view was built over.
func (v *View[T]) Table() Table { return v.b.table }

// Schema returns the schema derived from T.
func (v *View[T]) Schema() *RowSchema { return v.b.plan.schema }

// Plan returns the compiled plan behind the view.
func (v *View[T]) Plan() *Plan { return v.b.plan }

// Get materializes row idx. Either every field is filled or an error is
// returned with the zero T; a null cell in a field with the error policy
// yields *InvalidNullError.
func (v *View[T]) Get(idx int) (T, error) {
	var zero T
	if err := v.b.check(idx); err != nil {
		return zero, err
	}
	var row T
	root := reflect.ValueOf(&row).Elem()
	for i := range v.b.fields {
		f := &v.b.fields[i]
		if err := f.load(idx, fieldByPathAlloc(root, f.path)); err != nil {
			return zero, err
		}
	}
	return row, nil
}

// Iter yields every row in index order with its error. Each call starts a
// new pass from row 0.
func (v *View[T]) Iter() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for i := 0; i < v.b.height; i++ {
			if !yield(v.Get(i)) {
				return
			}
		}
	}
}

// Collect materializes every row into a slice and stops at the first error.
func (v *View[T]) Collect() ([]T, error) {
	out := make([]T, 0, v.b.height)
	for row, err := range v.Iter() {
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
