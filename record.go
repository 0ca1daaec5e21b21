package colback

import (
	"fmt"
	"iter"
	"reflect"
	"strings"
)

// Record is one materialized row of a RecordView. Values follow schema
// order; an optional field with a null cell holds nil.
type Record struct {
	names  []string // shared with the plan
	values []any
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// Names returns the field names in schema order.
func (r Record) Names() []string { return append([]string(nil), r.names...) }

// Values returns a copy of the field values in schema order.
func (r Record) Values() []any { return append([]any(nil), r.values...) }

// Value returns the value of the named field. ok is false if the schema has
// no such field.
func (r Record) Value(name string) (v any, ok bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the record as a name to value map.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.values))
	for i, n := range r.names {
		m[n] = r.values[i]
	}
	return m
}

func (r Record) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, n := range r.names {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", n, r.values[i])
	}
	sb.WriteByte('}')
	return sb.String()
}

// RecordView is a validated view of a table through an explicit schema,
// for rows that have no Go struct.
type RecordView struct {
	b     *binding
	names []string
}

// NewRecordView compiles s and binds it to t. To bind one schema to many
// tables, compile it once with CompileSchema and use Plan.RecordView.
func NewRecordView(s *RowSchema, t Table) (*RecordView, error) {
	p, err := CompileSchema(s)
	if err != nil {
		return nil, err
	}
	return p.RecordView(t)
}

// RecordView binds the plan to t.
func (p *Plan) RecordView(t Table) (*RecordView, error) {
	b, err := p.bind(t)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(p.fields))
	for i := range p.fields {
		names[i] = p.fields[i].spec.Name
	}
	return &RecordView{b: b, names: names}, nil
}

// Len returns the number of rows in the table.
func (v *RecordView) Len() int { return v.b.height }

// Table returns the table the view was built over.
func (v *RecordView) Table() Table { return v.b.table }

// Schema returns the validated schema behind the view.
func (v *RecordView) Schema() *RowSchema { return v.b.plan.schema }

// Get materializes row idx with the same rules as View.Get.
func (v *RecordView) Get(idx int) (Record, error) {
	if err := v.b.check(idx); err != nil {
		return Record{}, err
	}
	values := make([]any, len(v.b.fields))
	for i := range v.b.fields {
		f := &v.b.fields[i]
		dst := reflect.New(f.typ).Elem()
		if err := f.load(idx, dst); err != nil {
			return Record{}, err
		}
		if f.spec.Optional {
			if dst.IsNil() {
				continue
			}
			dst = dst.Elem()
		}
		values[i] = dst.Interface()
	}
	return Record{names: v.names, values: values}, nil
}

// Iter yields every record in index order. Each call starts from row 0.
func (v *RecordView) Iter() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for i := 0; i < v.b.height; i++ {
			if !yield(v.Get(i)) {
				return
			}
		}
	}
}

// Collect materializes every record and stops at the first error.
func (v *RecordView) Collect() ([]Record, error) {
	out := make([]Record, 0, v.b.height)
	for rec, err := range v.Iter() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
