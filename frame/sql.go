package frame

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-mizu/colback"
)

// Querier is implemented by *sql.DB, *sql.Tx, *sql.Conn, and any wrapper
// that can execute a query returning rows.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Query executes the SQL query and loads the whole result set into a frame,
// one column per result column.
//
// Column dtypes are inferred from the driver values: int64 → i64,
// float64 → f64, bool → bool, string or []byte → str. A column with only
// NULLs becomes a null column. Other driver types are rejected.
//
// Example:
//
//	f, err := frame.Query(ctx, db, `SELECT id, name FROM users`)
//	if err != nil {
//	    return err
//	}
//	v, err := colback.NewView[User](f)
func Query(ctx context.Context, q Querier, query string, args ...any) (out *Frame, err error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	// Propagate rows.Close() error if nothing else failed.
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			out, err = nil, cerr
		}
	}()
	return FromRows(rows)
}

// FromRows drains rows into a frame. It does not close rows.
func FromRows(rows *sql.Rows) (*Frame, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cells := make([][]any, len(names))
	dest := make([]any, len(names))
	vals := make([]any, len(names))
	for i := range dest {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		for i := range vals {
			vals[i] = nil
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			cells[i] = append(cells[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cols := make([]colback.Column, len(names))
	for i, name := range names {
		c, err := buildColumn(name, cells[i])
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return New(cols...)
}

func buildColumn(name string, cells []any) (colback.Column, error) {
	var first any
	for _, v := range cells {
		if v != nil {
			first = v
			break
		}
	}
	switch first.(type) {
	case nil:
		return Nulls(name, len(cells)), nil
	case int64:
		return collect[int64](name, cells, func(v any) (int64, bool) { x, ok := v.(int64); return x, ok })
	case float64:
		return collect[float64](name, cells, func(v any) (float64, bool) { x, ok := v.(float64); return x, ok })
	case bool:
		return collect[bool](name, cells, func(v any) (bool, bool) { x, ok := v.(bool); return x, ok })
	case string, []byte:
		return collect[string](name, cells, func(v any) (string, bool) {
			switch x := v.(type) {
			case string:
				return x, true
			case []byte:
				return string(x), true
			}
			return "", false
		})
	}
	return nil, fmt.Errorf("frame: column %q: unsupported driver type %T", name, first)
}

func collect[T Element](name string, cells []any, conv func(any) (T, bool)) (colback.Column, error) {
	values := make([]T, len(cells))
	var valid []bool
	for i, v := range cells {
		if v == nil {
			if valid == nil {
				valid = make([]bool, len(cells))
				for j := 0; j < i; j++ {
					valid[j] = true
				}
			}
			continue
		}
		x, ok := conv(v)
		if !ok {
			return nil, fmt.Errorf("frame: column %q: row %d holds %T, earlier rows hold %T", name, i, v, values[0])
		}
		values[i] = x
		if valid != nil {
			valid[i] = true
		}
	}
	return NewSeries(name, values, valid), nil
}
