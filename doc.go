/*
Package colback gives column-backed tables a typed, row-shaped face. You
declare a row as a Go struct (or an explicit RowSchema); colback validates the
declaration once, checks a table against it once, and then reads rows
straight out of the table's columns.

# Overview

A table is anything implementing Table: named columns of a fixed storage
type (DType), all of the same height, readable cell by cell through Typed[T].
The frame package provides an in-memory table and loads database/sql result
sets; the arrowtable package adapts Apache Arrow records.

	type Row struct {
	    A uint32 `colback:"name=row_a"`
	    B bool   `colback:"name=row_b"`
	    C *uint16 `colback:"name=row_c,null=option"`
	}

	v, err := colback.NewView[Row](table)
	row, err := v.Get(0)

# Declaring fields

  - Exported fields are schema fields in declaration order; anonymous
    embedded structs are flattened; `colback:"-"` skips a field.
  - `name=<column>` reads another column than the field name.
  - `null=error` (default) fails Get with *InvalidNullError on a null cell.
  - `null=option` requires a pointer field; null cells leave it nil.
  - `null=default` with `default=<literal>` substitutes the literal. The
    literal must be the last option and may contain commas. A literal that
    does not fit the field's type exactly is rejected, never rounded.
  - Supported field kinds are fixed width integers, float32, float64, bool
    and string, including named types over them. int, uint, slices, maps
    and nested structs are rejected, as is an embedded pointer to an
    unexported struct.

# When errors happen

Declaration problems (unsupported types, a pointer field without
null=option, null=default without a default) are found when the row type is
compiled, before any table is seen; Register reports them at startup. They
match ErrDefinition, and all problems of a type are reported together.

NewView stops at the first schema field whose column is missing
(*MissingColumnError) or has a different dtype (*WrongDtypeError). No
conversion between dtypes is ever attempted.

Get and Iter report *InvalidNullError per row; other rows are unaffected.
Get is atomic: it returns a fully populated row or the zero row and an error.

# Performance

Plans are compiled once per row type and cached in a concurrency-safe map.
A view binds a typed reader to each column once; Get does one read per field
and no per-row validation. String fields share the table's string data.

# Concurrency

Views and plans are immutable. Any number of goroutines may call Get and
Iter on one view, and build views over one table, as long as nobody mutates
the table.
*/
package colback
