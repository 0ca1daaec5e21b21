package colback

import (
	"errors"
	"fmt"
)

var (
	// ErrDefinition matches every *DefinitionError. A schema that fails
	// definition checks can never produce a view.
	ErrDefinition = errors.New("colback: invalid schema definition")

	// ErrMissingColumn matches *MissingColumnError.
	ErrMissingColumn = errors.New("colback: missing column")

	// ErrWrongDtype matches *WrongDtypeError.
	ErrWrongDtype = errors.New("colback: wrong column dtype")

	// ErrInvalidNull matches *InvalidNullError.
	ErrInvalidNull = errors.New("colback: null in non-nullable column")

	// ErrOutOfRange matches *IndexError.
	ErrOutOfRange = errors.New("colback: row index out of range")
)

// DefinitionKind classifies a schema definition failure.
type DefinitionKind uint8

const (
	UnsupportedType   DefinitionKind = iota + 1 // primitive not in the catalog
	PolicyMismatch                              // null=option without an optional type, or the reverse
	MissingDefault                              // null=default without a default value
	UnexpectedDefault                           // default value with a policy other than null=default
	BadDefault                                  // default value not convertible to the field type
	UnnamedFields                               // row type is not a struct with named fields
	DuplicateField                              // two fields share a name
	EmptyName                                   // field without a name
	BadOption                                   // unknown tag option or null policy
)

func (k DefinitionKind) String() string {
	switch k {
	case UnsupportedType:
		return "unsupported type"
	case PolicyMismatch:
		return "null policy mismatch"
	case MissingDefault:
		return "missing default"
	case UnexpectedDefault:
		return "unexpected default"
	case BadDefault:
		return "bad default"
	case UnnamedFields:
		return "unnamed fields"
	case DuplicateField:
		return "duplicate field"
	case EmptyName:
		return "empty field name"
	case BadOption:
		return "bad option"
	}
	return "unknown"
}

// DefinitionError reports a schema that was rejected before any table was
// looked at.
type DefinitionError struct {
	Schema string
	Field  string // empty for schema-level failures
	Kind   DefinitionKind
	Detail string
}

func (e *DefinitionError) Error() string {
	var where string
	switch {
	case e.Schema != "" && e.Field != "":
		where = e.Schema + "." + e.Field
	case e.Field != "":
		where = e.Field
	default:
		where = e.Schema
	}
	msg := "colback: " + e.Kind.String()
	if where != "" {
		msg += " in " + where
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DefinitionError) Is(target error) bool { return target == ErrDefinition }

// MissingColumnError is returned when a table lacks a source column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("colback: missing required column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// WrongDtypeError is returned when a column's storage type differs from the
// one its field declares. No conversion is attempted.
type WrongDtypeError struct {
	Column   string
	Expected DType
	Actual   DType
}

func (e *WrongDtypeError) Error() string {
	return fmt.Sprintf("colback: column %q has wrong dtype: expected %s, got %s", e.Column, e.Expected, e.Actual)
}

func (e *WrongDtypeError) Is(target error) bool { return target == ErrWrongDtype }

// InvalidNullError is returned by Get for a null cell in a field whose null
// policy is error.
type InvalidNullError struct {
	Column string
	Index  int
}

func (e *InvalidNullError) Error() string {
	return fmt.Sprintf("colback: null value in non-nullable column %q at row %d", e.Column, e.Index)
}

func (e *InvalidNullError) Is(target error) bool { return target == ErrInvalidNull }

// IndexError is returned by Get for an index outside [0, Len()).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("colback: row index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool { return target == ErrOutOfRange }
