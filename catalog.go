package colback

import (
	"reflect"
	"strings"
)

// Primitive is a field type a schema may declare.
type Primitive uint8

const (
	invalidPrimitive Primitive = iota
	Uint8
	Uint16
	Uint32
	Uint64
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Bool
	String
)

func (p Primitive) String() string {
	if m, ok := LookupType(p); ok {
		return m.RowType.String()
	}
	return "invalid"
}

// AccessorKind names the typed accessor a view uses to read a column.
type AccessorKind uint8

const (
	AccessUint AccessorKind = iota + 1
	AccessInt
	AccessFloat
	AccessBool
	AccessString
)

func (a AccessorKind) String() string {
	switch a {
	case AccessUint:
		return "uint"
	case AccessInt:
		return "int"
	case AccessFloat:
		return "float"
	case AccessBool:
		return "bool"
	case AccessString:
		return "string"
	}
	return "none"
}

// TypeMapping describes how a primitive is stored in a table and read back.
type TypeMapping struct {
	Primitive Primitive
	Storage   DType        // column storage type a field of this primitive requires
	Accessor  AccessorKind // typed accessor used to read cells
	RowType   reflect.Type // Go type of the materialized value

	bind func(Column) (cellReader, bool)
}

// cellReader writes the cell at idx into dst and reports false for a null cell.
// dst must be settable and of the mapping's kind.
type cellReader func(idx int, dst reflect.Value) bool

var catalog = [...]TypeMapping{
	Uint8:   {Uint8, DTypeUInt8, AccessUint, reflect.TypeFor[uint8](), bindUint[uint8]},
	Uint16:  {Uint16, DTypeUInt16, AccessUint, reflect.TypeFor[uint16](), bindUint[uint16]},
	Uint32:  {Uint32, DTypeUInt32, AccessUint, reflect.TypeFor[uint32](), bindUint[uint32]},
	Uint64:  {Uint64, DTypeUInt64, AccessUint, reflect.TypeFor[uint64](), bindUint[uint64]},
	Int8:    {Int8, DTypeInt8, AccessInt, reflect.TypeFor[int8](), bindInt[int8]},
	Int16:   {Int16, DTypeInt16, AccessInt, reflect.TypeFor[int16](), bindInt[int16]},
	Int32:   {Int32, DTypeInt32, AccessInt, reflect.TypeFor[int32](), bindInt[int32]},
	Int64:   {Int64, DTypeInt64, AccessInt, reflect.TypeFor[int64](), bindInt[int64]},
	Float32: {Float32, DTypeFloat32, AccessFloat, reflect.TypeFor[float32](), bindFloat[float32]},
	Float64: {Float64, DTypeFloat64, AccessFloat, reflect.TypeFor[float64](), bindFloat[float64]},
	Bool:    {Bool, DTypeBool, AccessBool, reflect.TypeFor[bool](), bindBool},
	String:  {String, DTypeString, AccessString, reflect.TypeFor[string](), bindString},
}

// LookupType returns the catalog entry for p.
func LookupType(p Primitive) (TypeMapping, bool) {
	if p == invalidPrimitive || int(p) >= len(catalog) {
		return TypeMapping{}, false
	}
	return catalog[p], true
}

var kindPrimitives = map[reflect.Kind]Primitive{
	reflect.Uint8:   Uint8,
	reflect.Uint16:  Uint16,
	reflect.Uint32:  Uint32,
	reflect.Uint64:  Uint64,
	reflect.Int8:    Int8,
	reflect.Int16:   Int16,
	reflect.Int32:   Int32,
	reflect.Int64:   Int64,
	reflect.Float32: Float32,
	reflect.Float64: Float64,
	reflect.Bool:    Bool,
	reflect.String:  String,
}

// LookupKind returns the catalog entry for a Go kind. Platform sized kinds
// (int, uint, uintptr) have no fixed column width and are not in the catalog.
func LookupKind(k reflect.Kind) (TypeMapping, bool) {
	p, ok := kindPrimitives[k]
	if !ok {
		return TypeMapping{}, false
	}
	return LookupType(p)
}

var primitiveNames = map[string]Primitive{
	"u8": Uint8, "uint8": Uint8,
	"u16": Uint16, "uint16": Uint16,
	"u32": Uint32, "uint32": Uint32,
	"u64": Uint64, "uint64": Uint64,
	"i8": Int8, "int8": Int8,
	"i16": Int16, "int16": Int16,
	"i32": Int32, "int32": Int32,
	"i64": Int64, "int64": Int64,
	"f32": Float32, "float32": Float32,
	"f64": Float64, "float64": Float64,
	"bool": Bool, "boolean": Bool,
	"str": String, "string": String,
}

// ParsePrimitive parses a type name such as "u32", "uint32" or "string".
func ParsePrimitive(s string) (Primitive, bool) {
	p, ok := primitiveNames[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// ---------------- Typed accessors ----------------

func bindUint[T uint8 | uint16 | uint32 | uint64](c Column) (cellReader, bool) {
	tc, ok := c.(Typed[T])
	if !ok {
		return nil, false
	}
	return func(idx int, dst reflect.Value) bool {
		v, ok := tc.Get(idx)
		if ok {
			dst.SetUint(uint64(v))
		}
		return ok
	}, true
}

func bindInt[T int8 | int16 | int32 | int64](c Column) (cellReader, bool) {
	tc, ok := c.(Typed[T])
	if !ok {
		return nil, false
	}
	return func(idx int, dst reflect.Value) bool {
		v, ok := tc.Get(idx)
		if ok {
			dst.SetInt(int64(v))
		}
		return ok
	}, true
}

func bindFloat[T float32 | float64](c Column) (cellReader, bool) {
	tc, ok := c.(Typed[T])
	if !ok {
		return nil, false
	}
	return func(idx int, dst reflect.Value) bool {
		v, ok := tc.Get(idx)
		if ok {
			dst.SetFloat(float64(v))
		}
		return ok
	}, true
}

func bindBool(c Column) (cellReader, bool) {
	tc, ok := c.(Typed[bool])
	if !ok {
		return nil, false
	}
	return func(idx int, dst reflect.Value) bool {
		v, ok := tc.Get(idx)
		if ok {
			dst.SetBool(v)
		}
		return ok
	}, true
}

// bindString hands out the column's own string; no bytes are copied.
func bindString(c Column) (cellReader, bool) {
	tc, ok := c.(Typed[string])
	if !ok {
		return nil, false
	}
	return func(idx int, dst reflect.Value) bool {
		v, ok := tc.Get(idx)
		if ok {
			dst.SetString(v)
		}
		return ok
	}, true
}
