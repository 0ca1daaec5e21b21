package colback

import "strconv"

// DType is the storage type a table column reports for its data.
//
// Only the types referenced by the catalog can back a view field. The others
// exist so a mismatch can name the column's true type.
type DType uint8

const (
	DTypeNull DType = iota
	DTypeBool
	DTypeUInt8
	DTypeUInt16
	DTypeUInt32
	DTypeUInt64
	DTypeInt8
	DTypeInt16
	DTypeInt32
	DTypeInt64
	DTypeFloat16
	DTypeFloat32
	DTypeFloat64
	DTypeString
	DTypeLargeString
	DTypeBinary
	DTypeDate32
	DTypeDate64
	DTypeTimestamp
	DTypeOther
)

var dtypeNames = [...]string{
	DTypeNull:        "null",
	DTypeBool:        "bool",
	DTypeUInt8:       "u8",
	DTypeUInt16:      "u16",
	DTypeUInt32:      "u32",
	DTypeUInt64:      "u64",
	DTypeInt8:        "i8",
	DTypeInt16:       "i16",
	DTypeInt32:       "i32",
	DTypeInt64:       "i64",
	DTypeFloat16:     "f16",
	DTypeFloat32:     "f32",
	DTypeFloat64:     "f64",
	DTypeString:      "str",
	DTypeLargeString: "large_str",
	DTypeBinary:      "binary",
	DTypeDate32:      "date32",
	DTypeDate64:      "date64",
	DTypeTimestamp:   "timestamp",
	DTypeOther:       "other",
}

func (d DType) String() string {
	if int(d) < len(dtypeNames) {
		return dtypeNames[d]
	}
	return "dtype(" + strconv.Itoa(int(d)) + ")"
}
