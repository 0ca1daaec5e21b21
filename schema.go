package colback

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// NullPolicy decides what a null cell becomes when a row is materialized.
type NullPolicy uint8

const (
	NullError      NullPolicy = iota // Get fails with *InvalidNullError
	NullAsOptional                   // the field is optional and holds no value
	NullDefault                      // the field's default value is used
)

func (p NullPolicy) String() string {
	switch p {
	case NullError:
		return "error"
	case NullAsOptional:
		return "option"
	case NullDefault:
		return "default"
	}
	return fmt.Sprintf("NullPolicy(%d)", uint8(p))
}

// ParseNullPolicy parses "error", "option" or "default". The empty string
// is the default policy, error.
func ParseNullPolicy(s string) (NullPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return NullError, nil
	case "option":
		return NullAsOptional, nil
	case "default":
		return NullDefault, nil
	}
	return 0, fmt.Errorf("colback: unknown null policy %q (want error, option or default)", s)
}

// FieldSpec declares one field of a row schema.
type FieldSpec struct {
	Name     string
	Type     Primitive
	Optional bool   // declared type is an optional Type
	Column   string // source column; empty means Name
	Null     NullPolicy
	Default  any // used for null cells; set iff Null is NullDefault
}

// SourceColumn returns the column the field reads from.
func (f FieldSpec) SourceColumn() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// RowSchema is an ordered set of fields describing one row type.
type RowSchema struct {
	Name   string
	Fields []FieldSpec
}

// NewRowSchema returns a schema with the given fields in order.
func NewRowSchema(name string, fields ...FieldSpec) *RowSchema {
	return &RowSchema{Name: name, Fields: fields}
}

// FieldOption customizes a FieldSpec built by Field.
type FieldOption func(*FieldSpec)

// Field declares a field named name of type p with the error null policy.
func Field(name string, p Primitive, opts ...FieldOption) FieldSpec {
	f := FieldSpec{Name: name, Type: p}
	for _, o := range opts {
		o(&f)
	}
	return f
}

// FromColumn reads the field from column instead of the field's name.
func FromColumn(column string) FieldOption {
	return func(f *FieldSpec) { f.Column = column }
}

// Nullable makes the field optional; null cells yield no value.
func Nullable() FieldOption {
	return func(f *FieldSpec) {
		f.Optional = true
		f.Null = NullAsOptional
	}
}

// WithDefault replaces null cells with v.
func WithDefault(v any) FieldOption {
	return func(f *FieldSpec) {
		f.Null = NullDefault
		f.Default = v
	}
}

// Validate checks every field of the schema independently and returns all
// failures joined. Each failure is a *DefinitionError.
func (s *RowSchema) Validate() error {
	_, err := s.resolve()
	return err
}

// resolvedField is a validated field with its catalog entry and converted
// default value.
type resolvedField struct {
	spec    FieldSpec
	mapping TypeMapping
	def     reflect.Value // zero Value unless spec.Null == NullDefault
}

func (s *RowSchema) resolve() ([]resolvedField, error) {
	var errs []error
	out := make([]resolvedField, 0, len(s.Fields))
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		rf, ferrs := s.resolveField(f, seen)
		errs = append(errs, ferrs...)
		out = append(out, rf)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (s *RowSchema) resolveField(f FieldSpec, seen map[string]struct{}) (resolvedField, []error) {
	var errs []error
	fail := func(kind DefinitionKind, format string, args ...any) {
		errs = append(errs, &DefinitionError{
			Schema: s.Name,
			Field:  f.Name,
			Kind:   kind,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	if f.Name == "" {
		fail(EmptyName, "field has no name")
	} else if _, dup := seen[f.Name]; dup {
		fail(DuplicateField, "field %q declared more than once", f.Name)
	} else {
		seen[f.Name] = struct{}{}
	}

	m, ok := LookupType(f.Type)
	if !ok {
		fail(UnsupportedType, "type %s has no column mapping", f.Type)
	}

	switch f.Null {
	case NullError, NullAsOptional, NullDefault:
	default:
		fail(BadOption, "unknown null policy %s", f.Null)
	}
	if f.Null == NullAsOptional && !f.Optional {
		fail(PolicyMismatch, "null=option requires an optional field type")
	}
	if f.Optional && f.Null != NullAsOptional {
		fail(PolicyMismatch, "optional fields must use null=option, got null=%s", f.Null)
	}
	if f.Null == NullDefault && f.Default == nil {
		fail(MissingDefault, "null=default requires a default value")
	}
	if f.Default != nil && f.Null != NullDefault {
		fail(UnexpectedDefault, "default value set with null=%s", f.Null)
	}

	rf := resolvedField{spec: f, mapping: m}
	if ok && f.Null == NullDefault && f.Default != nil {
		def, err := convertDefault(m, f.Default)
		if err != nil {
			fail(BadDefault, "%v", err)
		}
		rf.def = def
	}
	return rf, errs
}

// convertDefault converts a default literal to the mapping's row type,
// rejecting values that do not fit or would change under conversion.
func convertDefault(m TypeMapping, v any) (reflect.Value, error) {
	if err := checkLiteral(m, v); err != nil {
		return reflect.Value{}, err
	}
	rv := reflect.New(m.RowType).Elem()
	switch m.Accessor {
	case AccessUint:
		u, err := cast.ToUint64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if rv.OverflowUint(u) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", u, m.RowType)
		}
		rv.SetUint(u)
	case AccessInt:
		i, err := cast.ToInt64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if rv.OverflowInt(i) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", i, m.RowType)
		}
		rv.SetInt(i)
	case AccessFloat:
		x, err := cast.ToFloat64E(v)
		if err != nil {
			return reflect.Value{}, err
		}
		if rv.OverflowFloat(x) {
			return reflect.Value{}, fmt.Errorf("%g overflows %s", x, m.RowType)
		}
		rv.SetFloat(x)
	case AccessBool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetBool(b)
	case AccessString:
		str, err := cast.ToStringE(v)
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetString(str)
	default:
		return reflect.Value{}, fmt.Errorf("no conversion for %s", m.RowType)
	}
	return rv, nil
}

// checkLiteral rejects literals whose kind cast would silently coerce:
// fractional numbers for integers, anything but true/false for bools and
// non-strings for strings. String literals from tags and config files are
// left to cast to parse.
func checkLiteral(m TypeMapping, v any) error {
	lit := reflect.ValueOf(v)
	switch m.Accessor {
	case AccessUint, AccessInt:
		switch lit.Kind() {
		case reflect.Float32, reflect.Float64:
			if f := lit.Float(); math.IsInf(f, 0) || f != math.Trunc(f) {
				return fmt.Errorf("%v is not an integer", v)
			}
		case reflect.Bool:
			return fmt.Errorf("bool %v is not a number", v)
		}
	case AccessFloat:
		if lit.Kind() == reflect.Bool {
			return fmt.Errorf("bool %v is not a number", v)
		}
	case AccessBool:
		switch lit.Kind() {
		case reflect.Bool:
		case reflect.String:
			if s := lit.String(); s != "true" && s != "false" {
				return fmt.Errorf("%q is not true or false", s)
			}
		default:
			return fmt.Errorf("%v (%T) is not a bool", v, v)
		}
	case AccessString:
		if lit.Kind() != reflect.String {
			return fmt.Errorf("%v (%T) is not a string", v, v)
		}
	}
	return nil
}
