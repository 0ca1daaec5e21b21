package colback

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-mizu/colback/internal/logging"
)

// Compiler turns row types into plans and caches them. The zero value is
// ready to use. Use the package-level compiler (via NewView) or create your
// own in tests.
type Compiler struct {
	plans sync.Map // key: reflect.Type -> *compiled
}

func NewCompiler() *Compiler { return &Compiler{} }

type compiled struct {
	plan *Plan
	err  error
}

// --- package-level lazy global compiler (used by NewView/Register) ---

var (
	compiler     *Compiler
	compilerOnce sync.Once
)

func getCompiler() *Compiler {
	compilerOnce.Do(func() { compiler = NewCompiler() })
	return compiler
}

// SetLogger routes the library's debug logs to l. Pass nil to silence them.
func SetLogger(l *slog.Logger) { logging.SetLogger(l) }

// Register compiles T with the package-level compiler so definition errors
// surface at startup rather than on the first NewView.
func Register[T any]() error {
	_, err := getCompiler().Compile(reflect.TypeFor[T]())
	return err
}

// MustRegister is like Register but panics on a definition error. It is meant
// for package-level var blocks and init functions.
func MustRegister[T any]() {
	if err := Register[T](); err != nil {
		panic(err)
	}
}

// ---------------- Plans ----------------

// Plan is a validated schema bound to its catalog entries. It is immutable
// and safe to share between goroutines and views.
type Plan struct {
	schema  *RowSchema
	rowType reflect.Type // nil for plans compiled from an explicit schema
	fields  []planField
}

type planField struct {
	spec    FieldSpec
	mapping TypeMapping
	column  string
	path    []int         // struct field index path; nil for record plans
	typ     reflect.Type  // destination type, a pointer for optional fields
	def     reflect.Value // default converted to typ; valid iff null=default
}

// Schema returns the schema the plan was compiled from. Callers must not
// modify it.
func (p *Plan) Schema() *RowSchema { return p.schema }

// RowType returns the struct type rows are materialized into, or nil for
// plans built with CompileSchema.
func (p *Plan) RowType() reflect.Type { return p.rowType }

// Compile derives the schema of the struct type rt from its fields and tags,
// validates it and returns the cached plan. A failed compile is cached too.
func (c *Compiler) Compile(rt reflect.Type) (*Plan, error) {
	if v, ok := c.plans.Load(rt); ok {
		cp := v.(*compiled)
		return cp.plan, cp.err
	}

	p, err := compileStruct(rt)
	v, _ := c.plans.LoadOrStore(rt, &compiled{plan: p, err: err})
	cp := v.(*compiled)
	if cp.err == nil && cp.plan == p {
		logging.With("compiler").Debug("plan compiled", "type", rt.String(), "fields", len(p.fields))
	}
	return cp.plan, cp.err
}

// CompileSchema validates an explicit schema and returns a plan for record
// views. Plans from CompileSchema are not cached; keep the result.
func CompileSchema(s *RowSchema) (*Plan, error) {
	if s == nil {
		return nil, &DefinitionError{Kind: UnnamedFields, Detail: "nil schema"}
	}
	resolved, err := s.resolve()
	if err != nil {
		return nil, err
	}
	p := &Plan{schema: cloneSchema(s), fields: make([]planField, len(resolved))}
	for i, rf := range resolved {
		typ := rf.mapping.RowType
		if rf.spec.Optional {
			typ = reflect.PointerTo(typ)
		}
		p.fields[i] = planField{
			spec:    rf.spec,
			mapping: rf.mapping,
			column:  rf.spec.SourceColumn(),
			typ:     typ,
			def:     rf.def,
		}
	}
	logging.With("compiler").Debug("schema compiled", "schema", s.Name, "fields", len(p.fields))
	return p, nil
}

func cloneSchema(s *RowSchema) *RowSchema {
	return &RowSchema{Name: s.Name, Fields: append([]FieldSpec(nil), s.Fields...)}
}

func compileStruct(rt reflect.Type) (*Plan, error) {
	if rt == nil || rt.Kind() != reflect.Struct {
		name := "<nil>"
		if rt != nil {
			name = rt.String()
		}
		return nil, &DefinitionError{Schema: name, Kind: UnnamedFields,
			Detail: "row type must be a struct with named fields"}
	}

	s, fields, derr := deriveSchema(rt)
	resolved, rerr := s.resolve()
	if err := errors.Join(derr, rerr); err != nil {
		return nil, err
	}

	p := &Plan{schema: s, rowType: rt, fields: make([]planField, len(resolved))}
	for i, rf := range resolved {
		sf := fields[i]
		pf := planField{
			spec:    rf.spec,
			mapping: rf.mapping,
			column:  rf.spec.SourceColumn(),
			path:    sf.path,
			typ:     sf.typ,
		}
		if rf.def.IsValid() {
			// Named types (type Price float64) take the default converted once.
			pf.def = rf.def.Convert(sf.typ)
		}
		p.fields[i] = pf
	}
	return p, nil
}

// ---------------- Struct indexing & tags ----------------

type structField struct {
	path []int
	typ  reflect.Type
}

// deriveSchema walks rt's exported fields in declaration order, flattening
// anonymous embedded structs. Fields that cannot become FieldSpecs are
// reported and left out of the schema.
func deriveSchema(rt reflect.Type) (*RowSchema, []structField, error) {
	s := &RowSchema{Name: rt.String()}
	var fields []structField
	var errs []error
	fail := func(field string, kind DefinitionKind, format string, args ...any) {
		errs = append(errs, &DefinitionError{Schema: s.Name, Field: field, Kind: kind,
			Detail: fmt.Sprintf(format, args...)})
	}

	var walk func(t reflect.Type, base []int)
	walk = func(t reflect.Type, base []int) {
		t = derefPtr(t)
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" && !sf.Anonymous { // unexported, non-anonymous
				continue
			}
			opts, err := parseTag(sf.Tag.Get("colback"))
			if err != nil {
				fail(sf.Name, BadOption, "%v", err)
				continue
			}
			if opts.omit {
				continue
			}
			ft := sf.Type
			path := append(append([]int(nil), base...), i)

			if opts.inline || (sf.Anonymous && opts.empty()) {
				if isStruct(ft) {
					if sf.PkgPath != "" && ft.Kind() == reflect.Ptr {
						// A nil pointer behind an unexported field cannot be allocated.
						fail(sf.Name, UnsupportedType, "embedded pointer to unexported struct %s", ft)
						continue
					}
					walk(ft, path)
					continue
				}
			}
			if sf.PkgPath != "" { // unexported embedded non-struct
				continue
			}

			spec := FieldSpec{Name: sf.Name, Column: opts.name}
			elem := ft
			if ft.Kind() == reflect.Ptr {
				spec.Optional = true
				elem = ft.Elem()
			}
			m, ok := LookupKind(elem.Kind())
			if !ok {
				fail(sf.Name, UnsupportedType, "type %s has no column mapping", ft)
				continue
			}
			spec.Type = m.Primitive

			policy, err := ParseNullPolicy(opts.null)
			if err != nil {
				fail(sf.Name, BadOption, "unknown null policy %q", opts.null)
				continue
			}
			spec.Null = policy
			if opts.hasDefault {
				spec.Default = opts.def
			}

			s.Fields = append(s.Fields, spec)
			fields = append(fields, structField{path: path, typ: ft})
		}
	}
	walk(rt, nil)
	return s, fields, errors.Join(errs...)
}

type tagOpts struct {
	name       string
	null       string
	def        string
	hasDefault bool
	inline     bool
	omit       bool
}

func (o tagOpts) empty() bool {
	return o.name == "" && o.null == "" && !o.hasDefault && !o.inline
}

// parseTag supports "-" and comma separated options: "name=col",
// "null=error|option|default", "default=<literal>" and "inline".
// A default literal runs to the end of the tag so it may contain commas.
func parseTag(tag string) (tagOpts, error) {
	var o tagOpts
	if tag == "-" {
		o.omit = true
		return o, nil
	}
	rest := tag
	for rest != "" {
		var part string
		if strings.HasPrefix(rest, "default=") {
			part, rest = rest, ""
		} else if i := strings.IndexByte(rest, ','); i >= 0 {
			part, rest = rest[:i], rest[i+1:]
		} else {
			part, rest = rest, ""
		}
		if part == "" {
			continue
		}
		if part == "inline" {
			o.inline = true
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return o, fmt.Errorf("malformed tag option %q", part)
		}
		switch key {
		case "name":
			o.name = val
		case "null":
			o.null = val
		case "default":
			o.def = val
			o.hasDefault = true
		default:
			return o, fmt.Errorf("unknown tag option %q", key)
		}
	}
	return o, nil
}

// ---------------- Type helpers ----------------

func isStruct(t reflect.Type) bool { return derefPtr(t).Kind() == reflect.Struct }

func derefPtr(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// fieldByPathAlloc walks fpath, allocating nil embedded struct pointers on
// the way. The final field is returned as is.
func fieldByPathAlloc(root reflect.Value, fpath []int) reflect.Value {
	v := root
	for _, i := range fpath {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}
