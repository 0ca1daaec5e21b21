package colback

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

/* ---------------------------
   Tags
----------------------------*/

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want tagOpts
	}{
		{"", tagOpts{}},
		{"-", tagOpts{omit: true}},
		{"name=col", tagOpts{name: "col"}},
		{"null=option", tagOpts{null: "option"}},
		{"name=a,null=default,default=1", tagOpts{name: "a", null: "default", def: "1", hasDefault: true}},
		{"null=default,default=a,b", tagOpts{null: "default", def: "a,b", hasDefault: true}},
		{"default=", tagOpts{hasDefault: true}},
		{"inline", tagOpts{inline: true}},
		{",name=x,", tagOpts{name: "x"}},
	}
	for _, tc := range tests {
		got, err := parseTag(tc.tag)
		require.NoError(t, err, tc.tag)
		require.Equal(t, tc.want, got, tc.tag)
	}
}

func TestParseTag_Errors(t *testing.T) {
	for _, tag := range []string{"col", "name=a,bogus=1", "nullable"} {
		_, err := parseTag(tag)
		require.Error(t, err, tag)
	}
}

/* ---------------------------
   Schema derivation
----------------------------*/

func TestDeriveSchema_FieldsInOrder(t *testing.T) {
	type Embedded struct {
		Inner string `colback:"name=inner"`
	}
	type Outer struct {
		ID       uint32 `colback:"name=id"`
		Embedded        // anonymous → flattened
		Opt      *int16 `colback:"null=option"`
		Skip     string `colback:"-"`
		unexp    int    // unexported non-anonymous → ignored
	}
	_ = Outer{unexp: 1}

	s, fields, err := deriveSchema(reflect.TypeOf(Outer{}))
	require.NoError(t, err)
	require.Equal(t, []FieldSpec{
		{Name: "ID", Type: Uint32, Column: "id"},
		{Name: "Inner", Type: String, Column: "inner"},
		{Name: "Opt", Type: Int16, Optional: true, Null: NullAsOptional},
	}, s.Fields)

	require.Equal(t, []int{0}, fields[0].path)
	require.Equal(t, []int{1, 0}, fields[1].path)
	require.Equal(t, []int{2}, fields[2].path)
	require.Equal(t, reflect.TypeFor[*int16](), fields[2].typ)
	require.Equal(t, "Opt", s.Fields[2].SourceColumn())
}

func TestCompile_CollectsAllDefinitionErrors(t *testing.T) {
	type Bad struct {
		A int
		B *uint8
		C uint8  `colback:"null=option"`
		D uint16 `colback:"null=default"`
		E uint16 `colback:"default=3"`
		F uint8  `colback:"null=default,default=300"`
		G bool   `colback:"null=sometimes"`
		H []byte
		I uint32 `colback:"oops"`
	}
	_, err := NewCompiler().Compile(reflect.TypeOf(Bad{}))
	require.ErrorIs(t, err, ErrDefinition)

	got := map[string]DefinitionKind{}
	collectKinds(t, err, got)
	require.Equal(t, map[string]DefinitionKind{
		"A": UnsupportedType,
		"B": PolicyMismatch,
		"C": PolicyMismatch,
		"D": MissingDefault,
		"E": UnexpectedDefault,
		"F": BadDefault,
		"G": BadOption,
		"H": UnsupportedType,
		"I": BadOption,
	}, got)
}

func collectKinds(t *testing.T, err error, into map[string]DefinitionKind) {
	t.Helper()
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			collectKinds(t, e, into)
		}
		return
	}
	var de *DefinitionError
	require.True(t, errors.As(err, &de), "unexpected error %v", err)
	into[de.Field] = de.Kind
}

type unexportedInner struct {
	Seq int64 `colback:"name=seq"`
}

type unexportedValue struct {
	Note string `colback:"name=note"`
}

func TestCompile_EmbeddedUnexportedStructs(t *testing.T) {
	type byPointer struct {
		*unexportedInner
		A uint32 `colback:"name=a"`
	}
	_, err := NewCompiler().Compile(reflect.TypeFor[byPointer]())
	var de *DefinitionError
	require.ErrorAs(t, err, &de)
	require.Equal(t, UnsupportedType, de.Kind)
	require.Equal(t, "unexportedInner", de.Field)

	// Embedded by value, the exported fields stay settable and are flattened.
	type byValue struct {
		unexportedValue
		A uint32 `colback:"name=a"`
	}
	p, err := NewCompiler().Compile(reflect.TypeFor[byValue]())
	require.NoError(t, err)
	require.Equal(t, "note", p.fields[0].column)
	require.Equal(t, []int{0, 0}, p.fields[0].path)

	var row byValue
	root := reflect.ValueOf(&row).Elem()
	require.NotPanics(t, func() { fieldByPathAlloc(root, p.fields[0].path).SetString("x") })
	require.Equal(t, "x", row.Note)
}

func TestCompile_NonStruct(t *testing.T) {
	c := NewCompiler()
	for _, rt := range []reflect.Type{reflect.TypeFor[int](), reflect.TypeFor[*struct{ A uint8 }](), nil} {
		_, err := c.Compile(rt)
		var de *DefinitionError
		require.ErrorAs(t, err, &de)
		require.Equal(t, UnnamedFields, de.Kind)
	}
}

func TestCompile_CachesPlansAndErrors(t *testing.T) {
	type S struct {
		A uint8 `colback:"name=a"`
	}
	type Bad struct {
		A int
	}
	c := NewCompiler()

	p1, err := c.Compile(reflect.TypeFor[S]())
	require.NoError(t, err)
	p2, err := c.Compile(reflect.TypeFor[S]())
	require.NoError(t, err)
	require.Same(t, p1, p2)

	_, err1 := c.Compile(reflect.TypeFor[Bad]())
	_, err2 := c.Compile(reflect.TypeFor[Bad]())
	require.Error(t, err1)
	require.Equal(t, err1, err2)
}

func TestCompile_DefaultConvertedToFieldType(t *testing.T) {
	type Level int8
	type S struct {
		L Level `colback:"null=default,default=-3"`
	}
	p, err := NewCompiler().Compile(reflect.TypeFor[S]())
	require.NoError(t, err)
	require.Equal(t, reflect.TypeFor[Level](), p.fields[0].def.Type())
	require.Equal(t, Level(-3), p.fields[0].def.Interface())
}

func TestRegister(t *testing.T) {
	type good struct {
		A uint32
	}
	type bad struct {
		A *uint32
	}
	require.NoError(t, Register[good]())
	require.ErrorIs(t, Register[bad](), ErrDefinition)
	require.NotPanics(t, MustRegister[good])
	require.Panics(t, MustRegister[bad])
}

func TestCompileSchema(t *testing.T) {
	s := NewRowSchema("trades",
		Field("id", Uint64),
		Field("px", Float64, FromColumn("price"), WithDefault("0.5")),
		Field("venue", String, Nullable()),
	)
	p, err := CompileSchema(s)
	require.NoError(t, err)
	require.Nil(t, p.RowType())
	require.Equal(t, "price", p.fields[1].column)
	require.Equal(t, 0.5, p.fields[1].def.Float())
	require.Equal(t, reflect.TypeFor[*string](), p.fields[2].typ)

	// The plan keeps its own copy of the fields.
	s.Fields[0].Name = "changed"
	require.Equal(t, "id", p.Schema().Fields[0].Name)

	_, err = CompileSchema(nil)
	require.ErrorIs(t, err, ErrDefinition)
}

func TestFieldByPathAlloc(t *testing.T) {
	type Inner struct{ V uint8 }
	type Outer struct {
		*Inner
		P *uint8
	}
	var o Outer
	root := reflect.ValueOf(&o).Elem()

	fieldByPathAlloc(root, []int{0, 0}).SetUint(9)
	require.NotNil(t, o.Inner)
	require.Equal(t, uint8(9), o.V)

	// The final pointer field is left for the caller to fill.
	require.True(t, fieldByPathAlloc(root, []int{1}).IsNil())
}
