// Package schemaconf declares colback row schemas in configuration files.
//
// Any format viper reads works; YAML looks like:
//
//	schemas:
//	  trades:
//	    fields:
//	      - name: id
//	        type: u32
//	      - name: price
//	        type: f64
//	        column: px
//	        null: default
//	        default: 0
//	      - name: venue
//	        type: string
//	        null: option
//
// null: option makes the field optional. Every schema is validated before it
// is returned.
package schemaconf

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/go-mizu/colback"
	"github.com/go-mizu/colback/internal/logging"
)

// File is the decoded form of a schema config file.
type File struct {
	Schemas map[string]Schema `mapstructure:"schemas"`
}

type Schema struct {
	Fields []Field `mapstructure:"fields"`
}

type Field struct {
	Name    string `mapstructure:"name"`
	Type    string `mapstructure:"type"`
	Column  string `mapstructure:"column"`
	Null    string `mapstructure:"null"`
	Default any    `mapstructure:"default"`
}

// Load reads the config file at path. The format follows the extension.
func Load(path string) (map[string]*colback.RowSchema, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read schema config: %w", err)
	}
	return Decode(v)
}

// Decode builds and validates the schemas held by v.
func Decode(v *viper.Viper) (map[string]*colback.RowSchema, error) {
	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("unmarshal schema config: %w", err)
	}

	names := make([]string, 0, len(f.Schemas))
	for name := range f.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	log := logging.With("schemaconf")
	out := make(map[string]*colback.RowSchema, len(names))
	for _, name := range names {
		s, err := f.Schemas[name].RowSchema(name)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}
		out[name] = s
		log.Debug("schema loaded", "schema", name, "fields", len(s.Fields))
	}
	return out, nil
}

// RowSchema converts s into a validated colback.RowSchema.
func (s Schema) RowSchema(name string) (*colback.RowSchema, error) {
	rs := &colback.RowSchema{Name: name, Fields: make([]colback.FieldSpec, 0, len(s.Fields))}
	for _, fd := range s.Fields {
		spec, err := fd.spec(name)
		if err != nil {
			return nil, err
		}
		rs.Fields = append(rs.Fields, spec)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

func (fd Field) spec(schema string) (colback.FieldSpec, error) {
	p, ok := colback.ParsePrimitive(fd.Type)
	if !ok {
		return colback.FieldSpec{}, &colback.DefinitionError{Schema: schema, Field: fd.Name,
			Kind: colback.UnsupportedType, Detail: fmt.Sprintf("unknown type %q", fd.Type)}
	}
	policy, err := colback.ParseNullPolicy(fd.Null)
	if err != nil {
		return colback.FieldSpec{}, &colback.DefinitionError{Schema: schema, Field: fd.Name,
			Kind: colback.BadOption, Detail: err.Error()}
	}
	return colback.FieldSpec{
		Name:     fd.Name,
		Type:     p,
		Optional: policy == colback.NullAsOptional,
		Column:   fd.Column,
		Null:     policy,
		Default:  fd.Default,
	}, nil
}
