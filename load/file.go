package load

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/remdragon/worm/schema"
	"github.com/remdragon/worm/schema/field"
)

// Format is the encoding of a descriptor file.
type Format string

// Supported descriptor formats.
const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// FormatOf returns the format of a descriptor file from its extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".msgpack", ".mpk":
		return FormatMsgpack, true
	}
	return "", false
}

// Document is the serialized form of an entity schema:
//
//	entity: Users
//	fields:
//	  - name: user_id
//	    type: uint32
//	    attribute: integer(primary = true)
//	  - name: user_name
//	    type: string
//	    attribute: varchar(size = 120, null = false, unique = true)
type Document struct {
	Entity string          `yaml:"entity" json:"entity" msgpack:"entity"`
	Table  string          `yaml:"table,omitempty" json:"table,omitempty" msgpack:"table,omitempty"`
	Fields []FieldDocument `yaml:"fields" json:"fields" msgpack:"fields"`
}

// FieldDocument is the serialized form of a field.
type FieldDocument struct {
	Name      string `yaml:"name" json:"name" msgpack:"name"`
	Type      string `yaml:"type" json:"type" msgpack:"type"`
	Attribute string `yaml:"attribute" json:"attribute" msgpack:"attribute"`
}

// Schema compiles the document.
func (d *Document) Schema() (*schema.Schema, error) {
	fds := make([]*field.Descriptor, len(d.Fields))
	for i, f := range d.Fields {
		typ, err := field.ParseType(f.Type)
		b := field.New(f.Name, typ).Attribute(f.Attribute)
		if err != nil {
			b.Descriptor().Err = err
		}
		fds[i] = b.Descriptor()
	}
	var opts []schema.Option
	if d.Table != "" {
		opts = append(opts, schema.WithTable(d.Table))
	}
	return schema.New(d.Entity, fds, opts...)
}

// DocumentOf returns the document of a compiled schema. Compiling the
// document yields an equivalent schema.
func DocumentOf(s *schema.Schema) *Document {
	d := &Document{Entity: s.Entity()}
	if s.Table() != s.Entity() {
		d.Table = s.Table()
	}
	for _, fd := range s.Descriptors() {
		attr := &field.Attribute{
			Kind:       fd.Attribute,
			Size:       fd.Size,
			Nullable:   fd.Nullable,
			PrimaryKey: fd.PrimaryKey,
			Unique:     fd.Unique,
		}
		d.Fields = append(d.Fields, FieldDocument{
			Name:      fd.Name,
			Type:      fd.Type.String(),
			Attribute: attr.String(),
		})
	}
	return d
}

// Decode decodes and compiles a descriptor document.
func Decode(data []byte, f Format) (*schema.Schema, error) {
	var (
		doc Document
		err error
	)
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("load: unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode %s document: %w", f, err)
	}
	return doc.Schema()
}

// Encode encodes the document of s.
func Encode(s *schema.Schema, f Format) ([]byte, error) {
	doc := DocumentOf(s)
	switch f {
	case FormatYAML:
		return yaml.Marshal(doc)
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(doc)
	}
	return nil, fmt.Errorf("load: unknown format %q", f)
}

// MarshalMsgpack returns a msgpack snapshot of s, readable by Decode.
func MarshalMsgpack(s *schema.Schema) ([]byte, error) {
	return Encode(s, FormatMsgpack)
}

// File reads and compiles a descriptor file. The format is chosen by the
// file extension.
func File(path string) (*schema.Schema, error) {
	f, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("load: %s: unsupported file extension", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	s, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
