package schema

import (
	"encoding/json"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

// Kind identifies one of the primitive field types a wire schema may declare.
type Kind int

const (
	KindString Kind = iota
	KindFloat
	KindDouble
	KindInt
	KindLong
	KindBoolean
	KindBinary
)

// kindTokens maps configuration type tokens to kinds. This is the complete
// set of recognized tokens; anything else is rejected at build time.
var kindTokens = map[string]Kind{
	"string":  KindString,
	"float":   KindFloat,
	"double":  KindDouble,
	"int":     KindInt,
	"long":    KindLong,
	"boolean": KindBoolean,
	"binary":  KindBinary,
}

// String returns the configuration token for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindBoolean:
		return "boolean"
	case KindBinary:
		return "binary"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AvroType returns the Avro primitive type name for the kind. This is also
// the branch name goavro uses when wrapping the kind's values inside the
// nullable union.
func (k Kind) AvroType() string {
	if k == KindBinary {
		return "bytes"
	}
	return k.String()
}

// ArrowType returns the Arrow data type the kind maps to in the output row.
func (k Kind) ArrowType() arrow.DataType {
	switch k {
	case KindString:
		return arrow.BinaryTypes.String
	case KindFloat:
		return arrow.PrimitiveTypes.Float32
	case KindDouble:
		return arrow.PrimitiveTypes.Float64
	case KindInt:
		return arrow.PrimitiveTypes.Int32
	case KindLong:
		return arrow.PrimitiveTypes.Int64
	case KindBoolean:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.Binary
}

// Field is one named, typed slot in a wire schema. Every field is nullable
// regardless of its kind, so payloads produced before the field existed still
// decode.
type Field struct {
	Name string
	Kind Kind
}

// WireSchema is an ordered list of fields. Field order defines decode order;
// the schema is immutable once built.
type WireSchema struct {
	fields []Field
}

// Build maps an ordered (name, type token) list into a WireSchema. The two
// lists must have equal length and every token must be one of the recognized
// primitive tokens; violations fail with a ConfigError naming the offending
// token and its position.
func Build(fieldNames, fieldTypes []string) (*WireSchema, error) {
	if len(fieldNames) != len(fieldTypes) {
		return nil, configErrorf("field.names has %d entries but field.types has %d", len(fieldNames), len(fieldTypes))
	}

	fields := make([]Field, len(fieldNames))
	for i, name := range fieldNames {
		kind, ok := kindTokens[fieldTypes[i]]
		if !ok {
			return nil, configErrorf("unsupported field type %q at position %d", fieldTypes[i], i)
		}
		fields[i] = Field{Name: name, Kind: kind}
	}

	return &WireSchema{fields: fields}, nil
}

// Len returns the number of fields in the schema.
func (s *WireSchema) Len() int {
	return len(s.fields)
}

// Fields returns the schema's fields in decode order. The returned slice is
// shared; callers must not modify it.
func (s *WireSchema) Fields() []Field {
	return s.fields
}

// avroField mirrors one field of an Avro record schema declaration. The type
// is the 2-branch nullable union with the null branch first; the real type is
// always the second branch.
type avroField struct {
	Name    string      `json:"name"`
	Type    []string    `json:"type"`
	Default interface{} `json:"default"`
}

type avroRecord struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Fields []avroField `json:"fields"`
}

// AvroSchema returns the Avro record schema declaration for the wire format:
// fields in schema order, each a ["null", <type>] union defaulting to null.
func (s *WireSchema) AvroSchema() string {
	rec := avroRecord{
		Type:   "record",
		Name:   "datum",
		Fields: make([]avroField, len(s.fields)),
	}
	for i, f := range s.fields {
		rec.Fields[i] = avroField{
			Name: f.Name,
			Type: []string{"null", f.Kind.AvroType()},
		}
	}

	// Marshaling a static struct shape cannot fail.
	out, _ := json.Marshal(rec)
	return string(out)
}

// ArrowSchema derives the output row schema: one nullable Arrow field per
// wire field, in the same order, plus two trailing binary fields when raw
// envelope capture is enabled. The envelope field names must not collide with
// each other or with any declared field.
func (s *WireSchema) ArrowSchema(appendRaw bool, keyField, valueField string) (*arrow.Schema, error) {
	n := len(s.fields)
	if appendRaw {
		n += 2
	}

	fields := make([]arrow.Field, 0, n)
	for _, f := range s.fields {
		fields = append(fields, arrow.Field{Name: f.Name, Type: f.Kind.ArrowType(), Nullable: true})
	}

	if appendRaw {
		if keyField == "" || valueField == "" {
			return nil, configErrorf("raw envelope field names must not be empty")
		}
		if keyField == valueField {
			return nil, configErrorf("raw envelope key and value fields share the name %q", keyField)
		}
		for _, f := range s.fields {
			if f.Name == keyField || f.Name == valueField {
				return nil, configErrorf("raw envelope field %q collides with a declared field", f.Name)
			}
		}
		fields = append(fields,
			arrow.Field{Name: keyField, Type: arrow.BinaryTypes.Binary, Nullable: true},
			arrow.Field{Name: valueField, Type: arrow.BinaryTypes.Binary, Nullable: true},
		)
	}

	return arrow.NewSchema(fields, nil), nil
}
