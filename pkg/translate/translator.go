package translate

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/rowbridge/rowbridge/pkg/codec"
	"github.com/rowbridge/rowbridge/pkg/schema"
)

// Default names for the two raw envelope fields.
const (
	DefaultKeyField   = "_key"
	DefaultValueField = "_value"
)

// Config holds the translator configuration. FieldNames and FieldTypes are
// the ordered output field declarations; AppendRaw retains the original
// key/value bytes as two trailing binary fields.
type Config struct {
	FieldNames []string
	FieldTypes []string

	AppendRaw           bool
	AppendRawKeyField   string
	AppendRawValueField string
}

// Translator converts one binary-encoded record into one flat Arrow row.
// A Translator is fully configured by New and immutable afterwards; Translate
// keeps all decode state call-scoped, so a single instance may be shared by
// any number of concurrent callers.
type Translator struct {
	wire      *schema.WireSchema
	codec     *codec.Codec
	out       *arrow.Schema
	appendRaw bool
	alloc     memory.Allocator
}

// New builds a configured Translator. This is the single configure step:
// it validates the field declarations, builds the wire codec, and fixes the
// output row schema (including the two envelope fields when raw capture is
// enabled). Any error here is fatal to startup.
func New(cfg Config) (*Translator, error) {
	wire, err := schema.Build(cfg.FieldNames, cfg.FieldTypes)
	if err != nil {
		return nil, err
	}

	c, err := codec.New(wire)
	if err != nil {
		return nil, err
	}

	keyField := cfg.AppendRawKeyField
	if keyField == "" {
		keyField = DefaultKeyField
	}
	valueField := cfg.AppendRawValueField
	if valueField == "" {
		valueField = DefaultValueField
	}

	out, err := wire.ArrowSchema(cfg.AppendRaw, keyField, valueField)
	if err != nil {
		return nil, err
	}

	return &Translator{
		wire:      wire,
		codec:     c,
		out:       out,
		appendRaw: cfg.AppendRaw,
		alloc:     memory.DefaultAllocator,
	}, nil
}

// Schema returns the output row schema fixed at configuration time. Every
// call returns the same schema.
func (t *Translator) Schema() *arrow.Schema {
	return t.out
}

// WireSchema returns the wire schema the translator decodes against.
func (t *Translator) WireSchema() *schema.WireSchema {
	return t.wire
}

// Codec returns the wire codec. Exposed for tooling that needs the producer
// side of the wire contract.
func (t *Translator) Codec() *codec.Codec {
	return t.codec
}

// Translate decodes value against the wire schema and produces exactly one
// output row, positionally aligned with Schema. key is only consulted when
// raw envelope capture is enabled. On any decode failure no row is returned.
//
// The returned record is owned by the caller; call Release when done.
func (t *Translator) Translate(key, value []byte) ([]arrow.Record, error) {
	rec, err := t.codec.Decode(value)
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(t.alloc, t.out)
	defer b.Release()

	for i, f := range t.wire.Fields() {
		raw, ok := rec[f.Name]
		if !ok {
			return nil, &codec.DecodeError{Reason: fmt.Sprintf("decoded record is missing field %q", f.Name)}
		}
		v, err := normalize(raw, f)
		if err != nil {
			return nil, err
		}
		if err := appendValue(b.Field(i), f, v); err != nil {
			return nil, err
		}
	}

	if t.appendRaw {
		n := t.wire.Len()
		appendBytes(b.Field(n).(*array.BinaryBuilder), key)
		appendBytes(b.Field(n+1).(*array.BinaryBuilder), value)
	}

	// A zero-column builder has no column lengths to infer the row count
	// from, so the one-row record is built explicitly.
	if t.out.NumFields() == 0 {
		return []arrow.Record{array.NewRecord(t.out, nil, 1)}, nil
	}

	return []arrow.Record{b.NewRecord()}, nil
}

// normalize maps one codec-native decoded value to its row-native scalar.
// Nulls pass through. Non-null values arrive wrapped in the codec's
// single-entry union map keyed by the field's wire branch name; any other
// shape means the payload was written against a different union layout and
// is rejected rather than misread.
func normalize(raw interface{}, f schema.Field) (interface{}, error) {
	if raw == nil {
		return nil, nil
	}

	branches, ok := raw.(map[string]interface{})
	if !ok {
		return nil, &codec.DecodeError{Reason: fmt.Sprintf("field %q: expected a nullable union value, got %T", f.Name, raw)}
	}
	if len(branches) != 1 {
		return nil, &codec.DecodeError{Reason: fmt.Sprintf("field %q: union value carries %d branches", f.Name, len(branches))}
	}
	v, ok := branches[f.Kind.AvroType()]
	if !ok {
		return nil, &codec.DecodeError{Reason: fmt.Sprintf("field %q: union value is not the declared %s branch", f.Name, f.Kind.AvroType())}
	}

	// Strings are the one representation mismatch between codec and row:
	// the codec may hand back buffer-backed text, which is materialized into
	// a plain string here. Every other kind maps directly.
	if f.Kind == schema.KindString {
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
		return nil, &codec.DecodeError{Reason: fmt.Sprintf("field %q: %T is not a string value", f.Name, v)}
	}

	return v, nil
}

// appendValue writes one normalized scalar into the row builder for its
// column. A type mismatch here means the decoded value does not match the
// declared kind; that is a payload fault, not a translator fault.
func appendValue(b array.Builder, f schema.Field, v interface{}) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch f.Kind {
	case schema.KindString:
		b.(*array.StringBuilder).Append(v.(string))
		return nil
	case schema.KindFloat:
		if x, ok := v.(float32); ok {
			b.(*array.Float32Builder).Append(x)
			return nil
		}
	case schema.KindDouble:
		if x, ok := v.(float64); ok {
			b.(*array.Float64Builder).Append(x)
			return nil
		}
	case schema.KindInt:
		if x, ok := v.(int32); ok {
			b.(*array.Int32Builder).Append(x)
			return nil
		}
	case schema.KindLong:
		if x, ok := v.(int64); ok {
			b.(*array.Int64Builder).Append(x)
			return nil
		}
	case schema.KindBoolean:
		if x, ok := v.(bool); ok {
			b.(*array.BooleanBuilder).Append(x)
			return nil
		}
	case schema.KindBinary:
		if x, ok := v.([]byte); ok {
			b.(*array.BinaryBuilder).Append(x)
			return nil
		}
	}

	return &codec.DecodeError{Reason: fmt.Sprintf("field %q: %T does not decode as %s", f.Name, v, f.Kind)}
}

func appendBytes(b *array.BinaryBuilder, buf []byte) {
	if buf == nil {
		b.AppendNull()
		return
	}
	b.Append(buf)
}
