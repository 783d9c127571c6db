package codec

import (
	"fmt"

	"github.com/linkedin/goavro/v2"

	"github.com/rowbridge/rowbridge/pkg/schema"
)

// Record is one decoded datum: field name to decoded value, in codec-native
// representation. Non-null values are still wrapped in goavro's single-entry
// union map keyed by the Avro branch name; nulls are nil. A Record's lifetime
// is one decode call.
type Record map[string]interface{}

// Codec decodes and encodes single binary records against a fixed wire
// schema. A Codec is immutable after construction and safe for concurrent
// use; all per-call state lives on the caller's stack.
type Codec struct {
	wire *schema.WireSchema
	avro *goavro.Codec
}

// New builds a Codec for the given wire schema. A failure here means the
// schema could not be expressed on the wire and is a configuration error.
func New(wire *schema.WireSchema) (*Codec, error) {
	avro, err := goavro.NewCodec(wire.AvroSchema())
	if err != nil {
		return nil, &schema.ConfigError{Message: fmt.Sprintf("building wire codec: %v", err)}
	}
	return &Codec{wire: wire, avro: avro}, nil
}

// Decode reads exactly one record from buf. Values are read positionally in
// wire schema order; each field carries a leading presence tag selecting the
// null or value branch of its union. Truncated buffers, invalid presence
// tags, malformed length prefixes, and bytes left over after the record all
// fail with a *DecodeError. Decoding is all-or-nothing: on error no record is
// returned.
func (c *Codec) Decode(buf []byte) (Record, error) {
	native, rest, err := c.avro.NativeFromBinary(buf)
	if err != nil {
		return nil, &DecodeError{Reason: "malformed record", Err: err}
	}
	if len(rest) != 0 {
		return nil, &DecodeError{Reason: fmt.Sprintf("%d trailing bytes after record", len(rest))}
	}

	rec, ok := native.(map[string]interface{})
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("decoded datum is %T, not a record", native)}
	}
	return Record(rec), nil
}

// Encode serializes plain field values into the wire format. values maps
// field names to unwrapped scalars; nil (or an absent name) encodes the null
// branch. This is the producer side of the wire contract, used by tooling and
// tests.
func (c *Codec) Encode(values map[string]interface{}) ([]byte, error) {
	native := make(map[string]interface{}, c.wire.Len())
	for _, f := range c.wire.Fields() {
		v, ok := values[f.Name]
		if !ok || v == nil {
			native[f.Name] = nil
			continue
		}
		native[f.Name] = map[string]interface{}{f.Kind.AvroType(): v}
	}

	buf, err := c.avro.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return buf, nil
}

// DecodeError reports a malformed or schema-incompatible payload. It is
// surfaced per record and never swallowed; retry or skip policy belongs to
// the host pipeline.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode record: %s: %v", e.Reason, e.Err)
	}
	return "decode record: " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
