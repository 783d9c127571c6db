package translate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowbridge/rowbridge/pkg/codec"
	"github.com/rowbridge/rowbridge/pkg/schema"
)

// encode builds a wire payload for the translator's schema from plain values.
func encode(t *testing.T, tr *Translator, values map[string]interface{}) []byte {
	t.Helper()
	buf, err := tr.Codec().Encode(values)
	require.NoError(t, err)
	return buf
}

// translateOne runs one translation and extracts the row's values.
func translateOne(t *testing.T, tr *Translator, key, value []byte) []interface{} {
	t.Helper()
	rows, err := tr.Translate(key, value)
	require.NoError(t, err)
	require.Len(t, rows, 1, "translate must produce exactly one row")
	defer rows[0].Release()

	values, err := RowValues(rows[0])
	require.NoError(t, err)
	return values
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantMsg string
	}{
		{
			name:    "unsupported type token",
			cfg:     Config{FieldNames: []string{"a", "b"}, FieldTypes: []string{"int", "decimal"}},
			wantMsg: "decimal",
		},
		{
			name:    "length mismatch",
			cfg:     Config{FieldNames: []string{"a"}, FieldTypes: []string{"int", "string"}},
			wantMsg: "field.types",
		},
		{
			name: "envelope name collision",
			cfg: Config{
				FieldNames:        []string{"a"},
				FieldTypes:        []string{"int"},
				AppendRaw:         true,
				AppendRawKeyField: "a",
			},
			wantMsg: "collides",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)

			var cfgErr *schema.ConfigError
			require.ErrorAs(t, err, &cfgErr, "configuration faults must surface as ConfigError")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestTranslator_Example(t *testing.T) {
	// field.names=[a, b], field.types=[int, string]: {a:5, b:"x"} decodes to
	// the row (5, "x"), {a:null, b:null} to (null, null).
	tr, err := New(Config{
		FieldNames: []string{"a", "b"},
		FieldTypes: []string{"int", "string"},
	})
	require.NoError(t, err)

	values := translateOne(t, tr, nil, encode(t, tr, map[string]interface{}{"a": int32(5), "b": "x"}))
	assert.Equal(t, []interface{}{int32(5), "x"}, values)

	nulls := translateOne(t, tr, nil, encode(t, tr, nil))
	assert.Equal(t, []interface{}{nil, nil}, nulls)
}

func TestTranslator_AllNullRecord(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"s", "f", "d", "i", "l", "b", "raw"},
		FieldTypes: []string{"string", "float", "double", "int", "long", "boolean", "binary"},
	})
	require.NoError(t, err)

	values := translateOne(t, tr, nil, encode(t, tr, nil))

	assert.Len(t, values, tr.Schema().NumFields())
	for i, v := range values {
		assert.Nil(t, v, "field %d should be null", i)
	}
}

func TestTranslator_EmptySchema(t *testing.T) {
	tr, err := New(Config{})
	require.NoError(t, err)
	require.Equal(t, 0, tr.Schema().NumFields())

	rows, err := tr.Translate(nil, []byte{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	defer rows[0].Release()

	assert.EqualValues(t, 1, rows[0].NumRows(), "a zero-field schema still yields one row per record")

	values, err := RowValues(rows[0])
	require.NoError(t, err)
	assert.Empty(t, values)

	m, err := RowMap(rows[0])
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = tr.Translate(nil, []byte{0x00})
	require.Error(t, err, "a zero-field record decodes only the empty buffer")
}

func TestTranslator_RoundTripEveryKind(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"s", "f", "d", "i", "l", "b", "raw"},
		FieldTypes: []string{"string", "float", "double", "int", "long", "boolean", "binary"},
	})
	require.NoError(t, err)

	in := map[string]interface{}{
		"s":   "plain text",
		"f":   float32(3.5),
		"d":   -0.125,
		"i":   int32(-42),
		"l":   int64(1) << 40,
		"b":   true,
		"raw": []byte{0xDE, 0xAD},
	}

	values := translateOne(t, tr, nil, encode(t, tr, in))

	assert.Equal(t, "plain text", values[0])
	assert.Equal(t, float32(3.5), values[1])
	assert.Equal(t, -0.125, values[2])
	assert.Equal(t, int32(-42), values[3])
	assert.Equal(t, int64(1)<<40, values[4])
	assert.Equal(t, true, values[5])
	assert.Equal(t, []byte{0xDE, 0xAD}, values[6])
}

func TestTranslator_Idempotent(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"a", "b"},
		FieldTypes: []string{"long", "string"},
	})
	require.NoError(t, err)

	buf := encode(t, tr, map[string]interface{}{"a": int64(9), "b": "same"})

	first := translateOne(t, tr, nil, buf)
	second := translateOne(t, tr, nil, buf)
	assert.Equal(t, first, second, "identical inputs must yield equal rows")
}

func TestTranslator_AppendRaw(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"a", "b"},
		FieldTypes: []string{"int", "string"},
		AppendRaw:  true,
	})
	require.NoError(t, err)

	// schema().length == len(field.names) + 2
	require.Equal(t, 4, tr.Schema().NumFields())
	assert.Equal(t, DefaultKeyField, tr.Schema().Field(2).Name)
	assert.Equal(t, DefaultValueField, tr.Schema().Field(3).Name)

	key := []byte{0x01}
	value := encode(t, tr, map[string]interface{}{"a": int32(5), "b": "x"})

	values := translateOne(t, tr, key, value)
	require.Len(t, values, 4)
	assert.Equal(t, int32(5), values[0])
	assert.Equal(t, "x", values[1])
	assert.Equal(t, key, values[2], "third field must be the untouched key bytes")
	assert.Equal(t, value, values[3], "fourth field must be the untouched value bytes")
}

func TestTranslator_AppendRawCustomNames(t *testing.T) {
	tr, err := New(Config{
		FieldNames:          []string{"a"},
		FieldTypes:          []string{"int"},
		AppendRaw:           true,
		AppendRawKeyField:   "envelope_key",
		AppendRawValueField: "envelope_value",
	})
	require.NoError(t, err)

	assert.Equal(t, "envelope_key", tr.Schema().Field(1).Name)
	assert.Equal(t, "envelope_value", tr.Schema().Field(2).Name)
}

func TestTranslator_AppendRawNullKey(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"a"},
		FieldTypes: []string{"int"},
		AppendRaw:  true,
	})
	require.NoError(t, err)

	values := translateOne(t, tr, nil, encode(t, tr, map[string]interface{}{"a": int32(1)}))
	assert.Nil(t, values[1], "nil key must append as null, not empty bytes")
}

func TestTranslator_SchemaIsStable(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"a"},
		FieldTypes: []string{"int"},
	})
	require.NoError(t, err)

	first := tr.Schema()
	for i := 0; i < 5; i++ {
		assert.Same(t, first, tr.Schema())
	}
}

func TestTranslator_DecodeFailures(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"a", "b"},
		FieldTypes: []string{"int", "string"},
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		value []byte
	}{
		{name: "empty buffer", value: []byte{}},
		{name: "truncated", value: []byte{0x02}},
		{name: "invalid presence tag", value: []byte{0x04, 0x00, 0x00}},
		{name: "trailing bytes", value: []byte{0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tr.Translate(nil, tt.value)
			require.Error(t, err)
			assert.Nil(t, rows, "no partial row on failure")

			var decodeErr *codec.DecodeError
			assert.ErrorAs(t, err, &decodeErr)
		})
	}
}

func TestTranslator_ConcurrentTranslate(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"a", "b"},
		FieldTypes: []string{"long", "string"},
		AppendRaw:  true,
	})
	require.NoError(t, err)

	buf := encode(t, tr, map[string]interface{}{"a": int64(7), "b": "shared"})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rows, err := tr.Translate([]byte{0x01}, buf)
				if err != nil {
					t.Error(err)
					return
				}
				rows[0].Release()
			}
		}()
	}
	wg.Wait()
}

func TestRowMap(t *testing.T) {
	tr, err := New(Config{
		FieldNames: []string{"a", "b"},
		FieldTypes: []string{"int", "string"},
	})
	require.NoError(t, err)

	rows, err := tr.Translate(nil, encode(t, tr, map[string]interface{}{"a": int32(5), "b": "x"}))
	require.NoError(t, err)
	defer rows[0].Release()

	m, err := RowMap(rows[0])
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": int32(5), "b": "x"}, m)
}
