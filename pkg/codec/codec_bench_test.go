//go:build bench
// +build bench

package codec

import (
	"bytes"
	"testing"
)

func BenchmarkCodec_Decode(b *testing.B) {
	benchmarks := []struct {
		name   string
		values map[string]interface{}
	}{
		{
			name:   "small",
			values: map[string]interface{}{"id": int64(42), "name": "benchmark", "payload": []byte("tiny")},
		},
		{
			name:   "medium payload",
			values: map[string]interface{}{"id": int64(42), "name": "benchmark", "payload": bytes.Repeat([]byte("v"), 1000)},
		},
		{
			name:   "large payload",
			values: map[string]interface{}{"id": int64(42), "name": "benchmark", "payload": bytes.Repeat([]byte("v"), 100000)},
		},
		{
			name:   "all null",
			values: map[string]interface{}{},
		},
	}

	c := mustCodec(b, []string{"id", "name", "payload"}, []string{"long", "string", "binary"})

	for _, bm := range benchmarks {
		encoded, err := c.Encode(bm.values)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(bm.name, func(b *testing.B) {
			b.SetBytes(int64(len(encoded)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.Decode(encoded); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCodec_Encode(b *testing.B) {
	c := mustCodec(b, []string{"id", "name", "payload"}, []string{"long", "string", "binary"})
	values := map[string]interface{}{"id": int64(42), "name": "benchmark", "payload": bytes.Repeat([]byte("v"), 1000)}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Encode(values); err != nil {
			b.Fatal(err)
		}
	}
}
