package api

import (
	"github.com/apache/arrow/go/v17/arrow"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TranslateRequest carries one raw message envelope. Key and Value are
// base64-encoded in JSON.
type TranslateRequest struct {
	Key   []byte `json:"key,omitempty"`
	Value []byte `json:"value"`
}

// TranslateResponse carries the translated row and, when the envelope was
// retained, its audit entry ID.
type TranslateResponse struct {
	Row     map[string]interface{} `json:"row"`
	AuditID string                 `json:"audit_id,omitempty"`
}

// SchemaField describes one output schema field.
type SchemaField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
	// RetainAll retains every envelope in the audit store, not just the
	// ones that fail to decode.
	RetainAll bool
}

// Translator defines the translation operations the server exposes.
type Translator interface {
	Translate(key, value []byte) ([]arrow.Record, error)
	Schema() *arrow.Schema
}
