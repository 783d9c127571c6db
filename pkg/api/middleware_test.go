package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		apiKey         string
		requestHeader  string
		expectedStatus int
	}{
		{
			name:           "valid API key",
			apiKey:         "test-key",
			requestHeader:  "test-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing API key header",
			apiKey:         "test-key",
			requestHeader:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid API key",
			apiKey:         "test-key",
			requestHeader:  "wrong-key",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a test handler that just returns 200
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			// Apply the middleware
			middleware := apiKeyMiddleware(tt.apiKey)
			handler := middleware(testHandler)

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.requestHeader != "" {
				req.Header.Set("X-API-Key", tt.requestHeader)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()

	handler := requestLoggerMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("nope"))
	}))

	req := httptest.NewRequest("POST", "/api/v1/translate", nil)
	req.Header.Set(requestIDHeader, "caller-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(hook.Entries) != 1 {
		t.Fatalf("Expected one log entry per request, got %d", len(hook.Entries))
	}

	entry := hook.LastEntry()
	if entry.Data["method"] != "POST" {
		t.Errorf("Expected method POST, got %v", entry.Data["method"])
	}
	if entry.Data["path"] != "/api/v1/translate" {
		t.Errorf("Expected path /api/v1/translate, got %v", entry.Data["path"])
	}
	if entry.Data["status"] != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %v", http.StatusBadRequest, entry.Data["status"])
	}
	if entry.Data["request_id"] != "caller-id" {
		t.Errorf("Expected request_id caller-id, got %v", entry.Data["request_id"])
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("assigns an ID when absent", func(t *testing.T) {
		var seen string
		handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get(requestIDHeader)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if seen == "" {
			t.Error("Expected a request ID to be assigned")
		}
		if w.Header().Get(requestIDHeader) != seen {
			t.Errorf("Expected response header %q, got %q", seen, w.Header().Get(requestIDHeader))
		}
	})

	t.Run("keeps a caller-provided ID", func(t *testing.T) {
		handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(requestIDHeader, "caller-id")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got != "caller-id" {
			t.Errorf("Expected caller-id, got %q", got)
		}
	})
}
