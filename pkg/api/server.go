// Package api exposes the RowBridge translator over HTTP: one-record
// translation, the fixed output schema, retained envelopes, health, and
// Prometheus metrics.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/rowbridge/rowbridge/pkg/audit"
)

// StartServer starts the HTTP server with all routes configured. It blocks
// until the listener fails.
func StartServer(translator Translator, auditStore *audit.Store, config ServerConfig, log *logrus.Logger) error {
	metrics := NewMetrics()
	server := NewServer(translator, auditStore, config, metrics, log)

	r := NewRouter(server, config)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.WithField("addr", addr).Info("starting RowBridge API server")

	return http.ListenAndServe(addr, r)
}

// NewRouter builds the chi router for the given server.
func NewRouter(server *Server, config ServerConfig) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(requestLoggerMiddleware(server.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(config.APIKey))

		m := server.metrics

		// Health check
		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Translation
		r.Post("/translate", m.InstrumentHandler("POST", "/api/v1/translate", server.handleTranslate))
		r.Get("/schema", m.InstrumentHandler("GET", "/api/v1/schema", server.handleSchema))

		// Retained envelopes
		r.Get("/audit", m.InstrumentHandler("GET", "/api/v1/audit", server.handleListAuditEntries))
		r.Get("/audit/{id}", m.InstrumentHandler("GET", "/api/v1/audit/{id}", server.handleGetAuditEntry))
	})

	return r
}
