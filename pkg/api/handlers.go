package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/rowbridge/rowbridge/pkg/audit"
	"github.com/rowbridge/rowbridge/pkg/codec"
	"github.com/rowbridge/rowbridge/pkg/translate"
)

// Server holds the API server state
type Server struct {
	translator Translator
	audit      *audit.Store
	config     ServerConfig
	metrics    *Metrics
	log        *logrus.Logger
}

// NewServer creates a new API server. auditStore may be nil when envelope
// retention is disabled.
func NewServer(translator Translator, auditStore *audit.Store, config ServerConfig, metrics *Metrics, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		translator: translator,
		audit:      auditStore,
		config:     config,
		metrics:    metrics,
		log:        log,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleTranslate godoc
//
//	@Summary		Translate one binary record
//	@Description	Decode a base64-encoded key/value envelope into one typed row
//	@Tags			translate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TranslateRequest	true	"Raw envelope"
//	@Success		200		{object}	TranslateResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/translate [post]
//	@Security		ApiKeyAuth
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	rows, err := s.translator.Translate(req.Key, req.Value)
	if err != nil {
		s.metrics.RecordTranslate(false, time.Since(start))

		var decodeErr *codec.DecodeError
		if errors.As(err, &decodeErr) {
			s.metrics.RecordDecodeError()
			auditID := s.retain(req.Key, req.Value, decodeErr.Error())
			s.log.WithFields(logrus.Fields{
				"request_id": r.Header.Get(requestIDHeader),
				"audit_id":   auditID,
			}).WithError(decodeErr).Warn("record rejected by decoder")
			sendError(w, decodeErr.Error(), http.StatusBadRequest)
			return
		}

		sendError(w, fmt.Sprintf("Failed to translate record: %v", err), http.StatusInternalServerError)
		return
	}

	row := rows[0]
	defer row.Release()

	resp := TranslateResponse{}
	resp.Row, err = translate.RowMap(row)
	if err != nil {
		s.metrics.RecordTranslate(false, time.Since(start))
		sendError(w, fmt.Sprintf("Failed to render row: %v", err), http.StatusInternalServerError)
		return
	}

	if s.config.RetainAll {
		resp.AuditID = s.retain(req.Key, req.Value, "")
	}

	s.metrics.RecordTranslate(true, time.Since(start))
	sendSuccess(w, resp)
}

// handleSchema godoc
//
//	@Summary		Get the output row schema
//	@Description	List the output schema fields fixed at configuration time
//	@Tags			schema
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Router			/schema [get]
//	@Security		ApiKeyAuth
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	arrowSchema := s.translator.Schema()

	fields := make([]SchemaField, 0, arrowSchema.NumFields())
	for _, f := range arrowSchema.Fields() {
		fields = append(fields, SchemaField{
			Name:     f.Name,
			Type:     f.Type.String(),
			Nullable: f.Nullable,
		})
	}

	sendSuccess(w, map[string]interface{}{"fields": fields})
}

// handleListAuditEntries godoc
//
//	@Summary		List audit entries
//	@Description	List retained envelope IDs in arrival order
//	@Tags			audit
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum number of results"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		500		{object}	map[string]string
//	@Router			/audit [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListAuditEntries(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		sendError(w, "Audit retention is disabled", http.StatusNotFound)
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	ids, err := s.audit.List(limit)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list audit entries: %v", err), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, map[string]interface{}{"entries": ids})
}

// handleGetAuditEntry godoc
//
//	@Summary		Get an audit entry
//	@Description	Fetch one retained envelope by ID
//	@Tags			audit
//	@Produce		json
//	@Param			id	path		string	true	"Audit entry ID"
//	@Success		200	{object}	audit.Entry
//	@Failure		404	{object}	map[string]string
//	@Router			/audit/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetAuditEntry(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		sendError(w, "Audit retention is disabled", http.StatusNotFound)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		sendError(w, "Audit entry ID is required", http.StatusBadRequest)
		return
	}

	entry, err := s.audit.Get(id)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to get audit entry: %v", err), http.StatusNotFound)
		return
	}

	sendSuccess(w, entry)
}

// retain writes one envelope to the audit store, if one is configured.
// Retention failures are logged, never surfaced; the translation outcome
// stands on its own.
func (s *Server) retain(key, value []byte, reason string) string {
	if s.audit == nil {
		return ""
	}

	id, err := s.audit.Record(key, value, reason)
	if err != nil {
		s.log.WithError(err).Error("failed to retain envelope")
		return ""
	}
	s.metrics.RecordAuditEntry()
	return id
}
