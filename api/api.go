// Package api exposes the extraction pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hazyhaar/docintel/pipeline"
	"github.com/hazyhaar/docintel/registry"
)

// Config configures the HTTP service.
type Config struct {
	// Addr to listen on, e.g. ":8080".
	Addr string `json:"addr" yaml:"addr"`

	// AuthUser and AuthHash enable basic auth when both set. AuthHash is a
	// bcrypt hash of the password, never the password itself.
	AuthUser string `json:"auth_user,omitempty" yaml:"auth_user,omitempty"`
	AuthHash string `json:"auth_hash,omitempty" yaml:"auth_hash,omitempty"`

	// MaxBodySize caps request bodies (default 100 MB).
	MaxBodySize int64 `json:"max_body_size,omitempty" yaml:"max_body_size,omitempty"`

	// Logger for request and error logging.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Service serves extraction over HTTP.
type Service struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// New creates the HTTP service around an existing pipeline.
func New(cfg Config, p *pipeline.Pipeline) *Service {
	cfg.defaults()
	return &Service{cfg: cfg, pipeline: p, logger: cfg.Logger}
}

// Router builds the HTTP routes.
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	if s.cfg.AuthUser != "" && s.cfg.AuthHash != "" {
		r.Use(s.basicAuth)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/v1/formats", s.handleFormats)
	r.Post("/v1/extract", s.handleExtract)
	r.Post("/v1/batch", s.handleBatch)
	r.Get("/v1/plugins", s.handlePlugins)
	r.Delete("/v1/plugins/{kind}/{name}", s.handlePluginDelete)

	return r
}

// Server returns an http.Server ready to listen on the configured address.
func (s *Service) Server() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Service) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.cfg.AuthUser ||
			bcrypt.CompareHashAndPassword([]byte(s.cfg.AuthHash), []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="docintel"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"mime_types": s.pipeline.SupportedMimeTypes(),
	})
}

// handleExtract accepts the document bytes as the request body. The filename
// hint comes from the X-Filename header.
func (s *Service) handleExtract(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxBodySize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if int64(len(data)) > s.cfg.MaxBodySize {
		writeError(w, http.StatusRequestEntityTooLarge, "body exceeds size limit")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	result, err := s.pipeline.ExtractBytes(r.Context(), data, r.Header.Get("X-Filename"))
	if err != nil {
		writeExtractionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	Documents []batchDocument `json:"documents"`
}

type batchDocument struct {
	Data     []byte `json:"data"` // base64 via encoding/json
	Filename string `json:"filename,omitempty"`
}

type batchItemResponse struct {
	Result *pipeline.ExtractionResult `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

func (s *Service) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.cfg.MaxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "parse request: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "no documents")
		return
	}

	inputs := make([]pipeline.BatchInput, len(req.Documents))
	for i, doc := range req.Documents {
		inputs[i] = pipeline.BatchInput{Data: doc.Data, Filename: doc.Filename}
	}

	items := s.pipeline.ExtractBatch(r.Context(), inputs)
	resp := make([]batchItemResponse, len(items))
	for i, item := range items {
		if item.Err != nil {
			resp[i].Error = item.Err.Error()
		} else {
			resp[i].Result = item.Result
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"batch_id": uuid.NewString(),
		"items":    resp,
	})
}

func (s *Service) handlePlugins(w http.ResponseWriter, r *http.Request) {
	reg := s.pipeline.Registry()
	writeJSON(w, http.StatusOK, map[string]any{
		"ocr_backends":    reg.ListOCRBackends(),
		"post_processors": reg.ListPostProcessors(),
		"validators":      reg.ListValidators(),
	})
}

func (s *Service) handlePluginDelete(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	name := chi.URLParam(r, "name")
	reg := s.pipeline.Registry()

	var err error
	switch kind {
	case "ocr":
		err = reg.UnregisterOCRBackend(name)
	case "post-processor":
		err = reg.UnregisterPostProcessor(name)
	case "validator":
		err = reg.UnregisterValidator(name)
	default:
		writeError(w, http.StatusBadRequest, "unknown plugin kind "+kind)
		return
	}

	var notFound *registry.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
}

func writeExtractionError(w http.ResponseWriter, err error) {
	var unsupported *pipeline.UnsupportedFormatError
	var decodeErr *pipeline.DecodeError
	var valErr *pipeline.ValidationError
	switch {
	case errors.As(err, &unsupported):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &decodeErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &valErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
