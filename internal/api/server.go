package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/docretrieval/internal/domain"
	"github.com/knowledge-engine/docretrieval/internal/engine"
	"github.com/knowledge-engine/docretrieval/internal/search"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/directory", s.handleDirectory)
	s.Router.HandleFunc("/api/v1/files", s.handleFiles)
	s.Router.HandleFunc("/api/v1/inspect", s.handleInspect)
	s.Router.HandleFunc("/api/v1/search", s.handleSearch)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

// Handler returns the router wrapped with request logging
func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.Router)
}

func (s *Server) Start(addr string, readTimeout, writeTimeout time.Duration) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return srv.ListenAndServe()
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type FilesResponse struct {
	Directory string   `json:"directory"`
	Files     []string `json:"files"`
}

// Handlers

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Directory string `json:"directory"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	files, err := s.Engine.SelectDirectory(req.Directory)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, FilesResponse{Directory: s.Engine.Directory(), Files: files})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	files := s.Engine.Files()
	if files == nil {
		files = []string{}
	}
	jsonResponse(w, http.StatusOK, FilesResponse{Directory: s.Engine.Directory(), Files: files})
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := s.Engine.Inspect(r.URL.Query().Get("file"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	params := r.URL.Query()
	report, err := s.Engine.Search(engine.SearchRequest{
		Query: params.Get("q"),
		Mode:  search.Mode(params.Get("mode")),
		Files: params["file"],
	})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jsonResponse(w, http.StatusOK, s.Engine.Status())
}

// errorResponse maps an action error to a status code. Every error ends the
// request here; the session stays usable.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrReadFailure):
		code = http.StatusUnprocessableEntity
	}

	entry := requestLogger(r, s.Logger).WithError(err).WithField("status", code)
	if code == http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	jsonResponse(w, code, ErrorResponse{Error: err.Error()})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

type ctxKey struct{}

// requestLogger returns the entry attached by withRequestLogging, or fallback
func requestLogger(r *http.Request, fallback *logrus.Entry) *logrus.Entry {
	if entry, ok := r.Context().Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// withRequestLogging tags each request with an X-Request-ID and logs its outcome
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		entry := s.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, entry))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		entry.WithFields(logrus.Fields{
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	})
}
