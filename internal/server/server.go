// Package server implements the diskmosaic HTTP API.
//
// The API exposes the same layout pipeline the CLI uses. Holdings are
// submitted inline as JSON; layouts are returned as JSON documents.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/diskmosaic/diskmosaic/pkg/buildinfo"
	"github.com/diskmosaic/diskmosaic/pkg/errors"
	"github.com/diskmosaic/diskmosaic/pkg/mosaic"
	"github.com/diskmosaic/diskmosaic/pkg/pipeline"
)

// maxBodyBytes caps the request body size for layout requests.
const maxBodyBytes = 4 << 20

// shutdownTimeout bounds graceful shutdown on context cancellation.
const shutdownTimeout = 10 * time.Second

// Server serves the layout API on top of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	addr   string
}

// New creates a server. If logger is nil the default logger is used.
func New(runner *pipeline.Runner, logger *log.Logger, addr string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		logger: logger,
		addr:   addr,
	}
}

// Router builds the HTTP handler with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/v1/layout", s.handleLayout)

	return r
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// layoutRequest is the body of POST /api/v1/layout.
type layoutRequest struct {
	// Holdings is the inline holdings document.
	Holdings json.RawMessage `json:"holdings"`

	// Layout options, all optional.
	Mode       string            `json:"mode,omitempty"`
	Seed       uint32            `json:"seed,omitempty"`
	DiskRadius float64           `json:"disk_radius,omitempty"`
	Segments   int               `json:"segments,omitempty"`
	Trials     int               `json:"trials,omitempty"`
	Iterations int               `json:"iterations,omitempty"`
	NoJitter   bool              `json:"no_jitter,omitempty"`
	Colors     map[string]string `json:"colors,omitempty"`
	Refresh    bool              `json:"refresh,omitempty"`
}

// layoutResponse is the body of a successful layout request.
type layoutResponse struct {
	Layout    mosaic.Layout `json:"layout"`
	InputHash string        `json:"input_hash"`
	Cached    bool          `json:"cached"`
	Groups    int           `json:"groups"`
	Items     int           `json:"items"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(req.Holdings) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "holdings is required"))
		return
	}
	if req.Mode != "" && !mosaic.ValidModes[req.Mode] {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidMode, "unknown layout mode: %s", req.Mode))
		return
	}

	opts := pipeline.Options{
		Input:      req.Holdings,
		Format:     pipeline.FormatJSON,
		Mode:       req.Mode,
		Seed:       req.Seed,
		DiskRadius: req.DiskRadius,
		Segments:   req.Segments,
		Trials:     req.Trials,
		Iterations: req.Iterations,
		NoJitter:   req.NoJitter,
		Colors:     req.Colors,
		Refresh:    req.Refresh,
		Logger:     s.logger,
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, layoutResponse{
		Layout:    result.Layout,
		InputHash: result.InputHash,
		Cached:    result.CacheInfo.LayoutHit,
		Groups:    result.Stats.GroupCount,
		Items:     result.Stats.ItemCount,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// errorResponse is the body of a failed request.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
