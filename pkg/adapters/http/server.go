package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxSteps bounds /simulate/run and /sessions/{id}/run when the
// request does not set max_steps.
const DefaultMaxSteps = 10000

// DefaultStepLimit caps the max_steps a request may ask for.
const DefaultStepLimit = 1_000_000

// maxBodyBytes caps request bodies; client-held tapes travel in them.
const maxBodyBytes = 4 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Sim       ports.Simulator
	Sessions  *session.Manager // nil disables the /sessions routes
	Streams   *StreamManager
	SampleDir string
	Metrics   http.Handler // nil disables /metrics
	StepLimit int          // upper bound on max_steps; <= 0 means DefaultStepLimit

	spec   *openapi3.T
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithSessions mounts the /sessions routes backed by mgr.
func WithSessions(mgr *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = mgr
	}
}

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithSampleDir reports dir on /debug/samples.
func WithSampleDir(dir string) Option {
	return func(s *Server) {
		s.SampleDir = dir
	}
}

// WithStepLimit caps the step budget a run request may ask for.
func WithStepLimit(n int) Option {
	return func(s *Server) {
		s.StepLimit = n
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for sim.
// It fails if the embedded OpenAPI document does not validate.
func NewHandler(sim ports.Simulator, opts ...Option) (http.Handler, error) {
	s := &Server{
		Sim:     sim,
		Streams: NewStreamManager(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	s.spec = spec

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger", http.StatusFound)
	})
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/debug/samples", s.DebugSamples)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Get("/machines", s.ListMachines)
	r.Get("/machine/{name}", s.GetMachine)
	r.Route("/simulate", func(r chi.Router) {
		r.Post("/init", s.InitSimulation)
		r.Post("/step", s.StepSimulation)
		r.Post("/run", s.RunSimulation)
	})

	if s.Sessions != nil {
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.ListSessions)
			r.Post("/", s.CreateSession)
			r.Get("/{id}", s.GetSession)
			r.Delete("/{id}", s.DeleteSession)
			r.Post("/{id}/step", s.StepSession)
			r.Post("/{id}/run", s.RunSession)
			r.Get("/{id}/events", s.SubscribeEvents)
		})
	}

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
		)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Turing Machine Simulator API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"app":         "turing-http",
		"version":     strings.TrimSpace(turing.Version),
		"api_version": s.spec.Info.Version,
	})
}

// DebugSamples handles the GET /debug/samples request.
func (s *Server) DebugSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sample_dir":     s.SampleDir,
		"loaded_samples": s.Sim.Machines(),
	})
}

// -- Helpers --

type errorResponse struct {
	Error string `json:"error"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes and client messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMachineNotFound):
		return http.StatusNotFound, "Machine not found"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, domain.ErrAlreadyHalted):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidRunState), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrStepBudgetExceeded):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err, "status", status)
	}
	writeError(w, status, msg)
}
