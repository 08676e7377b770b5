// Package server exposes token sync and the token and component transforms
// over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	figmasync "github.com/kataras/figma-ds-sync"
	"github.com/kataras/figma-ds-sync/pkg/figma"
	"github.com/kataras/figma-ds-sync/pkg/tokens"
)

// Name is reported by GET /.
const Name = "Figma MCP Bridge"

const maxBodyBytes = 10 << 20

// Syncer is the Figma side of the bridge. *figmasync.Syncer implements it.
type Syncer interface {
	Pull(ctx context.Context) (*figmasync.PullResult, error)
	Push(ctx context.Context, set tokens.Set, opts figmasync.PushOptions) (*figmasync.PushResult, error)
	Components(ctx context.Context) ([]figma.ComponentMetadata, error)
}

// Server is the REST bridge. A nil Syncer leaves the local transform
// routes working and answers the /figma routes with 400.
type Server struct {
	Router *chi.Mux
	Logger *slog.Logger
	syncer Syncer
}

// NewLogger returns the JSON logger used by the bridge.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// New creates the bridge and mounts its routes.
func New(syncer Syncer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		Router: chi.NewRouter(),
		Logger: logger,
		syncer: syncer,
	}

	r := s.Router
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLog)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleRoot)
	r.Route("/figma", func(r chi.Router) {
		r.Get("/design-tokens", s.handlePull)
		r.Post("/push", s.handlePush)
		r.Get("/components", s.handleComponents)
	})
	r.Post("/tokens/validate", s.handleValidate)
	r.Post("/tokens/build", s.handleBuild)
	r.Post("/components/spec", s.handleComponentSpec)
	r.Post("/components/react", s.handleGenerateReact)

	return s
}

// ServeHTTP implements http.Handler so Server can be used directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("starting bridge", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down bridge")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()))
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    http.StatusText(status),
			"code":    status,
		},
	})
}

// upstreamError maps a Figma failure to a response.
func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("figma request failed", "path", r.URL.Path, "error", err)

	var apiErr *figma.APIError
	if errors.As(err, &apiErr) {
		Error(w, http.StatusBadGateway, err.Error())
		return
	}
	Error(w, http.StatusInternalServerError, err.Error())
}

// readTokens decodes and validates a token document from the request body.
// It writes the error response itself and reports whether decoding succeeded.
func readTokens(w http.ResponseWriter, r *http.Request) (tokens.Set, bool) {
	raw, ok := readRaw(w, r)
	if !ok {
		return nil, false
	}

	set, err := tokens.FromRaw(raw)
	if err != nil {
		var verr *tokens.ValidationError
		if errors.As(err, &verr) {
			JSON(w, http.StatusUnprocessableEntity, map[string]any{
				"valid":  false,
				"errors": verr.Errors,
			})
			return nil, false
		}
		Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return set, true
}

func readRaw(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		Error(w, http.StatusRequestEntityTooLarge, err.Error())
		return nil, false
	}

	raw, err := tokens.Decode(data)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return raw, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
