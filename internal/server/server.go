// Package server exposes the compiler over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pschichtel/VirtualScanner/internal/compiler"
	"github.com/pschichtel/VirtualScanner/internal/ir"
	"github.com/pschichtel/VirtualScanner/internal/metrics"
	"github.com/pschichtel/VirtualScanner/internal/vk"
)

// maxBodyBytes bounds /compile request bodies.
const maxBodyBytes = 1 << 20

// Server serves compile requests. It never injects keystrokes.
type Server struct {
	Options compiler.Options
	Direct  compiler.DirectOptions
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// CompileRequest is the body of POST /compile.
type CompileRequest struct {
	Input string `json:"input"`
	// Envelope overrides the configured envelope. An empty string removes it.
	Envelope *string `json:"envelope,omitempty"`
	// Direct selects the all-or-nothing layout path.
	Direct bool `json:"direct,omitempty"`
}

// CompileResponse is the body of a successful POST /compile.
type CompileResponse struct {
	Events     []ir.KeyEvent `json:"events"`
	Canonical  string        `json:"canonical"`
	Tree       string        `json:"tree,omitempty"`
	Unresolved []string      `json:"unresolved,omitempty"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Offset  *int   `json:"offset,omitempty"`
	Missing string `json:"missing,omitempty"`
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/compile", s.Compile)
	r.Get("/keys", s.Keys)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.Logger)
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	return r
}

// Compile handles POST /compile.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body CompileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.Logger.Warn("compile: invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()}, s.Logger)
		return
	}

	start := time.Now()
	resp, path, err := s.compile(body)
	s.Metrics.ObserveCompile(path, time.Since(start))
	if err != nil {
		s.Logger.Debug("compile rejected", zap.String("path", path), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err), s.Logger)
		return
	}
	writeJSON(w, http.StatusOK, resp, s.Logger)
}

func (s *Server) compile(body CompileRequest) (CompileResponse, string, error) {
	if body.Direct {
		events, err := compiler.CompileDirect(body.Input, s.Direct)
		if err != nil {
			return CompileResponse{}, "direct", err
		}
		return CompileResponse{Events: nonNil(events), Canonical: ir.Canonicalize(events)}, "direct", nil
	}

	opts := s.Options
	if body.Envelope != nil {
		opts.Envelope = nil
		if *body.Envelope != "" {
			opts = opts.WithEnvelope(*body.Envelope)
		}
	}
	prog, err := compiler.Compile(body.Input, opts)
	if err != nil {
		return CompileResponse{}, "macro", err
	}

	resp := CompileResponse{
		Events:    nonNil(prog.Events),
		Canonical: prog.Canonical(),
		Tree:      ir.FormatSequence(prog.Tree, ""),
	}
	for _, key := range prog.Unresolved {
		resp.Unresolved = append(resp.Unresolved, key.String())
	}
	return resp, "macro", nil
}

// Keys handles GET /keys, listing the named keys {NAME} accepts.
func (s *Server) Keys(w http.ResponseWriter, r *http.Request) {
	type key struct {
		Name string `json:"name"`
		Code int    `json:"code"`
	}
	names := vk.Names()
	keys := make([]key, 0, len(names))
	for _, name := range names {
		code, _ := vk.Lookup(name)
		keys = append(keys, key{Name: name, Code: code})
	}
	writeJSON(w, http.StatusOK, keys, s.Logger)
}

func errorBody(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}
	var parseErr *compiler.ParseError
	if errors.As(err, &parseErr) {
		offset := parseErr.Offset
		resp.Offset = &offset
	}
	var missing *compiler.MissingCharactersError
	if errors.As(err, &missing) {
		resp.Missing = string(missing.Chars)
	}
	return resp
}

func nonNil(events []ir.KeyEvent) []ir.KeyEvent {
	if events == nil {
		return []ir.KeyEvent{}
	}
	return events
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", zap.Error(err))
	}
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return Serve(ctx, ln, h, logger)
}

// Serve is ListenAndServe on an existing listener.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
