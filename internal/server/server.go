// Package server exposes the freeze pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                   liveness and build version
//	POST /v1/freeze                 freeze a list of requirement specifiers
//	GET  /v1/distributions/{name}   the registry record for one distribution
//
// The freeze body is the JSON form of [pipeline.Options]. Only specifiers
// are accepted: the server never reads files or resolves project
// directories on behalf of a client.
//
// Failures are written as {"code": ..., "message": ...} with a status
// derived from the error code. Every response carries an X-Request-ID
// header.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/enorganic/requirements/pkg/buildinfo"
	"github.com/enorganic/requirements/pkg/errors"
	"github.com/enorganic/requirements/pkg/pipeline"
	"github.com/enorganic/requirements/pkg/requirement"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Server serves the HTTP API for one pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server for runner. The runner should have no Locator and
// no Sources so that every input is treated as a plain specifier.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/freeze", s.handleFreeze)
		r.Get("/distributions/{name}", s.handleDistribution)
	})
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleFreeze(w http.ResponseWriter, r *http.Request) {
	opts := pipeline.DefaultOptions()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(opts.Inputs) == 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "requirements cannot be empty"))
		return
	}
	for _, in := range opts.Inputs {
		if err := errors.ValidateRequirementInput(in); err != nil {
			writeError(w, err)
			return
		}
	}
	opts.Logger = loggerFrom(r.Context(), s.logger)

	res, err := s.runner.Freeze(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidatePythonPackageName(name); err != nil {
		writeError(w, err)
		return
	}
	dist, err := s.runner.Registry.Resolve(r.Context(), requirement.Canonicalize(name))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeMalformedSpecifier,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidPackage,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeUnresolvedDependency, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
