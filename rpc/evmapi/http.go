// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package evmapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/ledgerwatch/log/v3"
	"golang.org/x/time/rate"

	"github.com/erigontech/evmutils/node/nodecfg"
)

const requestIDHeader = "X-Request-Id"

// HTTPTimeouts bound the phases of an HTTP request.
type HTTPTimeouts struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// ShutdownTimeout bounds the graceful shutdown of the server.
	ShutdownTimeout time.Duration
}

var DefaultHTTPTimeouts = HTTPTimeouts{
	ReadTimeout:     30 * time.Second,
	WriteTimeout:    30 * time.Second,
	IdleTimeout:     120 * time.Second,
	ShutdownTimeout: 5 * time.Second,
}

type ctxKey int

const requestIDKey ctxKey = 0

// RequestIDFromContext returns the id assigned to the request being served, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID propagates the caller's X-Request-Id or assigns a fresh one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// rateLimit answers 429 once the limiter's budget is exhausted.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeResponse(w, http.StatusTooManyRequests, Response{Err: KindInvalidRequest + ": rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	b, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func statusOf(resp Response) int {
	switch {
	case resp.Err == "":
		return http.StatusOK
	case strings.HasPrefix(resp.Err, KindInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

type httpHandler struct {
	api     *API
	maxBody int64
}

func (h *httpHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeResponse(w, http.StatusRequestEntityTooLarge, Response{Err: KindInvalidRequest + ": request body too large"})
		} else {
			writeResponse(w, http.StatusBadRequest, Response{Err: KindInvalidRequest + ": " + err.Error()})
		}
		return nil, false
	}
	return body, true
}

func (h *httpHandler) execute(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeResponse(w, http.StatusBadRequest, Response{Err: KindInvalidRequest + ": " + err.Error()})
		return
	}
	resp := h.api.Execute(r.Context(), req)
	writeResponse(w, statusOf(resp), resp)
}

func (h *httpHandler) method(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	resp := h.api.Execute(r.Context(), Request{Method: chi.URLParam(r, "method"), Params: body})
	writeResponse(w, statusOf(resp), resp)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// NewHandler builds the HTTP routes of the service: POST /v1/execute,
// POST /v1/{method}, GET /healthz and, when the API records metrics,
// GET /metrics. A non-nil jwtSecret requires bearer authentication on /v1.
func NewHandler(api *API, cfg nodecfg.HTTPConfig, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	if len(cfg.CorsDomains) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CorsDomains,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         600,
		}))
	}

	r.Get("/healthz", healthz)
	if api.metrics != nil {
		r.Method(http.MethodGet, "/metrics", api.metrics.Handler())
	}

	h := &httpHandler{api: api, maxBody: int64(cfg.MaxRequestSize)}
	r.Route("/v1", func(r chi.Router) {
		if jwtSecret != nil {
			r.Use(jwtAuth(jwtSecret))
		}
		if cfg.RateLimit > 0 {
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)))
		}
		r.Post("/execute", h.execute)
		r.Post("/{method}", h.method)
	})
	return r
}

// Serve listens on cfg's endpoint until ctx is cancelled, then shuts the server
// down gracefully.
func Serve(ctx context.Context, cfg nodecfg.HTTPConfig, handler http.Handler, timeouts HTTPTimeouts, logger log.Logger) error {
	listener, err := net.Listen("tcp", cfg.Endpoint())
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       timeouts.ReadTimeout,
		ReadHeaderTimeout: timeouts.ReadTimeout,
		WriteTimeout:      timeouts.WriteTimeout,
		IdleTimeout:       timeouts.IdleTimeout,
	}
	logger.Info("HTTP endpoint opened", "url", listener.Addr().String(), "cors", cfg.CorsDomains, "jwt", cfg.JWTSecretPath != "")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.ShutdownTimeout)
	defer cancel()
	logger.Info("HTTP endpoint closing", "url", listener.Addr().String())
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
