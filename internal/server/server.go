// Package server exposes the pipeline over a thin HTTP endpoint.
// Failure mode: invalid input returns 400 and an unreachable site 502,
// both with a detail message and no content field.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sitedigest/internal/app"
	"sitedigest/internal/crawl"
	"sitedigest/internal/models"
)

// scrapeTimeout bounds one whole request: primary crawl plus the
// fallback engine's own 90s window.
const scrapeTimeout = 3 * time.Minute

type scrapeRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func Handler(a *app.App, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/scrape", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
			return
		}
		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body"})
			return
		}
		if req.URL == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "missing 'url' field"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), scrapeTimeout)
		defer cancel()

		result, err := a.Scrape(ctx, req.URL)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, result)
		case errors.Is(err, models.ErrInvalidTarget):
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		case errors.Is(err, crawl.ErrUnreachable):
			writeJSON(w, http.StatusBadGateway, errorResponse{Detail: err.Error()})
		default:
			log.Error("scrape failed", "url", req.URL, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "scrape failed"})
		}
	})

	return logRequests(log, mux)
}

// New builds the HTTP server with sane timeouts. WriteTimeout must
// outlive the slowest scrape.
func New(addr string, a *app.App, log *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      Handler(a, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: scrapeTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequests(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
