package http

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// maxRequestBodySize caps request bodies to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1MB

// apiMessage is the uniform body for success flags and business rejections.
type apiMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// apiError is the body for mobile-side failures (401/500).
type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

// connectionCode extracts the session code from the request. WebSocket
// clients cannot set headers from a browser, so the query parameter is
// accepted as a fallback.
func connectionCode(r *http.Request) string {
	if code := r.Header.Get("x-connection-code"); code != "" {
		return code
	}
	return r.URL.Query().Get("code")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Hijack keeps the WebSocket upgrade working through the recorder.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return hj.Hijack()
}

// withLogging logs one structured line per request with a short run ID.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		runID := uuid.NewString()[:8]

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Info("http request",
			"run_id", runID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
