// File path: internal/api/middleware.go
package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
)

type contextKey string

const requestIDKey contextKey = "request_id"

const (
	headerRequestID = "X-Request-Id"
	headerProvider  = "X-Provider"
	headerModel     = "X-Model"
	headerWorkspace = "X-Workspace-Id"
)

const defaultWorkspace = "default"

// requestID assigns each request an identifier, echoed in the response and
// in every error envelope.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestLogger records method, path, and latency for every request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		common.Logger().Debug("api: request handled", "method", r.Method,
			"path", r.URL.Path, "request_id", requestIDFrom(r.Context()),
			"duration", time.Since(start))
	})
}

func workspaceFrom(r *http.Request) string {
	if ws := strings.TrimSpace(r.Header.Get(headerWorkspace)); ws != "" {
		return ws
	}
	return defaultWorkspace
}

// clientIP resolves the caller address, preferring the first hop recorded in
// X-Forwarded-For when the service sits behind a proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
