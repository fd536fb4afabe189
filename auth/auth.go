// Package auth carries the acting user through request contexts.
//
// Users are identified, not authenticated: the acting user id is taken from
// the X-User-ID header and falls back to a configured default actor.
package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type ctxKey string

const (
	// HeaderUserID names the request header carrying the acting user id.
	HeaderUserID = "X-User-ID"

	userIDCtxKey   = ctxKey("userID")
	clientIPCtxKey = ctxKey("clientIP")
)

// DefaultActor returns the user id to act as when a request names none.
// Set it during app bootstrap; an empty result leaves the request anonymous.
type DefaultActor func(ctx context.Context) string

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDCtxKey).(string)
	return id, ok && id != ""
}

// WithClientIP stores the caller address in context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPCtxKey, ip)
}

// ClientIPFromContext returns the caller address or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPCtxKey).(string)
	return ip
}

// ClientIP extracts the caller address, preferring X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware attaches the acting user id and client address to the request context.
func Middleware(fallback DefaultActor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithClientIP(r.Context(), ClientIP(r))
			uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if uid == "" && fallback != nil {
				uid = fallback(ctx)
			}
			if uid != "" {
				ctx = WithUserID(ctx, uid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
