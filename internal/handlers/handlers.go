// Package handlers exposes the workshop services as a JSON API under /api/v1.
// The acting user is read from the request context populated by auth.Middleware.
package handlers

import (
	"net/http"

	"github.com/diewo77/go-workshop/auth"
	"github.com/diewo77/go-workshop/internal/query"
)

// Prefix is the mount point of every API route.
const Prefix = "/api/v1"

func actorID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// filterFrom reads ?q= and the categorical parameter named key.
func filterFrom(r *http.Request, key string) query.Filter {
	q := r.URL.Query()
	return query.Filter{Term: q.Get("q"), Category: q.Get(key)}
}

// list wraps a slice so empty results encode as [] rather than null.
func list[T any](items []T) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{"items": items, "total": len(items)}
}
