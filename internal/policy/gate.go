package policy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/go-workshop/auth"
	"github.com/diewo77/go-workshop/httpx"
	"github.com/diewo77/go-workshop/internal/models"
	"gorm.io/gorm"
)

// Gate is the single authorization point used by every service operation.
type Gate struct {
	resolver ProfileResolver
	cache    *CachedResolver
}

// NewGate creates a gate backed by the users table, caching lookups for cacheTTL.
func NewGate(db *gorm.DB, cacheTTL time.Duration) *Gate {
	cached := NewCachedResolver(NewDBResolver(db), cacheTTL)
	return &Gate{resolver: cached, cache: cached}
}

// NewGateWithResolver creates a gate over an arbitrary resolver without caching.
func NewGateWithResolver(r ProfileResolver) *Gate {
	return &Gate{resolver: r}
}

// Actor resolves userID without checking any permission.
func (g *Gate) Actor(ctx context.Context, userID string) (*Actor, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: no acting user", models.ErrUnauthorized)
	}
	actor, err := g.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actor == nil || actor.Profile == nil {
		return nil, fmt.Errorf("%w: unknown user %s", models.ErrUnauthorized, userID)
	}
	return actor, nil
}

// Authorize resolves userID and checks resourceType:action against its role.
// It returns the actor on success and a wrapped models.ErrUnauthorized otherwise.
func (g *Gate) Authorize(ctx context.Context, userID, resourceType string, action Action) (*Actor, error) {
	actor, err := g.Actor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(resourceType, action) {
		return nil, fmt.Errorf("%w: %s may not %s %s", models.ErrUnauthorized, actor.Role, action, resourceType)
	}
	return actor, nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate) Can(ctx context.Context, userID, resourceType string, action Action) bool {
	_, err := g.Authorize(ctx, userID, resourceType, action)
	return err == nil
}

// InvalidateUser clears the cached actor. No-op for uncached gates.
func (g *Gate) InvalidateUser(userID string) {
	if g.cache != nil {
		g.cache.Invalidate(userID)
	}
}

// RequirePermission returns middleware that rejects requests whose actor
// lacks resourceType:action.
func (g *Gate) RequirePermission(resourceType string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := auth.UserIDFromContext(r.Context())
			if !g.Can(r.Context(), userID, resourceType, action) {
				httpx.Error(w, models.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
