package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diewo77/go-workshop/internal/models"
	"gorm.io/gorm"
)

// Actor is the resolved acting user.
type Actor struct {
	ID      string
	Name    string
	Role    models.Role
	Profile *Profile
}

// Can reports whether the actor's profile grants action on resourceType.
func (a *Actor) Can(resourceType string, action Action) bool {
	if a == nil {
		return false
	}
	return a.Profile.HasPermission(NewPermission(resourceType, action))
}

// ProfileResolver resolves a user id to an actor with its role profile.
// A nil actor with a nil error means the user is unknown.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID string) (*Actor, error)
}

// DBResolver looks users up through gorm.
type DBResolver struct {
	DB *gorm.DB
}

func NewDBResolver(db *gorm.DB) *DBResolver {
	return &DBResolver{DB: db}
}

// Resolve loads the user and attaches the profile of its role.
func (r *DBResolver) Resolve(ctx context.Context, userID string) (*Actor, error) {
	var u models.User
	err := r.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user %s: %w", userID, err)
	}
	return &Actor{ID: u.ID, Name: u.Name, Role: u.Role, Profile: ProfileFor(u.Role)}, nil
}

// CachedResolver memoizes another resolver for ttl.
type CachedResolver struct {
	inner ProfileResolver
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	actor     *Actor
	expiresAt time.Time
}

func NewCachedResolver(inner ProfileResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
}

func (r *CachedResolver) Resolve(ctx context.Context, userID string) (*Actor, error) {
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()
	if ok && r.now().Before(entry.expiresAt) {
		return entry.actor, nil
	}

	actor, err := r.inner.Resolve(ctx, userID)
	if err != nil || actor == nil {
		return actor, err
	}

	r.mu.Lock()
	r.cache[userID] = cacheEntry{actor: actor, expiresAt: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return actor, nil
}

// Invalidate drops the cached actor for userID. Call it after a role or name change.
func (r *CachedResolver) Invalidate(userID string) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

// StaticResolver is an in-memory resolver for tests and fixtures.
type StaticResolver struct {
	mu     sync.RWMutex
	actors map[string]*Actor
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{actors: make(map[string]*Actor)}
}

// Set registers a user under role.
func (r *StaticResolver) Set(userID, name string, role models.Role) {
	r.mu.Lock()
	r.actors[userID] = &Actor{ID: userID, Name: name, Role: role, Profile: ProfileFor(role)}
	r.mu.Unlock()
}

func (r *StaticResolver) Resolve(_ context.Context, userID string) (*Actor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actors[userID], nil
}
