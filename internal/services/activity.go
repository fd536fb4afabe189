package services

import (
	"context"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/query"
)

type ActivityService struct {
	base
}

func NewActivityService(d Deps) *ActivityService {
	return &ActivityService{base: newBase(d)}
}

// List returns the log entries visible to the actor, most recent first,
// narrowed by f.
func (s *ActivityService) List(ctx context.Context, actorID string, f query.Filter) ([]models.ActivityLog, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceActivityLog, policy.ActionView)
	if err != nil {
		return nil, err
	}
	logs, err := s.Audit.Query(ctx, actor.Role, s.now())
	if err != nil {
		return nil, err
	}
	return query.Logs(logs, f), nil
}
