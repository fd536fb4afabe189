package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/store"
	"github.com/diewo77/go-workshop/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserInput describes a new staff member.
type UserInput struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// UserPatch updates only the non-nil fields.
type UserPatch struct {
	Name  *string      `json:"name"`
	Email *string      `json:"email"`
	Role  *models.Role `json:"role"`
}

type UserService struct {
	base
	repo *store.Repository[models.User]
}

func NewUserService(d Deps) *UserService {
	b := newBase(d)
	return &UserService{base: b, repo: store.NewRepository[models.User](b.DB, store.OrderBy("created_at ASC"))}
}

func validateUser(in UserInput) error {
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.Required("email", in.Email, v)
	validation.Email("email", in.Email, v)
	validation.OneOf("role", in.Role.Valid(), v)
	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrValidation, err)
	}
	return nil
}

// emailTaken reports whether another user already uses email.
func emailTaken(ctx context.Context, tx *gorm.DB, email, exceptID string) error {
	var n int64
	q := tx.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(email))
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %w", models.ErrValidation, validation.Violations{"email": "already_exists"}.Err())
	}
	return nil
}

func (s *UserService) List(ctx context.Context, actorID string) ([]models.User, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceUser, policy.ActionList); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Create adds a staff member.
func (s *UserService) Create(ctx context.Context, actorID string, in UserInput) (*models.User, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceUser, policy.ActionCreate)
	if err != nil {
		return nil, s.done(models.ActionAddUser, nil, err)
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := validateUser(in); err != nil {
		return nil, s.done(models.ActionAddUser, actor, err)
	}
	u := &models.User{Name: in.Name, Email: in.Email, Role: in.Role}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := emailTaken(ctx, tx, in.Email, ""); err != nil {
			return err
		}
		id, err := s.repo.WithTx(tx).Insert(ctx, u)
		if err != nil {
			return err
		}
		return s.record(ctx, tx, actor, models.ActionAddUser, models.EntityUser, id,
			fmt.Sprintf("Added user: %s (%s)", u.Name, u.Role))
	})
	if err != nil {
		return nil, s.done(models.ActionAddUser, actor, err)
	}
	_ = s.done(models.ActionAddUser, actor, nil, zap.String("user", u.ID))
	return u, nil
}

// Update edits a staff member. A role change takes effect on the next request.
func (s *UserService) Update(ctx context.Context, actorID, id string, patch UserPatch) (*models.User, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceUser, policy.ActionUpdate)
	if err != nil {
		return nil, s.done(models.ActionUpdateUser, nil, err)
	}
	var out *models.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		u, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		in := UserInput{Name: u.Name, Email: u.Email, Role: u.Role}
		if patch.Name != nil {
			in.Name = *patch.Name
		}
		if patch.Email != nil {
			in.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Role != nil {
			in.Role = *patch.Role
		}
		if err := validateUser(in); err != nil {
			return err
		}
		if err := emailTaken(ctx, tx, in.Email, id); err != nil {
			return err
		}
		if u.Role == models.RoleOwner && in.Role != models.RoleOwner {
			owners, err := repo.Count(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("role = ?", models.RoleOwner) })
			if err != nil {
				return err
			}
			if owners <= 1 {
				return fmt.Errorf("%w: %s is the last owner", models.ErrInvalidState, u.Email)
			}
		}
		if _, err := repo.Update(ctx, id, map[string]any{"name": in.Name, "email": in.Email, "role": in.Role}); err != nil {
			return err
		}
		if err := s.record(ctx, tx, actor, models.ActionUpdateUser, models.EntityUser, id, "Updated user: "+in.Name); err != nil {
			return err
		}
		out, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.done(models.ActionUpdateUser, actor, err)
	}
	s.Gate.InvalidateUser(id)
	_ = s.done(models.ActionUpdateUser, actor, nil, zap.String("user", id))
	return out, nil
}

// Touch stamps the user's last login. It is bookkeeping, not an audited mutation.
func (s *UserService) Touch(ctx context.Context, userID string) error {
	_, err := s.repo.Update(ctx, userID, map[string]any{"last_login": s.now()})
	return err
}

// ByEmail looks a user up without authorization; used to resolve the default actor.
func (s *UserService) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
