package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/apperr"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

func (s *Service) UserByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", email)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *Service) UsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	users, err := s.users.UsersByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GrantRole assigns role to the target user, replacing whatever role they held.
func (s *Service) GrantRole(ctx context.Context, userID uuid.UUID, role model.Role) (model.User, error) {
	var user model.User
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		u, err := s.userByID(ctx, userID)
		if err != nil {
			return err
		}
		u.Role = role
		if err := s.users.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// RevokeRole strips role from the target user, demoting them to candidate.
// A coordinator cannot revoke their own coordinator role.
func (s *Service) RevokeRole(ctx context.Context, actorID, userID uuid.UUID, role model.Role) (model.User, error) {
	var user model.User
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		u, err := s.userByID(ctx, userID)
		if err != nil {
			return err
		}
		if role == model.RoleCoordinator && actorID == userID {
			return apperr.Forbidden(apperr.CodeSelfRoleRevocation,
				"coordinators cannot revoke their own role")
		}
		if u.Role != role {
			return apperr.Invalid(apperr.CodeRoleNotAssigned,
				"user %s does not hold role %s", userID, role)
		}
		u.Role = model.RoleCandidate
		if err := s.users.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *Service) userByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	u, err := s.users.UserByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, apperr.NotFound(apperr.CodeUserNotFound, "user %s not found", id)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}
