// Package directory resolves user identities. The planner keeps its own user
// records, but deployments with a central identity service can have lookups
// served remotely while writes stay local.
package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

type localDirectory struct {
	store planner.UserStore
}

// NewLocalDirectory serves every lookup from the planner's own user store.
func NewLocalDirectory(store planner.UserStore) planner.UserStore {
	return &localDirectory{store: store}
}

func (d *localDirectory) UserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return d.store.UserByID(ctx, id)
}

func (d *localDirectory) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return d.store.UserByEmail(ctx, email)
}

func (d *localDirectory) UsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return d.store.UsersByRole(ctx, role)
}

func (d *localDirectory) SaveUser(ctx context.Context, u model.User) error {
	return d.store.SaveUser(ctx, u)
}
