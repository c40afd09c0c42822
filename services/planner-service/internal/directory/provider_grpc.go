//go:build protogen

package directory

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/planwerk/interviewplanner/libs/grpcx"
	identityv1 "github.com/planwerk/interviewplanner/protos/gen/identity/v1"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
)

// grpcDirectory serves single-user lookups from the identity service and
// keeps role listings and writes on the local store.
type grpcDirectory struct {
	planner.UserStore
	client identityv1.IdentityServiceClient
}

func NewUserDirectory(logger *slog.Logger, store planner.UserStore, addr string) (planner.UserStore, error) {
	if addr == "" {
		return NewLocalDirectory(store), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpcx.Dial(ctx, addr, grpcx.DialOptions{Timeout: 5 * time.Second})
	if err != nil {
		logger.Warn("identity service unavailable, using local directory", "err", err)
		return NewLocalDirectory(store), nil
	}

	logger.Info("identity directory enabled", "addr", addr)
	return &grpcDirectory{UserStore: store, client: identityv1.NewIdentityServiceClient(conn)}, nil
}

func (d *grpcDirectory) UserByEmail(ctx context.Context, email string) (model.User, error) {
	resp, err := d.client.GetUserByEmail(ctx, &identityv1.UserByEmailRequest{Email: email})
	if err != nil {
		return model.User{}, err
	}
	return userOf(resp.GetUser())
}

func (d *grpcDirectory) UserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	resp, err := d.client.GetUser(ctx, &identityv1.UserRequest{Id: id.String()})
	if err != nil {
		return model.User{}, err
	}
	return userOf(resp.GetUser())
}

func userOf(u *identityv1.User) (model.User, error) {
	id, err := uuid.Parse(u.GetId())
	if err != nil {
		return model.User{}, err
	}
	role, ok := model.ParseRole(u.GetRole())
	if !ok {
		role = model.RoleCandidate
	}
	return model.User{ID: id, Email: u.GetEmail(), Role: role}, nil
}
