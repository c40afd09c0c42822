package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/model"
)

type UserRepository struct {
	pool *db.Pool
}

func NewUserRepository(pool *db.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) UserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var u model.User
	err := runner(ctx, r.pool).QueryRow(ctx, `
		SELECT id, email, role
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Role)
	if err != nil {
		return model.User{}, mapNoRows(err)
	}
	return u, nil
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := runner(ctx, r.pool).QueryRow(ctx, `
		SELECT id, email, role
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.Role)
	if err != nil {
		return model.User{}, mapNoRows(err)
	}
	return u, nil
}

func (r *UserRepository) UsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := runner(ctx, r.pool).Query(ctx, `
		SELECT id, email, role
		FROM users
		WHERE role = $1
		ORDER BY email
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) SaveUser(ctx context.Context, u model.User) error {
	_, err := runner(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (id, email, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
			role = EXCLUDED.role,
			updated_at = now()
	`, u.ID, u.Email, u.Role)
	return err
}
