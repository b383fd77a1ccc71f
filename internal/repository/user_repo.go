package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"field-tech-api/internal/model"
)

const userColumns = `id, username, password_hash, full_name, email, role, city, photo, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(username) = lower($1)`, strings.TrimSpace(username)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, full_name, email, role, city, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING id`,
		u.Username, u.PasswordHash, u.FullName, u.Email, u.Role, u.City, u.CreatedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// UpdateProfile writes the supplied profile fields and returns the updated row.
// An empty city clears the technician's city scope.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, patch model.ProfilePatch, at time.Time) (model.User, error) {
	var city any
	setCity := patch.City != nil
	if setCity && strings.TrimSpace(*patch.City) != "" {
		city = strings.TrimSpace(*patch.City)
	}

	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET
		     full_name  = COALESCE($2, full_name),
		     email      = COALESCE($3, email),
		     city       = CASE WHEN $4 THEN $5::text ELSE city END,
		     updated_at = $6
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, patch.FullName, patch.Email, setCity, city, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdatePhoto(ctx context.Context, id int64, photo string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET photo = $2, updated_at = $3 WHERE id = $1`, id, photo, at)
	if err != nil {
		return fmt.Errorf("update profile photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role,
		&u.City, &u.Photo, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
