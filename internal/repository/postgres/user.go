package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (
			id, name, title, department, role, status, email,
			password_hash, hospital_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		u.ID, u.Name, u.Title, u.Department, u.Role, u.Status, u.Email,
		u.PasswordHash, u.HospitalID, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.GetDB().GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.GetDB().GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, hospitalID string) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE 1=1`
	var args []interface{}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	query += " ORDER BY name"

	var users []*model.User
	if err := r.GetDB().SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Search(ctx context.Context, hospitalID, q string, limit int) ([]*model.User, error) {
	query := `SELECT * FROM users WHERE (name ILIKE $1 OR email ILIKE $1 OR department ILIKE $1)`
	args := []interface{}{"%" + q + "%"}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d", len(args))

	var users []*model.User
	if err := r.GetDB().SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (r *userRepository) CountActive(ctx context.Context, hospitalID string) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE status = 'active'`
	var args []interface{}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	var count int64
	if err := r.GetDB().GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.GetDB().ExecContext(ctx,
		`UPDATE users SET last_login = $1, updated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
