package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type hospitalRepository struct {
	BaseRepository
}

func NewHospitalRepository(base BaseRepository) repository.HospitalRepository {
	return &hospitalRepository{base}
}

func (r *hospitalRepository) Create(ctx context.Context, h *model.Hospital) error {
	query := `
		INSERT INTO hospitals (id, name, location, city, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		h.ID, h.Name, h.Location, h.City, h.Type, h.Status, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert hospital: %w", err)
	}
	return nil
}

func (r *hospitalRepository) Get(ctx context.Context, id string) (*model.Hospital, error) {
	var h model.Hospital
	if err := r.GetDB().GetContext(ctx, &h, `SELECT * FROM hospitals WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hospital: %w", err)
	}
	return &h, nil
}

func (r *hospitalRepository) List(ctx context.Context) ([]*model.Hospital, error) {
	var hospitals []*model.Hospital
	if err := r.GetDB().SelectContext(ctx, &hospitals, `SELECT * FROM hospitals ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	return hospitals, nil
}
