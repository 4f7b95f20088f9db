package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type deviceRepository struct {
	BaseRepository
}

func NewDeviceRepository(base BaseRepository) repository.DeviceRepository {
	return &deviceRepository{base}
}

func (r *deviceRepository) Create(ctx context.Context, d *model.Device) error {
	query := `
		INSERT INTO devices (
			id, name, type, status, ip_address, clinic, hospital_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		d.ID, d.Name, d.Type, d.Status, d.IPAddress, d.Clinic, d.HospitalID,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert device: %w", err)
	}
	return nil
}

func (r *deviceRepository) Get(ctx context.Context, id string) (*model.Device, error) {
	var d model.Device
	if err := r.GetDB().GetContext(ctx, &d, `SELECT * FROM devices WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	return &d, nil
}

func (r *deviceRepository) List(ctx context.Context, hospitalID string) ([]*model.Device, error) {
	query := `SELECT * FROM devices WHERE 1=1`
	var args []interface{}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	query += " ORDER BY name"

	var devices []*model.Device
	if err := r.GetDB().SelectContext(ctx, &devices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

func (r *deviceRepository) Search(ctx context.Context, hospitalID, q string, limit int) ([]*model.Device, error) {
	query := `SELECT * FROM devices WHERE (name ILIKE $1 OR id ILIKE $1 OR clinic ILIKE $1)`
	args := []interface{}{"%" + q + "%"}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d", len(args))

	var devices []*model.Device
	if err := r.GetDB().SelectContext(ctx, &devices, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search devices: %w", err)
	}
	return devices, nil
}

func (r *deviceRepository) CountActive(ctx context.Context, hospitalID string) (int64, error) {
	query := `SELECT COUNT(*) FROM devices WHERE status = 'active'`
	var args []interface{}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	var count int64
	if err := r.GetDB().GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count active devices: %w", err)
	}
	return count, nil
}

func (r *deviceRepository) TouchLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.GetDB().ExecContext(ctx,
		`UPDATE devices SET last_seen = $1, updated_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update device last seen: %w", err)
	}
	return nil
}
