package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, p *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, tc_no, name, gender, birth_date, status, phone, email,
			address, hospital_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.GetDB().ExecContext(ctx, query,
		p.ID, p.TCNo, p.Name, p.Gender, p.BirthDate, p.Status, p.Phone,
		p.Email, p.Address, p.HospitalID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	var p model.Patient
	if err := r.GetDB().GetContext(ctx, &p, `SELECT * FROM patients WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &p, nil
}

func (r *patientRepository) List(ctx context.Context, hospitalID string) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE 1=1`
	var args []interface{}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var patients []*model.Patient
	if err := r.GetDB().SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Search(ctx context.Context, hospitalID, q string, limit int) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE (name ILIKE $1 OR id ILIKE $1 OR tc_no LIKE $1)`
	args := []interface{}{"%" + q + "%"}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY name LIMIT $%d", len(args))

	var patients []*model.Patient
	if err := r.GetDB().SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context, hospitalID string) (int64, error) {
	query := `SELECT COUNT(*) FROM patients WHERE 1=1`
	var args []interface{}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	var count int64
	if err := r.GetDB().GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}
