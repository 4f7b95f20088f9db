package repository

import (
	"context"
	"errors"
	"time"

	"github.com/medaudit/audit-trail-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	CreateBatch(ctx context.Context, logs []*model.AuditLog) error
	Get(ctx context.Context, id string) (*model.AuditLog, error)
	List(ctx context.Context, filters model.LogFilters) ([]*model.AuditLog, error)
	Count(ctx context.Context, hospitalID string, since time.Time) (int64, error)
	CountByEventType(ctx context.Context, hospitalID string, since time.Time) ([]model.TypeCount, error)
	CountByLevel(ctx context.Context, hospitalID string, since time.Time) ([]model.LevelCount, error)
	HourlyActivity(ctx context.Context, hospitalID string, since time.Time) ([]model.HourlyCount, error)
	DailyActivity(ctx context.Context, hospitalID string, since time.Time) ([]model.DailyCount, error)
	TopUsers(ctx context.Context, hospitalID string, since time.Time, limit int) ([]model.UserActivityCount, error)
	SecurityCounts(ctx context.Context, hospitalID string, since time.Time) (*model.SecurityReport, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type HospitalRepository interface {
	Create(ctx context.Context, h *model.Hospital) error
	Get(ctx context.Context, id string) (*model.Hospital, error)
	List(ctx context.Context) ([]*model.Hospital, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, hospitalID string) ([]*model.User, error)
	Search(ctx context.Context, hospitalID, query string, limit int) ([]*model.User, error)
	CountActive(ctx context.Context, hospitalID string) (int64, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type DeviceRepository interface {
	Create(ctx context.Context, d *model.Device) error
	Get(ctx context.Context, id string) (*model.Device, error)
	List(ctx context.Context, hospitalID string) ([]*model.Device, error)
	Search(ctx context.Context, hospitalID, query string, limit int) ([]*model.Device, error)
	CountActive(ctx context.Context, hospitalID string) (int64, error)
	TouchLastSeen(ctx context.Context, id string, at time.Time) error
}

type PatientRepository interface {
	Create(ctx context.Context, p *model.Patient) error
	Get(ctx context.Context, id string) (*model.Patient, error)
	List(ctx context.Context, hospitalID string) ([]*model.Patient, error)
	Search(ctx context.Context, hospitalID, query string, limit int) ([]*model.Patient, error)
	Count(ctx context.Context, hospitalID string) (int64, error)
}
