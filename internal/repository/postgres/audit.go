package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type auditLogRepository struct {
	BaseRepository
}

func NewAuditLogRepository(base BaseRepository) repository.AuditLogRepository {
	return &auditLogRepository{base}
}

const auditInsert = `
	INSERT INTO audit_logs (
		id, timestamp, level, event_type, message,
		user_id, patient_id, device_id, hospital_id, source_ip,
		details, hl7_message_path, dicom_path, pdf_path, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

func (r *auditLogRepository) Create(ctx context.Context, log *model.AuditLog) error {
	details, err := marshalDetails(log)
	if err != nil {
		return err
	}
	_, err = r.GetDB().ExecContext(ctx, auditInsert,
		log.ID, log.Timestamp, log.Level, log.EventType, log.Message,
		nullable(log.UserID), nullable(log.PatientID), nullable(log.DeviceID),
		log.HospitalID, log.SourceIP,
		details, nullable(log.HL7MessagePath), nullable(log.DICOMPath),
		nullable(log.PDFPath), log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

// CreateBatch inserts a whole workflow chain in one transaction so a
// partial journey never becomes visible.
func (r *auditLogRepository) CreateBatch(ctx context.Context, logs []*model.AuditLog) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, log := range logs {
			details, err := marshalDetails(log)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, auditInsert,
				log.ID, log.Timestamp, log.Level, log.EventType, log.Message,
				nullable(log.UserID), nullable(log.PatientID), nullable(log.DeviceID),
				log.HospitalID, log.SourceIP,
				details, nullable(log.HL7MessagePath), nullable(log.DICOMPath),
				nullable(log.PDFPath), log.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert audit log %s: %w", log.ID, err)
			}
		}
		return nil
	})
}

func (r *auditLogRepository) Get(ctx context.Context, id string) (*model.AuditLog, error) {
	var row auditLogRow
	query := `SELECT * FROM audit_logs WHERE id = $1`
	if err := r.GetDB().GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get audit log: %w", err)
	}
	return row.toModel()
}

func (r *auditLogRepository) List(ctx context.Context, filters model.LogFilters) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_logs WHERE 1=1`
	var args []interface{}

	if filters.HospitalID != "" {
		args = append(args, filters.HospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	if filters.Level != "" {
		args = append(args, filters.Level)
		query += fmt.Sprintf(" AND level = $%d", len(args))
	}
	if filters.EventType != "" {
		args = append(args, filters.EventType)
		query += fmt.Sprintf(" AND event_type = $%d", len(args))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		query += fmt.Sprintf(" AND timestamp >= $%d", len(args))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		query += fmt.Sprintf(" AND timestamp <= $%d", len(args))
	}

	query += " ORDER BY timestamp DESC"
	limit := filters.Limit
	if limit <= 0 {
		limit = 1000
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	var rows []auditLogRow
	if err := r.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	logs := make([]*model.AuditLog, 0, len(rows))
	for i := range rows {
		log, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, nil
}

func (r *auditLogRepository) Count(ctx context.Context, hospitalID string, since time.Time) (int64, error) {
	query, args := scoped(`SELECT COUNT(*) FROM audit_logs`, hospitalID, since)
	var count int64
	if err := r.GetDB().GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count audit logs: %w", err)
	}
	return count, nil
}

func (r *auditLogRepository) CountByEventType(ctx context.Context, hospitalID string, since time.Time) ([]model.TypeCount, error) {
	query, args := scoped(`SELECT event_type, COUNT(*) AS count FROM audit_logs`, hospitalID, since)
	query += " GROUP BY event_type ORDER BY count DESC"

	var counts []model.TypeCount
	if err := r.GetDB().SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count by event type: %w", err)
	}
	return counts, nil
}

func (r *auditLogRepository) CountByLevel(ctx context.Context, hospitalID string, since time.Time) ([]model.LevelCount, error) {
	query, args := scoped(`SELECT level, COUNT(*) AS count FROM audit_logs`, hospitalID, since)
	query += " GROUP BY level ORDER BY count DESC"

	var counts []model.LevelCount
	if err := r.GetDB().SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count by level: %w", err)
	}
	return counts, nil
}

func (r *auditLogRepository) HourlyActivity(ctx context.Context, hospitalID string, since time.Time) ([]model.HourlyCount, error) {
	query, args := scoped(`SELECT EXTRACT(HOUR FROM timestamp)::int AS hour, COUNT(*) AS count FROM audit_logs`, hospitalID, since)
	query += " GROUP BY hour ORDER BY hour"

	var counts []model.HourlyCount
	if err := r.GetDB().SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get hourly activity: %w", err)
	}
	return counts, nil
}

func (r *auditLogRepository) DailyActivity(ctx context.Context, hospitalID string, since time.Time) ([]model.DailyCount, error) {
	query, args := scoped(`SELECT date_trunc('day', timestamp) AS day, COUNT(*) AS count FROM audit_logs`, hospitalID, since)
	query += " GROUP BY day ORDER BY day"

	var counts []model.DailyCount
	if err := r.GetDB().SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}
	return counts, nil
}

func (r *auditLogRepository) TopUsers(ctx context.Context, hospitalID string, since time.Time, limit int) ([]model.UserActivityCount, error) {
	query, args := scoped(`SELECT user_id, COUNT(*) AS count FROM audit_logs`, hospitalID, since)
	query += " AND user_id IS NOT NULL GROUP BY user_id ORDER BY count DESC"
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	var counts []model.UserActivityCount
	if err := r.GetDB().SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	return counts, nil
}

func (r *auditLogRepository) SecurityCounts(ctx context.Context, hospitalID string, since time.Time) (*model.SecurityReport, error) {
	report := &model.SecurityReport{}

	query, args := scoped(`SELECT event_type, COUNT(*) AS count FROM audit_logs`, hospitalID, since)
	query += ` AND event_type IN ('SECURITY_ALERT', 'UNAUTHORIZED_ACCESS', 'SUSPICIOUS_ACTIVITY', 'USER_FAILED_LOGIN', 'ACCESS_DENIED')
		GROUP BY event_type ORDER BY count DESC`
	if err := r.GetDB().SelectContext(ctx, &report.ByType, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get security counts: %w", err)
	}
	for _, tc := range report.ByType {
		report.TotalEvents += tc.Count
		if tc.EventType == string(model.EventUserFailedLogin) {
			report.FailedLogins = tc.Count
		}
	}

	query, args = scoped(`SELECT COUNT(*) FROM audit_logs`, hospitalID, since)
	query += " AND level = 'CRITICAL'"
	if err := r.GetDB().GetContext(ctx, &report.CriticalCount, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count critical events: %w", err)
	}

	query, args = scoped(`SELECT source_ip, COUNT(*) AS count FROM audit_logs`, hospitalID, since)
	query += ` AND level IN ('WARNING', 'ERROR', 'CRITICAL')
		GROUP BY source_ip ORDER BY count DESC LIMIT 10`
	if err := r.GetDB().SelectContext(ctx, &report.TopSourceIPs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get top source IPs: %w", err)
	}

	return report, nil
}

func (r *auditLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.GetDB().ExecContext(ctx, `DELETE FROM audit_logs WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", err)
	}
	return result.RowsAffected()
}

// scoped builds the shared WHERE clause for the aggregate queries.
func scoped(sel, hospitalID string, since time.Time) (string, []interface{}) {
	query := sel + " WHERE 1=1"
	var args []interface{}
	if hospitalID != "" {
		args = append(args, hospitalID)
		query += fmt.Sprintf(" AND hospital_id = $%d", len(args))
	}
	if !since.IsZero() {
		args = append(args, since)
		query += fmt.Sprintf(" AND timestamp >= $%d", len(args))
	}
	return query, args
}

// auditLogRow mirrors the table; nullable columns need sql.NullString
// before they can land in the model.
type auditLogRow struct {
	ID             string         `db:"id"`
	Timestamp      time.Time      `db:"timestamp"`
	Level          string         `db:"level"`
	EventType      string         `db:"event_type"`
	Message        string         `db:"message"`
	UserID         sql.NullString `db:"user_id"`
	PatientID      sql.NullString `db:"patient_id"`
	DeviceID       sql.NullString `db:"device_id"`
	HospitalID     string         `db:"hospital_id"`
	SourceIP       string         `db:"source_ip"`
	Details        []byte         `db:"details"`
	HL7MessagePath sql.NullString `db:"hl7_message_path"`
	DICOMPath      sql.NullString `db:"dicom_path"`
	PDFPath        sql.NullString `db:"pdf_path"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (row *auditLogRow) toModel() (*model.AuditLog, error) {
	log := &model.AuditLog{
		ID:             row.ID,
		Timestamp:      row.Timestamp,
		Level:          model.Level(row.Level),
		EventType:      model.EventType(row.EventType),
		Message:        row.Message,
		UserID:         row.UserID.String,
		PatientID:      row.PatientID.String,
		DeviceID:       row.DeviceID.String,
		HospitalID:     row.HospitalID,
		SourceIP:       row.SourceIP,
		DetailsRaw:     row.Details,
		HL7MessagePath: row.HL7MessagePath.String,
		DICOMPath:      row.DICOMPath.String,
		PDFPath:        row.PDFPath.String,
		CreatedAt:      row.CreatedAt,
	}
	if len(row.Details) > 0 {
		if err := json.Unmarshal(row.Details, &log.Details); err != nil {
			return nil, fmt.Errorf("failed to decode details for %s: %w", row.ID, err)
		}
	}
	return log, nil
}

func marshalDetails(log *model.AuditLog) ([]byte, error) {
	if log.Details == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(log.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode details for %s: %w", log.ID, err)
	}
	return data, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
