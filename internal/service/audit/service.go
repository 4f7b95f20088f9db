// Package audit persists generated events and serves the log and
// dashboard queries behind a short-lived cache.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
	"github.com/medaudit/audit-trail-api/pkg/messaging"
	"github.com/medaudit/audit-trail-api/pkg/metrics"
)

const dashboardCacheKey = "dashboard_stats:"

type Service struct {
	logs     repository.AuditLogRepository
	users    repository.UserRepository
	devices  repository.DeviceRepository
	patients repository.PatientRepository
	broker   messaging.Broker
	metrics  *metrics.Metrics
	cache    *cache.Cache
	logger   zerolog.Logger
}

func NewService(
	logs repository.AuditLogRepository,
	users repository.UserRepository,
	devices repository.DeviceRepository,
	patients repository.PatientRepository,
	broker messaging.Broker,
	m *metrics.Metrics,
	c *cache.Cache,
	logger zerolog.Logger,
) *Service {
	return &Service{
		logs:     logs,
		users:    users,
		devices:  devices,
		patients: patients,
		broker:   broker,
		metrics:  m,
		cache:    c,
		logger:   logger,
	}
}

// Record persists one event and fans it out to the live channel. A
// broker failure is logged but never fails the write; the dashboard
// catches up from the database.
func (s *Service) Record(ctx context.Context, log *model.AuditLog) error {
	if err := s.logs.Create(ctx, log); err != nil {
		s.metrics.DatabaseOperations.WithLabelValues("insert", "error").Inc()
		return fmt.Errorf("failed to record audit log: %w", err)
	}
	s.metrics.DatabaseOperations.WithLabelValues("insert", "ok").Inc()
	s.metrics.EventsGenerated.WithLabelValues(string(log.EventType), string(log.Level)).Inc()
	s.publish(ctx, log)
	return nil
}

// RecordBatch persists a workflow chain atomically, then publishes each
// event in order.
func (s *Service) RecordBatch(ctx context.Context, logs []*model.AuditLog) error {
	if err := s.logs.CreateBatch(ctx, logs); err != nil {
		s.metrics.DatabaseOperations.WithLabelValues("insert_batch", "error").Inc()
		return fmt.Errorf("failed to record audit batch: %w", err)
	}
	s.metrics.DatabaseOperations.WithLabelValues("insert_batch", "ok").Inc()
	for _, log := range logs {
		s.metrics.EventsGenerated.WithLabelValues(string(log.EventType), string(log.Level)).Inc()
		s.publish(ctx, log)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, log *model.AuditLog) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, messaging.AuditEventsChannel, log); err != nil {
		s.metrics.PublishFailures.Inc()
		s.logger.Warn().Err(err).Str("event_id", log.ID).Msg("failed to publish audit event")
		return
	}
	s.metrics.EventsPublished.Inc()
}

func (s *Service) List(ctx context.Context, filters model.LogFilters) ([]*model.AuditLog, error) {
	return s.logs.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id string) (*model.AuditLog, error) {
	return s.logs.Get(ctx, id)
}

// DashboardStats assembles the headline numbers. The result is cached
// briefly; the dashboard polls faster than the numbers meaningfully move.
func (s *Service) DashboardStats(ctx context.Context, hospitalID string) (*model.DashboardStats, error) {
	key := dashboardCacheKey + hospitalID
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.DashboardStats), nil
	}

	now := time.Now()
	dayAgo := now.Add(-24 * time.Hour)
	hourAgo := now.Add(-1 * time.Hour)

	total, err := s.logs.Count(ctx, hospitalID, time.Time{})
	if err != nil {
		return nil, err
	}
	lastHour, err := s.logs.Count(ctx, hospitalID, hourAgo)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.users.CountActive(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	activeDevices, err := s.devices.CountActive(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	patientCount, err := s.patients.Count(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	security, err := s.logs.SecurityCounts(ctx, hospitalID, dayAgo)
	if err != nil {
		return nil, err
	}

	stats := &model.DashboardStats{
		TotalEvents:    total,
		ActiveUsers:    activeUsers,
		ActiveDevices:  activeDevices,
		PatientCount:   patientCount,
		SecurityEvents: security.TotalEvents,
		EventsPerHour:  lastHour,
		SystemHealth:   systemHealth(ctx, s.logs, hospitalID, dayAgo),
		Timestamp:      now,
	}

	s.cache.SetDefault(key, stats)
	return stats, nil
}

// systemHealth scores the last day from its error share: 100 when clean,
// dropping toward 80 as errors approach a tenth of the traffic.
func systemHealth(ctx context.Context, logs repository.AuditLogRepository, hospitalID string, since time.Time) float64 {
	byLevel, err := logs.CountByLevel(ctx, hospitalID, since)
	if err != nil {
		return 100
	}
	var total, bad int64
	for _, lc := range byLevel {
		total += lc.Count
		if lc.Level == string(model.LevelError) || lc.Level == string(model.LevelCritical) {
			bad += lc.Count
		}
	}
	if total == 0 {
		return 100
	}
	ratio := float64(bad) / float64(total)
	if ratio > 0.1 {
		ratio = 0.1
	}
	return 100 - ratio*200
}
