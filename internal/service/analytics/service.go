// Package analytics computes the dashboard's aggregate views over the
// audit log table.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type Service struct {
	logs  repository.AuditLogRepository
	cache *cache.Cache
}

func NewService(logs repository.AuditLogRepository, c *cache.Cache) *Service {
	return &Service{logs: logs, cache: c}
}

// Activity returns the hourly profile and the busiest users over the
// window.
func (s *Service) Activity(ctx context.Context, hospitalID string, window time.Duration) (*model.ActivityReport, error) {
	key := fmt.Sprintf("activity:%s:%s", hospitalID, window)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.ActivityReport), nil
	}

	since := time.Now().Add(-window)
	hourly, err := s.logs.HourlyActivity(ctx, hospitalID, since)
	if err != nil {
		return nil, err
	}
	topUsers, err := s.logs.TopUsers(ctx, hospitalID, since, 10)
	if err != nil {
		return nil, err
	}

	report := &model.ActivityReport{
		Hourly:   hourly,
		TopUsers: topUsers,
		Period:   window.String(),
	}
	s.cache.SetDefault(key, report)
	return report, nil
}

// EventDistribution returns event counts by type over the window.
func (s *Service) EventDistribution(ctx context.Context, hospitalID string, window time.Duration) ([]model.TypeCount, error) {
	key := fmt.Sprintf("distribution:%s:%s", hospitalID, window)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]model.TypeCount), nil
	}

	counts, err := s.logs.CountByEventType(ctx, hospitalID, time.Now().Add(-window))
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, counts)
	return counts, nil
}

// Security summarizes anomaly traffic over the window.
func (s *Service) Security(ctx context.Context, hospitalID string, window time.Duration) (*model.SecurityReport, error) {
	key := fmt.Sprintf("security:%s:%s", hospitalID, window)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.SecurityReport), nil
	}

	report, err := s.logs.SecurityCounts(ctx, hospitalID, time.Now().Add(-window))
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, report)
	return report, nil
}

// Performance reports error pressure and throughput over the window.
func (s *Service) Performance(ctx context.Context, hospitalID string, window time.Duration) (*model.PerformanceReport, error) {
	key := fmt.Sprintf("performance:%s:%s", hospitalID, window)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.PerformanceReport), nil
	}

	since := time.Now().Add(-window)
	byLevel, err := s.logs.CountByLevel(ctx, hospitalID, since)
	if err != nil {
		return nil, err
	}

	report := &model.PerformanceReport{}
	for _, lc := range byLevel {
		report.TotalEvents += lc.Count
		switch lc.Level {
		case string(model.LevelError), string(model.LevelCritical):
			report.ErrorCount += lc.Count
		case string(model.LevelWarning):
			report.WarningCount += lc.Count
		}
	}
	if report.TotalEvents > 0 {
		report.ErrorRate = float64(report.ErrorCount) / float64(report.TotalEvents)
	}
	hours := window.Hours()
	if hours > 0 {
		report.EventsPerHour = float64(report.TotalEvents) / hours
	}

	s.cache.SetDefault(key, report)
	return report, nil
}

// Timeline returns daily event counts over the window.
func (s *Service) Timeline(ctx context.Context, hospitalID string, window time.Duration) ([]model.DailyCount, error) {
	key := fmt.Sprintf("timeline:%s:%s", hospitalID, window)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]model.DailyCount), nil
	}

	counts, err := s.logs.DailyActivity(ctx, hospitalID, time.Now().Add(-window))
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, counts)
	return counts, nil
}
