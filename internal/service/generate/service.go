// Package generate bridges the event engine and the store: it loads the
// entity population, asks the engine for events and records them.
package generate

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/medaudit/audit-trail-api/internal/generator"
	"github.com/medaudit/audit-trail-api/internal/generator/patterns"
	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
	"github.com/medaudit/audit-trail-api/internal/service/audit"
	"github.com/medaudit/audit-trail-api/pkg/metrics"
)

const populationCacheKey = "generator_population"

type Service struct {
	engine    *generator.Engine
	audit     *audit.Service
	hospitals repository.HospitalRepository
	users     repository.UserRepository
	devices   repository.DeviceRepository
	patients  repository.PatientRepository
	metrics   *metrics.Metrics
	cache     *cache.Cache
	logger    zerolog.Logger
}

func NewService(
	engine *generator.Engine,
	auditSvc *audit.Service,
	hospitals repository.HospitalRepository,
	users repository.UserRepository,
	devices repository.DeviceRepository,
	patients repository.PatientRepository,
	m *metrics.Metrics,
	c *cache.Cache,
	logger zerolog.Logger,
) *Service {
	return &Service{
		engine:    engine,
		audit:     auditSvc,
		hospitals: hospitals,
		users:     users,
		devices:   devices,
		patients:  patients,
		metrics:   m,
		cache:     c,
		logger:    logger,
	}
}

// Population loads the entity pool the selector draws from. The pool is
// cached; entity churn is slow compared to the generation interval.
func (s *Service) Population(ctx context.Context) (generator.Population, error) {
	if cached, ok := s.cache.Get(populationCacheKey); ok {
		return cached.(generator.Population), nil
	}

	var pop generator.Population

	hospitals, err := s.hospitals.List(ctx)
	if err != nil {
		return pop, fmt.Errorf("failed to load hospitals: %w", err)
	}
	for _, h := range hospitals {
		pop.Hospitals = append(pop.Hospitals, h.Ref())
	}

	users, err := s.users.List(ctx, "")
	if err != nil {
		return pop, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		pop.Users = append(pop.Users, u.Ref())
	}

	devices, err := s.devices.List(ctx, "")
	if err != nil {
		return pop, fmt.Errorf("failed to load devices: %w", err)
	}
	for _, d := range devices {
		pop.Devices = append(pop.Devices, d.Ref())
	}

	patients, err := s.patients.List(ctx, "")
	if err != nil {
		return pop, fmt.Errorf("failed to load patients: %w", err)
	}
	for _, p := range patients {
		pop.Patients = append(pop.Patients, p.Ref())
	}

	s.cache.SetDefault(populationCacheKey, pop)
	return pop, nil
}

// GenerateRandom draws one event from the population and records it.
func (s *Service) GenerateRandom(ctx context.Context) (*model.AuditLog, error) {
	pop, err := s.Population(ctx)
	if err != nil {
		return nil, err
	}

	log, err := s.engine.GenerateRandomEvent(pop)
	if err != nil {
		s.metrics.GeneratorErrors.Inc()
		return nil, err
	}
	if err := s.audit.Record(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// GenerateWorkflow unrolls one patient journey with randomly drawn
// participants and records the whole chain.
func (s *Service) GenerateWorkflow(ctx context.Context, patientType patterns.PatientType) ([]*model.AuditLog, error) {
	pop, err := s.Population(ctx)
	if err != nil {
		return nil, err
	}
	if len(pop.Users) == 0 || len(pop.Patients) == 0 || len(pop.Devices) == 0 || len(pop.Hospitals) == 0 {
		return nil, generator.ErrEmptyPopulation
	}

	req := s.randomWorkflowRequest(pop, patientType)
	logs, err := s.engine.GenerateWorkflow(req)
	if err != nil {
		s.metrics.GeneratorErrors.Inc()
		return nil, err
	}
	if err := s.audit.RecordBatch(ctx, logs); err != nil {
		return nil, err
	}
	s.metrics.WorkflowsGenerated.WithLabelValues(string(patientType)).Inc()
	return logs, nil
}

func (s *Service) randomWorkflowRequest(pop generator.Population, patientType patterns.PatientType) generator.WorkflowRequest {
	return generator.WorkflowRequest{
		Patient:     s.engine.Pick(pop.Patients),
		User:        s.engine.Pick(pop.Users),
		Device:      s.engine.Pick(pop.Devices),
		HospitalID:  s.engine.Pick(pop.Hospitals).ID,
		Modality:    s.engine.RandomModality(),
		PatientType: patientType,
	}
}
