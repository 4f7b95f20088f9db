// Package seeder populates the store with the simulated hospital's
// entities and a historical audit trail, so the dashboard has data the
// moment it comes up.
package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medaudit/audit-trail-api/internal/generator"
	"github.com/medaudit/audit-trail-api/internal/generator/patterns"
	"github.com/medaudit/audit-trail-api/internal/generator/roster"
	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
	"github.com/medaudit/audit-trail-api/pkg/metrics"
	"github.com/medaudit/audit-trail-api/pkg/security"
)

type Config struct {
	HistoricalDays  int
	MinEventsPerDay int
	MaxEventsPerDay int
	StaffPerClinic  int
	PatientCount    int
	// AdminPassword seeds the login account; empty skips it.
	AdminPassword string
}

type Seeder struct {
	engine    *generator.Engine
	roster    *roster.Roster
	hospitals repository.HospitalRepository
	users     repository.UserRepository
	devices   repository.DeviceRepository
	patients  repository.PatientRepository
	logs      repository.AuditLogRepository
	hasher    security.PasswordHasher
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	cfg       Config
}

func New(
	engine *generator.Engine,
	r *roster.Roster,
	hospitals repository.HospitalRepository,
	users repository.UserRepository,
	devices repository.DeviceRepository,
	patients repository.PatientRepository,
	logs repository.AuditLogRepository,
	hasher security.PasswordHasher,
	m *metrics.Metrics,
	logger zerolog.Logger,
	cfg Config,
) *Seeder {
	if cfg.StaffPerClinic == 0 {
		cfg.StaffPerClinic = 4
	}
	if cfg.PatientCount == 0 {
		cfg.PatientCount = 50
	}
	return &Seeder{
		engine:    engine,
		roster:    r,
		hospitals: hospitals,
		users:     users,
		devices:   devices,
		patients:  patients,
		logs:      logs,
		hasher:    hasher,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run seeds entities first, then backfills the historical audit trail.
// Inserts are idempotent; rerunning the seeder only adds new events.
func (s *Seeder) Run(ctx context.Context) error {
	hospital, err := s.seedHospital(ctx)
	if err != nil {
		return err
	}
	users, err := s.seedStaff(ctx, hospital)
	if err != nil {
		return err
	}
	devices, err := s.seedDevices(ctx, hospital)
	if err != nil {
		return err
	}
	patients, err := s.seedPatients(ctx, hospital)
	if err != nil {
		return err
	}

	pop := generator.Population{Hospitals: []model.EntityRef{hospital.Ref()}}
	for _, u := range users {
		pop.Users = append(pop.Users, u.Ref())
	}
	for _, d := range devices {
		pop.Devices = append(pop.Devices, d.Ref())
	}
	for _, p := range patients {
		pop.Patients = append(pop.Patients, p.Ref())
	}

	return s.backfill(ctx, pop)
}

func (s *Seeder) seedHospital(ctx context.Context) (*model.Hospital, error) {
	now := time.Now()
	hospital := &model.Hospital{
		ID:        "H01",
		Name:      "Ankara Şehir Hastanesi",
		Location:  "Üniversiteler Mahallesi, Çankaya",
		City:      "Ankara",
		Type:      model.HospitalTypePublic,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.hospitals.Create(ctx, hospital); err != nil {
		return nil, fmt.Errorf("failed to seed hospital: %w", err)
	}
	s.logger.Info().Str("hospital", hospital.Name).Msg("hospital seeded")
	return hospital, nil
}

func (s *Seeder) seedStaff(ctx context.Context, hospital *model.Hospital) ([]*model.User, error) {
	count := s.cfg.StaffPerClinic * 6
	users := make([]*model.User, 0, count)
	for i := 1; i <= count; i++ {
		u := s.roster.Staff(hospital.ID, hospital.ID, i)
		if s.cfg.AdminPassword != "" && i == 1 {
			hash, err := s.hasher.Hash(s.cfg.AdminPassword)
			if err != nil {
				return nil, fmt.Errorf("failed to hash admin password: %w", err)
			}
			u.PasswordHash = hash
			u.Role = model.RoleAdmin
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.ID, err)
		}
		users = append(users, u)
	}
	s.logger.Info().Int("count", len(users)).Msg("staff seeded")
	return users, nil
}

// deviceSeeds places the modality park across the clinics; clinic names
// drive the location cascade during generation.
var deviceSeeds = []struct {
	ID     string
	Name   string
	Type   model.DeviceType
	Clinic string
}{
	{"H01-CT-01", "Siemens Somatom BT", model.DeviceCTScanner, "Radyoloji Bölümü"},
	{"H01-MRI-01", "GE Signa MR", model.DeviceMRIScanner, "Radyoloji Bölümü"},
	{"H01-XRAY-01", "Philips DigitalDiagnost Röntgen", model.DeviceXRay, "Radyoloji Bölümü"},
	{"H01-XRAY-02", "Siemens Ysio Röntgen", model.DeviceXRay, "Acil Servis"},
	{"H01-USG-01", "GE Voluson Ultrason", model.DeviceUltrasound, "Kadın Doğum Kliniği"},
	{"H01-USG-02", "Philips Affiniti Ultrason", model.DeviceUltrasound, "Radyoloji Bölümü"},
	{"H01-NST-01", "Philips Avalon NST", model.DeviceNST, "Kadın Doğum Kliniği"},
	{"H01-MONITOR-01", "Dräger Vista Hasta Monitörü", model.DevicePatientMonitor, "Yoğun Bakım Ünitesi"},
	{"H01-MONITOR-02", "GE Carescape Monitor", model.DevicePatientMonitor, "Acil Servis"},
	{"H01-VENT-01", "Dräger Evita Ventilatör", model.DeviceVentilator, "Yoğun Bakım Ünitesi"},
	{"H01-VITAL-01", "Nihon Kohden Vital Monitör", model.DeviceVitalMonitor, "Kardiyoloji Kliniği"},
	{"H01-PACS-01", "Sectra PACS Sunucusu", model.DevicePACSServer, "Görüntüleme Merkezi"},
	{"H01-WS-01", "Radyoloji İş İstasyonu 1", model.DeviceWorkstation, "Radyoloji Bölümü"},
	{"H01-WS-02", "Radyoloji İş İstasyonu 2", model.DeviceWorkstation, "Radyoloji Bölümü"},
}

func (s *Seeder) seedDevices(ctx context.Context, hospital *model.Hospital) ([]*model.Device, error) {
	now := time.Now()
	devices := make([]*model.Device, 0, len(deviceSeeds))
	for i, seed := range deviceSeeds {
		d := &model.Device{
			ID:         seed.ID,
			Name:       seed.Name,
			Type:       seed.Type,
			Status:     model.DeviceStatusActive,
			IPAddress:  fmt.Sprintf("192.168.1.%d", 10+i),
			Clinic:     seed.Clinic,
			HospitalID: hospital.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.devices.Create(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to seed device %s: %w", d.ID, err)
		}
		devices = append(devices, d)
	}
	s.logger.Info().Int("count", len(devices)).Msg("devices seeded")
	return devices, nil
}

func (s *Seeder) seedPatients(ctx context.Context, hospital *model.Hospital) ([]*model.Patient, error) {
	patients := make([]*model.Patient, 0, s.cfg.PatientCount)
	start := time.Now().AddDate(0, 0, -s.cfg.HistoricalDays)
	for i := 1; i <= s.cfg.PatientCount; i++ {
		regDate := start.AddDate(0, 0, s.engine.Rand().Intn(s.cfg.HistoricalDays+1))
		p := s.roster.Patient(hospital.ID, hospital.ID, regDate, i)
		if err := s.patients.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to seed patient %s: %w", p.ID, err)
		}
		patients = append(patients, p)
	}
	s.logger.Info().Int("count", len(patients)).Msg("patients seeded")
	return patients, nil
}

// backfill writes a realistic history: every day gets a random volume of
// events whose times cluster around the configured peaks, plus a couple
// of complete patient journeys.
func (s *Seeder) backfill(ctx context.Context, pop generator.Population) error {
	rng := s.engine.Rand()
	total := 0

	for d := s.cfg.HistoricalDays; d >= 1; d-- {
		day := time.Now().AddDate(0, 0, -d)
		count := s.cfg.MinEventsPerDay + rng.Intn(s.cfg.MaxEventsPerDay-s.cfg.MinEventsPerDay+1)

		batch := make([]*model.AuditLog, 0, count)
		for i := 0; i < count; i++ {
			log, err := s.randomEventAt(pop, day)
			if err != nil {
				return err
			}
			batch = append(batch, log)
		}
		if err := s.logs.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("failed to backfill day %s: %w", day.Format("2006-01-02"), err)
		}
		total += len(batch)

		for w := 0; w < 1+rng.Intn(2); w++ {
			if err := s.backfillWorkflow(ctx, pop, day); err != nil {
				return err
			}
		}
	}

	s.metrics.SeededEvents.Add(float64(total))
	s.logger.Info().Int("events", total).Int("days", s.cfg.HistoricalDays).Msg("historical backfill complete")
	return nil
}

// randomEventAt draws a random event re-anchored to the given day with a
// peak-weighted time.
func (s *Seeder) randomEventAt(pop generator.Population, day time.Time) (*model.AuditLog, error) {
	log, err := s.engine.GenerateRandomEvent(pop)
	if err != nil {
		return nil, err
	}
	ts := s.engine.Time.RealisticTimestamp(s.engine.Rand(), day)
	log.Timestamp = ts
	if log.Details != nil {
		log.Details["timestamp"] = ts.Format(time.RFC3339)
	}
	return log, nil
}

func (s *Seeder) backfillWorkflow(ctx context.Context, pop generator.Population, day time.Time) error {
	rng := s.engine.Rand()
	patientType := patterns.PatientOutpatient
	if rng.Float64() < 0.3 {
		patientType = patterns.PatientEmergency
	}

	req := generator.WorkflowRequest{
		Patient:     s.engine.Pick(pop.Patients),
		User:        s.engine.Pick(pop.Users),
		Device:      s.engine.Pick(pop.Devices),
		HospitalID:  s.engine.Pick(pop.Hospitals).ID,
		Modality:    s.engine.RandomModality(),
		PatientType: patientType,
		StartTime:   s.engine.Time.RealisticTimestamp(rng, day),
	}

	logs, err := s.engine.GenerateWorkflow(req)
	if err != nil {
		return err
	}
	if err := s.logs.CreateBatch(ctx, logs); err != nil {
		return fmt.Errorf("failed to backfill workflow: %w", err)
	}
	s.metrics.SeededEvents.Add(float64(len(logs)))
	return nil
}
