package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medaudit/audit-trail-api/internal/config"
	"github.com/medaudit/audit-trail-api/internal/generator"
	"github.com/medaudit/audit-trail-api/internal/generator/roster"
	"github.com/medaudit/audit-trail-api/internal/repository/postgres"
	"github.com/medaudit/audit-trail-api/internal/seeder"
	"github.com/medaudit/audit-trail-api/pkg/metrics"
	"github.com/medaudit/audit-trail-api/pkg/security"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	days := flag.Int("days", 0, "override historical backfill window in days")
	patients := flag.Int("patients", 50, "number of patients to seed")
	adminPassword := flag.String("admin-password", "", "password for the first seeded staff account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *days > 0 {
		cfg.Generator.HistoricalDays = *days
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)

	seed := cfg.Generator.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := generator.NewEngine(seed)

	s := seeder.New(
		engine,
		roster.New(rand.New(rand.NewSource(seed))),
		postgres.NewHospitalRepository(base),
		postgres.NewUserRepository(base),
		postgres.NewDeviceRepository(base),
		postgres.NewPatientRepository(base),
		postgres.NewAuditLogRepository(base),
		security.NewBcryptHasher(0),
		metrics.New("audit_trail_seeder"),
		log.With().Str("component", "seeder").Logger(),
		seeder.Config{
			HistoricalDays:  cfg.Generator.HistoricalDays,
			MinEventsPerDay: cfg.Generator.MinEventsPerDay,
			MaxEventsPerDay: cfg.Generator.MaxEventsPerDay,
			PatientCount:    *patients,
			AdminPassword:   *adminPassword,
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		log.Error().Err(err).Msg("seeding failed")
		os.Exit(1)
	}
	log.Info().Msg("seeding complete")
}
