// Package worker runs the live event generator: a cron-driven loop that
// keeps the audit stream moving while the API serves it.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/medaudit/audit-trail-api/internal/generator"
	"github.com/medaudit/audit-trail-api/internal/generator/patterns"
	"github.com/medaudit/audit-trail-api/internal/service/generate"
)

type LiveGenerator struct {
	service       *generate.Service
	engine        *generator.Engine
	interval      time.Duration
	workflowRatio float64
	logger        zerolog.Logger

	cron *cron.Cron
}

func NewLiveGenerator(
	service *generate.Service,
	engine *generator.Engine,
	interval time.Duration,
	workflowRatio float64,
	logger zerolog.Logger,
) *LiveGenerator {
	return &LiveGenerator{
		service:       service,
		engine:        engine,
		interval:      interval,
		workflowRatio: workflowRatio,
		logger:        logger,
	}
}

// Start schedules the generation tick. The returned error only covers
// scheduling; tick failures are logged and retried on the next tick.
func (g *LiveGenerator) Start(ctx context.Context) error {
	g.cron = cron.New()
	spec := fmt.Sprintf("@every %s", g.interval)
	if _, err := g.cron.AddFunc(spec, func() { g.tick(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule generator: %w", err)
	}
	g.cron.Start()
	g.logger.Info().Str("interval", g.interval.String()).Msg("live generator started")
	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (g *LiveGenerator) Stop() {
	if g.cron != nil {
		<-g.cron.Stop().Done()
	}
	g.logger.Info().Msg("live generator stopped")
}

// tick fires with a probability tracking the activity profile, so nights
// and weekends stay quiet. Half the suppressed ticks fire anyway; a demo
// dashboard that goes fully silent looks broken.
func (g *LiveGenerator) tick(ctx context.Context) {
	now := time.Now()
	if !g.engine.Time.ShouldFireNow(g.engine.Rand(), now.Hour(), now.Weekday()) {
		if g.engine.Rand().Float64() < 0.5 {
			return
		}
	}

	if g.engine.Rand().Float64() < g.workflowRatio {
		patientType := patterns.PatientOutpatient
		if g.engine.Rand().Float64() < 0.3 {
			patientType = patterns.PatientEmergency
		}
		if _, err := g.service.GenerateWorkflow(ctx, patientType); err != nil {
			g.logger.Error().Err(err).Msg("workflow generation failed")
		}
		return
	}

	if _, err := g.service.GenerateRandom(ctx); err != nil {
		g.logger.Error().Err(err).Msg("event generation failed")
	}
}
