package patterns

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medaudit/audit-trail-api/internal/model"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestActivityWeight(t *testing.T) {
	p := DefaultTimePatterns()

	// Peak afternoon on a Tuesday
	assert.Equal(t, float64(30+22)/2, p.ActivityWeight(16, time.Tuesday))
	// Dead of night on a Sunday
	assert.Equal(t, float64(1+2)/2, p.ActivityWeight(2, time.Sunday))
}

func TestActivityWeightFallback(t *testing.T) {
	p := &TimePatterns{
		HourWeights:    map[int]int{},
		WeekdayWeights: map[time.Weekday]int{},
	}
	assert.Equal(t, float64(defaultWeight), p.ActivityWeight(12, time.Monday))
}

func TestShouldFireNowExtremes(t *testing.T) {
	rng := newRand()
	hot := &TimePatterns{
		HourWeights:    map[int]int{12: 100},
		WeekdayWeights: map[time.Weekday]int{time.Monday: 100},
	}
	cold := &TimePatterns{
		HourWeights:    map[int]int{12: 0},
		WeekdayWeights: map[time.Weekday]int{time.Monday: 0},
	}

	for i := 0; i < 100; i++ {
		assert.True(t, hot.ShouldFireNow(rng, 12, time.Monday))
		assert.False(t, cold.ShouldFireNow(rng, 12, time.Monday))
	}
}

func TestRealisticTimestampKeepsDate(t *testing.T) {
	p := DefaultTimePatterns()
	rng := newRand()
	base := time.Date(2024, 3, 15, 4, 4, 4, 0, time.UTC)

	for i := 0; i < 100; i++ {
		ts := p.RealisticTimestamp(rng, base)
		assert.Equal(t, base.Year(), ts.Year())
		assert.Equal(t, base.Month(), ts.Month())
		assert.Equal(t, base.Day(), ts.Day())
		assert.Equal(t, base.Location(), ts.Location())
	}
}

func TestRealisticTimestampFollowsHourWeights(t *testing.T) {
	p := DefaultTimePatterns()
	rng := newRand()
	base := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	counts := make(map[int]int)
	for i := 0; i < 10000; i++ {
		counts[p.RealisticTimestamp(rng, base).Hour()]++
	}

	// Hour 16 carries the largest weight and must dominate the draw.
	peak := 16
	for h, c := range counts {
		if h == peak {
			continue
		}
		assert.LessOrEqual(t, c, counts[peak], "hour %d drawn more often than the peak", h)
	}
	// Night hours are nearly absent.
	assert.Less(t, counts[2], counts[10])
}

func TestSequences(t *testing.T) {
	p := DefaultWorkflowPatterns()

	out := p.Sequence(PatientOutpatient)
	require.Len(t, out, 10)
	assert.Equal(t, model.EventPatientAdmission, out[0].EventType)
	assert.Equal(t, model.EventPatientRegistration, out[1].EventType)
	assert.Equal(t, model.EventReportApproved, out[9].EventType)

	em := p.Sequence(PatientEmergency)
	require.Len(t, em, 9)
	assert.Equal(t, model.EventPatientAdmission, em[0].EventType)
	// Emergency admissions skip the registration desk.
	for _, step := range em {
		assert.NotEqual(t, model.EventPatientRegistration, step.EventType)
	}

	// Unknown types fall back to the outpatient journey.
	assert.Len(t, p.Sequence(PatientType("unknown")), 10)
}

func TestImagingDuration(t *testing.T) {
	p := DefaultWorkflowPatterns()
	rng := newRand()

	for i := 0; i < 100; i++ {
		d := p.ImagingDuration(rng, "MRI_SCANNER")
		assert.GreaterOrEqual(t, d, 30)
		assert.LessOrEqual(t, d, 60)
	}
	for i := 0; i < 100; i++ {
		d := p.ImagingDuration(rng, "TELEPORTER")
		assert.GreaterOrEqual(t, d, 10)
		assert.LessOrEqual(t, d, 30)
	}
}

func TestWeightedTables(t *testing.T) {
	p := DefaultWorkflowPatterns()
	rng := newRand()

	bodyParts := make(map[string]int)
	diagnoses := make(map[string]int)
	for i := 0; i < 10000; i++ {
		bodyParts[p.BodyPart(rng)]++
		diagnoses[p.Diagnosis(rng)]++
	}

	for _, w := range p.BodyParts {
		assert.Greater(t, bodyParts[w.Label], 0, "body part %q never drawn", w.Label)
	}
	// Normal dominates the diagnosis table at weight 60.
	for label, count := range diagnoses {
		if label == "Normal" {
			continue
		}
		assert.Less(t, count, diagnoses["Normal"])
	}
}

func TestAnomalyGates(t *testing.T) {
	rng := newRand()

	always := &AnomalyPatterns{ErrorRate: 1, SecurityRate: 1}
	never := &AnomalyPatterns{ErrorRate: 0, SecurityRate: 0}

	for i := 0; i < 100; i++ {
		assert.True(t, always.ShouldError(rng))
		assert.True(t, always.ShouldSecurityEvent(rng))
		assert.False(t, never.ShouldError(rng))
		assert.False(t, never.ShouldSecurityEvent(rng))
	}
}

func TestDefaultAnomalyRates(t *testing.T) {
	a := DefaultAnomalyPatterns()
	assert.Equal(t, 0.03, a.ErrorRate)
	assert.Equal(t, 0.005, a.SecurityRate)
	assert.NotEmpty(t, a.ErrorTypes)
	assert.NotEmpty(t, a.SecurityEvents)
}

func TestRandomPools(t *testing.T) {
	a := DefaultAnomalyPatterns()
	rng := newRand()

	for i := 0; i < 50; i++ {
		assert.Contains(t, a.ErrorTypes, a.RandomErrorType(rng))
		assert.Contains(t, a.SecurityEvents, a.RandomSecurityEvent(rng))
	}
}
