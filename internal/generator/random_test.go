package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medaudit/audit-trail-api/internal/model"
)

func populationFixture() Population {
	return Population{
		Users:     []model.EntityRef{{ID: "u1", Name: "Dr. Ayşe Demir"}},
		Patients:  []model.EntityRef{{ID: "p1", Name: "Mehmet Yılmaz"}},
		Devices:   []model.EntityRef{{ID: "H01-CT-01", Name: "Siemens BT", Clinic: "Radyoloji Bölümü"}},
		Hospitals: []model.EntityRef{{ID: "H01", Name: "Ankara Şehir Hastanesi"}},
	}
}

func TestGenerateRandomEventEmptyPopulation(t *testing.T) {
	e := fixedEngine(t)

	cases := []func(*Population){
		func(p *Population) { p.Users = nil },
		func(p *Population) { p.Patients = nil },
		func(p *Population) { p.Devices = nil },
		func(p *Population) { p.Hospitals = nil },
	}
	for i, mutate := range cases {
		pop := populationFixture()
		mutate(&pop)
		_, err := e.GenerateRandomEvent(pop)
		assert.ErrorIs(t, err, ErrEmptyPopulation, "case %d", i)
	}
}

func TestGenerateRandomEventSecurityPriority(t *testing.T) {
	e := fixedEngine(t)
	// Both gates wide open: security must win every time.
	e.Anomaly.SecurityRate = 1
	e.Anomaly.ErrorRate = 1

	for i := 0; i < 50; i++ {
		log, err := e.GenerateRandomEvent(populationFixture())
		require.NoError(t, err)
		assert.Contains(t, e.Anomaly.SecurityEvents, log.EventType)

		// Security traffic comes from outside the hospital network.
		internal := strings.HasPrefix(log.SourceIP, "192.168.1.") ||
			strings.HasPrefix(log.SourceIP, "10.0.0.") ||
			strings.HasPrefix(log.SourceIP, "172.16.0.")
		assert.False(t, internal, "security event %s has internal ip %s", log.EventType, log.SourceIP)

		// The suspected account is always named; the device never is.
		assert.Equal(t, "u1", log.UserID)
		assert.Empty(t, log.DeviceID)
		assert.Contains(t, log.Details, "alert_type")
		assert.Contains(t, log.Details, "activity")
	}
}

func TestGenerateRandomEventErrorGate(t *testing.T) {
	e := fixedEngine(t)
	e.Anomaly.SecurityRate = 0
	e.Anomaly.ErrorRate = 1

	for i := 0; i < 50; i++ {
		log, err := e.GenerateRandomEvent(populationFixture())
		require.NoError(t, err)
		assert.Contains(t, e.Anomaly.ErrorTypes, log.EventType)

		// Every error event carries the full diagnostic context.
		assert.Equal(t, "u1", log.UserID)
		assert.Contains(t, log.Details, "error")
		assert.Contains(t, log.Details, "metric")
		assert.Contains(t, log.Details, "value")
	}
}

func TestGenerateRandomEventRoutine(t *testing.T) {
	e := fixedEngine(t)
	e.Anomaly.SecurityRate = 0
	e.Anomaly.ErrorRate = 0

	require.Len(t, routinePool, 9)

	seen := make(map[model.EventType]bool)
	for i := 0; i < 500; i++ {
		log, err := e.GenerateRandomEvent(populationFixture())
		require.NoError(t, err)
		assert.Contains(t, routinePool, log.EventType)
		assert.Equal(t, "u1", log.UserID)
		seen[log.EventType] = true
	}
	// The uniform draw reaches most of the pool in 500 tries.
	assert.Greater(t, len(seen), len(routinePool)/2)
}

func TestGenerateRandomEventEntityRates(t *testing.T) {
	e := fixedEngine(t)
	e.Anomaly.SecurityRate = 0
	e.Anomaly.ErrorRate = 0

	const n = 2000
	var withPatient, withDevice, loginsWithPatient int
	for i := 0; i < n; i++ {
		log, err := e.GenerateRandomEvent(populationFixture())
		require.NoError(t, err)
		if log.PatientID != "" {
			withPatient++
			if log.EventType == model.EventUserLogin {
				loginsWithPatient++
			}
		}
		if log.DeviceID != "" {
			withDevice++
		}
	}

	// Patient and device involvement are independent of the event type
	// drawn: roughly 70% and 50% of all events respectively.
	assert.InDelta(t, 0.7, float64(withPatient)/n, 0.05)
	assert.InDelta(t, 0.5, float64(withDevice)/n, 0.05)

	// Even a plain login can happen in a patient's context.
	assert.Greater(t, loginsWithPatient, 0)
}

func TestGenerateRandomEventFileEvents(t *testing.T) {
	e := fixedEngine(t)
	e.Anomaly.SecurityRate = 0
	e.Anomaly.ErrorRate = 0

	for i := 0; i < 500; i++ {
		log, err := e.GenerateRandomEvent(populationFixture())
		require.NoError(t, err)
		if log.EventType != model.EventFileUpload && log.EventType != model.EventFileDownload {
			continue
		}
		filename, ok := log.Details["filename"].(string)
		require.True(t, ok)
		assert.Regexp(t, `^report_[0-9a-f]{8}\.pdf$`, filename)
		return
	}
	t.Fatal("no file event drawn in 500 tries")
}

func TestPickAndRandomModality(t *testing.T) {
	e := fixedEngine(t)

	refs := []model.EntityRef{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[e.Pick(refs).ID] = true
	}
	assert.Len(t, seen, 3)

	for i := 0; i < 20; i++ {
		assert.Contains(t, imagingModalities, e.RandomModality())
	}
}
