package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medaudit/audit-trail-api/internal/generator/patterns"
	"github.com/medaudit/audit-trail-api/internal/model"
)

func workflowFixture() WorkflowRequest {
	return WorkflowRequest{
		Patient:    model.EntityRef{ID: "H01-P-20240315-000001", Name: "Mehmet Yılmaz"},
		User:       model.EntityRef{ID: "H01-RAD-D-00001", Name: "Dr. Ayşe Demir"},
		Device:     model.EntityRef{ID: "H01-CT-01", Name: "Siemens BT", Clinic: "Radyoloji Bölümü"},
		HospitalID: "H01",
		Modality:   "CT_SCANNER",
		StartTime:  time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
	}
}

func TestGenerateWorkflowOutpatient(t *testing.T) {
	e := fixedEngine(t)
	req := workflowFixture()
	req.PatientType = patterns.PatientOutpatient

	events, err := e.GenerateWorkflow(req)
	require.NoError(t, err)
	require.Len(t, events, 10)

	assert.Equal(t, model.EventPatientAdmission, events[0].EventType)
	assert.Equal(t, model.EventReportApproved, events[9].EventType)

	// Every step of the journey names the same device, the admission
	// and report steps included.
	for i, ev := range events {
		assert.Equal(t, "H01-P-20240315-000001", ev.PatientID, "event %d", i)
		assert.Equal(t, "H01-RAD-D-00001", ev.UserID, "event %d", i)
		assert.Equal(t, "H01-CT-01", ev.DeviceID, "event %d", i)
		assert.Equal(t, "H01", ev.HospitalID, "event %d", i)
	}
}

func TestGenerateWorkflowEmergency(t *testing.T) {
	e := fixedEngine(t)
	req := workflowFixture()
	req.PatientType = patterns.PatientEmergency

	events, err := e.GenerateWorkflow(req)
	require.NoError(t, err)
	require.Len(t, events, 9)

	for _, ev := range events {
		assert.NotEqual(t, model.EventPatientRegistration, ev.EventType)
	}
}

func TestGenerateWorkflowTimestampsNonDecreasing(t *testing.T) {
	e := fixedEngine(t)
	req := workflowFixture()

	events, err := e.GenerateWorkflow(req)
	require.NoError(t, err)

	// The clock advances before each step fires, so even the first
	// event lands past the anchor by at least a minute.
	assert.True(t, events[0].Timestamp.After(req.StartTime),
		"first event %v not after the anchor %v", events[0].Timestamp, req.StartTime)
	assert.False(t, events[0].Timestamp.After(req.StartTime.Add(10*time.Minute)))
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.Before(events[i-1].Timestamp),
			"event %d is earlier than event %d", i, i-1)
	}

	// The acquisition gap is the jittered nominal lead time of the
	// completion step, 20 minutes for the outpatient journey.
	var started, completed time.Time
	for _, ev := range events {
		switch ev.EventType {
		case model.EventImagingStarted:
			started = ev.Timestamp
		case model.EventImagingCompleted:
			completed = ev.Timestamp
		}
	}
	gap := completed.Sub(started)
	assert.GreaterOrEqual(t, gap, 18*time.Minute)
	assert.LessOrEqual(t, gap, 25*time.Minute)
}

func TestGenerateWorkflowCoherentStory(t *testing.T) {
	e := fixedEngine(t)
	req := workflowFixture()

	events, err := e.GenerateWorkflow(req)
	require.NoError(t, err)

	// Body part is drawn once and shared by every imaging step.
	var bodyParts []interface{}
	for _, ev := range events {
		if bp, ok := ev.Details["body_part"]; ok {
			bodyParts = append(bodyParts, bp)
		}
	}
	require.NotEmpty(t, bodyParts)
	for _, bp := range bodyParts {
		assert.Equal(t, bodyParts[0], bp)
	}

	// Completed and approved reports agree on the diagnosis.
	var diagnoses []interface{}
	for _, ev := range events {
		if d, ok := ev.Details["diagnosis"]; ok {
			diagnoses = append(diagnoses, d)
		}
	}
	require.Len(t, diagnoses, 2)
	assert.Equal(t, diagnoses[0], diagnoses[1])
}

func TestGenerateWorkflowImagingDetails(t *testing.T) {
	e := fixedEngine(t)
	req := workflowFixture()

	events, err := e.GenerateWorkflow(req)
	require.NoError(t, err)

	var completed *model.AuditLog
	for _, ev := range events {
		if ev.EventType == model.EventImagingCompleted {
			completed = ev
		}
	}
	require.NotNil(t, completed)

	// Underscores become spaces in the rendered modality.
	assert.Equal(t, "CT SCANNER", completed.Details["modality"])
	assert.Equal(t, "H01-CT-01", completed.DeviceID)

	images, ok := completed.Details["images"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, images, 50)
	assert.LessOrEqual(t, images, 300)
	assert.Contains(t, completed.Message, "görüntü")
}

func TestFindingsFor(t *testing.T) {
	assert.Equal(t, "No significant findings", findingsFor("Normal"))
	assert.Equal(t, "Fracture findings detected", findingsFor("Fracture"))
}
