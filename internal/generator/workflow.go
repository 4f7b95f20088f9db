package generator

import (
	"strings"
	"time"

	"github.com/medaudit/audit-trail-api/internal/generator/patterns"
	"github.com/medaudit/audit-trail-api/internal/model"
)

// WorkflowRequest describes one patient journey to unroll into events.
type WorkflowRequest struct {
	Patient    model.EntityRef
	User       model.EntityRef
	Device     model.EntityRef
	HospitalID string

	// Modality is the device-type style name, e.g. "CT_SCANNER". With
	// underscores spaced out it feeds the rendered messages.
	Modality string

	PatientType patterns.PatientType

	// StartTime anchors the first event; zero draws a realistic time on
	// the current day.
	StartTime time.Time
}

// GenerateWorkflow unrolls a full patient journey into an ordered event
// chain. Every event shares the same patient, staff, device and hospital;
// body part and diagnosis are drawn once so the chain tells one coherent
// story. Timestamps are strictly non-decreasing.
func (e *Engine) GenerateWorkflow(req WorkflowRequest) ([]*model.AuditLog, error) {
	ts := req.StartTime
	if ts.IsZero() {
		ts = e.Time.RealisticTimestamp(e.rng, e.Now())
	}

	bodyPart := e.Workflow.BodyPart(e.rng)
	diagnosis := e.Workflow.Diagnosis(e.rng)
	modalityLabel := strings.ReplaceAll(req.Modality, "_", " ")

	steps := e.Workflow.Sequence(req.PatientType)
	events := make([]*model.AuditLog, 0, len(steps))

	for _, step := range steps {
		// Lead time to this step: the nominal duration plus a small
		// jitter, never below one minute. The clock moves before the
		// event fires so even the first step lands past the anchor.
		delta := step.Duration + e.rng.Intn(8) - 2
		if delta < 1 {
			delta = 1
		}
		ts = ts.Add(time.Duration(delta) * time.Minute)

		p := EventParams{
			User:       &req.User,
			Patient:    &req.Patient,
			Device:     &req.Device,
			HospitalID: req.HospitalID,
			Timestamp:  ts,
			Extra:      map[string]interface{}{},
		}

		switch step.EventType {
		case model.EventImagingOrdered, model.EventImagingStarted, model.EventImagingCompleted:
			p.Extra["modality"] = modalityLabel
			p.Extra["body_part"] = bodyPart
			p.Extra["images"] = 50 + e.rng.Intn(251)
		case model.EventReportCompleted, model.EventReportApproved:
			p.Extra["diagnosis"] = diagnosis
			p.Extra["findings"] = findingsFor(diagnosis)
		case model.EventReportRejected:
			p.Extra["reason"] = rejectionReasons[e.rng.Intn(len(rejectionReasons))]
		}

		ev, err := e.BuildEvent(step.EventType, p)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, nil
}

func findingsFor(diagnosis string) string {
	if diagnosis == "Normal" {
		return "No significant findings"
	}
	return diagnosis + " findings detected"
}
