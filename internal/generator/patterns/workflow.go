package patterns

import (
	"math/rand"

	"github.com/medaudit/audit-trail-api/internal/model"
)

// PatientType selects which journey template a workflow follows.
type PatientType string

const (
	PatientOutpatient PatientType = "outpatient"
	PatientEmergency  PatientType = "emergency"
)

// WorkflowStep is one event in a patient journey with its nominal lead
// time in minutes.
type WorkflowStep struct {
	EventType model.EventType
	Duration  int
}

// WorkflowPatterns holds the clinical workflow templates and the weighted
// categorical tables for imaging parameters.
type WorkflowPatterns struct {
	ImagingDurations map[string][2]int
	BodyParts        []WeightedLabel
	Diagnoses        []WeightedLabel
}

// WeightedLabel is a categorical outcome with its weight.
type WeightedLabel struct {
	Label  string
	Weight int
}

func DefaultWorkflowPatterns() *WorkflowPatterns {
	return &WorkflowPatterns{
		ImagingDurations: map[string][2]int{
			"XRAY":        {5, 10},
			"ULTRASOUND":  {15, 30},
			"CT_SCANNER":  {20, 45},
			"MRI_SCANNER": {30, 60},
			"NST_DEVICE":  {20, 40},
		},
		BodyParts: []WeightedLabel{
			{"Chest", 30},
			{"Abdomen", 20},
			{"Extremity", 25},
			{"Head/Brain", 15},
			{"Spine", 10},
		},
		Diagnoses: []WeightedLabel{
			{"Normal", 60},
			{"Fracture", 15},
			{"Infection", 10},
			{"Tumor/Mass", 5},
			{"Degenerative", 5},
			{"Other", 5},
		},
	}
}

// outpatientJourney is the full admission-to-approval chain.
var outpatientJourney = []WorkflowStep{
	{model.EventPatientAdmission, 2},
	{model.EventPatientRegistration, 5},
	{model.EventImagingOrdered, 10},
	{model.EventImagingStarted, 3},
	{model.EventImagingCompleted, 20},
	{model.EventImageTransferred, 2},
	{model.EventReportAssigned, 5},
	{model.EventReportInProgress, 20},
	{model.EventReportCompleted, 1},
	{model.EventReportApproved, 5},
}

// emergencyJourney skips registration and compresses every lead time.
var emergencyJourney = []WorkflowStep{
	{model.EventPatientAdmission, 1},
	{model.EventImagingOrdered, 2},
	{model.EventImagingStarted, 1},
	{model.EventImagingCompleted, 15},
	{model.EventImageTransferred, 1},
	{model.EventReportAssigned, 2},
	{model.EventReportInProgress, 10},
	{model.EventReportCompleted, 1},
	{model.EventReportApproved, 2},
}

// Sequence returns the ordered step list for a patient type. Anything
// other than emergency gets the outpatient journey.
func (p *WorkflowPatterns) Sequence(patientType PatientType) []WorkflowStep {
	if patientType == PatientEmergency {
		return emergencyJourney
	}
	return outpatientJourney
}

// ImagingDuration draws a realistic acquisition time in minutes for the
// modality; unknown modalities fall back to 10-30.
func (p *WorkflowPatterns) ImagingDuration(rng *rand.Rand, modality string) int {
	if r, ok := p.ImagingDurations[modality]; ok {
		return r[0] + rng.Intn(r[1]-r[0]+1)
	}
	return 10 + rng.Intn(21)
}

// BodyPart draws a body part from the weighted table.
func (p *WorkflowPatterns) BodyPart(rng *rand.Rand) string {
	return weightedChoice(rng, p.BodyParts)
}

// Diagnosis draws a diagnosis from the weighted table.
func (p *WorkflowPatterns) Diagnosis(rng *rand.Rand) string {
	return weightedChoice(rng, p.Diagnoses)
}

func weightedChoice(rng *rand.Rand, table []WeightedLabel) string {
	total := 0
	for _, w := range table {
		total += w.Weight
	}
	pick := rng.Intn(total)
	for _, w := range table {
		if pick < w.Weight {
			return w.Label
		}
		pick -= w.Weight
	}
	return table[len(table)-1].Label
}
