package generator

import (
	"math"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medaudit/audit-trail-api/internal/model"
)

func fixedEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(1)
	e.Now = func() time.Time {
		return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	}
	return e
}

func TestBuildEventRendersTurkishMessage(t *testing.T) {
	e := fixedEngine(t)

	log, err := e.BuildEvent(model.EventStudyViewed, EventParams{
		User:       &model.EntityRef{ID: "H01-RAD-D-00001", Name: "Dr. Ayşe Demir"},
		Patient:    &model.EntityRef{ID: "H01-P-20240315-000001", Name: "Mehmet Yılmaz"},
		HospitalID: "H01",
	})
	require.NoError(t, err)

	assert.Equal(t, "Dr. Ayşe Demir tarafından Mehmet Yılmaz çalışması görüntülendi", log.Message)
	assert.Equal(t, model.LevelInfo, log.Level)
	assert.Equal(t, model.EventStudyViewed, log.EventType)
	assert.Equal(t, "H01-RAD-D-00001", log.UserID)
	assert.Equal(t, "H01-P-20240315-000001", log.PatientID)
	assert.Equal(t, "H01", log.HospitalID)
	assert.NotEmpty(t, log.ID)
}

func TestBuildEventLevels(t *testing.T) {
	e := fixedEngine(t)

	cases := map[model.EventType]model.Level{
		model.EventUserLogin:          model.LevelInfo,
		model.EventUserFailedLogin:    model.LevelWarning,
		model.EventPatientAccess:      model.LevelWarning,
		model.EventDeviceDisconnected: model.LevelWarning,
		model.EventAccessDenied:       model.LevelError,
		model.EventSecurityAlert:      model.LevelCritical,
		model.EventUnauthorizedAccess: model.LevelCritical,
	}

	for eventType, want := range cases {
		log, err := e.BuildEvent(eventType, EventParams{
			User:  &model.EntityRef{ID: "u1", Name: "Dr. Test"},
			Extra: map[string]interface{}{"alert_type": "x", "ip": "1.2.3.4"},
		})
		require.NoError(t, err, "event type %s", eventType)
		assert.Equal(t, want, log.Level, "event type %s", eventType)
	}
}

func TestBuildEventFallbackNames(t *testing.T) {
	e := fixedEngine(t)

	log, err := e.BuildEvent(model.EventUserLogin, EventParams{})
	require.NoError(t, err)
	assert.Equal(t, "Unknown sisteme giriş yaptı", log.Message)

	// A patient without a display name falls back to the id.
	log, err = e.BuildEvent(model.EventPatientAdmission, EventParams{
		Patient: &model.EntityRef{ID: "P-42"},
	})
	require.NoError(t, err)
	assert.Equal(t, "P-42 hasta kabulü yapıldı", log.Message)
}

func TestBuildEventUnknownTypeFallsBack(t *testing.T) {
	e := fixedEngine(t)

	log, err := e.BuildEvent(model.EventType("EXOTIC_EVENT"), EventParams{})
	require.NoError(t, err)
	assert.Equal(t, "Event: EXOTIC_EVENT", log.Message)
	assert.Equal(t, model.LevelInfo, log.Level)
}

func TestBuildEventMissingTemplateParam(t *testing.T) {
	e := fixedEngine(t)

	_, err := e.BuildEvent(model.EventDeviceError, EventParams{
		Device: &model.EntityRef{ID: "d1", Name: "BT Cihazı"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingTemplateParam)
	assert.Contains(t, err.Error(), "error")
}

func TestBuildEventLocationCascade(t *testing.T) {
	e := fixedEngine(t)

	log, err := e.BuildEvent(model.EventDeviceOperation, EventParams{
		Device: &model.EntityRef{ID: "H01-CT-01", Name: "Siemens BT", Clinic: "Radyoloji Bölümü"},
	})
	require.NoError(t, err)

	loc, ok := log.Details["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Zemin Kat", loc["floor"])
	assert.Equal(t, "Radyoloji Bölümü", loc["clinic"])
	assert.Contains(t, []interface{}{"Radyoloji Bölümü", "Görüntüleme Merkezi"}, loc["unit"])
	assert.Equal(t, "Zemin Kat - "+loc["unit"].(string), loc["location"])
	assert.Regexp(t, `^[1-5]\d{2}$`, loc["room_number"])
	assert.NotEmpty(t, loc["workstation"])

	// The bed key is always present, nil when the spot has no bed.
	bed, ok := loc["bed_number"]
	require.True(t, ok)
	if bed != nil {
		assert.Regexp(t, `^Yatak-[1-4]$`, bed)
	}
}

func TestClinicFloorRules(t *testing.T) {
	e := fixedEngine(t)

	cases := []struct {
		clinic string
		floor  string
		units  []string
	}{
		{"Radyoloji Bölümü", "Zemin Kat", []string{"Radyoloji Bölümü", "Görüntüleme Merkezi"}},
		{"Görüntüleme Merkezi", "Zemin Kat", []string{"Radyoloji Bölümü", "Görüntüleme Merkezi"}},
		{"Kardiyoloji Kliniği", "1. Kat", []string{"Kardiyoloji Polikliniği"}},
		{"Nöroloji Kliniği", "3. Kat", []string{"Nöroloji Polikliniği"}},
		{"Dahiliye Kliniği", "1. Kat", []string{"Dahiliye Polikliniği"}},
		{"Yoğun Bakım Ünitesi", "2. Kat", []string{"Yoğun Bakım Ünitesi"}},
		{"Acil Servis", "Zemin Kat", []string{"Acil Servis"}},
		{"Kadın Doğum Kliniği", "4. Kat", []string{"Kadın Doğum"}},
	}
	for _, tc := range cases {
		loc := e.locationInfo(tc.clinic)
		assert.Equal(t, tc.floor, loc.Floor, "clinic %q", tc.clinic)
		assert.Equal(t, tc.clinic, loc.Clinic)
		assert.Contains(t, tc.units, loc.Unit, "clinic %q", tc.clinic)
		assert.Equal(t, tc.floor+" - "+loc.Unit, loc.Location)
	}
}

func TestLocationInfoWithoutClinic(t *testing.T) {
	e := fixedEngine(t)

	sawBasement := false
	for i := 0; i < 300; i++ {
		loc := e.locationInfo("")
		assert.Contains(t, floors, loc.Floor)
		if loc.Floor == "Bodrum Kat" {
			sawBasement = true
			// No fixed tenants below ground: any unit may appear.
			assert.Contains(t, units, loc.Unit)
		} else {
			assert.Contains(t, floorUnits[loc.Floor], loc.Unit, "floor %q", loc.Floor)
		}
		assert.NotEmpty(t, loc.Clinic)
		assert.Equal(t, loc.Floor+" - "+loc.Unit, loc.Location)
	}
	assert.True(t, sawBasement, "basement never drawn in 300 tries")
}

func TestClinicInferredFromUnit(t *testing.T) {
	e := fixedEngine(t)

	cases := map[string]string{
		"Radyoloji Bölümü":    "Radyoloji Bölümü",
		"Görüntüleme Merkezi": "Radyoloji Bölümü",
		"Yoğun Bakım Ünitesi": "Yoğun Bakım Ünitesi",
		"Koroner Yoğun Bakım": "Yoğun Bakım Ünitesi",
		"Acil Servis":         "Acil Servis",
		"Ameliyathane":        "Genel Cerrahi",
	}
	for unit, want := range cases {
		assert.Equal(t, want, clinicForUnit(e, unit), "unit %q", unit)
	}
}

func TestImagingMetadata(t *testing.T) {
	e := fixedEngine(t)
	ts := time.Date(2024, 3, 15, 10, 20, 30, 0, time.UTC)

	log, err := e.BuildEvent(model.EventImagingCompleted, EventParams{
		User:      &model.EntityRef{ID: "u1", Name: "Dr. Test"},
		Patient:   &model.EntityRef{ID: "p1", Name: "Hasta Test"},
		Device:    &model.EntityRef{ID: "H01-CT-01", Name: "Siemens BT"},
		Timestamp: ts,
		Extra:     map[string]interface{}{"modality": "CT SCANNER", "body_part": "Chest", "images": 120},
	})
	require.NoError(t, err)

	accession, ok := log.Details["accession_number"].(string)
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(`^\d{18}$`), accession)
	assert.True(t, strings.HasPrefix(accession, "20240315102030"),
		"accession %q must embed the event timestamp", accession)

	uidPattern := regexp.MustCompile(`^1\.2\.840\.113619\.2\.\d{6}\.\d{3}\.\d{13}$`)
	studyUID, ok := log.Details["study_instance_uid"].(string)
	require.True(t, ok)
	assert.Regexp(t, uidPattern, studyUID)
	seriesUID, ok := log.Details["series_instance_uid"].(string)
	require.True(t, ok)
	assert.Regexp(t, uidPattern, seriesUID)
	assert.NotEqual(t, studyUID, seriesUID)

	assert.Equal(t, ts.Format("20060102"), log.Details["study_date"])
	assert.Equal(t, ts.Format("150405"), log.Details["study_time"])
	assert.Equal(t, 120, log.Details["instance_count"])
	assert.Equal(t, "data/dicom/"+accession+".dcm", log.DICOMPath)
}

func TestReportMetadata(t *testing.T) {
	e := fixedEngine(t)
	ts := time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC)

	log, err := e.BuildEvent(model.EventReportApproved, EventParams{
		User:       &model.EntityRef{ID: "u1", Name: "Dr. Test"},
		Patient:    &model.EntityRef{ID: "p1", Name: "Hasta Test"},
		HospitalID: "H01",
		Timestamp:  ts,
	})
	require.NoError(t, err)

	hl7ID, ok := log.Details["hl7_message_id"].(string)
	require.True(t, ok)
	assert.Regexp(t, regexp.MustCompile(`^HL7\d{18}$`), hl7ID)
	assert.True(t, strings.HasPrefix(hl7ID, "HL720240315110000"))

	assert.Equal(t, "ORU^R01", log.Details["hl7_message_type"])
	assert.Equal(t, "RIS", log.Details["sending_application"])
	assert.Equal(t, "H01", log.Details["sending_facility"])
	assert.Equal(t, "F", log.Details["report_status"])
	assert.Equal(t, "data/hl7/"+hl7ID+".hl7", log.HL7MessagePath)
	assert.NotEmpty(t, log.PDFPath)
}

func TestVitalSignsOnMonitoringDevices(t *testing.T) {
	e := fixedEngine(t)

	// Keyword in the device id.
	log, err := e.BuildEvent(model.EventDeviceOperation, EventParams{
		Device: &model.EntityRef{ID: "H01-MONITOR-01", Name: "Hasta Takip Cihazı"},
	})
	require.NoError(t, err)
	vitals, ok := log.Details["vital_signs"].(map[string]interface{})
	require.True(t, ok)
	hr := vitals["heart_rate"].(int)
	assert.GreaterOrEqual(t, hr, 60)
	assert.LessOrEqual(t, hr, 100)
	sys := vitals["blood_pressure_systolic"].(int)
	assert.GreaterOrEqual(t, sys, 110)
	assert.LessOrEqual(t, sys, 140)
	dia := vitals["blood_pressure_diastolic"].(int)
	assert.GreaterOrEqual(t, dia, 65)
	assert.LessOrEqual(t, dia, 90)
	spo2 := vitals["spo2"].(int)
	assert.GreaterOrEqual(t, spo2, 94)
	assert.LessOrEqual(t, spo2, 100)
	temp := vitals["temperature"].(float64)
	assert.GreaterOrEqual(t, temp, 36.2)
	assert.LessOrEqual(t, temp, 37.5)
	assert.InDelta(t, temp, math.Round(temp*10)/10, 1e-9)

	// Keyword in the Turkish display name.
	log, err = e.BuildEvent(model.EventDeviceConnected, EventParams{
		Device: &model.EntityRef{ID: "H01-DEV-09", Name: "Dräger Ventilatör"},
	})
	require.NoError(t, err)
	_, ok = log.Details["vital_signs"]
	assert.True(t, ok)

	// Ordinary devices never report vitals.
	log, err = e.BuildEvent(model.EventDeviceOperation, EventParams{
		Device: &model.EntityRef{ID: "H01-CT-01", Name: "Siemens BT"},
	})
	require.NoError(t, err)
	_, ok = log.Details["vital_signs"]
	assert.False(t, ok)
}

func TestDefaultSourceIPIsInternal(t *testing.T) {
	e := fixedEngine(t)

	for i := 0; i < 50; i++ {
		log, err := e.BuildEvent(model.EventUserLogin, EventParams{
			User: &model.EntityRef{ID: "u1", Name: "Dr. Test"},
		})
		require.NoError(t, err)
		internal := strings.HasPrefix(log.SourceIP, "192.168.1.") ||
			strings.HasPrefix(log.SourceIP, "10.0.0.") ||
			strings.HasPrefix(log.SourceIP, "172.16.0.")
		assert.True(t, internal, "unexpected source ip %s", log.SourceIP)
	}
}

func TestSeedDeterminism(t *testing.T) {
	build := func() *model.AuditLog {
		e := fixedEngine(t)
		log, err := e.BuildEvent(model.EventUserLogin, EventParams{
			User: &model.EntityRef{ID: "u1", Name: "Dr. Test"},
		})
		require.NoError(t, err)
		return log
	}

	a, b := build(), build()
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.SourceIP, b.SourceIP)
	assert.Equal(t, a.Timestamp, b.Timestamp)
	assert.Equal(t, a.Details["location"], b.Details["location"])
}

func TestRealisticTimestampUsedWhenUnset(t *testing.T) {
	e := fixedEngine(t)

	log, err := e.BuildEvent(model.EventUserLogin, EventParams{
		User: &model.EntityRef{ID: "u1", Name: "Dr. Test"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2024, log.Timestamp.Year())
	assert.Equal(t, time.March, log.Timestamp.Month())
	assert.Equal(t, 15, log.Timestamp.Day())
}
