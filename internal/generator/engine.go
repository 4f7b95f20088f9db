// Package generator produces statistically realistic, causally ordered
// audit events for the simulated hospital: single ad-hoc events, full
// patient-journey workflow sequences and anomaly-gated random events.
//
// The engine is stateless between calls; every invocation is a function
// of its inputs, the injected random source and the clock. The random
// source is serialized internally, so one engine may be shared by the
// backfill seeder and the live generator concurrently.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medaudit/audit-trail-api/internal/generator/patterns"
	"github.com/medaudit/audit-trail-api/internal/model"
)

var (
	// ErrMissingTemplateParam means a message template referenced a key the
	// caller did not supply. This is a configuration error, never swallowed.
	ErrMissingTemplateParam = errors.New("unresolved message template parameter")

	// ErrEmptyPopulation means an entity list required for selection was empty.
	ErrEmptyPopulation = errors.New("empty entity population")
)

// messageTemplates renders one line of Turkish dashboard copy per event
// type. Placeholders are resolved against an explicit parameter map;
// unknown event types fall back to a generic line instead of failing.
var messageTemplates = map[model.EventType]string{
	model.EventUserLogin:       "{user} sisteme giriş yaptı",
	model.EventUserLogout:      "{user} sistemden çıkış yaptı",
	model.EventUserFailedLogin: "{user} için başarısız giriş denemesi",

	model.EventPatientAdmission:    "{patient} hasta kabulü yapıldı",
	model.EventPatientRegistration: "{patient} hasta kaydı oluşturuldu",
	model.EventPatientDischarge:    "{patient} taburcu edildi",
	model.EventPatientAccess:       "{user} tarafından {patient} hasta bilgilerine erişildi",
	model.EventPatientDataViewed:   "{user} tarafından {patient} verileri görüntülendi",
	model.EventPatientDataModified: "{user} tarafından {patient} verileri güncellendi",

	model.EventImagingOrdered:   "{patient} için {modality} tetkik istemi oluşturuldu ({body_part})",
	model.EventImagingStarted:   "{device} cihazında {patient} için görüntüleme başlatıldı",
	model.EventImagingCompleted: "{device} cihazında {patient} görüntüleme tamamlandı - {images} görüntü",
	model.EventImageTransferred: "{patient} görüntüleri PACS sistemine transfer edildi",
	model.EventStudyViewed:      "{user} tarafından {patient} çalışması görüntülendi",

	model.EventReportAssigned:   "{patient} raporu {user} raportörüne atandı",
	model.EventReportInProgress: "{user} tarafından {patient} raporu yazılıyor",
	model.EventReportCompleted:  "{user} tarafından {patient} raporu tamamlandı",
	model.EventReportApproved:   "{patient} raporu onaylandı",
	model.EventReportRejected:   "{patient} raporu reddedildi - {reason}",

	model.EventDeviceConnected:    "{device} cihazı ağa bağlandı",
	model.EventDeviceDisconnected: "{device} cihazı bağlantısı kesildi",
	model.EventDeviceOperation:    "{device} cihazında işlem gerçekleştirildi",
	model.EventDeviceError:        "{device} cihazında hata: {error}",
	model.EventDeviceMaintenance:  "{device} cihazı bakıma alındı",

	model.EventAccessDenied:       "{user} için erişim reddedildi",
	model.EventSecurityAlert:      "Güvenlik uyarısı: {alert_type}",
	model.EventUnauthorizedAccess: "Yetkisiz erişim denemesi tespit edildi - {ip}",
	model.EventSuspiciousActivity: "Şüpheli aktivite: {activity}",

	model.EventSystemStartup:    "Sistem başlatıldı",
	model.EventSystemShutdown:   "Sistem kapatıldı",
	model.EventBackupCompleted:  "Sistem yedeği tamamlandı",
	model.EventDatabaseQuery:    "Veritabanı sorgusu çalıştırıldı",
	model.EventFileUpload:       "{user} tarafından dosya yüklendi: {filename}",
	model.EventFileDownload:     "{user} tarafından dosya indirildi: {filename}",
	model.EventPerformanceAlert: "Performans uyarısı: {metric} - {value}",
	model.EventNetworkError:     "Ağ hatası: {error}",
}

const unknownTemplate = "Event: {event_type}"

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// lockedSource serializes access to a rand source so one engine can be
// driven from multiple goroutines.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// Engine builds audit events. Pattern models and the clock are exported
// so callers (and tests) can swap them; the zero values are never valid,
// use NewEngine.
type Engine struct {
	Time     *patterns.TimePatterns
	Workflow *patterns.WorkflowPatterns
	Anomaly  *patterns.AnomalyPatterns
	Now      func() time.Time

	rng *rand.Rand
}

// NewEngine returns an engine seeded with seed. The same seed yields the
// same draw sequence, which the tests rely on.
func NewEngine(seed int64) *Engine {
	return &Engine{
		Time:     patterns.DefaultTimePatterns(),
		Workflow: patterns.DefaultWorkflowPatterns(),
		Anomaly:  patterns.DefaultAnomalyPatterns(),
		Now:      time.Now,
		rng:      rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)}),
	}
}

// Rand exposes the engine's serialized random source so callers can make
// auxiliary draws from the same seeded sequence.
func (e *Engine) Rand() *rand.Rand {
	return e.rng
}

// EventParams carries the optional entity references and extra template
// parameters for one BuildEvent call.
type EventParams struct {
	User    *model.EntityRef
	Patient *model.EntityRef
	Device  *model.EntityRef

	// DeviceClinic overrides the clinic used by the location cascade when
	// the device reference itself carries none.
	DeviceClinic string

	HospitalID string

	// Timestamp fixes the event time; zero means "draw a realistic one now".
	Timestamp time.Time

	// SourceIP fixes the event's source address; empty means a fresh
	// internal-range address. Security events pass an external one.
	SourceIP string

	// Extra template parameters. They win over the predefined keys and are
	// echoed into details.
	Extra map[string]interface{}
}

// BuildEvent renders one audit event of the given type.
func (e *Engine) BuildEvent(eventType model.EventType, p EventParams) (*model.AuditLog, error) {
	ts := p.Timestamp
	if ts.IsZero() {
		ts = e.Time.RealisticTimestamp(e.rng, e.Now())
	}

	clinic := p.DeviceClinic
	if clinic == "" && p.Device != nil {
		clinic = p.Device.Clinic
	}
	loc := e.locationInfo(clinic)

	msgParams := map[string]interface{}{
		"user":       "Unknown",
		"patient":    "Unknown",
		"device":     "Unknown",
		"event_type": string(eventType),
		"floor":      loc.Floor,
		"clinic":     loc.Clinic,
		"unit":       loc.Unit,
		"location":   loc.Location,
	}
	if p.User != nil && p.User.Name != "" {
		msgParams["user"] = p.User.Name
	}
	if p.Patient != nil {
		if p.Patient.Name != "" {
			msgParams["patient"] = p.Patient.Name
		} else if p.Patient.ID != "" {
			msgParams["patient"] = p.Patient.ID
		}
	}
	if p.Device != nil && p.Device.Name != "" {
		msgParams["device"] = p.Device.Name
	}
	for k, v := range p.Extra {
		msgParams[k] = v
	}

	tmpl, known := messageTemplates[eventType]
	if !known {
		tmpl = unknownTemplate
	}
	message, err := renderTemplate(tmpl, eventType, msgParams)
	if err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{}
	var hl7Path, dicomPath, pdfPath string

	if isImagingEvent(eventType) {
		accession := e.accessionNumber(ts)
		metadata["accession_number"] = accession
		metadata["study_instance_uid"] = e.studyInstanceUID()
		metadata["series_instance_uid"] = e.seriesInstanceUID()
		metadata["modality"] = stringExtra(p.Extra, "modality", "CT")
		metadata["study_date"] = ts.Format("20060102")
		metadata["study_time"] = ts.Format("150405")
		metadata["referring_physician"] = msgParams["user"]
		metadata["body_part_examined"] = stringExtra(p.Extra, "body_part", "CHEST")
		if p.Patient != nil {
			metadata["patient_id"] = p.Patient.ID
		}

		if eventType == model.EventImagingCompleted || eventType == model.EventImageTransferred {
			dicomPath = fmt.Sprintf("data/dicom/%s.dcm", accession)
			metadata["series_count"] = 1 + e.rng.Intn(5)
			if images, ok := p.Extra["images"]; ok {
				metadata["instance_count"] = images
			} else {
				metadata["instance_count"] = 50 + e.rng.Intn(251)
			}
		}
	}

	if eventType == model.EventReportCompleted || eventType == model.EventReportApproved {
		hl7ID := e.hl7MessageID(ts)
		accession := e.accessionNumber(ts)
		metadata["hl7_message_id"] = hl7ID
		metadata["hl7_message_type"] = "ORU^R01"
		metadata["accession_number"] = accession
		metadata["sending_application"] = "RIS"
		metadata["sending_facility"] = p.HospitalID
		metadata["receiving_application"] = "PACS"
		if eventType == model.EventReportApproved {
			metadata["report_status"] = "F"
		} else {
			metadata["report_status"] = "P"
		}
		pdfPath = fmt.Sprintf("data/reports/%s.pdf", accession)
		hl7Path = fmt.Sprintf("data/hl7/%s.hl7", hl7ID)
	}

	if monitoringEvent(eventType) && p.Device != nil && isMonitoringDevice(p.Device) {
		metadata["vital_signs"] = e.vitalSigns()
	}

	details := map[string]interface{}{
		"event_type": string(eventType),
		"timestamp":  ts.Format(time.RFC3339),
		"location":   loc.asMap(),
	}
	for k, v := range metadata {
		details[k] = v
	}
	for k, v := range p.Extra {
		details[k] = v
	}

	sourceIP := p.SourceIP
	if sourceIP == "" {
		sourceIP = e.internalIP()
	}

	log := &model.AuditLog{
		ID:             uuid.New().String(),
		Timestamp:      ts,
		Level:          model.LevelFor(eventType),
		EventType:      eventType,
		Message:        message,
		HospitalID:     p.HospitalID,
		SourceIP:       sourceIP,
		Details:        details,
		HL7MessagePath: hl7Path,
		DICOMPath:      dicomPath,
		PDFPath:        pdfPath,
		CreatedAt:      e.Now(),
	}
	if p.User != nil {
		log.UserID = p.User.ID
	}
	if p.Patient != nil {
		log.PatientID = p.Patient.ID
	}
	if p.Device != nil {
		log.DeviceID = p.Device.ID
	}
	return log, nil
}

// renderTemplate substitutes every {key} placeholder from params. A key
// absent from params is a configuration error and fails the call.
func renderTemplate(tmpl string, eventType model.EventType, params map[string]interface{}) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(ph string) string {
		key := ph[1 : len(ph)-1]
		v, ok := params[key]
		if !ok {
			missing = append(missing, key)
			return ph
		}
		return fmt.Sprint(v)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s for event type %s",
			ErrMissingTemplateParam, strings.Join(missing, ", "), eventType)
	}
	return out, nil
}

func isImagingEvent(t model.EventType) bool {
	switch t {
	case model.EventImagingOrdered, model.EventImagingStarted,
		model.EventImagingCompleted, model.EventImageTransferred:
		return true
	}
	return false
}

// monitoringEvent lists the event types that may carry a vital-signs
// reading when the device is a monitoring-class one.
func monitoringEvent(t model.EventType) bool {
	switch t {
	case model.EventDeviceOperation, model.EventDeviceConnected,
		model.EventImagingStarted, model.EventImagingCompleted:
		return true
	}
	return false
}

// isMonitoringDevice matches upper-cased keywords against the device id
// and cased keywords against the display name, mirroring how device ids
// and Turkish display names are written.
func isMonitoringDevice(d *model.EntityRef) bool {
	upperID := strings.ToUpper(d.ID)
	for _, kw := range []string{"MONITOR", "VENTILATOR", "VITAL"} {
		if strings.Contains(upperID, kw) {
			return true
		}
	}
	for _, kw := range []string{"Monitor", "Ventilatör", "Vital"} {
		if strings.Contains(d.Name, kw) {
			return true
		}
	}
	return false
}

func stringExtra(extra map[string]interface{}, key, fallback string) string {
	if v, ok := extra[key]; ok {
		return fmt.Sprint(v)
	}
	return fallback
}
