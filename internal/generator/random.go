package generator

import (
	"fmt"

	"github.com/medaudit/audit-trail-api/internal/model"
)

// Population is the entity pool the random selector draws from. Every
// slice must be non-empty.
type Population struct {
	Users     []model.EntityRef
	Patients  []model.EntityRef
	Devices   []model.EntityRef
	Hospitals []model.EntityRef
}

// routinePool is what the hospital looks like when nothing is wrong.
var routinePool = []model.EventType{
	model.EventUserLogin,
	model.EventUserLogout,
	model.EventStudyViewed,
	model.EventPatientAccess,
	model.EventPatientDataViewed,
	model.EventDeviceOperation,
	model.EventDatabaseQuery,
	model.EventFileUpload,
	model.EventFileDownload,
}

var errorDescriptions = []string{
	"Bağlantı zaman aşımı",
	"Servis kullanılamıyor",
	"Kaynak bulunamadı",
}

var securityAlertTypes = []string{
	"Çoklu başarısız giriş",
	"Olağandışı erişim düzeni",
	"Mesai dışı erişim",
}

var suspiciousActivities = []string{
	"Toplu veri indirme",
	"Hızlı ardışık sorgular",
	"Bilinmeyen istemciden erişim",
}

var performanceMetrics = []string{
	"CPU kullanımı",
	"Bellek kullanımı",
	"Disk G/Ç gecikmesi",
	"Yanıt süresi",
}

var rejectionReasons = []string{
	"Incomplete information",
	"Quality issues",
	"Additional views needed",
}

// GenerateRandomEvent draws one event from the population. A staff
// member and a hospital are always involved; the patient and the device
// are attached probabilistically, so most events reference a patient but
// only about half name a device. The security gate is checked before the
// error gate, so security traffic never gets starved by a high error
// rate; most calls fall through to the routine pool.
func (e *Engine) GenerateRandomEvent(pop Population) (*model.AuditLog, error) {
	if err := pop.validate(); err != nil {
		return nil, err
	}

	user := pop.Users[e.rng.Intn(len(pop.Users))]
	hospital := pop.Hospitals[e.rng.Intn(len(pop.Hospitals))]

	var patient, device *model.EntityRef
	if e.rng.Float64() > 0.3 {
		p := pop.Patients[e.rng.Intn(len(pop.Patients))]
		patient = &p
	}
	if e.rng.Float64() > 0.5 {
		d := pop.Devices[e.rng.Intn(len(pop.Devices))]
		device = &d
	}

	deviceClinic := ""
	if device != nil {
		deviceClinic = device.Clinic
	}

	if e.Anomaly.ShouldSecurityEvent(e.rng) {
		return e.buildSecurityEvent(user, deviceClinic, hospital.ID)
	}
	if e.Anomaly.ShouldError(e.rng) {
		return e.buildErrorEvent(user, device, deviceClinic, hospital.ID)
	}

	eventType := routinePool[e.rng.Intn(len(routinePool))]
	p := EventParams{
		User:         &user,
		Patient:      patient,
		Device:       device,
		DeviceClinic: deviceClinic,
		HospitalID:   hospital.ID,
		Extra:        map[string]interface{}{},
	}
	if eventType == model.EventFileUpload || eventType == model.EventFileDownload {
		p.Extra["filename"] = fmt.Sprintf("report_%08x.pdf", e.rng.Uint32())
	}

	return e.BuildEvent(eventType, p)
}

// buildSecurityEvent renders an anomaly with an external source address.
// The device's clinic still places the event, but the device itself is
// not named: the alert points at the account, not the equipment.
func (e *Engine) buildSecurityEvent(user model.EntityRef, deviceClinic, hospitalID string) (*model.AuditLog, error) {
	eventType := e.Anomaly.RandomSecurityEvent(e.rng)
	ip := e.externalIP()

	p := EventParams{
		User:         &user,
		HospitalID:   hospitalID,
		DeviceClinic: deviceClinic,
		SourceIP:     ip,
		Extra: map[string]interface{}{
			"ip":         ip,
			"alert_type": securityAlertTypes[e.rng.Intn(len(securityAlertTypes))],
			"activity":   suspiciousActivities[e.rng.Intn(len(suspiciousActivities))],
		},
	}

	return e.BuildEvent(eventType, p)
}

func (e *Engine) buildErrorEvent(user model.EntityRef, device *model.EntityRef, deviceClinic, hospitalID string) (*model.AuditLog, error) {
	eventType := e.Anomaly.RandomErrorType(e.rng)

	p := EventParams{
		User:         &user,
		Device:       device,
		DeviceClinic: deviceClinic,
		HospitalID:   hospitalID,
		Extra: map[string]interface{}{
			"error":  errorDescriptions[e.rng.Intn(len(errorDescriptions))],
			"metric": performanceMetrics[e.rng.Intn(len(performanceMetrics))],
			"value":  fmt.Sprintf("%%%d", 80+e.rng.Intn(20)),
		},
	}

	return e.BuildEvent(eventType, p)
}

// Pick returns a uniformly drawn element. Panics on an empty slice;
// callers validate the population first.
func (e *Engine) Pick(refs []model.EntityRef) model.EntityRef {
	return refs[e.rng.Intn(len(refs))]
}

var imagingModalities = []string{
	"XRAY", "ULTRASOUND", "CT_SCANNER", "MRI_SCANNER", "NST_DEVICE",
}

// RandomModality draws one of the imaging modality names.
func (e *Engine) RandomModality() string {
	return imagingModalities[e.rng.Intn(len(imagingModalities))]
}

func (p Population) validate() error {
	switch {
	case len(p.Users) == 0:
		return fmt.Errorf("%w: users", ErrEmptyPopulation)
	case len(p.Patients) == 0:
		return fmt.Errorf("%w: patients", ErrEmptyPopulation)
	case len(p.Devices) == 0:
		return fmt.Errorf("%w: devices", ErrEmptyPopulation)
	case len(p.Hospitals) == 0:
		return fmt.Errorf("%w: hospitals", ErrEmptyPopulation)
	}
	return nil
}
