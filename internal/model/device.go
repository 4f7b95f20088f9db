package model

import "time"

type DeviceType string

const (
	DeviceWorkstation    DeviceType = "WORKSTATION"
	DeviceCTScanner      DeviceType = "CT_SCANNER"
	DeviceMRIScanner     DeviceType = "MRI_SCANNER"
	DeviceXRay           DeviceType = "XRAY"
	DeviceUltrasound     DeviceType = "ULTRASOUND"
	DevicePACSServer     DeviceType = "PACS_SERVER"
	DeviceNST            DeviceType = "NST_DEVICE"
	DevicePatientMonitor DeviceType = "PATIENT_MONITOR"
	DeviceVentilator     DeviceType = "VENTILATOR"
	DeviceVitalMonitor   DeviceType = "VITAL_MONITOR"
)

type DeviceStatus string

const (
	DeviceStatusActive      DeviceStatus = "active"
	DeviceStatusInactive    DeviceStatus = "inactive"
	DeviceStatusMaintenance DeviceStatus = "maintenance"
	DeviceStatusOffline     DeviceStatus = "offline"
)

// Device is a modality or workstation. Clinic records the clinic the
// device is assigned to; the generator's location cascade keys off it.
type Device struct {
	ID         string       `json:"id" db:"id"`
	Name       string       `json:"name" db:"name"`
	Type       DeviceType   `json:"type" db:"type"`
	Status     DeviceStatus `json:"status" db:"status"`
	IPAddress  string       `json:"ip_address" db:"ip_address"`
	Clinic     string       `json:"clinic" db:"clinic"`
	HospitalID string       `json:"hospital_id" db:"hospital_id"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" db:"updated_at"`
	LastSeen   *time.Time   `json:"last_seen,omitempty" db:"last_seen"`
}

func (d *Device) Ref() EntityRef {
	return EntityRef{ID: d.ID, Name: d.Name, Clinic: d.Clinic}
}
