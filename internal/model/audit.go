package model

import (
	"time"
)

// Level is the severity of an audit log entry.
type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// EventType is the closed set of audit event categories.
type EventType string

const (
	// User/session events
	EventUserLogin       EventType = "USER_LOGIN"
	EventUserLogout      EventType = "USER_LOGOUT"
	EventUserFailedLogin EventType = "USER_FAILED_LOGIN"

	// Patient lifecycle events
	EventPatientAdmission    EventType = "PATIENT_ADMISSION"
	EventPatientRegistration EventType = "PATIENT_REGISTRATION"
	EventPatientDischarge    EventType = "PATIENT_DISCHARGE"
	EventPatientAccess       EventType = "PATIENT_ACCESS"
	EventPatientDataViewed   EventType = "PATIENT_DATA_VIEWED"
	EventPatientDataModified EventType = "PATIENT_DATA_MODIFIED"

	// Imaging workflow events
	EventImagingOrdered   EventType = "IMAGING_ORDERED"
	EventImagingStarted   EventType = "IMAGING_STARTED"
	EventImagingCompleted EventType = "IMAGING_COMPLETED"
	EventImageTransferred EventType = "IMAGE_TRANSFERRED"
	EventStudyViewed      EventType = "STUDY_VIEWED"

	// Reporting workflow events
	EventReportAssigned   EventType = "REPORT_ASSIGNED"
	EventReportInProgress EventType = "REPORT_IN_PROGRESS"
	EventReportCompleted  EventType = "REPORT_COMPLETED"
	EventReportApproved   EventType = "REPORT_APPROVED"
	EventReportRejected   EventType = "REPORT_REJECTED"

	// Device lifecycle events
	EventDeviceConnected    EventType = "DEVICE_CONNECTED"
	EventDeviceDisconnected EventType = "DEVICE_DISCONNECTED"
	EventDeviceOperation    EventType = "DEVICE_OPERATION"
	EventDeviceError        EventType = "DEVICE_ERROR"
	EventDeviceMaintenance  EventType = "DEVICE_MAINTENANCE"

	// Security/anomaly events
	EventAccessDenied       EventType = "ACCESS_DENIED"
	EventSecurityAlert      EventType = "SECURITY_ALERT"
	EventUnauthorizedAccess EventType = "UNAUTHORIZED_ACCESS"
	EventSuspiciousActivity EventType = "SUSPICIOUS_ACTIVITY"

	// System/infrastructure events
	EventSystemStartup    EventType = "SYSTEM_STARTUP"
	EventSystemShutdown   EventType = "SYSTEM_SHUTDOWN"
	EventBackupCompleted  EventType = "BACKUP_COMPLETED"
	EventDatabaseQuery    EventType = "DATABASE_QUERY"
	EventFileUpload       EventType = "FILE_UPLOAD"
	EventFileDownload     EventType = "FILE_DOWNLOAD"
	EventPerformanceAlert EventType = "PERFORMANCE_ALERT"
	EventNetworkError     EventType = "NETWORK_ERROR"
)

// eventLevels maps every event type to its severity. LevelFor falls back
// to INFO for types not in the table.
var eventLevels = map[EventType]Level{
	EventUserLogin:       LevelInfo,
	EventUserLogout:      LevelInfo,
	EventUserFailedLogin: LevelWarning,

	EventPatientAdmission:    LevelInfo,
	EventPatientRegistration: LevelInfo,
	EventPatientDischarge:    LevelInfo,
	EventPatientAccess:       LevelWarning,
	EventPatientDataViewed:   LevelInfo,
	EventPatientDataModified: LevelWarning,

	EventImagingOrdered:   LevelInfo,
	EventImagingStarted:   LevelInfo,
	EventImagingCompleted: LevelInfo,
	EventImageTransferred: LevelInfo,
	EventStudyViewed:      LevelInfo,

	EventReportAssigned:   LevelInfo,
	EventReportInProgress: LevelInfo,
	EventReportCompleted:  LevelInfo,
	EventReportApproved:   LevelInfo,
	EventReportRejected:   LevelWarning,

	EventDeviceConnected:    LevelInfo,
	EventDeviceDisconnected: LevelWarning,
	EventDeviceOperation:    LevelInfo,
	EventDeviceError:        LevelError,
	EventDeviceMaintenance:  LevelWarning,

	EventAccessDenied:       LevelError,
	EventSecurityAlert:      LevelCritical,
	EventUnauthorizedAccess: LevelCritical,
	EventSuspiciousActivity: LevelWarning,

	EventSystemStartup:    LevelInfo,
	EventSystemShutdown:   LevelInfo,
	EventBackupCompleted:  LevelInfo,
	EventDatabaseQuery:    LevelInfo,
	EventFileUpload:       LevelInfo,
	EventFileDownload:     LevelInfo,
	EventPerformanceAlert: LevelWarning,
	EventNetworkError:     LevelError,
}

// LevelFor returns the severity for an event type. The level is fully
// determined by the event type; unknown types are INFO.
func LevelFor(t EventType) Level {
	if lvl, ok := eventLevels[t]; ok {
		return lvl
	}
	return LevelInfo
}

// AuditLog is one structured audit event. Entity references are optional
// string ids; details carries location and workflow metadata.
type AuditLog struct {
	ID         string                 `json:"id" db:"id"`
	Timestamp  time.Time              `json:"timestamp" db:"timestamp"`
	Level      Level                  `json:"level" db:"level"`
	EventType  EventType              `json:"event_type" db:"event_type"`
	Message    string                 `json:"message" db:"message"`
	UserID     string                 `json:"user_id,omitempty" db:"user_id"`
	PatientID  string                 `json:"patient_id,omitempty" db:"patient_id"`
	DeviceID   string                 `json:"device_id,omitempty" db:"device_id"`
	HospitalID string                 `json:"hospital_id" db:"hospital_id"`
	SourceIP   string                 `json:"source_ip" db:"source_ip"`
	Details    map[string]interface{} `json:"details" db:"-"`
	DetailsRaw []byte                 `json:"-" db:"details"`

	HL7MessagePath string `json:"hl7_message_path,omitempty" db:"hl7_message_path"`
	DICOMPath      string `json:"dicom_path,omitempty" db:"dicom_path"`
	PDFPath        string `json:"pdf_path,omitempty" db:"pdf_path"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LogFilters narrows audit log listings.
type LogFilters struct {
	HospitalID string
	Level      string
	EventType  string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
}

// DashboardStats is the headline dashboard payload.
type DashboardStats struct {
	TotalEvents    int64     `json:"total_events"`
	ActiveUsers    int64     `json:"active_users"`
	ActiveDevices  int64     `json:"active_devices"`
	PatientCount   int64     `json:"patient_count"`
	SecurityEvents int64     `json:"security_events"`
	EventsPerHour  int64     `json:"events_per_hour"`
	SystemHealth   float64   `json:"system_health"`
	Timestamp      time.Time `json:"timestamp"`
}
