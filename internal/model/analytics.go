package model

import "time"

// TypeCount is one slice of the event distribution.
type TypeCount struct {
	EventType string `json:"event_type" db:"event_type"`
	Count     int64  `json:"count" db:"count"`
}

// LevelCount is one slice of the severity distribution.
type LevelCount struct {
	Level string `json:"level" db:"level"`
	Count int64  `json:"count" db:"count"`
}

// HourlyCount buckets activity by hour of day.
type HourlyCount struct {
	Hour  int   `json:"hour" db:"hour"`
	Count int64 `json:"count" db:"count"`
}

// DailyCount buckets activity by calendar day.
type DailyCount struct {
	Day   time.Time `json:"day" db:"day"`
	Count int64     `json:"count" db:"count"`
}

// UserActivityCount ranks users by generated events.
type UserActivityCount struct {
	UserID string `json:"user_id" db:"user_id"`
	Count  int64  `json:"count" db:"count"`
}

// IPCount ranks source addresses, used by the security report.
type IPCount struct {
	SourceIP string `json:"source_ip" db:"source_ip"`
	Count    int64  `json:"count" db:"count"`
}

// ActivityReport is the hourly-profile analytics payload.
type ActivityReport struct {
	Hourly   []HourlyCount       `json:"hourly"`
	TopUsers []UserActivityCount `json:"top_users"`
	Period   string              `json:"period"`
}

// SecurityReport summarizes anomaly traffic over a window.
type SecurityReport struct {
	TotalEvents   int64       `json:"total_events"`
	ByType        []TypeCount `json:"by_type"`
	TopSourceIPs  []IPCount   `json:"top_source_ips"`
	FailedLogins  int64       `json:"failed_logins"`
	CriticalCount int64       `json:"critical_count"`
}

// PerformanceReport summarizes error pressure over a window.
type PerformanceReport struct {
	TotalEvents   int64   `json:"total_events"`
	ErrorCount    int64   `json:"error_count"`
	WarningCount  int64   `json:"warning_count"`
	ErrorRate     float64 `json:"error_rate"`
	EventsPerHour float64 `json:"events_per_hour"`
}
