package model

import "time"

type HospitalType string

const (
	HospitalTypePublic     HospitalType = "public"
	HospitalTypeUniversity HospitalType = "university"
	HospitalTypePrivate    HospitalType = "private"
	HospitalTypeResearch   HospitalType = "research"
)

type Hospital struct {
	ID        string       `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Location  string       `json:"location" db:"location"`
	City      string       `json:"city" db:"city"`
	Type      HospitalType `json:"type" db:"type"`
	Status    string       `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// EntityRef is the minimal entity record the event generator consumes.
// Clinic is only meaningful for devices.
type EntityRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Clinic string `json:"clinic,omitempty"`
}

func (h *Hospital) Ref() EntityRef {
	return EntityRef{ID: h.ID, Name: h.Name}
}
