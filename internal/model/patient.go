package model

import "time"

type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderOther   Gender = "O"
	GenderUnknown Gender = "U"
)

type PatientStatus string

const (
	PatientStatusActive      PatientStatus = "active"
	PatientStatusDischarged  PatientStatus = "discharged"
	PatientStatusTransferred PatientStatus = "transferred"
)

type Patient struct {
	ID         string        `json:"id" db:"id"`
	TCNo       string        `json:"tc_no" db:"tc_no"`
	Name       string        `json:"name" db:"name"`
	Gender     Gender        `json:"gender" db:"gender"`
	BirthDate  time.Time     `json:"birth_date" db:"birth_date"`
	Status     PatientStatus `json:"status" db:"status"`
	Phone      string        `json:"phone" db:"phone"`
	Email      string        `json:"email,omitempty" db:"email"`
	Address    string        `json:"address" db:"address"`
	HospitalID string        `json:"hospital_id" db:"hospital_id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

func (p *Patient) Ref() EntityRef {
	return EntityRef{ID: p.ID, Name: p.Name}
}
