package model

import "time"

type UserRole string

const (
	RoleRadiologist         UserRole = "radiologist"
	RoleCardiologist        UserRole = "cardiologist"
	RoleNeurologist         UserRole = "neurologist"
	RoleOrthopedist         UserRole = "orthopedist"
	RoleGeneralPractitioner UserRole = "general_practitioner"
	RoleTechnician          UserRole = "technician"
	RoleNurse               UserRole = "nurse"
	RoleAdmin               UserRole = "admin"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusOnLeave  UserStatus = "on_leave"
)

// User is a doctor or staff member.
type User struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Title        string     `json:"title" db:"title"`
	Department   string     `json:"department" db:"department"`
	Role         UserRole   `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	HospitalID   string     `json:"hospital_id" db:"hospital_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

func (u *User) Ref() EntityRef {
	return EntityRef{ID: u.ID, Name: u.Name}
}

type TokenClaims struct {
	UserID string `json:"sub"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
