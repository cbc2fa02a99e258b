package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse access level checked at the HTTP boundary. The
// engines never consult roles; they only receive the acting user's id
// as audit metadata.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleClient Role = "CLIENT"
)

// User is both an account for the auth boundary and a guest directory
// entry used to auto-fill reservation contact fields.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Phone        string    `json:"phone" db:"phone"`
	Role         Role      `json:"role" db:"role"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// LoginSession records a successful login together with the client
// device information parsed from the User-Agent header.
type LoginSession struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	IPAddress  string    `json:"ip_address" db:"ip_address"`
	DeviceInfo string    `json:"device_info" db:"device_info"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
