package domain

import "time"

// UserRole drives dashboard access levels.
type UserRole string

const (
	UserRoleAmbassador   UserRole = "AMBASSADOR"
	UserRoleRegionalLead UserRole = "REGIONAL_LEAD"
	UserRoleAdmin        UserRole = "ADMIN"
)

// User is the domain model for program members who report and handle
// escalations. Region is the country code the member operates in.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         UserRole
	Region       string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
