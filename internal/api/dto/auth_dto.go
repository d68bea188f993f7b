package dto

import (
	"time"

	"github.com/scholarlift/escalation-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns token plus the acting user's scope.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	UserID      string          `json:"user_id"`
	FullName    string          `json:"full_name"`
	Role        domain.UserRole `json:"role"`
	Region      string          `json:"region"`
}
