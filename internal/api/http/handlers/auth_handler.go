package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/scholarlift/escalation-service/internal/api/dto"
	"github.com/scholarlift/escalation-service/internal/service"
	apperrors "github.com/scholarlift/escalation-service/pkg/util/errorutil"
)

// AuthHandler exposes login for program members.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, expiresAt, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		FullName:    user.FullName,
		Role:        user.Role,
		Region:      user.Region,
	}})
}
