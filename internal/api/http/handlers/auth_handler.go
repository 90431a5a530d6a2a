package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fieldready/locate-service/internal/api/dto"
	"github.com/fieldready/locate-service/internal/service"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// AuthHandler manages service account authentication.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid payload", details)
	}

	token, expiresAt, account, err := h.auth.Login(c.Context(), req.Name, req.Secret)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:          token,
		ExpiresAt:      expiresAt,
		OrganizationID: account.OrganizationID,
		Role:           string(account.Role),
	}})
}
