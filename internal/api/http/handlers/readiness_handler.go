package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fieldready/locate-service/internal/api/dto"
	"github.com/fieldready/locate-service/internal/auth"
	"github.com/fieldready/locate-service/internal/service"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// ReadinessHandler exposes the dig readiness evaluation.
type ReadinessHandler struct {
	readiness *service.ReadinessService
}

// NewReadinessHandler constructs handler.
func NewReadinessHandler(readinessService *service.ReadinessService) *ReadinessHandler {
	return &ReadinessHandler{readiness: readinessService}
}

// Evaluate POST /readiness/evaluate.
func (h *ReadinessHandler) Evaluate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.EvaluateReadinessRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	check, err := h.readiness.EvaluateDigReadiness(c.Context(), service.EvaluateInput{
		OrganizationID:         principal.Account.OrganizationID,
		TicketID:               req.TicketID,
		LocationQuery:          req.LocationQuery,
		AsOf:                   req.AsOf,
		CrewMemberIDs:          req.CrewMemberIDs,
		SubcontractorWorkerIDs: req.SubcontractorWorkerIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": check})
}

// GetCheck GET /readiness/checks/:id.
func (h *ReadinessHandler) GetCheck(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	check, err := h.readiness.GetCheck(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": check})
}
