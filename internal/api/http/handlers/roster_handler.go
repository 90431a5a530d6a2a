package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldready/locate-service/internal/api/dto"
	"github.com/fieldready/locate-service/internal/auth"
	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/service"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// RosterHandler exposes the personnel roster.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: rosterService}
}

// ListCrew GET /crew.
func (h *RosterHandler) ListCrew(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	members, err := h.roster.ListCrew(c.Context(), principal.Account.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]dto.CrewMemberView, 0, len(members))
	for i := range members {
		items = append(items, dto.NewCrewMemberView(&members[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListSubcontractorWorkers GET /subcontractors.
func (h *RosterHandler) ListSubcontractorWorkers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	workers, err := h.roster.ListSubcontractorWorkers(c.Context(), principal.Account.OrganizationID)
	if err != nil {
		return err
	}
	items := make([]dto.SubcontractorWorkerView, 0, len(workers))
	for i := range workers {
		items = append(items, dto.NewSubcontractorWorkerView(&workers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddCrewCertification POST /crew/:id/certifications.
func (h *RosterHandler) AddCrewCertification(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddCertificationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid payload", details)
	}
	certType, err := domain.ParseCertificationType(req.Type)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	cert := domain.SafetyCertification{
		Type:      certType,
		ExpiresAt: req.ExpiresAt,
		Active:    true,
	}
	if req.Active != nil {
		cert.Active = *req.Active
	}

	created, err := h.roster.AddCrewCertification(c.Context(), principal.Account.OrganizationID, c.Params("id"), cert)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CertificationView{
		ID:        created.ID,
		Type:      string(created.Type),
		ExpiresAt: created.ExpiresAt,
		Active:    created.Active,
	}})
}
