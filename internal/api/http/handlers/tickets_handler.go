package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldready/locate-service/internal/api/dto"
	"github.com/fieldready/locate-service/internal/auth"
	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/service"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// TicketsHandler manages locate ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	ingest  *service.IngestService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, ingest *service.IngestService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, ingest: ingest}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid payload", details)
	}

	input := service.TicketCreateInput{
		TicketNumber:     req.TicketNumber,
		OrganizationID:   principal.Account.OrganizationID,
		SiteAddress:      req.SiteAddress,
		SiteCity:         req.SiteCity,
		SiteCounty:       req.SiteCounty,
		SiteState:        req.SiteState,
		SiteZip:          req.SiteZip,
		ExcavatorCompany: req.ExcavatorCompany,
		ExcavatorContact: req.ExcavatorContact,
		RequestedDepthFt: req.RequestedDepthFt,
		LegalDigDate:     req.LegalDigDate,
		ExpiresAt:        req.ExpiresAt,
		Remarks:          req.Remarks,
	}
	if req.WorkType != "" {
		workType, err := domain.ParseWorkType(req.WorkType)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		input.WorkType = workType
	}
	for _, u := range req.Utilities {
		utility := service.UtilityInput{
			Code:                   u.Code,
			Name:                   u.Name,
			ResponseWindowClosesAt: u.ResponseWindowClosesAt,
		}
		if u.Type != "" {
			utilityType, err := domain.ParseUtilityType(u.Type)
			if err != nil {
				return apperrors.NewValidationError(err.Error(), nil)
			}
			utility.Type = utilityType
		}
		input.Utilities = append(input.Utilities, utility)
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}

// IngestNotification POST /ingest/wv811.
func (h *TicketsHandler) IngestNotification(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.ingest.IngestNotification(c.Context(), principal.Account.OrganizationID, c.Body())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseTicketListQuery(c, principal.Account.OrganizationID)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListTickets(c.Context(), input)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.tickets.GetTicket(c.Context(), principal.Account.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetailResponse(detail)})
}

// RecordResponse POST /tickets/:id/responses.
func (h *TicketsHandler) RecordResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RecordResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid payload", details)
	}

	responseType, err := domain.ParseUtilityResponseType(req.ResponseType)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	input := service.ResponseInput{
		UtilityCode:            req.UtilityCode,
		UtilityName:            req.UtilityName,
		ResponseType:           responseType,
		ResponseWindowClosesAt: req.ResponseWindowClosesAt,
		MarkingInstructions:    req.MarkingInstructions,
		ConflictReason:         req.ConflictReason,
	}
	if req.UtilityType != "" {
		utilityType, err := domain.ParseUtilityType(req.UtilityType)
		if err != nil {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		input.UtilityType = utilityType
	}

	resp, err := h.tickets.RecordUtilityResponse(c.Context(), principal.Account.OrganizationID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUtilityResponseView(resp)})
}

// UpdateStatus POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseTicketStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	ticket, err := h.tickets.UpdateStatus(c.Context(), principal.Account.OrganizationID, c.Params("id"), status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}

// CancelTicket POST /tickets/:id/cancel.
func (h *TicketsHandler) CancelTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CancelTicketRequest
	_ = c.BodyParser(&req)
	ticket, err := h.tickets.CancelTicket(c.Context(), principal.Account.OrganizationID, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}

func parseTicketListQuery(c *fiber.Ctx, orgID string) (service.TicketListInput, error) {
	input := service.TicketListInput{OrganizationID: orgID}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			status, err := domain.ParseTicketStatus(strings.TrimSpace(part))
			if err != nil {
				return input, apperrors.NewValidationError(err.Error(), nil)
			}
			input.Statuses = append(input.Statuses, status)
		}
	}
	if county := c.Query("county"); county != "" {
		input.County = &county
	}
	if term := c.Query("q"); term != "" {
		input.SearchTerm = &term
	}
	if limit, err := strconv.Atoi(c.Query("limit", "20")); err == nil {
		input.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset", "0")); err == nil {
		input.Offset = offset
	}
	return input, nil
}

func ticketDetailResponse(detail *service.TicketDetail) dto.TicketDetailResponse {
	resp := dto.TicketDetailResponse{
		TicketSummary:    dto.NewTicketSummary(detail.Ticket),
		SiteState:        detail.Ticket.SiteState,
		SiteZip:          detail.Ticket.SiteZip,
		ExcavatorCompany: detail.Ticket.ExcavatorCompany,
		ExcavatorContact: detail.Ticket.ExcavatorContact,
		RequestedDepthFt: detail.Ticket.RequestedDepthFt,
		Remarks:          detail.Ticket.Remarks,
		Standing:         detail.Standing,
		Responses:        make([]dto.UtilityResponseView, 0, len(detail.Responses)),
	}
	for i := range detail.Responses {
		resp.Responses = append(resp.Responses, dto.NewUtilityResponseView(&detail.Responses[i]))
	}
	return resp
}
