package dto

import (
	"time"

	"github.com/fieldready/locate-service/internal/domain"
)

// UtilityMemberRequest seeds one notified utility on ticket creation.
type UtilityMemberRequest struct {
	Code                   string     `json:"code" validate:"required"`
	Name                   string     `json:"name" validate:"required"`
	Type                   string     `json:"type"`
	ResponseWindowClosesAt *time.Time `json:"response_window_closes_at"`
}

// CreateTicketRequest payload for manual ticket entry.
type CreateTicketRequest struct {
	TicketNumber     string                 `json:"ticket_number"`
	SiteAddress      string                 `json:"site_address" validate:"required"`
	SiteCity         string                 `json:"site_city"`
	SiteCounty       string                 `json:"site_county"`
	SiteState        string                 `json:"site_state"`
	SiteZip          string                 `json:"site_zip"`
	ExcavatorCompany string                 `json:"excavator_company"`
	ExcavatorContact string                 `json:"excavator_contact"`
	WorkType         string                 `json:"work_type"`
	RequestedDepthFt *float64               `json:"requested_depth_ft"`
	LegalDigDate     time.Time              `json:"legal_dig_date" validate:"required"`
	ExpiresAt        time.Time              `json:"expires_at" validate:"required"`
	Remarks          string                 `json:"remarks"`
	Utilities        []UtilityMemberRequest `json:"utilities" validate:"dive"`
}

// RecordResponseRequest payload for recording a utility answer.
type RecordResponseRequest struct {
	UtilityCode            string     `json:"utility_code" validate:"required"`
	UtilityName            string     `json:"utility_name" validate:"required"`
	UtilityType            string     `json:"utility_type"`
	ResponseType           string     `json:"response_type" validate:"required"`
	ResponseWindowClosesAt *time.Time `json:"response_window_closes_at"`
	MarkingInstructions    string     `json:"marking_instructions"`
	ConflictReason         string     `json:"conflict_reason"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment"`
}

// CancelTicketRequest payload.
type CancelTicketRequest struct {
	Reason string `json:"reason"`
}

// UtilityResponseView response item.
type UtilityResponseView struct {
	ID                     string     `json:"id"`
	UtilityCode            string     `json:"utility_code"`
	UtilityName            string     `json:"utility_name"`
	UtilityType            string     `json:"utility_type"`
	ResponseType           string     `json:"response_type"`
	ResponseWindowClosesAt *time.Time `json:"response_window_closes_at,omitempty"`
	MarkingInstructions    string     `json:"marking_instructions,omitempty"`
	ConflictReason         string     `json:"conflict_reason,omitempty"`
	RespondedAt            *time.Time `json:"responded_at,omitempty"`
}

// TicketSummary response item.
type TicketSummary struct {
	ID           string    `json:"id"`
	TicketNumber string    `json:"ticket_number"`
	SiteAddress  string    `json:"site_address"`
	SiteCity     string    `json:"site_city"`
	SiteCounty   string    `json:"site_county"`
	WorkType     string    `json:"work_type"`
	Status       string    `json:"status"`
	LegalDigDate time.Time `json:"legal_dig_date"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketDetailResponse provides full ticket info plus the read-time standing.
type TicketDetailResponse struct {
	TicketSummary
	SiteState        string                `json:"site_state"`
	SiteZip          string                `json:"site_zip"`
	ExcavatorCompany string                `json:"excavator_company"`
	ExcavatorContact string                `json:"excavator_contact"`
	RequestedDepthFt *float64              `json:"requested_depth_ft,omitempty"`
	Remarks          string                `json:"remarks,omitempty"`
	Standing         domain.TicketStanding `json:"standing"`
	Responses        []UtilityResponseView `json:"responses"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(t *domain.LocateTicket) TicketSummary {
	return TicketSummary{
		ID:           t.ID,
		TicketNumber: t.TicketNumber,
		SiteAddress:  t.SiteAddress,
		SiteCity:     t.SiteCity,
		SiteCounty:   t.SiteCounty,
		WorkType:     string(t.WorkType),
		Status:       string(t.Status),
		LegalDigDate: t.LegalDigDate,
		ExpiresAt:    t.ExpiresAt,
		CreatedAt:    t.CreatedAt,
	}
}

// NewUtilityResponseView maps a domain response.
func NewUtilityResponseView(r *domain.UtilityResponse) UtilityResponseView {
	return UtilityResponseView{
		ID:                     r.ID,
		UtilityCode:            r.UtilityCode,
		UtilityName:            r.UtilityName,
		UtilityType:            string(r.UtilityType),
		ResponseType:           string(r.ResponseType),
		ResponseWindowClosesAt: r.ResponseWindowClosesAt,
		MarkingInstructions:    r.MarkingInstructions,
		ConflictReason:         r.ConflictReason,
		RespondedAt:            r.RespondedAt,
	}
}
