package events

import (
	"time"

	"github.com/fieldready/locate-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketIngested          EventType = "ticket_ingested"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventUtilityResponseRecorded EventType = "utility_response_recorded"
	EventTicketExpiringSoon      EventType = "ticket_expiring_soon"
	EventTicketExpired           EventType = "ticket_expired"
	EventReadinessEvaluated      EventType = "readiness_evaluated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	TicketID       string      `json:"ticket_id,omitempty"`
	OrganizationID string      `json:"organization_id,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// TicketIngestedPayload payload.
type TicketIngestedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	Source       string              `json:"source"`
	WorkType     domain.WorkType     `json:"work_type"`
	LegalDigDate time.Time           `json:"legal_dig_date"`
	ExpiresAt    time.Time           `json:"expires_at"`
	Status       domain.TicketStatus `json:"status"`
	Utilities    int                 `json:"utilities"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	Comment      string              `json:"comment,omitempty"`
}

// UtilityResponseRecordedPayload payload.
type UtilityResponseRecordedPayload struct {
	TicketNumber string                     `json:"ticket_number"`
	UtilityCode  string                     `json:"utility_code"`
	ResponseType domain.UtilityResponseType `json:"response_type"`
}

// TicketExpirationPayload payload for expiring-soon and expired events.
type TicketExpirationPayload struct {
	TicketNumber string    `json:"ticket_number"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ReadinessEvaluatedPayload payload.
type ReadinessEvaluatedPayload struct {
	CheckID      string         `json:"check_id"`
	TicketNumber string         `json:"ticket_number"`
	Verdict      domain.Verdict `json:"verdict"`
	CanProceed   bool           `json:"can_proceed"`
}
