package domain

import (
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for locate tickets.
type TicketStatus string

const (
	TicketStatusReceived   TicketStatus = "RECEIVED"
	TicketStatusPending    TicketStatus = "PENDING"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClear      TicketStatus = "CLEAR"
	TicketStatusConflict   TicketStatus = "CONFLICT"
	TicketStatusExpired    TicketStatus = "EXPIRED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// ParseTicketStatus validates a raw status value. Unknown values are a
// decode error, never coerced to a default.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch TicketStatus(raw) {
	case TicketStatusReceived, TicketStatusPending, TicketStatusInProgress,
		TicketStatusClear, TicketStatusConflict, TicketStatusExpired, TicketStatusCancelled:
		return TicketStatus(raw), nil
	}
	return "", fmt.Errorf("unknown ticket status %q", raw)
}

// Terminal reports whether the status admits no further transitions.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusExpired || s == TicketStatusCancelled
}

// WorkType enumerates excavation work categories carried on WV811 tickets.
type WorkType string

const (
	WorkTypeExcavation WorkType = "EXCAVATION"
	WorkTypeBoring     WorkType = "BORING"
	WorkTypeTrenching  WorkType = "TRENCHING"
	WorkTypeGrading    WorkType = "GRADING"
	WorkTypeDemolition WorkType = "DEMOLITION"
	WorkTypeOther      WorkType = "OTHER"
)

// ParseWorkType validates a raw work type value.
func ParseWorkType(raw string) (WorkType, error) {
	switch WorkType(raw) {
	case WorkTypeExcavation, WorkTypeBoring, WorkTypeTrenching,
		WorkTypeGrading, WorkTypeDemolition, WorkTypeOther:
		return WorkType(raw), nil
	}
	return "", fmt.Errorf("unknown work type %q", raw)
}

// LocateTicket is the aggregate for a one-call utility locate request.
// TicketNumber is issued by the notification center; ID is internal.
type LocateTicket struct {
	ID               string
	TicketNumber     string
	OrganizationID   string
	SiteAddress      string
	SiteCity         string
	SiteCounty       string
	SiteState        string
	SiteZip          string
	ExcavatorCompany string
	ExcavatorContact string
	WorkType         WorkType
	RequestedDepthFt *float64
	LegalDigDate     time.Time
	ExpiresAt        time.Time
	Status           TicketStatus
	Remarks          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ExpiredAsOf reports whether the ticket's legal validity window has lapsed,
// regardless of the stored status.
func (t *LocateTicket) ExpiredAsOf(asOf time.Time) bool {
	return asOf.After(t.ExpiresAt)
}
