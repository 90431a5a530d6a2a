package dto

import "time"

// EvaluateReadinessRequest describes one dig readiness evaluation request.
// Either ticket_id or location_query must identify the ticket; as_of defaults
// to the server clock when omitted.
type EvaluateReadinessRequest struct {
	TicketID               string     `json:"ticket_id"`
	LocationQuery          string     `json:"location_query"`
	AsOf                   *time.Time `json:"as_of"`
	CrewMemberIDs          []string   `json:"crew_member_ids"`
	SubcontractorWorkerIDs []string   `json:"subcontractor_worker_ids"`
}

// LoginRequest payload.
type LoginRequest struct {
	Name   string `json:"name" validate:"required"`
	Secret string `json:"secret" validate:"required"`
}

// LoginResponse payload.
type LoginResponse struct {
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
	OrganizationID string    `json:"organization_id"`
	Role           string    `json:"role"`
}
