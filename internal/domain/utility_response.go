package domain

import (
	"fmt"
	"time"
)

// UtilityResponseType enumerates the terminal and pending states a utility
// member can report against a locate ticket.
type UtilityResponseType string

const (
	ResponseClear         UtilityResponseType = "CLEAR"
	ResponseMarked        UtilityResponseType = "MARKED"
	ResponseConflict      UtilityResponseType = "CONFLICT"
	ResponseNoResponse    UtilityResponseType = "NO_RESPONSE"
	ResponseNotApplicable UtilityResponseType = "NOT_APPLICABLE"
	ResponsePending       UtilityResponseType = "PENDING"
)

// ParseUtilityResponseType validates a raw response type value.
func ParseUtilityResponseType(raw string) (UtilityResponseType, error) {
	switch UtilityResponseType(raw) {
	case ResponseClear, ResponseMarked, ResponseConflict,
		ResponseNoResponse, ResponseNotApplicable, ResponsePending:
		return UtilityResponseType(raw), nil
	}
	return "", fmt.Errorf("unknown utility response type %q", raw)
}

// UtilityType categorizes the buried facility a member operates.
type UtilityType string

const (
	UtilityGas      UtilityType = "GAS"
	UtilityElectric UtilityType = "ELECTRIC"
	UtilityWater    UtilityType = "WATER"
	UtilitySewer    UtilityType = "SEWER"
	UtilityTelecom  UtilityType = "TELECOM"
	UtilityOther    UtilityType = "OTHER"
)

// ParseUtilityType validates a raw utility type value.
func ParseUtilityType(raw string) (UtilityType, error) {
	switch UtilityType(raw) {
	case UtilityGas, UtilityElectric, UtilityWater, UtilitySewer, UtilityTelecom, UtilityOther:
		return UtilityType(raw), nil
	}
	return "", fmt.Errorf("unknown utility type %q", raw)
}

// UtilityResponse records one utility member's answer on one ticket. It is
// owned by the ticket and has no independent lifecycle.
type UtilityResponse struct {
	ID                     string
	TicketID               string
	UtilityCode            string
	UtilityName            string
	UtilityType            UtilityType
	ResponseType           UtilityResponseType
	ResponseWindowClosesAt *time.Time
	MarkingInstructions    string
	ConflictReason         string
	RespondedAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
