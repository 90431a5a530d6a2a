package readiness

import (
	"fmt"
	"time"

	"github.com/fieldready/locate-service/internal/domain"
)

// ClassifyTicket determines a ticket's real-world standing as of the given
// date. A ticket past its expiration is EXPIRED regardless of the stored
// status; the override is computed at read time, never written back.
// pendingUtilities is the count of utilities still unresolved, used only for
// message text on non-terminal states.
func ClassifyTicket(ticket *domain.LocateTicket, pendingUtilities int, asOf time.Time) domain.TicketStanding {
	standing := domain.TicketStanding{
		TicketNumber: ticket.TicketNumber,
		Status:       ticket.Status,
		ExpiresAt:    ticket.ExpiresAt,
	}

	switch {
	case dateAfter(asOf, ticket.ExpiresAt):
		standing.Status = domain.TicketStatusExpired
		standing.Message = fmt.Sprintf("ticket %s expired on %s and can no longer be relied upon; file a new locate request",
			ticket.TicketNumber, ticket.ExpiresAt.Format("2006-01-02"))
	case ticket.Status == domain.TicketStatusCancelled:
		standing.Message = fmt.Sprintf("ticket %s was cancelled", ticket.TicketNumber)
	case ticket.Status == domain.TicketStatusConflict:
		standing.Message = fmt.Sprintf("ticket %s has an unresolved utility conflict; digging is not authorized", ticket.TicketNumber)
	case ticket.Status == domain.TicketStatusClear:
		standing.Message = fmt.Sprintf("ticket %s is clear; valid through %s",
			ticket.TicketNumber, ticket.ExpiresAt.Format("2006-01-02"))
	default:
		// RECEIVED, PENDING, IN_PROGRESS
		standing.Message = fmt.Sprintf("ticket %s is awaiting utility responses (%d unresolved)",
			ticket.TicketNumber, pendingUtilities)
	}
	return standing
}

// standingBlocksDig reports whether a classification alone forces a FAIL
// verdict.
func standingBlocksDig(standing domain.TicketStanding) bool {
	switch standing.Status {
	case domain.TicketStatusExpired, domain.TicketStatusCancelled, domain.TicketStatusConflict:
		return true
	}
	return false
}
