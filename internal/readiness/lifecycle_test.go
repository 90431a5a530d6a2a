package readiness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldready/locate-service/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTicket(status domain.TicketStatus, expiresAt time.Time) *domain.LocateTicket {
	return &domain.LocateTicket{
		ID:           "t-1",
		TicketNumber: "WV811-2024-001",
		Status:       status,
		LegalDigDate: expiresAt.AddDate(0, 0, -15),
		ExpiresAt:    expiresAt,
	}
}

func TestClassifyTicketExpiredOverridesStoredStatus(t *testing.T) {
	asOf := date(2024, 6, 15)
	for _, stored := range []domain.TicketStatus{
		domain.TicketStatusClear,
		domain.TicketStatusPending,
		domain.TicketStatusConflict,
		domain.TicketStatusInProgress,
	} {
		ticket := testTicket(stored, date(2024, 6, 14))
		standing := ClassifyTicket(ticket, 0, asOf)
		assert.Equal(t, domain.TicketStatusExpired, standing.Status, "stored %s", stored)
		assert.Contains(t, standing.Message, "expired")
	}
}

func TestClassifyTicketExpirationDateStillValid(t *testing.T) {
	// expiring on the asOf date is not yet expired
	asOf := date(2024, 6, 15)
	ticket := testTicket(domain.TicketStatusClear, date(2024, 6, 15))
	standing := ClassifyTicket(ticket, 0, asOf)
	assert.Equal(t, domain.TicketStatusClear, standing.Status)
}

func TestClassifyTicketConflict(t *testing.T) {
	ticket := testTicket(domain.TicketStatusConflict, date(2024, 7, 1))
	standing := ClassifyTicket(ticket, 0, date(2024, 6, 15))
	assert.Equal(t, domain.TicketStatusConflict, standing.Status)
	assert.Contains(t, standing.Message, "conflict")
	assert.True(t, standingBlocksDig(standing))
}

func TestClassifyTicketPendingReportsUnresolvedCount(t *testing.T) {
	ticket := testTicket(domain.TicketStatusPending, date(2024, 7, 1))
	standing := ClassifyTicket(ticket, 3, date(2024, 6, 15))
	assert.Equal(t, domain.TicketStatusPending, standing.Status)
	assert.Contains(t, standing.Message, "3 unresolved")
	assert.False(t, standingBlocksDig(standing))
}

func TestClassifyTicketCancelledBlocks(t *testing.T) {
	ticket := testTicket(domain.TicketStatusCancelled, date(2024, 7, 1))
	standing := ClassifyTicket(ticket, 0, date(2024, 6, 15))
	assert.Equal(t, domain.TicketStatusCancelled, standing.Status)
	assert.True(t, standingBlocksDig(standing))
}

func TestClassifyTicketClearProceedEligible(t *testing.T) {
	ticket := testTicket(domain.TicketStatusClear, date(2024, 7, 1))
	standing := ClassifyTicket(ticket, 0, date(2024, 6, 15))
	assert.Equal(t, domain.TicketStatusClear, standing.Status)
	assert.False(t, standingBlocksDig(standing))
}
