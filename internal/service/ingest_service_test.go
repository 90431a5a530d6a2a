package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/fieldready/locate-service/internal/domain"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

const sampleNotification = `{
	"ticket": {
		"number": "WV811-2024-0612-0045",
		"work_type": "BORING",
		"legal_dig_date": "2024-06-14",
		"expires": "2024-06-29",
		"depth_ft": 4.5,
		"remarks": "directional bore under CR 21",
		"site": {
			"address": "120 Quarry Rd",
			"city": "Morgantown",
			"county": "Monongalia",
			"state": "WV",
			"zip": "26501"
		},
		"excavator": {
			"company": "Ridge Line Utilities LLC",
			"contact": "304-555-0142"
		}
	},
	"members": [
		{"code": "MG01", "name": "Mountaineer Gas", "type": "GAS", "response_due": "2024-06-13"},
		{"code": "AEP1", "name": "Appalachian Power", "type": "ELECTRIC", "response_due": "2024-06-13T17:00:00Z"}
	]
}`

func newIngestFixture(t *testing.T) (*ticketFixture, *IngestService) {
	t.Helper()
	f := newTicketFixture(day(2024, 6, 12))
	return f, NewIngestService(f.svc, zap.NewNop())
}

func TestIngestNotificationCreatesTicketWithMembers(t *testing.T) {
	f, ingest := newIngestFixture(t)
	f.tickets.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.tickets.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.responses.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()

	ticket, err := ingest.IngestNotification(context.Background(), "org-1", []byte(sampleNotification))

	assert.NoError(t, err)
	assert.Equal(t, "WV811-2024-0612-0045", ticket.TicketNumber)
	assert.Equal(t, domain.WorkTypeBoring, ticket.WorkType)
	assert.Equal(t, "Morgantown", ticket.SiteCity)
	assert.Equal(t, day(2024, 6, 14), ticket.LegalDigDate)
	assert.Equal(t, day(2024, 6, 29), ticket.ExpiresAt)
	if assert.NotNil(t, ticket.RequestedDepthFt) {
		assert.InDelta(t, 4.5, *ticket.RequestedDepthFt, 0.001)
	}
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	f.responses.AssertExpectations(t)
}

func TestIngestNotificationRejectsMalformedJSON(t *testing.T) {
	f, ingest := newIngestFixture(t)

	_, err := ingest.IngestNotification(context.Background(), "org-1", []byte(`{"ticket": `))

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIngestNotificationRequiresSiteAddress(t *testing.T) {
	_, ingest := newIngestFixture(t)

	_, err := ingest.IngestNotification(context.Background(), "org-1",
		[]byte(`{"ticket": {"legal_dig_date": "2024-06-14", "expires": "2024-06-29"}}`))

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
}

func TestIngestNotificationRejectsUnknownWorkType(t *testing.T) {
	_, ingest := newIngestFixture(t)

	_, err := ingest.IngestNotification(context.Background(), "org-1", []byte(`{
		"ticket": {
			"work_type": "DYNAMITING",
			"legal_dig_date": "2024-06-14",
			"expires": "2024-06-29",
			"site": {"address": "120 Quarry Rd"}
		}
	}`))

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	assert.Contains(t, derr.Message, "unknown work type")
}

func TestIngestNotificationRejectsBadDates(t *testing.T) {
	_, ingest := newIngestFixture(t)

	_, err := ingest.IngestNotification(context.Background(), "org-1", []byte(`{
		"ticket": {
			"legal_dig_date": "06/14/2024",
			"expires": "2024-06-29",
			"site": {"address": "120 Quarry Rd"}
		}
	}`))

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	assert.Contains(t, derr.Message, "legal_dig_date")
}

func TestParseNotificationDateFormats(t *testing.T) {
	parsed, err := parseNotificationDate("2024-06-14")
	assert.NoError(t, err)
	assert.Equal(t, day(2024, 6, 14), parsed)

	parsed, err = parseNotificationDate("2024-06-14T09:30:00Z")
	assert.NoError(t, err)
	assert.Equal(t, 9, parsed.Hour())

	_, err = parseNotificationDate("")
	assert.Error(t, err)
}
