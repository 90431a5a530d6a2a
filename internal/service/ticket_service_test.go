package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/events"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

type ticketFixture struct {
	tickets   *mockTicketRepo
	responses *mockResponseRepo
	dispatch  *recordingDispatcher
	svc       *TicketService
}

func newTicketFixture(now time.Time) *ticketFixture {
	f := &ticketFixture{
		tickets:   &mockTicketRepo{},
		responses: &mockResponseRepo{},
		dispatch:  &recordingDispatcher{},
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   f.tickets,
		ResponseRepo: f.responses,
		Dispatcher:   f.dispatch,
		Clock:        FixedClock(now),
	})
	return f
}

func TestCreateTicketRejectsInvertedDates(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 1))

	_, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{
		OrganizationID: "org-1",
		SiteAddress:    "120 Quarry Rd",
		LegalDigDate:   day(2024, 6, 20),
		ExpiresAt:      day(2024, 6, 5),
	})

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	f.tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTicketGeneratesNumberAndSeedsUtilities(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 1))
	f.tickets.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.tickets.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.responses.On("Create", mock.Anything, mock.MatchedBy(func(resp *domain.UtilityResponse) bool {
		return resp.ResponseType == domain.ResponsePending
	})).Return(nil).Twice()

	ticket, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{
		OrganizationID: "org-1",
		SiteAddress:    "120 Quarry Rd",
		LegalDigDate:   day(2024, 6, 3),
		ExpiresAt:      day(2024, 6, 18),
		Utilities: []UtilityInput{
			{Code: "MG01", Name: "Mountaineer Gas", Type: domain.UtilityGas},
			{Code: "AEP1", Name: "Appalachian Power", Type: domain.UtilityElectric},
		},
	})

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "WV811-"))
	assert.Equal(t, "WV", ticket.SiteState)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	f.responses.AssertExpectations(t)

	ingested := f.dispatch.published(events.EventTicketIngested)
	assert.Len(t, ingested, 1)
}

func TestCreateTicketWithoutUtilitiesStaysReceived(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 1))
	f.tickets.On("Create", mock.Anything, mock.Anything).Return(nil)

	ticket, err := f.svc.CreateTicket(context.Background(), TicketCreateInput{
		OrganizationID: "org-1",
		TicketNumber:   "WV811-2024-044",
		SiteAddress:    "58 Mill St",
		LegalDigDate:   day(2024, 6, 3),
		ExpiresAt:      day(2024, 6, 18),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.TicketStatusReceived, ticket.Status)
	f.tickets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecordUtilityResponseRejectsTerminalTicket(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 10))
	ticket := storedTicket(domain.TicketStatusCancelled, day(2024, 6, 18))
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)

	_, err := f.svc.RecordUtilityResponse(context.Background(), "org-1", "t-1", ResponseInput{
		UtilityCode:  "MG01",
		ResponseType: domain.ResponseClear,
	})

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "CONFLICT", derr.Code)
	f.responses.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRecordUtilityResponseConflictDerivesConflictStatus(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 10))
	ticket := storedTicket(domain.TicketStatusInProgress, day(2024, 6, 18))
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)

	conflict := domain.UtilityResponse{
		TicketID: "t-1", UtilityCode: "MG01",
		ResponseType:   domain.ResponseConflict,
		ConflictReason: "gas main within 2 ft of proposed bore path",
	}
	// first load checks the ticket, second re-derives from the stored set
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{{
		TicketID: "t-1", UtilityCode: "MG01", ResponseType: domain.ResponsePending,
	}}, nil).Once()
	f.responses.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{conflict}, nil).Once()
	f.tickets.On("Update", mock.Anything, mock.MatchedBy(func(updated *domain.LocateTicket) bool {
		return updated.Status == domain.TicketStatusConflict
	})).Return(nil)

	resp, err := f.svc.RecordUtilityResponse(context.Background(), "org-1", "t-1", ResponseInput{
		UtilityCode:    "MG01",
		ResponseType:   domain.ResponseConflict,
		ConflictReason: conflict.ConflictReason,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ResponseConflict, resp.ResponseType)
	assert.NotNil(t, resp.RespondedAt)
	f.tickets.AssertExpectations(t)

	changed := f.dispatch.published(events.EventTicketStatusChanged)
	if assert.Len(t, changed, 1) {
		payload := changed[0].Payload.(events.TicketStatusChangedPayload)
		assert.Equal(t, domain.TicketStatusConflict, payload.NewStatus)
	}
}

func TestRecordUtilityResponseFullClearanceDerivesClear(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 10))
	ticket := storedTicket(domain.TicketStatusInProgress, day(2024, 6, 18))
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)

	cleared := []domain.UtilityResponse{
		{TicketID: "t-1", UtilityCode: "MG01", ResponseType: domain.ResponseClear},
		{TicketID: "t-1", UtilityCode: "AEP1", ResponseType: domain.ResponseMarked},
	}
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return(cleared[:1], nil).Once()
	f.responses.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return(cleared, nil).Once()
	f.tickets.On("Update", mock.Anything, mock.MatchedBy(func(updated *domain.LocateTicket) bool {
		return updated.Status == domain.TicketStatusClear
	})).Return(nil)

	_, err := f.svc.RecordUtilityResponse(context.Background(), "org-1", "t-1", ResponseInput{
		UtilityCode:  "AEP1",
		ResponseType: domain.ResponseMarked,
	})

	assert.NoError(t, err)
	f.tickets.AssertExpectations(t)
}

func TestCancelTicketFromTerminalStatusConflicts(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 10))
	ticket := storedTicket(domain.TicketStatusExpired, day(2024, 6, 5))
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)

	_, err := f.svc.CancelTicket(context.Background(), "org-1", "t-1", "customer withdrew request")

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "CONFLICT", derr.Code)
}

func TestUpdateStatusRevertsOnStoreFailure(t *testing.T) {
	f := newTicketFixture(day(2024, 6, 10))
	ticket := storedTicket(domain.TicketStatusPending, day(2024, 6, 18))
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)
	f.tickets.On("Update", mock.Anything, mock.Anything).Return(assert.AnError)

	_, err := f.svc.UpdateStatus(context.Background(), "org-1", "t-1", domain.TicketStatusInProgress, "locators on site")

	assert.Error(t, err)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Empty(t, f.dispatch.published(events.EventTicketStatusChanged))
}

func TestGetTicketReportsReadTimeExpiry(t *testing.T) {
	f := newTicketFixture(day(2024, 7, 1))
	ticket := storedTicket(domain.TicketStatusClear, day(2024, 6, 18))
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)

	detail, err := f.svc.GetTicket(context.Background(), "org-1", "t-1")

	assert.NoError(t, err)
	// stored status is untouched; the standing reflects the lapsed window
	assert.Equal(t, domain.TicketStatusClear, detail.Ticket.Status)
	assert.Equal(t, domain.TicketStatusExpired, detail.Standing.Status)
}
