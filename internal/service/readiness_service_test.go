package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/events"
	"github.com/fieldready/locate-service/internal/repository"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type readinessFixture struct {
	tickets   *mockTicketRepo
	responses *mockResponseRepo
	crew      *mockCrewRepo
	subs      *mockSubRepo
	audit     *mockAuditRepo
	dispatch  *recordingDispatcher
	svc       *ReadinessService
}

func newReadinessFixture(now time.Time) *readinessFixture {
	f := &readinessFixture{
		tickets:   &mockTicketRepo{},
		responses: &mockResponseRepo{},
		crew:      &mockCrewRepo{},
		subs:      &mockSubRepo{},
		audit:     &mockAuditRepo{},
		dispatch:  &recordingDispatcher{},
	}
	f.svc = NewReadinessService(ReadinessDependencies{
		TicketRepo:   f.tickets,
		ResponseRepo: f.responses,
		CrewRepo:     f.crew,
		SubRepo:      f.subs,
		AuditRepo:    f.audit,
		Dispatcher:   f.dispatch,
		Logger:       zap.NewNop(),
		Clock:        FixedClock(now),
		AuditTTL:     time.Hour,
	})
	return f
}

func storedTicket(status domain.TicketStatus, expiresAt time.Time) *domain.LocateTicket {
	return &domain.LocateTicket{
		ID:             "t-1",
		TicketNumber:   "WV811-2024-010",
		OrganizationID: "org-1",
		SiteAddress:    "120 Quarry Rd",
		Status:         status,
		LegalDigDate:   expiresAt.AddDate(0, 0, -15),
		ExpiresAt:      expiresAt,
	}
}

func qualifiedCrew() []domain.CrewMember {
	expires := day(2025, 1, 1)
	return []domain.CrewMember{{
		ID: "c-1", Name: "Dana Reed",
		CompetentPerson: true,
		CompetencyTypes: []string{domain.CompetencyExcavation},
		Certifications: []domain.SafetyCertification{
			{Type: domain.CertOSHA30, Active: true, ExpiresAt: &expires},
		},
	}}
}

func TestEvaluateDigReadinessRequiresTicketReference(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))

	_, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		CrewMemberIDs:  []string{"c-1"},
	})

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	f.tickets.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestEvaluateDigReadinessRequiresWorkerSelection(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))

	_, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "t-1",
	})

	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "VALIDATION_FAILED", derr.Code)
}

func TestEvaluateDigReadinessUnknownTicketIsNotFoundNotVerdict(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))
	f.tickets.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	check, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "missing",
		CrewMemberIDs:  []string{"c-1"},
	})

	assert.Nil(t, check)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEvaluateDigReadinessStoreOutageIsErrorNotVerdict(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(nil, errors.New("dial tcp: connection refused"))

	check, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "t-1",
		CrewMemberIDs:  []string{"c-1"},
	})

	assert.Nil(t, check)
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "STORE_UNAVAILABLE", derr.Code)
}

func TestEvaluateDigReadinessOtherOrganizationTicketHidden(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))
	ticket := storedTicket(domain.TicketStatusClear, day(2024, 6, 20))
	ticket.OrganizationID = "org-other"
	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)

	_, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "t-1",
		CrewMemberIDs:  []string{"c-1"},
	})

	assert.True(t, apperrors.IsNotFound(err))
}

func TestEvaluateDigReadinessHappyPathStoresAuditAndPublishes(t *testing.T) {
	now := day(2024, 6, 15)
	f := newReadinessFixture(now)
	ticket := storedTicket(domain.TicketStatusClear, day(2024, 6, 20))

	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{
		{UtilityCode: "GAS", UtilityName: "Mountaineer Gas", ResponseType: domain.ResponseClear},
	}, nil)
	f.crew.On("GetByIDs", mock.Anything, []string{"c-1"}).Return(qualifiedCrew(), nil)
	f.subs.On("GetByIDs", mock.Anything, []string(nil)).Return([]domain.SubcontractorWorker{}, nil)
	f.audit.On("Store", mock.Anything, mock.Anything, time.Hour).Return(nil)

	check, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "t-1",
		CrewMemberIDs:  []string{"c-1"},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.VerdictPass, check.OverallStatus)
	assert.Equal(t, now, check.EvaluatedAt)
	f.audit.AssertExpectations(t)

	published := f.dispatch.published(events.EventReadinessEvaluated)
	if assert.Len(t, published, 1) {
		payload, ok := published[0].Payload.(events.ReadinessEvaluatedPayload)
		assert.True(t, ok)
		assert.Equal(t, check.CheckID, payload.CheckID)
		assert.Equal(t, domain.VerdictPass, payload.Verdict)
	}
}

func TestEvaluateDigReadinessAuditOutageDoesNotInvalidateVerdict(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))
	ticket := storedTicket(domain.TicketStatusClear, day(2024, 6, 20))

	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)
	f.crew.On("GetByIDs", mock.Anything, []string{"c-1"}).Return(qualifiedCrew(), nil)
	f.subs.On("GetByIDs", mock.Anything, []string(nil)).Return([]domain.SubcontractorWorker{}, nil)
	f.audit.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis: connection pool timeout"))

	check, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "t-1",
		CrewMemberIDs:  []string{"c-1"},
	})

	assert.NoError(t, err)
	assert.NotNil(t, check)
}

func TestEvaluateDigReadinessUnknownWorkerIsNotFound(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))
	ticket := storedTicket(domain.TicketStatusClear, day(2024, 6, 20))

	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)
	f.crew.On("GetByIDs", mock.Anything, []string{"ghost"}).Return(nil, pgx.ErrNoRows)

	_, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "t-1",
		CrewMemberIDs:  []string{"ghost"},
	})

	assert.True(t, apperrors.IsNotFound(err))
}

func TestEvaluateDigReadinessResolvesByLocationQuery(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))
	ticket := storedTicket(domain.TicketStatusClear, day(2024, 6, 20))

	f.tickets.On("FindByLocation", mock.Anything, "org-1", "Quarry Rd").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)
	f.crew.On("GetByIDs", mock.Anything, []string{"c-1"}).Return(qualifiedCrew(), nil)
	f.subs.On("GetByIDs", mock.Anything, []string(nil)).Return([]domain.SubcontractorWorker{}, nil)
	f.audit.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	check, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		LocationQuery:  "Quarry Rd",
		CrewMemberIDs:  []string{"c-1"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "WV811-2024-010", check.Ticket.TicketNumber)
	f.tickets.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestEvaluateDigReadinessHonorsSuppliedAsOf(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))
	// expired relative to the supplied date, not the clock
	ticket := storedTicket(domain.TicketStatusClear, day(2024, 6, 20))

	f.tickets.On("GetByID", mock.Anything, "t-1").Return(ticket, nil)
	f.responses.On("ListByTicket", mock.Anything, "t-1").Return([]domain.UtilityResponse{}, nil)
	f.crew.On("GetByIDs", mock.Anything, []string{"c-1"}).Return(qualifiedCrew(), nil)
	f.subs.On("GetByIDs", mock.Anything, []string(nil)).Return([]domain.SubcontractorWorker{}, nil)
	f.audit.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	asOf := day(2024, 7, 1)
	check, err := f.svc.EvaluateDigReadiness(context.Background(), EvaluateInput{
		OrganizationID: "org-1",
		TicketID:       "t-1",
		AsOf:           &asOf,
		CrewMemberIDs:  []string{"c-1"},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.VerdictFail, check.OverallStatus)
	assert.Equal(t, domain.TicketStatusExpired, check.Ticket.Status)
	assert.Equal(t, asOf, check.EvaluatedAt)
}

func TestGetCheckNotFoundAndOutage(t *testing.T) {
	f := newReadinessFixture(day(2024, 6, 15))

	f.audit.On("Get", mock.Anything, "gone").Return(nil, repository.ErrCheckNotFound)
	_, err := f.svc.GetCheck(context.Background(), "gone")
	assert.True(t, apperrors.IsNotFound(err))

	f.audit.On("Get", mock.Anything, "boom").Return(nil, errors.New("redis: i/o timeout"))
	_, err = f.svc.GetCheck(context.Background(), "boom")
	var derr *apperrors.DomainError
	assert.ErrorAs(t, err, &derr)
	assert.Equal(t, "STORE_UNAVAILABLE", derr.Code)
}
