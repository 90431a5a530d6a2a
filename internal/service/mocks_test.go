package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/events"
	"github.com/fieldready/locate-service/internal/repository"
)

type mockTicketRepo struct{ mock.Mock }

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.LocateTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *domain.LocateTicket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id string) (*domain.LocateTicket, error) {
	args := m.Called(ctx, id)
	if ticket, ok := args.Get(0).(*domain.LocateTicket); ok {
		return ticket, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) GetByTicketNumber(ctx context.Context, number string) (*domain.LocateTicket, error) {
	args := m.Called(ctx, number)
	if ticket, ok := args.Get(0).(*domain.LocateTicket); ok {
		return ticket, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) FindByLocation(ctx context.Context, orgID, term string) (*domain.LocateTicket, error) {
	args := m.Called(ctx, orgID, term)
	if ticket, ok := args.Get(0).(*domain.LocateTicket); ok {
		return ticket, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.LocateTicket, error) {
	args := m.Called(ctx, filter)
	if tickets, ok := args.Get(0).([]domain.LocateTicket); ok {
		return tickets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.LocateTicket, error) {
	args := m.Called(ctx, from, to)
	if tickets, ok := args.Get(0).([]domain.LocateTicket); ok {
		return tickets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketRepo) MarkExpired(ctx context.Context, asOf time.Time) ([]domain.LocateTicket, error) {
	args := m.Called(ctx, asOf)
	if tickets, ok := args.Get(0).([]domain.LocateTicket); ok {
		return tickets, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockResponseRepo struct{ mock.Mock }

func (m *mockResponseRepo) Create(ctx context.Context, resp *domain.UtilityResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *mockResponseRepo) Upsert(ctx context.Context, resp *domain.UtilityResponse) error {
	args := m.Called(ctx, resp)
	return args.Error(0)
}

func (m *mockResponseRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.UtilityResponse, error) {
	args := m.Called(ctx, ticketID)
	if responses, ok := args.Get(0).([]domain.UtilityResponse); ok {
		return responses, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCrewRepo struct{ mock.Mock }

func (m *mockCrewRepo) GetByID(ctx context.Context, id string) (*domain.CrewMember, error) {
	args := m.Called(ctx, id)
	if member, ok := args.Get(0).(*domain.CrewMember); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCrewRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.CrewMember, error) {
	args := m.Called(ctx, ids)
	if members, ok := args.Get(0).([]domain.CrewMember); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCrewRepo) ListByOrganization(ctx context.Context, orgID string, activeOnly bool) ([]domain.CrewMember, error) {
	args := m.Called(ctx, orgID, activeOnly)
	if members, ok := args.Get(0).([]domain.CrewMember); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCrewRepo) UpsertCertification(ctx context.Context, crewMemberID string, cert *domain.SafetyCertification) error {
	args := m.Called(ctx, crewMemberID, cert)
	return args.Error(0)
}

type mockSubRepo struct{ mock.Mock }

func (m *mockSubRepo) GetByID(ctx context.Context, id string) (*domain.SubcontractorWorker, error) {
	args := m.Called(ctx, id)
	if worker, ok := args.Get(0).(*domain.SubcontractorWorker); ok {
		return worker, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.SubcontractorWorker, error) {
	args := m.Called(ctx, ids)
	if workers, ok := args.Get(0).([]domain.SubcontractorWorker); ok {
		return workers, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubRepo) ListByOrganization(ctx context.Context, orgID string, activeOnly bool) ([]domain.SubcontractorWorker, error) {
	args := m.Called(ctx, orgID, activeOnly)
	if workers, ok := args.Get(0).([]domain.SubcontractorWorker); ok {
		return workers, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Store(ctx context.Context, check *domain.DigReadinessCheck, ttl time.Duration) error {
	args := m.Called(ctx, check, ttl)
	return args.Error(0)
}

func (m *mockAuditRepo) Get(ctx context.Context, checkID string) (*domain.DigReadinessCheck, error) {
	args := m.Called(ctx, checkID)
	if check, ok := args.Get(0).(*domain.DigReadinessCheck); ok {
		return check, args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}
