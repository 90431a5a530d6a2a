package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/events"
	"github.com/fieldready/locate-service/internal/observability"
	"github.com/fieldready/locate-service/internal/readiness"
	"github.com/fieldready/locate-service/internal/repository"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// ReadinessService resolves stores and runs the dig readiness evaluation.
// Each evaluation is a pure read-and-compose operation: no stored ticket or
// worker row is mutated, and identical inputs under an identical clock yield
// the same verdict and issue lists.
type ReadinessService struct {
	tickets   repository.TicketRepository
	responses repository.UtilityResponseRepository
	crew      repository.CrewRepository
	subs      repository.SubcontractorRepository
	audit     repository.CheckAuditRepository
	dispatch  events.Dispatcher
	metrics   *observability.Metrics
	logger    *zap.Logger
	clock     Clock
	auditTTL  time.Duration
}

// ReadinessDependencies bundles collaborators for the readiness service.
type ReadinessDependencies struct {
	TicketRepo   repository.TicketRepository
	ResponseRepo repository.UtilityResponseRepository
	CrewRepo     repository.CrewRepository
	SubRepo      repository.SubcontractorRepository
	AuditRepo    repository.CheckAuditRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Clock        Clock
	AuditTTL     time.Duration
}

// EvaluateInput describes one evaluation request. Exactly one of TicketID
// and LocationQuery must identify the ticket; at least one worker must be
// selected.
type EvaluateInput struct {
	OrganizationID         string
	TicketID               string
	LocationQuery          string
	AsOf                   *time.Time
	CrewMemberIDs          []string
	SubcontractorWorkerIDs []string
}

// NewReadinessService constructs the service.
func NewReadinessService(deps ReadinessDependencies) *ReadinessService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	ttl := deps.AuditTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReadinessService{
		tickets:   deps.TicketRepo,
		responses: deps.ResponseRepo,
		crew:      deps.CrewRepo,
		subs:      deps.SubRepo,
		audit:     deps.AuditRepo,
		dispatch:  deps.Dispatcher,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		clock:     clock,
		auditTTL:  ttl,
	}
}

// EvaluateDigReadiness runs one evaluation. Input validation failures and
// unknown tickets/workers are errors, never verdicts; a FAIL verdict is a
// normal outcome reserved for tickets that were found and evaluated.
func (s *ReadinessService) EvaluateDigReadiness(ctx context.Context, input EvaluateInput) (*domain.DigReadinessCheck, error) {
	if strings.TrimSpace(input.TicketID) == "" && strings.TrimSpace(input.LocationQuery) == "" {
		return nil, apperrors.NewValidationError("ticket id or location query required", nil)
	}
	if len(input.CrewMemberIDs) == 0 && len(input.SubcontractorWorkerIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one worker must be selected", nil)
	}

	ticket, err := s.resolveTicket(ctx, input)
	if err != nil {
		return nil, err
	}

	responses, err := s.responses.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	crew, err := s.crew.GetByIDs(ctx, input.CrewMemberIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("crew member", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	subs, err := s.subs.GetByIDs(ctx, input.SubcontractorWorkerIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subcontractor worker", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	asOf := s.clock.Now()
	if input.AsOf != nil {
		asOf = *input.AsOf
	}

	started := time.Now()
	check := readiness.Evaluate(readiness.Input{
		Ticket:    ticket,
		Responses: responses,
		Crew:      crew,
		Subs:      subs,
		AsOf:      asOf,
	})
	if s.metrics != nil {
		s.metrics.RecordEvaluation(string(check.OverallStatus), time.Since(started))
	}

	s.storeAudit(ctx, &check)
	s.publishEvaluated(ctx, ticket, &check)

	return &check, nil
}

// GetCheck retrieves a prior check from the audit store by check id.
func (s *ReadinessService) GetCheck(ctx context.Context, checkID string) (*domain.DigReadinessCheck, error) {
	if s.audit == nil {
		return nil, apperrors.NewNotFound("readiness check", nil)
	}
	check, err := s.audit.Get(ctx, checkID)
	if err != nil {
		if errors.Is(err, repository.ErrCheckNotFound) {
			return nil, apperrors.NewNotFound("readiness check", map[string]any{"check_id": checkID})
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return check, nil
}

func (s *ReadinessService) resolveTicket(ctx context.Context, input EvaluateInput) (*domain.LocateTicket, error) {
	var (
		ticket *domain.LocateTicket
		err    error
	)
	if strings.TrimSpace(input.TicketID) != "" {
		ticket, err = s.tickets.GetByID(ctx, strings.TrimSpace(input.TicketID))
	} else {
		ticket, err = s.tickets.FindByLocation(ctx, input.OrganizationID, input.LocationQuery)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if input.OrganizationID != "" && ticket.OrganizationID != input.OrganizationID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

// storeAudit keeps the check retrievable by id. An audit-store outage does
// not invalidate an already computed verdict; it is logged and the result is
// still returned.
func (s *ReadinessService) storeAudit(ctx context.Context, check *domain.DigReadinessCheck) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Store(ctx, check, s.auditTTL); err != nil && s.logger != nil {
		s.logger.Warn("failed to store readiness check audit entry",
			zap.String("check_id", check.CheckID), zap.Error(err))
	}
}

func (s *ReadinessService) publishEvaluated(ctx context.Context, ticket *domain.LocateTicket, check *domain.DigReadinessCheck) {
	if s.dispatch == nil {
		return
	}
	_ = s.dispatch.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventReadinessEvaluated,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Timestamp:      s.clock.Now(),
		Payload: events.ReadinessEvaluatedPayload{
			CheckID:      check.CheckID,
			TicketNumber: ticket.TicketNumber,
			Verdict:      check.OverallStatus,
			CanProceed:   check.CanProceed,
		},
	})
}
