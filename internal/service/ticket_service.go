package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/events"
	"github.com/fieldready/locate-service/internal/readiness"
	"github.com/fieldready/locate-service/internal/repository"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// TicketService coordinates locate ticket workflows.
type TicketService struct {
	tickets   repository.TicketRepository
	responses repository.UtilityResponseRepository
	dispatch  events.Dispatcher
	clock     Clock
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ResponseRepo repository.UtilityResponseRepository
	Dispatcher   events.Dispatcher
	Clock        Clock
}

// TicketCreateInput describes manual ticket entry.
type TicketCreateInput struct {
	TicketNumber     string
	OrganizationID   string
	SiteAddress      string
	SiteCity         string
	SiteCounty       string
	SiteState        string
	SiteZip          string
	ExcavatorCompany string
	ExcavatorContact string
	WorkType         domain.WorkType
	RequestedDepthFt *float64
	LegalDigDate     time.Time
	ExpiresAt        time.Time
	Remarks          string
	Utilities        []UtilityInput
}

// UtilityInput seeds one notified utility member on a new ticket.
type UtilityInput struct {
	Code                   string
	Name                   string
	Type                   domain.UtilityType
	ResponseWindowClosesAt *time.Time
}

// ResponseInput records one utility member's answer.
type ResponseInput struct {
	UtilityCode            string
	UtilityName            string
	UtilityType            domain.UtilityType
	ResponseType           domain.UtilityResponseType
	ResponseWindowClosesAt *time.Time
	MarkingInstructions    string
	ConflictReason         string
}

// TicketListInput describes listing filters.
type TicketListInput struct {
	OrganizationID string
	Statuses       []domain.TicketStatus
	County         *string
	SearchTerm     *string
	Limit          int
	Offset         int
}

// TicketDetail pairs a stored ticket with its responses and the read-time
// lifecycle classification.
type TicketDetail struct {
	Ticket    *domain.LocateTicket
	Responses []domain.UtilityResponse
	Standing  domain.TicketStanding
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &TicketService{
		tickets:   deps.TicketRepo,
		responses: deps.ResponseRepo,
		dispatch:  deps.Dispatcher,
		clock:     clock,
	}
}

// CreateTicket records a manually entered locate ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.LocateTicket, error) {
	if strings.TrimSpace(input.SiteAddress) == "" {
		return nil, apperrors.NewValidationError("site_address required", nil)
	}
	if input.LegalDigDate.After(input.ExpiresAt) {
		return nil, apperrors.NewValidationError("legal_dig_date must not be after expires_at", nil)
	}

	ticketNumber := strings.TrimSpace(input.TicketNumber)
	if ticketNumber == "" {
		ticketNumber = generateTicketNumber()
	}

	ticket := &domain.LocateTicket{
		TicketNumber:     ticketNumber,
		OrganizationID:   input.OrganizationID,
		SiteAddress:      strings.TrimSpace(input.SiteAddress),
		SiteCity:         strings.TrimSpace(input.SiteCity),
		SiteCounty:       strings.TrimSpace(input.SiteCounty),
		SiteState:        defaultState(input.SiteState),
		SiteZip:          strings.TrimSpace(input.SiteZip),
		ExcavatorCompany: strings.TrimSpace(input.ExcavatorCompany),
		ExcavatorContact: strings.TrimSpace(input.ExcavatorContact),
		WorkType:         input.WorkType,
		RequestedDepthFt: input.RequestedDepthFt,
		LegalDigDate:     input.LegalDigDate,
		ExpiresAt:        input.ExpiresAt,
		Status:           domain.TicketStatusReceived,
		Remarks:          strings.TrimSpace(input.Remarks),
	}
	if ticket.WorkType == "" {
		ticket.WorkType = domain.WorkTypeExcavation
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	for _, u := range input.Utilities {
		resp := &domain.UtilityResponse{
			TicketID:               ticket.ID,
			UtilityCode:            u.Code,
			UtilityName:            u.Name,
			UtilityType:            u.Type,
			ResponseType:           domain.ResponsePending,
			ResponseWindowClosesAt: u.ResponseWindowClosesAt,
		}
		if resp.UtilityType == "" {
			resp.UtilityType = domain.UtilityOther
		}
		if err := s.responses.Create(ctx, resp); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	if len(input.Utilities) > 0 {
		if err := s.transition(ctx, ticket, domain.TicketStatusPending, "utilities notified"); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		Type:           events.EventTicketIngested,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Payload: events.TicketIngestedPayload{
			TicketNumber: ticket.TicketNumber,
			Source:       "manual",
			WorkType:     ticket.WorkType,
			LegalDigDate: ticket.LegalDigDate,
			ExpiresAt:    ticket.ExpiresAt,
			Status:       ticket.Status,
			Utilities:    len(input.Utilities),
		},
	})
	return ticket, nil
}

// GetTicket fetches one ticket with responses and its read-time standing.
func (s *TicketService) GetTicket(ctx context.Context, orgID, ticketID string) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if orgID != "" && ticket.OrganizationID != orgID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	responses, err := s.responses.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	asOf := s.clock.Now()
	summary := readiness.SummarizeUtilities(responses, asOf)
	return &TicketDetail{
		Ticket:    ticket,
		Responses: responses,
		Standing:  readiness.ClassifyTicket(ticket, summary.PendingCount, asOf),
	}, nil
}

// ListTickets returns tickets matching the filter.
func (s *TicketService) ListTickets(ctx context.Context, input TicketListInput) ([]domain.LocateTicket, error) {
	filter := repository.TicketFilter{
		Statuses:   input.Statuses,
		County:     input.County,
		SearchTerm: input.SearchTerm,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if input.OrganizationID != "" {
		orgID := input.OrganizationID
		filter.OrganizationID = &orgID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return tickets, nil
}

// RecordUtilityResponse stores a utility member's answer and re-derives the
// stored ticket status from the full response set.
func (s *TicketService) RecordUtilityResponse(ctx context.Context, orgID, ticketID string, input ResponseInput) (*domain.UtilityResponse, error) {
	detail, err := s.GetTicket(ctx, orgID, ticketID)
	if err != nil {
		return nil, err
	}
	ticket := detail.Ticket
	if ticket.Status.Terminal() {
		return nil, apperrors.NewConflict("ticket is no longer open for responses", map[string]any{
			"status": ticket.Status,
		})
	}

	now := s.clock.Now()
	resp := &domain.UtilityResponse{
		TicketID:               ticket.ID,
		UtilityCode:            input.UtilityCode,
		UtilityName:            input.UtilityName,
		UtilityType:            input.UtilityType,
		ResponseType:           input.ResponseType,
		ResponseWindowClosesAt: input.ResponseWindowClosesAt,
		MarkingInstructions:    input.MarkingInstructions,
		ConflictReason:         input.ConflictReason,
		RespondedAt:            &now,
	}
	if resp.UtilityType == "" {
		resp.UtilityType = domain.UtilityOther
	}
	if err := s.responses.Upsert(ctx, resp); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:           events.EventUtilityResponseRecorded,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Payload: events.UtilityResponseRecordedPayload{
			TicketNumber: ticket.TicketNumber,
			UtilityCode:  resp.UtilityCode,
			ResponseType: resp.ResponseType,
		},
	})

	if err := s.rederiveStatus(ctx, ticket); err != nil {
		return nil, err
	}
	return resp, nil
}

// CancelTicket cancels a non-terminal ticket.
func (s *TicketService) CancelTicket(ctx context.Context, orgID, ticketID, reason string) (*domain.LocateTicket, error) {
	detail, err := s.GetTicket(ctx, orgID, ticketID)
	if err != nil {
		return nil, err
	}
	ticket := detail.Ticket
	if err := s.transition(ctx, ticket, domain.TicketStatusCancelled, reason); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateStatus applies an explicit status change.
func (s *TicketService) UpdateStatus(ctx context.Context, orgID, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.LocateTicket, error) {
	detail, err := s.GetTicket(ctx, orgID, ticketID)
	if err != nil {
		return nil, err
	}
	ticket := detail.Ticket
	if err := s.transition(ctx, ticket, newStatus, comment); err != nil {
		return nil, err
	}
	return ticket, nil
}

// rederiveStatus folds the current response set back into the stored ticket
// status: any conflict wins, full clearance marks CLEAR, anything else keeps
// the ticket IN_PROGRESS.
func (s *TicketService) rederiveStatus(ctx context.Context, ticket *domain.LocateTicket) error {
	responses, err := s.responses.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	summary := readiness.SummarizeUtilities(responses, s.clock.Now())

	var derived domain.TicketStatus
	switch summary.Status {
	case domain.VerdictFail:
		derived = domain.TicketStatusConflict
	case domain.VerdictPass:
		derived = domain.TicketStatusClear
	default:
		derived = domain.TicketStatusInProgress
	}
	if derived == ticket.Status {
		return nil
	}
	return s.transition(ctx, ticket, derived, "derived from utility responses")
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusReceived:   {domain.TicketStatusPending, domain.TicketStatusInProgress, domain.TicketStatusExpired, domain.TicketStatusCancelled},
	domain.TicketStatusPending:    {domain.TicketStatusInProgress, domain.TicketStatusClear, domain.TicketStatusConflict, domain.TicketStatusExpired, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress: {domain.TicketStatusClear, domain.TicketStatusConflict, domain.TicketStatusExpired, domain.TicketStatusCancelled},
	domain.TicketStatusClear:      {domain.TicketStatusConflict, domain.TicketStatusInProgress, domain.TicketStatusExpired, domain.TicketStatusCancelled},
	domain.TicketStatusConflict:   {domain.TicketStatusInProgress, domain.TicketStatusClear, domain.TicketStatusExpired, domain.TicketStatusCancelled},
	domain.TicketStatusExpired:    {},
	domain.TicketStatusCancelled:  {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func (s *TicketService) transition(ctx context.Context, ticket *domain.LocateTicket, next domain.TicketStatus, comment string) error {
	if !isValidTransition(ticket.Status, next) {
		return apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   next,
		})
	}
	old := ticket.Status
	ticket.Status = next
	if err := s.tickets.Update(ctx, ticket); err != nil {
		ticket.Status = old
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:           events.EventTicketStatusChanged,
		TicketID:       ticket.ID,
		OrganizationID: ticket.OrganizationID,
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: ticket.TicketNumber,
			OldStatus:    old,
			NewStatus:    next,
			Comment:      comment,
		},
	})
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatch == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatch.Publish(ctx, event)
}

func generateTicketNumber() string {
	return "WV811-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func defaultState(state string) string {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		return "WV"
	}
	return state
}
