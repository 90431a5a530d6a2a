package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fieldready/locate-service/internal/domain"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// IngestService turns raw WV811 notification payloads (the JSON rendering of
// a parsed excavator request email) into locate tickets with their notified
// utility members seeded as PENDING responses.
type IngestService struct {
	tickets *TicketService
	logger  *zap.Logger
}

// NewIngestService constructs the service.
func NewIngestService(tickets *TicketService, logger *zap.Logger) *IngestService {
	return &IngestService{tickets: tickets, logger: logger}
}

// IngestNotification parses one notification payload and creates the ticket.
func (s *IngestService) IngestNotification(ctx context.Context, orgID string, payload []byte) (*domain.LocateTicket, error) {
	if !gjson.ValidBytes(payload) {
		return nil, apperrors.NewValidationError("payload is not valid JSON", nil)
	}
	root := gjson.ParseBytes(payload)

	ticketNumber := root.Get("ticket.number").String()
	siteAddress := root.Get("ticket.site.address").String()
	if siteAddress == "" {
		return nil, apperrors.NewValidationError("ticket.site.address required", nil)
	}

	workTypeRaw := root.Get("ticket.work_type").String()
	workType := domain.WorkTypeExcavation
	if workTypeRaw != "" {
		parsed, err := domain.ParseWorkType(workTypeRaw)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		workType = parsed
	}

	legalDigDate, err := parseNotificationDate(root.Get("ticket.legal_dig_date").String())
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("ticket.legal_dig_date: %v", err), nil)
	}
	expiresAt, err := parseNotificationDate(root.Get("ticket.expires").String())
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("ticket.expires: %v", err), nil)
	}

	var depth *float64
	if d := root.Get("ticket.depth_ft"); d.Exists() {
		v := d.Float()
		depth = &v
	}

	var utilities []UtilityInput
	root.Get("members").ForEach(func(_, member gjson.Result) bool {
		utility := UtilityInput{
			Code: member.Get("code").String(),
			Name: member.Get("name").String(),
		}
		if t := member.Get("type").String(); t != "" {
			if parsed, err := domain.ParseUtilityType(t); err == nil {
				utility.Type = parsed
			} else {
				utility.Type = domain.UtilityOther
			}
		}
		if due := member.Get("response_due").String(); due != "" {
			if closes, err := parseNotificationDate(due); err == nil {
				utility.ResponseWindowClosesAt = &closes
			}
		}
		utilities = append(utilities, utility)
		return true
	})

	ticket, err := s.tickets.CreateTicket(ctx, TicketCreateInput{
		TicketNumber:     ticketNumber,
		OrganizationID:   orgID,
		SiteAddress:      siteAddress,
		SiteCity:         root.Get("ticket.site.city").String(),
		SiteCounty:       root.Get("ticket.site.county").String(),
		SiteState:        root.Get("ticket.site.state").String(),
		SiteZip:          root.Get("ticket.site.zip").String(),
		ExcavatorCompany: root.Get("ticket.excavator.company").String(),
		ExcavatorContact: root.Get("ticket.excavator.contact").String(),
		WorkType:         workType,
		RequestedDepthFt: depth,
		LegalDigDate:     legalDigDate,
		ExpiresAt:        expiresAt,
		Remarks:          root.Get("ticket.remarks").String(),
		Utilities:        utilities,
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("ingested WV811 notification",
			zap.String("ticket_number", ticket.TicketNumber),
			zap.Int("utilities", len(utilities)))
	}
	return ticket, nil
}

// parseNotificationDate accepts the two date renderings seen in WV811
// payloads: RFC 3339 timestamps and plain dates.
func parseNotificationDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
