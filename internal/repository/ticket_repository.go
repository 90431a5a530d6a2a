package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldready/locate-service/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	OrganizationID *string
	Statuses       []domain.TicketStatus
	County         *string
	SearchTerm     *string
	ExpiresFrom    *time.Time
	ExpiresTo      *time.Time
	Limit          int
	Offset         int
}

// TicketRepository encapsulates locate ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.LocateTicket) error
	Update(ctx context.Context, ticket *domain.LocateTicket) error
	GetByID(ctx context.Context, id string) (*domain.LocateTicket, error)
	GetByTicketNumber(ctx context.Context, number string) (*domain.LocateTicket, error)
	FindByLocation(ctx context.Context, orgID, term string) (*domain.LocateTicket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.LocateTicket, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.LocateTicket, error)
	MarkExpired(ctx context.Context, asOf time.Time) ([]domain.LocateTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, organization_id, site_address, site_city, site_county,
       site_state, site_zip, excavator_company, excavator_contact, work_type,
       requested_depth_ft, legal_dig_date, expires_at, status, remarks, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.LocateTicket) error {
	const query = `
        INSERT INTO locate_tickets (ticket_number, organization_id, site_address, site_city, site_county,
            site_state, site_zip, excavator_company, excavator_contact, work_type,
            requested_depth_ft, legal_dig_date, expires_at, status, remarks)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.OrganizationID,
		ticket.SiteAddress,
		ticket.SiteCity,
		ticket.SiteCounty,
		ticket.SiteState,
		ticket.SiteZip,
		ticket.ExcavatorCompany,
		ticket.ExcavatorContact,
		ticket.WorkType,
		ticket.RequestedDepthFt,
		ticket.LegalDigDate,
		ticket.ExpiresAt,
		ticket.Status,
		ticket.Remarks,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.LocateTicket) error {
	const query = `
        UPDATE locate_tickets SET site_address=$1, site_city=$2, site_county=$3, site_state=$4, site_zip=$5,
            excavator_company=$6, excavator_contact=$7, work_type=$8, requested_depth_ft=$9,
            legal_dig_date=$10, expires_at=$11, status=$12, remarks=$13, updated_at=NOW()
        WHERE id=$14`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.SiteAddress,
		ticket.SiteCity,
		ticket.SiteCounty,
		ticket.SiteState,
		ticket.SiteZip,
		ticket.ExcavatorCompany,
		ticket.ExcavatorContact,
		ticket.WorkType,
		ticket.RequestedDepthFt,
		ticket.LegalDigDate,
		ticket.ExpiresAt,
		ticket.Status,
		ticket.Remarks,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.LocateTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM locate_tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByTicketNumber(ctx context.Context, number string) (*domain.LocateTicket, error) {
	query := fmt.Sprintf(`SELECT %s FROM locate_tickets WHERE ticket_number=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

// FindByLocation matches a free-text term against the ticket number and the
// dig-site address, returning the most recently created hit.
func (r *ticketRepository) FindByLocation(ctx context.Context, orgID, term string) (*domain.LocateTicket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM locate_tickets
        WHERE organization_id=$1
          AND (ticket_number ILIKE $2 OR site_address ILIKE $2 OR site_city ILIKE $2)
        ORDER BY created_at DESC
        LIMIT 1`, ticketColumns)
	pattern := "%" + strings.TrimSpace(term) + "%"
	var ticket domain.LocateTicket
	if err := r.pool.QueryRow(ctx, query, orgID, pattern).Scan(ticketScanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.LocateTicket, error) {
	var ticket domain.LocateTicket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(ticketScanTargets(&ticket)...); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.LocateTicket, error) {
	base := fmt.Sprintf(`SELECT %s FROM locate_tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OrganizationID != nil {
		args = append(args, *filter.OrganizationID)
		clauses = append(clauses, fmt.Sprintf("organization_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.County != nil {
		args = append(args, *filter.County)
		clauses = append(clauses, fmt.Sprintf("site_county=$%d", len(args)))
	}
	if filter.ExpiresFrom != nil {
		args = append(args, *filter.ExpiresFrom)
		clauses = append(clauses, fmt.Sprintf("expires_at >= $%d", len(args)))
	}
	if filter.ExpiresTo != nil {
		args = append(args, *filter.ExpiresTo)
		clauses = append(clauses, fmt.Sprintf("expires_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(ticket_number) LIKE %s OR LOWER(site_address) LIKE %s OR LOWER(excavator_company) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY expires_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ListExpiringBetween returns non-terminal tickets whose expiration falls in
// the given window.
func (r *ticketRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.LocateTicket, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM locate_tickets
        WHERE expires_at > $1 AND expires_at <= $2
          AND status NOT IN ('EXPIRED','CANCELLED')
        ORDER BY expires_at ASC`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// MarkExpired persists EXPIRED on tickets whose window has lapsed and
// returns the affected rows. The read-time staleness check does not depend
// on this; it only keeps stored state from lagging indefinitely.
func (r *ticketRepository) MarkExpired(ctx context.Context, asOf time.Time) ([]domain.LocateTicket, error) {
	query := fmt.Sprintf(`
        UPDATE locate_tickets SET status='EXPIRED', updated_at=NOW()
        WHERE expires_at < $1 AND status NOT IN ('EXPIRED','CANCELLED')
        RETURNING %s`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func ticketScanTargets(t *domain.LocateTicket) []any {
	return []any{
		&t.ID,
		&t.TicketNumber,
		&t.OrganizationID,
		&t.SiteAddress,
		&t.SiteCity,
		&t.SiteCounty,
		&t.SiteState,
		&t.SiteZip,
		&t.ExcavatorCompany,
		&t.ExcavatorContact,
		&t.WorkType,
		&t.RequestedDepthFt,
		&t.LegalDigDate,
		&t.ExpiresAt,
		&t.Status,
		&t.Remarks,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}

func scanTickets(rows pgx.Rows) ([]domain.LocateTicket, error) {
	var result []domain.LocateTicket
	for rows.Next() {
		var ticket domain.LocateTicket
		if err := rows.Scan(ticketScanTargets(&ticket)...); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
