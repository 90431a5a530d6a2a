package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldready/locate-service/internal/domain"
)

// UtilityResponseRepository encapsulates utility response persistence.
// Responses are owned by their ticket and have no independent lifecycle.
type UtilityResponseRepository interface {
	Create(ctx context.Context, resp *domain.UtilityResponse) error
	Upsert(ctx context.Context, resp *domain.UtilityResponse) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.UtilityResponse, error)
}

type utilityResponseRepository struct {
	pool *pgxpool.Pool
}

// NewUtilityResponseRepository instantiates repository.
func NewUtilityResponseRepository(pool *pgxpool.Pool) UtilityResponseRepository {
	return &utilityResponseRepository{pool: pool}
}

const responseColumns = `id, ticket_id, utility_code, utility_name, utility_type, response_type,
       response_window_closes_at, marking_instructions, conflict_reason, responded_at,
       created_at, updated_at`

func (r *utilityResponseRepository) Create(ctx context.Context, resp *domain.UtilityResponse) error {
	const query = `
        INSERT INTO utility_responses (ticket_id, utility_code, utility_name, utility_type,
            response_type, response_window_closes_at, marking_instructions, conflict_reason, responded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		resp.TicketID,
		resp.UtilityCode,
		resp.UtilityName,
		resp.UtilityType,
		resp.ResponseType,
		resp.ResponseWindowClosesAt,
		resp.MarkingInstructions,
		resp.ConflictReason,
		resp.RespondedAt,
	).Scan(&resp.ID, &resp.CreatedAt, &resp.UpdatedAt)
}

// Upsert records or replaces a utility member's answer on a ticket.
func (r *utilityResponseRepository) Upsert(ctx context.Context, resp *domain.UtilityResponse) error {
	const query = `
        INSERT INTO utility_responses (ticket_id, utility_code, utility_name, utility_type,
            response_type, response_window_closes_at, marking_instructions, conflict_reason, responded_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (ticket_id, utility_code) DO UPDATE SET
            utility_name=EXCLUDED.utility_name,
            utility_type=EXCLUDED.utility_type,
            response_type=EXCLUDED.response_type,
            response_window_closes_at=EXCLUDED.response_window_closes_at,
            marking_instructions=EXCLUDED.marking_instructions,
            conflict_reason=EXCLUDED.conflict_reason,
            responded_at=EXCLUDED.responded_at,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		resp.TicketID,
		resp.UtilityCode,
		resp.UtilityName,
		resp.UtilityType,
		resp.ResponseType,
		resp.ResponseWindowClosesAt,
		resp.MarkingInstructions,
		resp.ConflictReason,
		resp.RespondedAt,
	).Scan(&resp.ID, &resp.CreatedAt, &resp.UpdatedAt)
}

func (r *utilityResponseRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.UtilityResponse, error) {
	const query = `
        SELECT ` + responseColumns + `
        FROM utility_responses WHERE ticket_id=$1
        ORDER BY utility_code ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UtilityResponse
	for rows.Next() {
		var resp domain.UtilityResponse
		if err := rows.Scan(
			&resp.ID,
			&resp.TicketID,
			&resp.UtilityCode,
			&resp.UtilityName,
			&resp.UtilityType,
			&resp.ResponseType,
			&resp.ResponseWindowClosesAt,
			&resp.MarkingInstructions,
			&resp.ConflictReason,
			&resp.RespondedAt,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, resp)
	}
	return result, rows.Err()
}
