package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldready/locate-service/internal/domain"
)

// SubcontractorRepository reads subcontractor workers.
type SubcontractorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.SubcontractorWorker, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.SubcontractorWorker, error)
	ListByOrganization(ctx context.Context, orgID string, activeOnly bool) ([]domain.SubcontractorWorker, error)
}

type subcontractorRepository struct {
	pool *pgxpool.Pool
}

// NewSubcontractorRepository instantiates repository.
func NewSubcontractorRepository(pool *pgxpool.Pool) SubcontractorRepository {
	return &subcontractorRepository{pool: pool}
}

const subWorkerColumns = `id, organization_id, subcontractor_id, name, trade,
       has_osha_10, osha_10_expires_at, has_osha_30, osha_30_expires_at,
       competent_person, competency_types, active, created_at, updated_at`

func (r *subcontractorRepository) GetByID(ctx context.Context, id string) (*domain.SubcontractorWorker, error) {
	const query = `SELECT ` + subWorkerColumns + ` FROM subcontractor_workers WHERE id=$1`
	var worker domain.SubcontractorWorker
	if err := r.pool.QueryRow(ctx, query, id).Scan(subWorkerScanTargets(&worker)...); err != nil {
		return nil, err
	}
	return &worker, nil
}

// GetByIDs loads the given workers; a missing id surfaces as pgx.ErrNoRows.
func (r *subcontractorRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.SubcontractorWorker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + subWorkerColumns + ` FROM subcontractor_workers WHERE id = ANY($1) ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers, err := scanSubWorkers(rows)
	if err != nil {
		return nil, err
	}
	if len(workers) != len(ids) {
		return nil, pgx.ErrNoRows
	}
	return workers, nil
}

func (r *subcontractorRepository) ListByOrganization(ctx context.Context, orgID string, activeOnly bool) ([]domain.SubcontractorWorker, error) {
	query := `SELECT ` + subWorkerColumns + ` FROM subcontractor_workers WHERE organization_id=$1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubWorkers(rows)
}

func subWorkerScanTargets(w *domain.SubcontractorWorker) []any {
	return []any{
		&w.ID,
		&w.OrganizationID,
		&w.SubcontractorID,
		&w.Name,
		&w.Trade,
		&w.HasOSHA10,
		&w.OSHA10ExpiresAt,
		&w.HasOSHA30,
		&w.OSHA30ExpiresAt,
		&w.CompetentPerson,
		&w.CompetencyTypes,
		&w.Active,
		&w.CreatedAt,
		&w.UpdatedAt,
	}
}

func scanSubWorkers(rows pgx.Rows) ([]domain.SubcontractorWorker, error) {
	var result []domain.SubcontractorWorker
	for rows.Next() {
		var worker domain.SubcontractorWorker
		if err := rows.Scan(subWorkerScanTargets(&worker)...); err != nil {
			return nil, err
		}
		result = append(result, worker)
	}
	return result, rows.Err()
}
