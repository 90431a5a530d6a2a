package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldready/locate-service/internal/domain"
)

// CrewRepository reads crew members and their linked certifications.
type CrewRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CrewMember, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.CrewMember, error)
	ListByOrganization(ctx context.Context, orgID string, activeOnly bool) ([]domain.CrewMember, error)
	UpsertCertification(ctx context.Context, crewMemberID string, cert *domain.SafetyCertification) error
}

type crewRepository struct {
	pool *pgxpool.Pool
}

// NewCrewRepository instantiates repository.
func NewCrewRepository(pool *pgxpool.Pool) CrewRepository {
	return &crewRepository{pool: pool}
}

const crewColumns = `id, organization_id, project_id, name, trade, competent_person,
       competency_types, active, created_at, updated_at`

func (r *crewRepository) GetByID(ctx context.Context, id string) (*domain.CrewMember, error) {
	const query = `SELECT ` + crewColumns + ` FROM crew_members WHERE id=$1`
	var member domain.CrewMember
	if err := r.pool.QueryRow(ctx, query, id).Scan(crewScanTargets(&member)...); err != nil {
		return nil, err
	}
	if err := r.attachCertifications(ctx, []*domain.CrewMember{&member}); err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByIDs loads the given crew members; a missing id is reported as
// pgx.ErrNoRows so selection of an unknown worker surfaces as not-found.
func (r *crewRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.CrewMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + crewColumns + ` FROM crew_members WHERE id = ANY($1) ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members, err := scanCrewMembers(rows)
	if err != nil {
		return nil, err
	}
	if len(members) != len(ids) {
		return nil, pgx.ErrNoRows
	}

	refs := make([]*domain.CrewMember, len(members))
	for i := range members {
		refs[i] = &members[i]
	}
	if err := r.attachCertifications(ctx, refs); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *crewRepository) ListByOrganization(ctx context.Context, orgID string, activeOnly bool) ([]domain.CrewMember, error) {
	query := `SELECT ` + crewColumns + ` FROM crew_members WHERE organization_id=$1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members, err := scanCrewMembers(rows)
	if err != nil {
		return nil, err
	}
	refs := make([]*domain.CrewMember, len(members))
	for i := range members {
		refs[i] = &members[i]
	}
	if err := r.attachCertifications(ctx, refs); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *crewRepository) UpsertCertification(ctx context.Context, crewMemberID string, cert *domain.SafetyCertification) error {
	const query = `
        INSERT INTO crew_certifications (crew_member_id, cert_type, expires_at, active)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, crewMemberID, cert.Type, cert.ExpiresAt, cert.Active).Scan(&cert.ID)
}

func (r *crewRepository) attachCertifications(ctx context.Context, members []*domain.CrewMember) error {
	if len(members) == 0 {
		return nil
	}
	ids := make([]string, len(members))
	byID := make(map[string]*domain.CrewMember, len(members))
	for i, member := range members {
		ids[i] = member.ID
		byID[member.ID] = member
	}

	const query = `
        SELECT crew_member_id, id, cert_type, expires_at, active
        FROM crew_certifications WHERE crew_member_id = ANY($1)
        ORDER BY cert_type ASC`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var memberID string
		var cert domain.SafetyCertification
		if err := rows.Scan(&memberID, &cert.ID, &cert.Type, &cert.ExpiresAt, &cert.Active); err != nil {
			return err
		}
		if member, ok := byID[memberID]; ok {
			member.Certifications = append(member.Certifications, cert)
		}
	}
	return rows.Err()
}

func crewScanTargets(m *domain.CrewMember) []any {
	return []any{
		&m.ID,
		&m.OrganizationID,
		&m.ProjectID,
		&m.Name,
		&m.Trade,
		&m.CompetentPerson,
		&m.CompetencyTypes,
		&m.Active,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
}

func scanCrewMembers(rows pgx.Rows) ([]domain.CrewMember, error) {
	var result []domain.CrewMember
	for rows.Next() {
		var member domain.CrewMember
		if err := rows.Scan(crewScanTargets(&member)...); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}
