package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/repository"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// RosterService reads the personnel roster for an organization.
type RosterService struct {
	crew repository.CrewRepository
	subs repository.SubcontractorRepository
}

// NewRosterService constructs the service.
func NewRosterService(crew repository.CrewRepository, subs repository.SubcontractorRepository) *RosterService {
	return &RosterService{crew: crew, subs: subs}
}

// ListCrew returns active crew members with their certifications.
func (s *RosterService) ListCrew(ctx context.Context, orgID string) ([]domain.CrewMember, error) {
	members, err := s.crew.ListByOrganization(ctx, orgID, true)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return members, nil
}

// ListSubcontractorWorkers returns active subcontractor workers.
func (s *RosterService) ListSubcontractorWorkers(ctx context.Context, orgID string) ([]domain.SubcontractorWorker, error) {
	workers, err := s.subs.ListByOrganization(ctx, orgID, true)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return workers, nil
}

// AddCrewCertification attaches a certification record to a crew member.
func (s *RosterService) AddCrewCertification(ctx context.Context, orgID, crewMemberID string, cert domain.SafetyCertification) (*domain.SafetyCertification, error) {
	member, err := s.crew.GetByID(ctx, crewMemberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("crew member", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if orgID != "" && member.OrganizationID != orgID {
		return nil, apperrors.NewNotFound("crew member", nil)
	}
	if err := s.crew.UpsertCertification(ctx, member.ID, &cert); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &cert, nil
}
