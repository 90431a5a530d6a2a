package dto

import (
	"time"

	"github.com/fieldready/locate-service/internal/domain"
)

// CertificationView response item.
type CertificationView struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Active    bool       `json:"active"`
}

// CrewMemberView response item.
type CrewMemberView struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Trade           string              `json:"trade,omitempty"`
	CompetentPerson bool                `json:"competent_person"`
	CompetencyTypes []string            `json:"competency_types,omitempty"`
	Certifications  []CertificationView `json:"certifications"`
}

// SubcontractorWorkerView response item.
type SubcontractorWorkerView struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Trade           string     `json:"trade,omitempty"`
	HasOSHA10       bool       `json:"has_osha_10"`
	OSHA10ExpiresAt *time.Time `json:"osha_10_expires_at,omitempty"`
	HasOSHA30       bool       `json:"has_osha_30"`
	OSHA30ExpiresAt *time.Time `json:"osha_30_expires_at,omitempty"`
	CompetentPerson bool       `json:"competent_person"`
	CompetencyTypes []string   `json:"competency_types,omitempty"`
}

// AddCertificationRequest payload.
type AddCertificationRequest struct {
	Type      string     `json:"type" validate:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
	Active    *bool      `json:"active"`
}

// NewCrewMemberView maps a domain crew member.
func NewCrewMemberView(m *domain.CrewMember) CrewMemberView {
	view := CrewMemberView{
		ID:              m.ID,
		Name:            m.Name,
		Trade:           m.Trade,
		CompetentPerson: m.CompetentPerson,
		CompetencyTypes: m.CompetencyTypes,
		Certifications:  make([]CertificationView, 0, len(m.Certifications)),
	}
	for _, cert := range m.Certifications {
		view.Certifications = append(view.Certifications, CertificationView{
			ID:        cert.ID,
			Type:      string(cert.Type),
			ExpiresAt: cert.ExpiresAt,
			Active:    cert.Active,
		})
	}
	return view
}

// NewSubcontractorWorkerView maps a domain subcontractor worker.
func NewSubcontractorWorkerView(w *domain.SubcontractorWorker) SubcontractorWorkerView {
	return SubcontractorWorkerView{
		ID:              w.ID,
		Name:            w.Name,
		Trade:           w.Trade,
		HasOSHA10:       w.HasOSHA10,
		OSHA10ExpiresAt: w.OSHA10ExpiresAt,
		HasOSHA30:       w.HasOSHA30,
		OSHA30ExpiresAt: w.OSHA30ExpiresAt,
		CompetentPerson: w.CompetentPerson,
		CompetencyTypes: w.CompetencyTypes,
	}
}
