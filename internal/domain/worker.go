package domain

import (
	"fmt"
	"time"
)

// CertificationType enumerates recognized safety certifications.
type CertificationType string

const (
	CertOSHA10 CertificationType = "OSHA_10"
	CertOSHA30 CertificationType = "OSHA_30"
)

// ParseCertificationType validates a raw certification type value.
func ParseCertificationType(raw string) (CertificationType, error) {
	switch CertificationType(raw) {
	case CertOSHA10, CertOSHA30:
		return CertificationType(raw), nil
	}
	return "", fmt.Errorf("unknown certification type %q", raw)
}

// CompetencyExcavation is the competency type required for dig work under
// 29 CFR 1926.651(k).
const CompetencyExcavation = "EXCAVATION"

// SafetyCertification is one certification record linked to a crew member.
// A nil ExpiresAt means the certification does not lapse.
type SafetyCertification struct {
	ID        string
	Type      CertificationType
	ExpiresAt *time.Time
	Active    bool
}

// CrewMember is a directly employed worker with a linked certification list.
type CrewMember struct {
	ID              string
	OrganizationID  string
	ProjectID       *string
	Name            string
	Trade           string
	CompetentPerson bool
	CompetencyTypes []string
	Certifications  []SafetyCertification
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SubcontractorWorker is a worker supplied by a sub. Certifications are
// tracked as boolean/expiry pairs rather than a linked record list.
type SubcontractorWorker struct {
	ID               string
	OrganizationID   string
	SubcontractorID  string
	Name             string
	Trade            string
	HasOSHA10        bool
	OSHA10ExpiresAt  *time.Time
	HasOSHA30        bool
	OSHA30ExpiresAt  *time.Time
	CompetentPerson  bool
	CompetencyTypes  []string
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasCompetency reports whether the given competency type is among the
// worker's designations.
func hasCompetency(types []string, competency string) bool {
	for _, t := range types {
		if t == competency {
			return true
		}
	}
	return false
}

// QualifiesAsCompetentPerson reports whether the crew member is designated
// competent for the given competency type.
func (m *CrewMember) QualifiesAsCompetentPerson(competency string) bool {
	return m.CompetentPerson && hasCompetency(m.CompetencyTypes, competency)
}

// QualifiesAsCompetentPerson reports whether the subcontractor worker is
// designated competent for the given competency type.
func (w *SubcontractorWorker) QualifiesAsCompetentPerson(competency string) bool {
	return w.CompetentPerson && hasCompetency(w.CompetencyTypes, competency)
}
