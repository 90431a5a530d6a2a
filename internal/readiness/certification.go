package readiness

import (
	"fmt"
	"time"

	"github.com/fieldready/locate-service/internal/domain"
)

// expiringSoonDays is the advance-warning window for certification expiry.
const expiringSoonDays = 7

// CertificationCheck is the outcome of checking one worker.
type CertificationCheck struct {
	WorkerID   string
	WorkerName string
	WorkerKind domain.WorkerKind
	Status     domain.CertificationStatus
	CertType   domain.CertificationType
	ExpiresAt  *time.Time
	Message    string
}

// certOutcome is one recognized certification reduced to its dated status.
type certOutcome struct {
	certType  domain.CertificationType
	status    domain.CertificationStatus
	expiresAt *time.Time
}

// certStatusAt computes the dated status of a single expiry. The expiration
// date itself still counts as valid; a date up to seven days out counts as
// expiring soon.
func certStatusAt(expiresAt *time.Time, asOf time.Time) domain.CertificationStatus {
	if expiresAt == nil {
		return domain.CertStatusValid
	}
	if dateBefore(*expiresAt, asOf) {
		return domain.CertStatusExpired
	}
	cutoff := dateOnly(asOf).AddDate(0, 0, expiringSoonDays)
	if dateAfter(*expiresAt, asOf) && !dateOnly(*expiresAt).After(cutoff) {
		return domain.CertStatusExpiring
	}
	return domain.CertStatusValid
}

// CheckCrewMember evaluates a crew member's linked certification list.
func CheckCrewMember(member *domain.CrewMember, asOf time.Time) CertificationCheck {
	var outcomes []certOutcome
	for _, cert := range member.Certifications {
		if !cert.Active {
			continue
		}
		if cert.Type != domain.CertOSHA10 && cert.Type != domain.CertOSHA30 {
			continue
		}
		expiresAt := cert.ExpiresAt
		outcomes = append(outcomes, certOutcome{
			certType:  cert.Type,
			status:    certStatusAt(expiresAt, asOf),
			expiresAt: expiresAt,
		})
	}
	return resolveOutcomes(member.ID, member.Name, domain.KindCrewMember, outcomes, asOf)
}

// CheckSubcontractorWorker evaluates a subcontractor worker's boolean/expiry
// certification pairs.
func CheckSubcontractorWorker(worker *domain.SubcontractorWorker, asOf time.Time) CertificationCheck {
	var outcomes []certOutcome
	if worker.HasOSHA10 {
		outcomes = append(outcomes, certOutcome{
			certType:  domain.CertOSHA10,
			status:    certStatusAt(worker.OSHA10ExpiresAt, asOf),
			expiresAt: worker.OSHA10ExpiresAt,
		})
	}
	if worker.HasOSHA30 {
		outcomes = append(outcomes, certOutcome{
			certType:  domain.CertOSHA30,
			status:    certStatusAt(worker.OSHA30ExpiresAt, asOf),
			expiresAt: worker.OSHA30ExpiresAt,
		})
	}
	return resolveOutcomes(worker.ID, worker.Name, domain.KindSubcontractor, outcomes, asOf)
}

// resolveOutcomes picks the worker's effective status: the best status among
// recognized certifications wins (either OSHA tier alone satisfies the
// requirement), with OSHA 30 preferred over OSHA 10 for message text when
// both land on the same status.
func resolveOutcomes(id, name string, kind domain.WorkerKind, outcomes []certOutcome, asOf time.Time) CertificationCheck {
	check := CertificationCheck{WorkerID: id, WorkerName: name, WorkerKind: kind}

	if len(outcomes) == 0 {
		check.Status = domain.CertStatusMissing
		check.Message = fmt.Sprintf("%s has no OSHA 10 or OSHA 30 certification on record", name)
		return check
	}

	best := outcomes[0]
	for _, candidate := range outcomes[1:] {
		if statusRank(candidate.status) > statusRank(best.status) {
			best = candidate
			continue
		}
		if candidate.status == best.status && candidate.certType == domain.CertOSHA30 {
			best = candidate
		}
	}

	check.Status = best.status
	check.CertType = best.certType
	check.ExpiresAt = best.expiresAt
	label := certLabel(best.certType)

	switch best.status {
	case domain.CertStatusExpired:
		check.Message = fmt.Sprintf("%s's %s certification expired on %s", name, label, best.expiresAt.Format("2006-01-02"))
	case domain.CertStatusExpiring:
		check.Message = fmt.Sprintf("%s's %s certification expires on %s (within %d days)",
			name, label, best.expiresAt.Format("2006-01-02"), expiringSoonDays)
	default:
		if best.expiresAt == nil {
			check.Message = fmt.Sprintf("%s holds a current %s certification", name, label)
		} else {
			check.Message = fmt.Sprintf("%s holds a current %s certification (valid through %s)",
				name, label, best.expiresAt.Format("2006-01-02"))
		}
	}
	return check
}

func statusRank(s domain.CertificationStatus) int {
	switch s {
	case domain.CertStatusValid:
		return 3
	case domain.CertStatusExpiring:
		return 2
	case domain.CertStatusExpired:
		return 1
	}
	return 0
}

func certLabel(t domain.CertificationType) string {
	if t == domain.CertOSHA30 {
		return "OSHA 30"
	}
	return "OSHA 10"
}

// IssueFrom converts a non-valid check into a tagged personnel issue.
// expired and missing block the dig; expiring soon is advisory.
func IssueFrom(check CertificationCheck) (domain.PersonnelIssue, bool) {
	issue := domain.PersonnelIssue{
		WorkerID:   check.WorkerID,
		WorkerName: check.WorkerName,
		WorkerKind: check.WorkerKind,
		Status:     check.Status,
		Message:    check.Message,
	}
	switch check.Status {
	case domain.CertStatusExpired, domain.CertStatusMissing:
		issue.Severity = domain.SeverityBlocking
		return issue, true
	case domain.CertStatusExpiring:
		issue.Severity = domain.SeverityWarning
		return issue, true
	}
	return domain.PersonnelIssue{}, false
}
