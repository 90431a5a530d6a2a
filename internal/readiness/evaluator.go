package readiness

import (
	"time"

	"github.com/google/uuid"

	"github.com/fieldready/locate-service/internal/domain"
)

// Input carries everything one evaluation needs. The caller resolves stores
// and the clock; this package never performs I/O and never mutates inputs.
type Input struct {
	Ticket    *domain.LocateTicket
	Responses []domain.UtilityResponse
	Crew      []domain.CrewMember
	Subs      []domain.SubcontractorWorker
	AsOf      time.Time
}

// Evaluate combines ticket lifecycle, utility responses, personnel
// certifications, and the competent-person requirement into one verdict.
// Priority order, first match wins:
//
//  1. expired/cancelled/conflicted ticket, or any utility conflict -> FAIL
//  2. any blocking personnel issue (expired or missing cert)       -> FAIL
//  3. pending utilities, expiring certs, or no competent person    -> CONDITIONAL
//  4. otherwise                                                    -> PASS
//
// Each call produces a fresh check id for audit reference.
func Evaluate(in Input) domain.DigReadinessCheck {
	utilities := SummarizeUtilities(in.Responses, in.AsOf)
	standing := ClassifyTicket(in.Ticket, utilities.PendingCount, in.AsOf)

	issues := make([]domain.PersonnelIssue, 0, len(in.Crew)+len(in.Subs))
	blocking := false
	warning := false
	for i := range in.Crew {
		check := CheckCrewMember(&in.Crew[i], in.AsOf)
		if issue, ok := IssueFrom(check); ok {
			issues = append(issues, issue)
			blocking = blocking || issue.Severity == domain.SeverityBlocking
			warning = warning || issue.Severity == domain.SeverityWarning
		}
	}
	for i := range in.Subs {
		check := CheckSubcontractorWorker(&in.Subs[i], in.AsOf)
		if issue, ok := IssueFrom(check); ok {
			issues = append(issues, issue)
			blocking = blocking || issue.Severity == domain.SeverityBlocking
			warning = warning || issue.Severity == domain.SeverityWarning
		}
	}

	competent := VerifyCompetentPerson(in.Crew, in.Subs, domain.CompetencyExcavation)

	var verdict domain.Verdict
	switch {
	case standingBlocksDig(standing) || utilities.Status == domain.VerdictFail:
		verdict = domain.VerdictFail
	case blocking:
		verdict = domain.VerdictFail
	case utilities.Status == domain.VerdictConditional || warning || !competent.Present:
		verdict = domain.VerdictConditional
	default:
		verdict = domain.VerdictPass
	}

	return domain.DigReadinessCheck{
		CheckID:         uuid.NewString(),
		OverallStatus:   verdict,
		CanProceed:      verdict != domain.VerdictFail,
		Ticket:          standing,
		Utilities:       utilities,
		PersonnelIssues: issues,
		CompetentPerson: competent,
		EvaluatedAt:     in.AsOf,
	}
}
