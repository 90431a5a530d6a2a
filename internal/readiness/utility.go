package readiness

import (
	"fmt"
	"time"

	"github.com/fieldready/locate-service/internal/domain"
)

// SilentAssent reports whether an unanswered utility response may be treated
// as implicit clearance: the required response window has elapsed with no
// objection filed. Kept as its own named rule because the distinction between
// positive confirmation and lapsed-window clearance matters for liability
// review downstream.
func SilentAssent(resp domain.UtilityResponse, asOf time.Time) bool {
	if resp.ResponseType != domain.ResponsePending && resp.ResponseType != domain.ResponseNoResponse {
		return false
	}
	if resp.ResponseWindowClosesAt == nil {
		return false
	}
	return resp.ResponseWindowClosesAt.Before(asOf)
}

// SummarizeUtilities folds all utility responses on a ticket into a single
// standing. NOT_APPLICABLE members are excluded. Any CONFLICT forces FAIL;
// otherwise any unresolved member holds the summary at CONDITIONAL.
func SummarizeUtilities(responses []domain.UtilityResponse, asOf time.Time) domain.UtilitySummary {
	summary := domain.UtilitySummary{Status: domain.VerdictPass}

	conflicts := 0
	cleared := 0
	for _, resp := range responses {
		if resp.ResponseType == domain.ResponseNotApplicable {
			continue
		}
		standing := domain.UtilityStanding{
			UtilityCode:  resp.UtilityCode,
			UtilityName:  resp.UtilityName,
			ResponseType: resp.ResponseType,
		}
		switch resp.ResponseType {
		case domain.ResponseConflict:
			conflicts++
			standing.Message = conflictMessage(resp)
		case domain.ResponseClear:
			cleared++
			standing.Cleared = true
			standing.Message = fmt.Sprintf("%s reported no facilities in conflict", resp.UtilityName)
		case domain.ResponseMarked:
			cleared++
			standing.Cleared = true
			standing.Message = markedMessage(resp)
		default:
			// PENDING / NO_RESPONSE
			if SilentAssent(resp, asOf) {
				cleared++
				standing.Cleared = true
				standing.SilentAssent = true
				standing.Message = fmt.Sprintf("%s did not respond before the window closed on %s; treated as cleared by silent assent (no positive confirmation received)",
					resp.UtilityName, resp.ResponseWindowClosesAt.Format("2006-01-02"))
			} else {
				summary.PendingCount++
				standing.Message = fmt.Sprintf("%s has not yet responded", resp.UtilityName)
			}
		}
		summary.PerUtility = append(summary.PerUtility, standing)
	}

	total := len(summary.PerUtility)
	switch {
	case conflicts > 0:
		summary.Status = domain.VerdictFail
		summary.Message = fmt.Sprintf("%d utility conflict(s) reported; excavation is not authorized", conflicts)
	case summary.PendingCount > 0:
		summary.Status = domain.VerdictConditional
		summary.Message = fmt.Sprintf("%d of %d utilities cleared, %d still pending", cleared, total, summary.PendingCount)
	default:
		summary.Message = fmt.Sprintf("all %d utilities cleared", total)
	}
	return summary
}

func conflictMessage(resp domain.UtilityResponse) string {
	if resp.ConflictReason != "" {
		return fmt.Sprintf("%s reported a conflict: %s", resp.UtilityName, resp.ConflictReason)
	}
	return fmt.Sprintf("%s reported a conflict", resp.UtilityName)
}

func markedMessage(resp domain.UtilityResponse) string {
	if resp.MarkingInstructions != "" {
		return fmt.Sprintf("%s marked facilities: %s", resp.UtilityName, resp.MarkingInstructions)
	}
	return fmt.Sprintf("%s marked facilities on site", resp.UtilityName)
}
