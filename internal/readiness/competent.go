package readiness

import (
	"fmt"
	"sort"

	"github.com/fieldready/locate-service/internal/domain"
)

// VerifyCompetentPerson confirms at least one selected worker is a designated
// competent person for the given competency type. Selection is deterministic:
// crew members come before subcontractor workers, alphabetical by name within
// each group, so the same selection always names the same person.
func VerifyCompetentPerson(crew []domain.CrewMember, subs []domain.SubcontractorWorker, competency string) domain.CompetentPersonResult {
	var crewMatches []domain.CrewMember
	for _, member := range crew {
		if member.QualifiesAsCompetentPerson(competency) {
			crewMatches = append(crewMatches, member)
		}
	}
	sort.Slice(crewMatches, func(i, j int) bool { return crewMatches[i].Name < crewMatches[j].Name })
	if len(crewMatches) > 0 {
		m := crewMatches[0]
		return domain.CompetentPersonResult{
			Present:        true,
			WorkerID:       m.ID,
			WorkerName:     m.Name,
			WorkerKind:     domain.KindCrewMember,
			CompetencyType: competency,
			Message:        fmt.Sprintf("%s is the designated competent person for %s work", m.Name, competency),
		}
	}

	var subMatches []domain.SubcontractorWorker
	for _, worker := range subs {
		if worker.QualifiesAsCompetentPerson(competency) {
			subMatches = append(subMatches, worker)
		}
	}
	sort.Slice(subMatches, func(i, j int) bool { return subMatches[i].Name < subMatches[j].Name })
	if len(subMatches) > 0 {
		w := subMatches[0]
		return domain.CompetentPersonResult{
			Present:        true,
			WorkerID:       w.ID,
			WorkerName:     w.Name,
			WorkerKind:     domain.KindSubcontractor,
			CompetencyType: competency,
			Message:        fmt.Sprintf("%s is the designated competent person for %s work", w.Name, competency),
		}
	}

	return domain.CompetentPersonResult{
		Present: false,
		Message: fmt.Sprintf("competent person required: no selected worker is designated for %s (29 CFR 1926.651(k))", competency),
	}
}
