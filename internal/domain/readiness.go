package domain

import (
	"fmt"
	"time"
)

// Verdict is the overall dig readiness outcome.
type Verdict string

const (
	VerdictPass        Verdict = "PASS"
	VerdictConditional Verdict = "CONDITIONAL"
	VerdictFail        Verdict = "FAIL"
)

// ParseVerdict validates a raw verdict value.
func ParseVerdict(raw string) (Verdict, error) {
	switch Verdict(raw) {
	case VerdictPass, VerdictConditional, VerdictFail:
		return Verdict(raw), nil
	}
	return "", fmt.Errorf("unknown verdict %q", raw)
}

// IssueSeverity tags a personnel issue as blocking or advisory.
type IssueSeverity string

const (
	SeverityBlocking IssueSeverity = "BLOCKING"
	SeverityWarning  IssueSeverity = "WARNING"
)

// CertificationStatus is the outcome of checking one worker's certifications.
type CertificationStatus string

const (
	CertStatusValid    CertificationStatus = "VALID"
	CertStatusExpiring CertificationStatus = "EXPIRING"
	CertStatusExpired  CertificationStatus = "EXPIRED"
	CertStatusMissing  CertificationStatus = "MISSING"
)

// WorkerKind distinguishes the two worker variants in results.
type WorkerKind string

const (
	KindCrewMember    WorkerKind = "CREW_MEMBER"
	KindSubcontractor WorkerKind = "SUBCONTRACTOR"
)

// PersonnelIssue is one certification finding for a selected worker.
// Valid workers produce no issue entry.
type PersonnelIssue struct {
	WorkerID   string              `json:"worker_id"`
	WorkerName string              `json:"worker_name"`
	WorkerKind WorkerKind          `json:"worker_kind"`
	Status     CertificationStatus `json:"status"`
	Severity   IssueSeverity       `json:"severity"`
	Message    string              `json:"message"`
}

// UtilityStanding is the per-utility line in a summary. SilentAssent marks
// responses treated as cleared only because the response window lapsed with
// no objection.
type UtilityStanding struct {
	UtilityCode  string              `json:"utility_code"`
	UtilityName  string              `json:"utility_name"`
	ResponseType UtilityResponseType `json:"response_type"`
	Cleared      bool                `json:"cleared"`
	SilentAssent bool                `json:"silent_assent"`
	Message      string              `json:"message"`
}

// UtilitySummary aggregates all utility responses on one ticket.
type UtilitySummary struct {
	Status       Verdict           `json:"status"`
	PerUtility   []UtilityStanding `json:"per_utility"`
	PendingCount int               `json:"pending_count"`
	Message      string            `json:"message"`
}

// CompetentPersonResult names the designated competent person, if any.
type CompetentPersonResult struct {
	Present        bool       `json:"present"`
	WorkerID       string     `json:"worker_id,omitempty"`
	WorkerName     string     `json:"worker_name,omitempty"`
	WorkerKind     WorkerKind `json:"worker_kind,omitempty"`
	CompetencyType string     `json:"competency_type,omitempty"`
	Message        string     `json:"message"`
}

// TicketStanding is the lifecycle classification attached to a check.
type TicketStanding struct {
	TicketNumber string       `json:"ticket_number"`
	Status       TicketStatus `json:"status"`
	ExpiresAt    time.Time    `json:"expires_at"`
	Message      string       `json:"message"`
}

// DigReadinessCheck is the immutable result of one evaluation. A fresh
// CheckID is generated per call for audit reference.
type DigReadinessCheck struct {
	CheckID         string                `json:"check_id"`
	OverallStatus   Verdict               `json:"overall_status"`
	CanProceed      bool                  `json:"can_proceed"`
	Ticket          TicketStanding        `json:"ticket"`
	Utilities       UtilitySummary        `json:"utilities"`
	PersonnelIssues []PersonnelIssue      `json:"personnel_issues"`
	CompetentPerson CompetentPersonResult `json:"competent_person"`
	EvaluatedAt     time.Time             `json:"evaluated_at"`
}
