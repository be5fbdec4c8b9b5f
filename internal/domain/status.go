package domain

import (
	"fmt"
	"sort"
)

// ApplicationStatus represents the lifecycle status of a loan file
type ApplicationStatus string

const (
	StatusDraft               ApplicationStatus = "DRAFT"
	StatusUnderKamReview      ApplicationStatus = "UNDER_KAM_REVIEW"
	StatusQueryWithClient     ApplicationStatus = "QUERY_WITH_CLIENT"
	StatusPendingCreditReview ApplicationStatus = "PENDING_CREDIT_REVIEW"
	StatusCreditQueryWithKam  ApplicationStatus = "CREDIT_QUERY_WITH_KAM"
	StatusInNegotiation       ApplicationStatus = "IN_NEGOTIATION"
	StatusSentToNbfc          ApplicationStatus = "SENT_TO_NBFC"
	StatusApproved            ApplicationStatus = "APPROVED"
	StatusRejected            ApplicationStatus = "REJECTED"
	StatusDisbursed           ApplicationStatus = "DISBURSED"
	StatusWithdrawn           ApplicationStatus = "WITHDRAWN"
	StatusClosed              ApplicationStatus = "CLOSED"
)

// AllStatuses lists every lifecycle status
var AllStatuses = []ApplicationStatus{
	StatusDraft,
	StatusUnderKamReview,
	StatusQueryWithClient,
	StatusPendingCreditReview,
	StatusCreditQueryWithKam,
	StatusInNegotiation,
	StatusSentToNbfc,
	StatusApproved,
	StatusRejected,
	StatusDisbursed,
	StatusWithdrawn,
	StatusClosed,
}

// IsValid checks if the status is one of the known lifecycle statuses
func (s ApplicationStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition may leave the status.
// Rejected, Withdrawn and Closed retain the file but end its lifecycle.
func (s ApplicationStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusWithdrawn, StatusClosed:
		return true
	}
	return false
}

// transitionMatrix encodes business policy as fixed data: for each role,
// the set of statuses reachable from a given status. Absence means deny.
var transitionMatrix = map[Role]map[ApplicationStatus][]ApplicationStatus{
	RoleClient: {
		StatusDraft:           {StatusUnderKamReview, StatusWithdrawn},
		StatusQueryWithClient: {StatusUnderKamReview, StatusWithdrawn},
	},
	RoleKam: {
		StatusUnderKamReview:     {StatusPendingCreditReview, StatusQueryWithClient},
		StatusCreditQueryWithKam: {StatusPendingCreditReview, StatusQueryWithClient},
	},
	RoleCreditTeam: {
		StatusPendingCreditReview: {StatusCreditQueryWithKam, StatusInNegotiation, StatusSentToNbfc, StatusRejected},
		StatusInNegotiation:       {StatusSentToNbfc, StatusRejected, StatusClosed},
		StatusSentToNbfc:          {StatusInNegotiation, StatusApproved, StatusRejected},
		StatusApproved:            {StatusDisbursed, StatusClosed},
		StatusDisbursed:           {StatusClosed},
	},
	// The NBFC decision is recorded by the credit team; the nbfc role has
	// visibility over assigned files but drives no transition itself.
	RoleNbfc: {},
}

// AllowedNextStatuses enumerates the statuses reachable from a status for a
// role. Terminal statuses and unknown roles yield an empty set.
func AllowedNextStatuses(from ApplicationStatus, role Role) []ApplicationStatus {
	row, ok := transitionMatrix[role]
	if !ok {
		return nil
	}
	targets := row[from]
	out := make([]ApplicationStatus, len(targets))
	copy(out, targets)
	return out
}

// IsValidTransition reports whether the role may move a file from one status
// to another. Pure function of static data.
func IsValidTransition(from, to ApplicationStatus, role Role) bool {
	for _, allowed := range AllowedNextStatuses(from, role) {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition is the write-boundary form of IsValidTransition: it
// fails with a descriptive error naming the illegal target and the legal
// alternatives instead of returning a boolean.
func ValidateTransition(from, to ApplicationStatus, role Role) error {
	if IsValidTransition(from, to, role) {
		return nil
	}
	allowed := AllowedNextStatuses(from, role)
	if len(allowed) == 0 {
		return fmt.Errorf("%w: %s cannot move file from %s to %s (no transitions available)",
			ErrInvalidTransition, role, from, to)
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s cannot move file from %s to %s (allowed: %v)",
		ErrInvalidTransition, role, from, to, names)
}
