package service

import (
	"fmt"
	"time"
	"unicode/utf8"

	"campusgate/internal/models"
)

const (
	defaultVotingWindow = 7 * 24 * time.Hour
	maxVoteReasonLen    = 500
)

// ResolveScope maps a requested scope to a valid one. Anything other than
// the recognized scopes silently falls back to department scope.
func ResolveScope(requested string) string {
	if models.ValidVotingScope(requested) {
		return requested
	}
	return models.ScopeDepartment
}

// DefaultDeadline returns the ballot box closing time used when the caller
// gives none.
func DefaultDeadline(now time.Time) time.Time {
	return now.Add(defaultVotingWindow)
}

// ValidateBallot checks the ballot payload before it reaches the database
func ValidateBallot(vote, reason string) error {
	if vote != models.VoteAccept && vote != models.VoteReject {
		return fmt.Errorf("vote must be %q or %q", models.VoteAccept, models.VoteReject)
	}
	if utf8.RuneCountInString(reason) > maxVoteReasonLen {
		return fmt.Errorf("reason must be at most %d characters", maxVoteReasonLen)
	}
	return nil
}

// CanCastVote applies the ordered gate checks for casting a ballot:
// ballot box open, deadline not passed, and scope eligibility. Students are
// bound to department scope; the dean is not scope-checked on any complaint.
// The duplicate-ballot check is separate because it needs the vote store.
func CanCastVote(voter *models.User, c *models.Complaint, now time.Time) error {
	switch voter.Role {
	case models.RoleStudent, models.RoleDean:
	default:
		return fmt.Errorf("permission denied: only students and the dean can vote")
	}

	if !c.VotingEnabled {
		return fmt.Errorf("voting is not enabled for this complaint")
	}
	if c.VotingDeadline != nil && now.After(*c.VotingDeadline) {
		return fmt.Errorf("voting deadline has passed")
	}

	if voter.Role == models.RoleStudent &&
		c.VotingScope == models.ScopeDepartment &&
		voter.Department != c.Department {
		return fmt.Errorf("permission denied: this complaint is open to its department only")
	}

	return nil
}

// VisibleInBallotList decides whether a complaint shows up in a student's
// open-voting list: box open, deadline in the future, in scope, not yet
// voted on.
func VisibleInBallotList(voter *models.User, c *models.Complaint, now time.Time, hasVoted bool) bool {
	if !c.VotingEnabled || hasVoted {
		return false
	}
	if c.VotingDeadline == nil || !c.VotingDeadline.After(now) {
		return false
	}
	return c.VotingScope == models.ScopeCollege || c.Department == voter.Department
}

// SanitizeForViewer strips ballots and the tally from a complaint unless the
// viewer is the dean. It returns a shallow copy; the input is not modified.
func SanitizeForViewer(c *models.Complaint, viewerRole string) *models.Complaint {
	out := *c
	if viewerRole != models.RoleDean {
		out.Votes = nil
		out.VotingSummary = nil
	}
	return &out
}

// SanitizeListForViewer applies SanitizeForViewer across a slice
func SanitizeListForViewer(complaints []models.Complaint, viewerRole string) []models.Complaint {
	out := make([]models.Complaint, 0, len(complaints))
	for i := range complaints {
		out = append(out, *SanitizeForViewer(&complaints[i], viewerRole))
	}
	return out
}
