package service

import (
	"strings"
	"testing"
	"time"

	"campusgate/internal/models"
)

func TestResolveScope(t *testing.T) {
	if got := ResolveScope(models.ScopeCollege); got != models.ScopeCollege {
		t.Errorf("Expected college scope, got %s", got)
	}
	if got := ResolveScope(models.ScopeDepartment); got != models.ScopeDepartment {
		t.Errorf("Expected department scope, got %s", got)
	}
	// Unknown scopes fall back to department
	if got := ResolveScope("campus"); got != models.ScopeDepartment {
		t.Errorf("Expected fallback to department scope, got %s", got)
	}
	if got := ResolveScope(""); got != models.ScopeDepartment {
		t.Errorf("Expected fallback to department scope, got %s", got)
	}
}

func TestDefaultDeadline(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := DefaultDeadline(now)

	if want := now.Add(7 * 24 * time.Hour); !deadline.Equal(want) {
		t.Errorf("Expected deadline %v, got %v", want, deadline)
	}
}

func TestValidateBallot(t *testing.T) {
	if err := ValidateBallot(models.VoteAccept, "sounds right"); err != nil {
		t.Errorf("Accept ballot should be valid, got %v", err)
	}
	if err := ValidateBallot(models.VoteReject, ""); err != nil {
		t.Errorf("Reject ballot with empty reason should be valid, got %v", err)
	}
	if err := ValidateBallot("abstain", ""); err == nil {
		t.Error("Unknown vote value should be rejected")
	}
	if err := ValidateBallot(models.VoteAccept, strings.Repeat("x", 501)); err == nil {
		t.Error("Over-long reason should be rejected")
	}
	// The limit counts characters, not bytes
	if err := ValidateBallot(models.VoteAccept, strings.Repeat("é", 500)); err != nil {
		t.Errorf("500-character multi-byte reason should be valid, got %v", err)
	}
	if err := ValidateBallot(models.VoteAccept, strings.Repeat("é", 501)); err == nil {
		t.Error("501-character multi-byte reason should be rejected")
	}
}

func openComplaint(deadline time.Time) *models.Complaint {
	return &models.Complaint{
		Department:     "Computer Science",
		VotingEnabled:  true,
		VotingScope:    models.ScopeDepartment,
		VotingDeadline: &deadline,
	}
}

func TestCanCastVoteRoleGate(t *testing.T) {
	now := time.Now()
	c := openComplaint(now.Add(time.Hour))

	hod := &models.User{Role: models.RoleHOD, Department: "Computer Science"}
	err := CanCastVote(hod, c, now)
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("HOD should not be allowed to vote, got %v", err)
	}

	student := &models.User{Role: models.RoleStudent, Department: "Computer Science"}
	if err := CanCastVote(student, c, now); err != nil {
		t.Errorf("In-department student should be allowed to vote, got %v", err)
	}
}

func TestCanCastVoteClosedBox(t *testing.T) {
	now := time.Now()
	student := &models.User{Role: models.RoleStudent, Department: "Computer Science"}

	c := openComplaint(now.Add(time.Hour))
	c.VotingEnabled = false
	if err := CanCastVote(student, c, now); err == nil {
		t.Error("Voting on a complaint without an open ballot box should fail")
	}

	expired := openComplaint(now.Add(-time.Minute))
	if err := CanCastVote(student, expired, now); err == nil {
		t.Error("Voting after the deadline should fail")
	}
}

func TestCanCastVoteScope(t *testing.T) {
	now := time.Now()
	c := openComplaint(now.Add(time.Hour))

	outsider := &models.User{Role: models.RoleStudent, Department: "Mechanical"}
	err := CanCastVote(outsider, c, now)
	if err == nil || !strings.Contains(err.Error(), "department only") {
		t.Errorf("Out-of-department student should be blocked, got %v", err)
	}

	// College scope admits every student
	c.VotingScope = models.ScopeCollege
	if err := CanCastVote(outsider, c, now); err != nil {
		t.Errorf("College-scope ballot should admit any student, got %v", err)
	}
}

func TestCanCastVoteDeanBypassesScope(t *testing.T) {
	now := time.Now()
	c := openComplaint(now.Add(time.Hour))

	dean := &models.User{Role: models.RoleDean, Department: "Administration"}
	if err := CanCastVote(dean, c, now); err != nil {
		t.Errorf("The dean is not scope-checked, got %v", err)
	}
}

func TestVisibleInBallotList(t *testing.T) {
	now := time.Now()
	student := &models.User{Role: models.RoleStudent, Department: "Computer Science"}

	c := openComplaint(now.Add(time.Hour))
	if !VisibleInBallotList(student, c, now, false) {
		t.Error("Open in-department ballot should be listed")
	}
	if VisibleInBallotList(student, c, now, true) {
		t.Error("Already-voted ballot should be hidden")
	}

	expired := openComplaint(now.Add(-time.Minute))
	if VisibleInBallotList(student, expired, now, false) {
		t.Error("Past-deadline ballot should be hidden")
	}

	other := openComplaint(now.Add(time.Hour))
	other.Department = "Mechanical"
	if VisibleInBallotList(student, other, now, false) {
		t.Error("Other-department department-scope ballot should be hidden")
	}

	other.VotingScope = models.ScopeCollege
	if !VisibleInBallotList(student, other, now, false) {
		t.Error("College-scope ballot should be listed for any student")
	}
}

func TestSanitizeForViewer(t *testing.T) {
	c := &models.Complaint{
		Title:         "Broken scanner",
		Votes:         []models.Vote{{Vote: models.VoteAccept}},
		VotingSummary: &models.VotingSummary{TotalVotes: 1},
	}

	sanitized := SanitizeForViewer(c, models.RoleStudent)
	if sanitized.Votes != nil || sanitized.VotingSummary != nil {
		t.Error("Students should not see ballots or the tally")
	}
	if sanitized.Title != c.Title {
		t.Error("Sanitizing should keep the complaint fields")
	}

	// Input must not be modified
	if c.Votes == nil || c.VotingSummary == nil {
		t.Error("Sanitizing should not modify the input")
	}

	forDean := SanitizeForViewer(c, models.RoleDean)
	if forDean.Votes == nil || forDean.VotingSummary == nil {
		t.Error("The dean sees ballots and the tally")
	}
}
