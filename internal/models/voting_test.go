package models

import "testing"

func TestComputeSummary(t *testing.T) {
	summary := ComputeSummary(3, 1)

	if summary.TotalVotes != 4 {
		t.Errorf("Expected 4 total votes, got %d", summary.TotalVotes)
	}
	if summary.AcceptVotes != 3 || summary.RejectVotes != 1 {
		t.Errorf("Expected 3 accept / 1 reject, got %d / %d", summary.AcceptVotes, summary.RejectVotes)
	}
	if summary.AcceptPercentage != 75 {
		t.Errorf("Expected 75%% accept, got %d%%", summary.AcceptPercentage)
	}
	if summary.RejectPercentage != 25 {
		t.Errorf("Expected 25%% reject, got %d%%", summary.RejectPercentage)
	}
}

func TestComputeSummaryEmpty(t *testing.T) {
	summary := ComputeSummary(0, 0)

	if summary.TotalVotes != 0 {
		t.Errorf("Expected 0 total votes, got %d", summary.TotalVotes)
	}
	if summary.AcceptPercentage != 0 || summary.RejectPercentage != 0 {
		t.Errorf("Empty tally should have zero percentages, got %d / %d",
			summary.AcceptPercentage, summary.RejectPercentage)
	}
}

func TestComputeSummaryRounding(t *testing.T) {
	// 1 of 3 is 33.33..., 2 of 3 is 66.67: rounded to nearest integer
	summary := ComputeSummary(1, 2)

	if summary.AcceptPercentage != 33 {
		t.Errorf("Expected 33%% accept, got %d%%", summary.AcceptPercentage)
	}
	if summary.RejectPercentage != 67 {
		t.Errorf("Expected 67%% reject, got %d%%", summary.RejectPercentage)
	}
}

func TestTallyVotes(t *testing.T) {
	votes := []Vote{
		{Vote: VoteAccept},
		{Vote: VoteAccept},
		{Vote: VoteReject},
		{Vote: VoteAccept},
	}

	summary := TallyVotes(votes)

	if summary.TotalVotes != 4 {
		t.Errorf("Expected 4 total votes, got %d", summary.TotalVotes)
	}
	if summary.AcceptVotes != 3 || summary.RejectVotes != 1 {
		t.Errorf("Expected 3 accept / 1 reject, got %d / %d", summary.AcceptVotes, summary.RejectVotes)
	}
}

func TestTallyVotesIdempotent(t *testing.T) {
	votes := []Vote{
		{Vote: VoteAccept},
		{Vote: VoteReject},
	}

	first := TallyVotes(votes)
	second := TallyVotes(votes)

	if first != second {
		t.Errorf("Repeated tallies over the same ballots differ: %+v vs %+v", first, second)
	}
}

func TestValidDepartment(t *testing.T) {
	if !ValidDepartment("Computer Science") {
		t.Error("Computer Science should be a valid department")
	}
	if ValidDepartment("Astrology") {
		t.Error("Astrology should not be a valid department")
	}
}

func TestValidVotingScope(t *testing.T) {
	if !ValidVotingScope(ScopeDepartment) || !ValidVotingScope(ScopeCollege) {
		t.Error("Both recognized scopes should be valid")
	}
	if ValidVotingScope("campus") {
		t.Error("Unknown scope should not be valid")
	}
}
