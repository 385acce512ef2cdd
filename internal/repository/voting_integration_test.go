package repository_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"campusgate/internal/models"
	"campusgate/internal/repository"
	"campusgate/internal/testutil"
)

// TestBallotIntegrity verifies the two voting invariants the database layer
// is responsible for: one ballot per voter and a tally that matches the
// stored ballots after every insert.
func TestBallotIntegrity(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	complaintRepo := repository.NewComplaintRepository(containers.DB)

	deadline := time.Now().Add(24 * time.Hour)
	if err := complaintRepo.EnableVoting(fixtures.Complaint.ID, models.ScopeCollege, deadline, true); err != nil {
		t.Fatalf("Failed to enable voting: %v", err)
	}

	vote := &models.Vote{
		ComplaintID: fixtures.Complaint.ID,
		VoterID:     fixtures.StudentEE.ID,
		VoterName:   fixtures.StudentEE.Name,
		VoterUSN:    fixtures.StudentEE.USN,
		Department:  fixtures.StudentEE.Department,
		Vote:        models.VoteAccept,
	}

	summary, err := complaintRepo.AddVote(vote)
	if err != nil {
		t.Fatalf("Failed to add vote: %v", err)
	}
	if summary.TotalVotes != 1 || summary.AcceptVotes != 1 {
		t.Errorf("Expected 1 accept vote, got %+v", summary)
	}
	if summary.AcceptPercentage != 100 {
		t.Errorf("Expected 100%% accept, got %d%%", summary.AcceptPercentage)
	}

	// Same voter again: rejected, tally unchanged
	duplicate := *vote
	duplicate.Vote = models.VoteReject
	if _, err := complaintRepo.AddVote(&duplicate); !errors.Is(err, repository.ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}

	reloaded, err := complaintRepo.GetByID(fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to reload complaint: %v", err)
	}
	if reloaded.VotingSummary == nil || reloaded.VotingSummary.TotalVotes != 1 {
		t.Errorf("Stored tally should still count one ballot, got %+v", reloaded.VotingSummary)
	}

	// A second voter moves the tally to 50/50
	dean := fixtures.Dean
	summary, err = complaintRepo.AddVote(&models.Vote{
		ComplaintID: fixtures.Complaint.ID,
		VoterID:     dean.ID,
		VoterName:   dean.Name,
		Department:  dean.Department,
		Vote:        models.VoteReject,
	})
	if err != nil {
		t.Fatalf("Failed to add second vote: %v", err)
	}
	if summary.TotalVotes != 2 || summary.AcceptPercentage != 50 || summary.RejectPercentage != 50 {
		t.Errorf("Expected a 50/50 split over 2 ballots, got %+v", summary)
	}

	votes, err := complaintRepo.GetVotes(fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to load votes: %v", err)
	}
	if len(votes) != 2 {
		t.Errorf("Expected 2 stored ballots, got %d", len(votes))
	}
}

func TestFinalizeMarkersAreSticky(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	complaintRepo := repository.NewComplaintRepository(containers.DB)

	if err := complaintRepo.MarkSentToDean(fixtures.Complaint.ID); err != nil {
		t.Fatalf("Failed to mark sent to dean: %v", err)
	}

	reloaded, err := complaintRepo.GetByID(fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to reload complaint: %v", err)
	}
	if !reloaded.SentToDean || reloaded.SentToDeanAt == nil {
		t.Error("Complaint should carry the sent-to-dean marker and timestamp")
	}
	if reloaded.SentToHod {
		t.Error("The HOD channel marker must stay untouched")
	}
}

func TestDeleteStalePending(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	gatePassRepo := repository.NewGatePassRepository(containers.DB)

	// Age the fixture pass past the cutoff
	if _, err := containers.DB.Exec(
		`UPDATE gate_passes SET created_at = NOW() - INTERVAL '2 days' WHERE id = $1`,
		fixtures.GatePass.ID,
	); err != nil {
		t.Fatalf("Failed to age gate pass: %v", err)
	}

	deleted, err := gatePassRepo.DeleteStalePending(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Failed to delete stale pending passes: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted pass, got %d", deleted)
	}

	if _, err := gatePassRepo.GetByID(fixtures.GatePass.ID); !errors.Is(err, repository.ErrGatePassNotFound) {
		t.Errorf("Expected ErrGatePassNotFound after cleanup, got %v", err)
	}
}

// TestConcurrentBallots fires simultaneous votes at one complaint and checks
// that no ballot is lost, the stored tally matches the stored ballots, and a
// voter racing against themselves still lands exactly one ballot.
func TestConcurrentBallots(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	complaintRepo := repository.NewComplaintRepository(containers.DB)

	deadline := time.Now().Add(24 * time.Hour)
	if err := complaintRepo.EnableVoting(fixtures.Complaint.ID, models.ScopeCollege, deadline, true); err != nil {
		t.Fatalf("Failed to enable voting: %v", err)
	}

	const voterCount = 8
	voters := make([]*models.User, voterCount)
	for i := range voters {
		usn := fmt.Sprintf("CS23%03d", i+1)
		voters[i] = testutil.CreateUser(t, containers.DB,
			fmt.Sprintf("Voter %d", i+1), fmt.Sprintf("voter%d@test.edu", i+1),
			"student", "Computer Science", &usn)
	}

	var wg sync.WaitGroup
	voteErrs := make([]error, voterCount)
	for i, voter := range voters {
		wg.Add(1)
		go func(i int, voter *models.User) {
			defer wg.Done()
			_, voteErrs[i] = complaintRepo.AddVote(&models.Vote{
				ComplaintID: fixtures.Complaint.ID,
				VoterID:     voter.ID,
				VoterName:   voter.Name,
				VoterUSN:    voter.USN,
				Department:  voter.Department,
				Vote:        models.VoteAccept,
			})
		}(i, voter)
	}
	wg.Wait()

	for i, err := range voteErrs {
		if err != nil {
			t.Fatalf("Vote %d failed: %v", i+1, err)
		}
	}

	reloaded, err := complaintRepo.GetByID(fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to reload complaint: %v", err)
	}
	if reloaded.VotingSummary == nil || reloaded.VotingSummary.TotalVotes != voterCount {
		t.Errorf("Expected stored tally of %d ballots, got %+v", voterCount, reloaded.VotingSummary)
	}

	votes, err := complaintRepo.GetVotes(fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to load votes: %v", err)
	}
	if len(votes) != voterCount {
		t.Errorf("Expected %d stored ballots, got %d", voterCount, len(votes))
	}

	// One voter racing against themselves: exactly one ballot lands
	const attempts = 4
	dupErrs := make([]error, attempts)
	wg = sync.WaitGroup{}
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, dupErrs[i] = complaintRepo.AddVote(&models.Vote{
				ComplaintID: fixtures.Complaint.ID,
				VoterID:     fixtures.StudentEE.ID,
				VoterName:   fixtures.StudentEE.Name,
				VoterUSN:    fixtures.StudentEE.USN,
				Department:  fixtures.StudentEE.Department,
				Vote:        models.VoteReject,
			})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range dupErrs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, repository.ErrAlreadyVoted):
		default:
			t.Fatalf("Unexpected vote error: %v", err)
		}
	}
	if accepted != 1 {
		t.Errorf("Expected exactly 1 accepted ballot from %d racing attempts, got %d", attempts, accepted)
	}

	reloaded, err = complaintRepo.GetByID(fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to reload complaint: %v", err)
	}
	if reloaded.VotingSummary == nil || reloaded.VotingSummary.TotalVotes != voterCount+1 {
		t.Errorf("Expected stored tally of %d ballots, got %+v", voterCount+1, reloaded.VotingSummary)
	}
}
