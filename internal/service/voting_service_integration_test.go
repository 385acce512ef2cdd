package service_test

import (
	"bytes"
	"strings"
	"testing"

	"campusgate/internal/models"
	"campusgate/internal/repository"
	"campusgate/internal/service"
	"campusgate/internal/testutil"
)

// recordingReportSender captures dispatched reports instead of emailing them
type recordingReportSender struct {
	recipients []string
	reports    [][]byte
}

func (s *recordingReportSender) SendVotingReport(to, recipientName string, c *models.Complaint, pdf []byte) error {
	s.recipients = append(s.recipients, to)
	s.reports = append(s.reports, pdf)
	return nil
}

func buildVotingService(t *testing.T, containers *testutil.TestContainers, sender service.ReportSender) *service.VotingService {
	t.Helper()

	complaintRepo := repository.NewComplaintRepository(containers.DB)
	userRepo := repository.NewUserRepository(containers.DB)
	notificationRepo := repository.NewNotificationRepository(containers.DB)
	notifications := service.NewNotificationService(notificationRepo, userRepo)

	return service.NewVotingService(complaintRepo, userRepo, notifications, sender)
}

// TestEnableVotingStripsBallotDataForStudents covers the visibility rule on
// the activation response: a student author never sees ballots or the tally,
// even when re-enabling after votes exist.
func TestEnableVotingStripsBallotDataForStudents(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := buildVotingService(t, containers, &recordingReportSender{})
	complaintRepo := repository.NewComplaintRepository(containers.DB)

	enabled, err := svc.EnableVoting(fixtures.StudentCS.ID, fixtures.Complaint.ID, models.ScopeCollege, nil)
	if err != nil {
		t.Fatalf("Failed to enable voting: %v", err)
	}
	if !enabled.VotingEnabled {
		t.Error("Complaint should report voting enabled")
	}
	if enabled.VotingSummary != nil {
		t.Errorf("Student response must not carry a tally, got %+v", enabled.VotingSummary)
	}
	if enabled.Votes != nil {
		t.Errorf("Student response must not carry ballots, got %d", len(enabled.Votes))
	}

	// Land a ballot, then re-enable: the live tally must still be stripped
	if _, err := complaintRepo.AddVote(&models.Vote{
		ComplaintID: fixtures.Complaint.ID,
		VoterID:     fixtures.StudentEE.ID,
		VoterName:   fixtures.StudentEE.Name,
		VoterUSN:    fixtures.StudentEE.USN,
		Department:  fixtures.StudentEE.Department,
		Vote:        models.VoteAccept,
	}); err != nil {
		t.Fatalf("Failed to add vote: %v", err)
	}

	reEnabled, err := svc.EnableVoting(fixtures.StudentCS.ID, fixtures.Complaint.ID, models.ScopeCollege, nil)
	if err != nil {
		t.Fatalf("Failed to re-enable voting: %v", err)
	}
	if reEnabled.VotingSummary != nil || reEnabled.Votes != nil {
		t.Error("Student response must not carry ballots or tally after votes exist")
	}

	// The dean sees the full data
	deanView, err := svc.EnableVoting(fixtures.Dean.ID, fixtures.Complaint.ID, models.ScopeCollege, nil)
	if err != nil {
		t.Fatalf("Failed to enable voting as dean: %v", err)
	}
	if deanView.VotingSummary == nil || deanView.VotingSummary.TotalVotes != 1 {
		t.Errorf("Dean response should carry the tally, got %+v", deanView.VotingSummary)
	}
}

// TestFinalizeResultsCollegeScopeSendsOnce covers the dean routing branch:
// the report goes to the dean exactly once, and a repeat call is rejected
// without a second dispatch.
func TestFinalizeResultsCollegeScopeSendsOnce(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	sender := &recordingReportSender{}
	svc := buildVotingService(t, containers, sender)
	complaintRepo := repository.NewComplaintRepository(containers.DB)

	if _, err := svc.EnableVoting(fixtures.StudentCS.ID, fixtures.Complaint.ID, models.ScopeCollege, nil); err != nil {
		t.Fatalf("Failed to enable voting: %v", err)
	}
	if _, err := complaintRepo.AddVote(&models.Vote{
		ComplaintID: fixtures.Complaint.ID,
		VoterID:     fixtures.StudentEE.ID,
		VoterName:   fixtures.StudentEE.Name,
		VoterUSN:    fixtures.StudentEE.USN,
		Department:  fixtures.StudentEE.Department,
		Vote:        models.VoteAccept,
	}); err != nil {
		t.Fatalf("Failed to add vote: %v", err)
	}

	// The department HOD cannot finalize a college-wide vote
	if _, err := svc.FinalizeResults(fixtures.HodCS.ID, fixtures.Complaint.ID); err == nil {
		t.Error("HOD should not finalize a college-scope vote")
	}

	result, err := svc.FinalizeResults(fixtures.Dean.ID, fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to finalize: %v", err)
	}
	if result.SentTo != fixtures.Dean.Email {
		t.Errorf("Report should go to the dean, went to %s", result.SentTo)
	}
	if result.Scope != models.ScopeCollege {
		t.Errorf("Expected college scope, got %s", result.Scope)
	}
	if result.Summary.TotalVotes != 1 || result.Summary.AcceptPercentage != 100 {
		t.Errorf("Unexpected summary: %+v", result.Summary)
	}
	if len(sender.recipients) != 1 {
		t.Fatalf("Expected 1 dispatched report, got %d", len(sender.recipients))
	}
	if !bytes.HasPrefix(sender.reports[0], []byte("%PDF")) {
		t.Error("Dispatched report should be a PDF")
	}

	// Second finalize: rejected, no second dispatch
	_, err = svc.FinalizeResults(fixtures.Dean.ID, fixtures.Complaint.ID)
	if err == nil || !strings.Contains(err.Error(), "already sent") {
		t.Fatalf("Expected already-sent rejection, got %v", err)
	}
	if len(sender.recipients) != 1 {
		t.Errorf("Repeat finalize must not dispatch again, got %d reports", len(sender.recipients))
	}
}

// TestFinalizeResultsDepartmentScopeRouting covers the HOD routing branch:
// only the complaint department's HOD may finalize, once.
func TestFinalizeResultsDepartmentScopeRouting(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	sender := &recordingReportSender{}
	svc := buildVotingService(t, containers, sender)

	hodEE := testutil.CreateUser(t, containers.DB, "Prof. Nair", "hod.ee@test.edu", "hod", "Electrical", nil)

	if _, err := svc.EnableVoting(fixtures.StudentCS.ID, fixtures.Complaint.ID, models.ScopeDepartment, nil); err != nil {
		t.Fatalf("Failed to enable voting: %v", err)
	}

	if _, err := svc.FinalizeResults(fixtures.Dean.ID, fixtures.Complaint.ID); err == nil {
		t.Error("Dean should not finalize a department-scope vote")
	}
	if _, err := svc.FinalizeResults(hodEE.ID, fixtures.Complaint.ID); err == nil {
		t.Error("A different department's HOD should not finalize")
	}
	if len(sender.recipients) != 0 {
		t.Fatalf("No report should have been dispatched yet, got %d", len(sender.recipients))
	}

	result, err := svc.FinalizeResults(fixtures.HodCS.ID, fixtures.Complaint.ID)
	if err != nil {
		t.Fatalf("Failed to finalize: %v", err)
	}
	if result.SentTo != fixtures.HodCS.Email {
		t.Errorf("Report should go to the department HOD, went to %s", result.SentTo)
	}
	if len(sender.recipients) != 1 {
		t.Fatalf("Expected 1 dispatched report, got %d", len(sender.recipients))
	}

	_, err = svc.FinalizeResults(fixtures.HodCS.ID, fixtures.Complaint.ID)
	if err == nil || !strings.Contains(err.Error(), "already sent") {
		t.Fatalf("Expected already-sent rejection, got %v", err)
	}
	if len(sender.recipients) != 1 {
		t.Errorf("Repeat finalize must not dispatch again, got %d reports", len(sender.recipients))
	}
}
