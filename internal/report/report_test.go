package report

import (
	"bytes"
	"testing"
	"time"

	"campusgate/internal/models"
)

func sampleComplaint() *models.Complaint {
	usn := "CS22001"
	deadline := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)
	return &models.Complaint{
		ID:             7,
		StudentName:    "Asha Rao",
		StudentUSN:     &usn,
		Department:     "Computer Science",
		Title:          "Broken gate scanner",
		Description:    "The scanner at gate 2 rejects valid passes.",
		Category:       models.CategoryGatePass,
		Priority:       models.PriorityHigh,
		Status:         models.ComplaintPending,
		VotingScope:    models.ScopeCollege,
		VotingDeadline: &deadline,
		Votes: []models.Vote{
			{VoterName: "Kiran Shetty", Department: "Electrical", Vote: models.VoteAccept, Reason: strPtr("Happens to me too")},
			{VoterName: "Rahul Naik", Department: "Mechanical", Vote: models.VoteReject},
		},
		VotingSummary: &models.VotingSummary{
			TotalVotes:       2,
			AcceptVotes:      1,
			RejectVotes:      1,
			AcceptPercentage: 50,
			RejectPercentage: 50,
		},
	}
}

func strPtr(s string) *string { return &s }

func TestVotingReport(t *testing.T) {
	pdf, err := VotingReport(sampleComplaint())
	if err != nil {
		t.Fatalf("Failed to render report: %v", err)
	}

	if len(pdf) == 0 {
		t.Fatal("Report should not be empty")
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("Report should be a PDF document")
	}
}

func TestVotingReportWithoutVotes(t *testing.T) {
	c := sampleComplaint()
	c.Votes = nil
	c.VotingSummary = nil

	pdf, err := VotingReport(c)
	if err != nil {
		t.Fatalf("Failed to render report without votes: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("Report should be a PDF document")
	}
}
