package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusgate/internal/models"
	"campusgate/internal/report"
	"campusgate/internal/repository"
)

// ReportSender delivers a rendered voting report to a finalizing authority
type ReportSender interface {
	SendVotingReport(to, recipientName string, c *models.Complaint, pdf []byte) error
}

// VotingService handles the complaint voting workflow: listing open ballot
// boxes, casting ballots, activation and result finalization.
type VotingService struct {
	complaintRepo *repository.ComplaintRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	reportSender  ReportSender
}

// NewVotingService creates a new voting service
func NewVotingService(
	complaintRepo *repository.ComplaintRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	reportSender ReportSender,
) *VotingService {
	return &VotingService{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		notifications: notifications,
		reportSender:  reportSender,
	}
}

// FinalizeResult describes a completed report dispatch
type FinalizeResult struct {
	SentTo  string               `json:"sent_to"`
	Scope   string               `json:"scope"`
	Summary models.VotingSummary `json:"summary"`
}

// ListOpen returns the complaints the caller may act on. Students get the
// open ballot boxes they can still vote in, with ballots and tally stripped.
// The dean gets college-scope ballots with full data.
func (s *VotingService) ListOpen(actorID uint) ([]models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleDean:
		complaints, err := s.complaintRepo.ListCollegeVoting()
		if err != nil {
			return nil, err
		}
		for i := range complaints {
			votes, err := s.complaintRepo.GetVotes(complaints[i].ID)
			if err != nil {
				return nil, err
			}
			complaints[i].Votes = votes
		}
		return complaints, nil

	case models.RoleStudent:
		now := time.Now()
		open, err := s.complaintRepo.ListOpenForVoting(now)
		if err != nil {
			return nil, err
		}
		voted, err := s.complaintRepo.VotedComplaintIDs(actorID)
		if err != nil {
			return nil, err
		}

		var visible []models.Complaint
		for i := range open {
			if VisibleInBallotList(actor, &open[i], now, voted[open[i].ID]) {
				visible = append(visible, *SanitizeForViewer(&open[i], actor.Role))
			}
		}
		return visible, nil

	default:
		return nil, fmt.Errorf("permission denied: only students and the dean can view voting complaints")
	}
}

// CastVote appends the caller's ballot after the eligibility gates pass.
// The ballot and tally update are committed atomically.
func (s *VotingService) CastVote(actorID, complaintID uint, vote, reason string) (*models.VotingSummary, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}

	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	if err := CanCastVote(actor, complaint, time.Now()); err != nil {
		return nil, err
	}
	if err := ValidateBallot(vote, reason); err != nil {
		return nil, err
	}

	voted, err := s.complaintRepo.HasVoted(complaintID, actorID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, fmt.Errorf("you have already voted on this complaint")
	}

	ballot := &models.Vote{
		ComplaintID: complaintID,
		VoterID:     actor.ID,
		VoterName:   actor.Name,
		VoterUSN:    actor.USN,
		Department:  actor.Department,
		Vote:        vote,
	}
	if reason != "" {
		ballot.Reason = &reason
	}

	summary, err := s.complaintRepo.AddVote(ballot)
	if errors.Is(err, repository.ErrAlreadyVoted) {
		return nil, fmt.Errorf("you have already voted on this complaint")
	}
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// EnableVoting opens the ballot box on a complaint. Only the complaint's
// author or the dean may do so. A missing deadline defaults to one week out;
// an unrecognized scope falls back to department.
func (s *VotingService) EnableVoting(actorID, complaintID uint, scope string, deadline *time.Time) (*models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}

	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	isAuthor := actor.Role == models.RoleStudent && actor.ID == complaint.StudentID
	if !isAuthor && actor.Role != models.RoleDean {
		return nil, fmt.Errorf("permission denied: only the complaint owner or the dean can enable voting")
	}

	now := time.Now()
	resolvedScope := ResolveScope(scope)
	closeAt := DefaultDeadline(now)
	if deadline != nil {
		closeAt = *deadline
	}
	openToAll := resolvedScope == models.ScopeCollege

	if err := s.complaintRepo.EnableVoting(complaintID, resolvedScope, closeAt, openToAll); err != nil {
		return nil, err
	}

	updated, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	s.notifyVotingOpened(updated)

	return SanitizeForViewer(updated, actor.Role), nil
}

// notifyVotingOpened fans out the voting announcement to in-scope students
// and the dean. Failures are logged; activation is already committed.
func (s *VotingService) notifyVotingOpened(c *models.Complaint) {
	dept := c.Department
	if c.VotingScope == models.ScopeCollege {
		dept = ""
	}

	students, err := s.userRepo.ListActiveStudents(dept)
	if err != nil {
		slog.Error("Failed to list students for voting announcement", "complaint_id", c.ID, "error", err)
		students = nil
	}

	var recipients []uint
	for _, student := range students {
		if student.ID != c.StudentID {
			recipients = append(recipients, student.ID)
		}
	}
	if dean, err := s.userRepo.GetDean(); err == nil {
		recipients = append(recipients, dean.ID)
	}

	message := fmt.Sprintf("Voting is now open on complaint: %s", c.Title)
	s.notifications.NotifyMany(models.NotificationComplaintVotingEnabled, message, recipients, Action{
		ID:     &c.ID,
		Title:  &c.Title,
		Status: &c.Status,
	}, c.Priority)
}

// FinalizeResults renders the voting report and emails it to the authority
// the complaint's scope routes to. College-scope results go to the dean,
// once; department-scope results go to that department's HOD, once.
func (s *VotingService) FinalizeResults(actorID, complaintID uint) (*FinalizeResult, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}

	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	if !complaint.VotingEnabled {
		return nil, fmt.Errorf("voting is not enabled for this complaint")
	}

	var recipient *models.User
	switch complaint.VotingScope {
	case models.ScopeCollege:
		if actor.Role != models.RoleDean {
			return nil, fmt.Errorf("permission denied: only the dean can finalize college-wide voting")
		}
		if complaint.SentToDean {
			return nil, fmt.Errorf("voting results already sent to the dean")
		}
		recipient = actor

	default:
		if actor.Role != models.RoleHOD || actor.Department != complaint.Department {
			return nil, fmt.Errorf("permission denied: only the department's hod can finalize department voting")
		}
		if complaint.SentToHod {
			return nil, fmt.Errorf("voting results already sent to the department hod")
		}
		recipient = actor
	}

	votes, err := s.complaintRepo.GetVotes(complaintID)
	if err != nil {
		return nil, err
	}
	complaint.Votes = votes
	summary := models.TallyVotes(votes)
	complaint.VotingSummary = &summary

	pdf, err := report.VotingReport(complaint)
	if err != nil {
		return nil, fmt.Errorf("failed to render voting report: %w", err)
	}

	if err := s.reportSender.SendVotingReport(recipient.Email, recipient.Name, complaint, pdf); err != nil {
		return nil, fmt.Errorf("failed to send voting report: %w", err)
	}

	if complaint.VotingScope == models.ScopeCollege {
		err = s.complaintRepo.MarkSentToDean(complaintID)
	} else {
		err = s.complaintRepo.MarkSentToHod(complaintID)
	}
	if err != nil {
		return nil, err
	}

	return &FinalizeResult{
		SentTo:  recipient.Email,
		Scope:   complaint.VotingScope,
		Summary: summary,
	}, nil
}
