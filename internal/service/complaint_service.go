package service

import (
	"fmt"
	"time"

	"campusgate/internal/models"
	"campusgate/internal/repository"
)

const (
	maxComplaintTitleLen       = 200
	maxComplaintDescriptionLen = 1000
)

// ComplaintService handles the complaint lifecycle outside of voting
type ComplaintService struct {
	complaintRepo *repository.ComplaintRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	complaintRepo *repository.ComplaintRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// CreateComplaintInput carries the submission payload
type CreateComplaintInput struct {
	Title           string
	Description     string
	Category        string
	Priority        string
	RelatedGatePass *uint
	OpenToAll       bool
}

func validCategory(category string) bool {
	switch category {
	case models.CategoryGatePass, models.CategorySystemIssue, models.CategorySecurity, models.CategoryOther:
		return true
	}
	return false
}

func validPriority(priority string) bool {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// Create files a complaint for a student. The submitter's identity is frozen
// onto the complaint so later profile changes don't rewrite history.
func (s *ComplaintService) Create(actorID uint, input CreateComplaintInput) (*models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleStudent {
		return nil, fmt.Errorf("permission denied: only students can file complaints")
	}

	if input.Title == "" || input.Description == "" || input.Category == "" {
		return nil, fmt.Errorf("title, description and category are required")
	}
	if len(input.Title) > maxComplaintTitleLen {
		return nil, fmt.Errorf("title must be at most %d characters", maxComplaintTitleLen)
	}
	if len(input.Description) > maxComplaintDescriptionLen {
		return nil, fmt.Errorf("description must be at most %d characters", maxComplaintDescriptionLen)
	}
	if !validCategory(input.Category) {
		return nil, fmt.Errorf("invalid category")
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !validPriority(input.Priority) {
		return nil, fmt.Errorf("invalid priority")
	}

	scope := models.ScopeDepartment
	if input.OpenToAll {
		scope = models.ScopeCollege
	}

	complaint := &models.Complaint{
		StudentID:       actor.ID,
		StudentName:     actor.Name,
		StudentUSN:      actor.USN,
		Department:      actor.Department,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Priority:        input.Priority,
		Status:          models.ComplaintPending,
		RelatedGatePass: input.RelatedGatePass,
		OpenToAll:       input.OpenToAll,
		VotingScope:     scope,
	}

	if err := s.complaintRepo.Create(complaint); err != nil {
		return nil, err
	}

	s.notifyCreated(complaint)

	return complaint, nil
}

func (s *ComplaintService) notifyCreated(c *models.Complaint) {
	notifPriority := models.PriorityMedium
	if c.Priority == models.PriorityHigh {
		notifPriority = models.PriorityHigh
	}
	action := Action{ID: &c.ID, Title: &c.Title, Status: &c.Status}

	message := fmt.Sprintf("New complaint from %s: %s", c.StudentName, c.Title)
	s.notifications.NotifyDepartmentHOD(c.Department, models.NotificationNewComplaint, message, action, notifPriority)

	if c.OpenToAll {
		students, err := s.userRepo.ListActiveStudents("")
		if err == nil {
			var recipients []uint
			for _, student := range students {
				if student.ID != c.StudentID {
					recipients = append(recipients, student.ID)
				}
			}
			if dean, err := s.userRepo.GetDean(); err == nil {
				recipients = append(recipients, dean.ID)
			}
			s.notifications.NotifyMany(models.NotificationNewComplaint,
				fmt.Sprintf("New college-wide complaint: %s", c.Title), recipients, action, notifPriority)
		}
	}
}

// ListMine returns the caller's own complaints, sanitized for their role
func (s *ComplaintService) ListMine(actorID uint) ([]models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}

	complaints, err := s.complaintRepo.ListByStudent(actorID)
	if err != nil {
		return nil, err
	}

	return SanitizeListForViewer(complaints, actor.Role), nil
}

// ListDepartment returns an HOD's department complaints
func (s *ComplaintService) ListDepartment(actorID uint) ([]models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can view department complaints")
	}

	complaints, err := s.complaintRepo.ListByDepartment(actor.Department)
	if err != nil {
		return nil, err
	}

	return SanitizeListForViewer(complaints, actor.Role), nil
}

// ListActionable returns an HOD's unresolved complaints, high priority first
func (s *ComplaintService) ListActionable(actorID uint) ([]models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can view the pending queue")
	}

	complaints, err := s.complaintRepo.ListActionableByDepartment(actor.Department)
	if err != nil {
		return nil, err
	}

	return SanitizeListForViewer(complaints, actor.Role), nil
}

// Get returns one complaint if the caller may see it: the author, the
// department's HOD, or the dean.
func (s *ComplaintService) Get(actorID, complaintID uint) (*models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}

	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case models.RoleStudent:
		if complaint.StudentID != actor.ID {
			return nil, fmt.Errorf("permission denied: not your complaint")
		}
	case models.RoleHOD:
		if complaint.Department != actor.Department {
			return nil, fmt.Errorf("permission denied: complaint belongs to another department")
		}
	case models.RoleDean:
		votes, err := s.complaintRepo.GetVotes(complaintID)
		if err != nil {
			return nil, err
		}
		complaint.Votes = votes
	}

	return SanitizeForViewer(complaint, actor.Role), nil
}

// UpdateStatus moves a department complaint through its lifecycle. The
// student is notified only when the status actually changed.
func (s *ComplaintService) UpdateStatus(actorID, complaintID uint, status string, response string) (*models.Complaint, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can update complaint status")
	}

	complaint, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Department != actor.Department {
		return nil, fmt.Errorf("permission denied: complaint belongs to another department")
	}

	switch status {
	case models.ComplaintPending, models.ComplaintInProgress, models.ComplaintResolved, models.ComplaintClosed:
	case "":
		return nil, fmt.Errorf("status is required")
	default:
		return nil, fmt.Errorf("invalid status")
	}

	var responsePtr *string
	var responseDate *time.Time
	if response != "" {
		now := time.Now()
		responsePtr = &response
		responseDate = &now
	}

	statusChanged := complaint.Status != status

	if err := s.complaintRepo.UpdateStatus(complaintID, status, actor.ID, responsePtr, responseDate); err != nil {
		return nil, err
	}

	updated, err := s.complaintRepo.GetByID(complaintID)
	if err != nil {
		return nil, err
	}

	if statusChanged {
		notifType := models.NotificationComplaintStatusUpdate
		message := fmt.Sprintf("Your complaint %q is now %s", updated.Title, status)
		if responsePtr != nil {
			notifType = models.NotificationComplaintResponse
			message = fmt.Sprintf("Your complaint %q received a response", updated.Title)
		}
		s.notifications.Notify(notifType, message, updated.StudentID, Action{
			ID:     &updated.ID,
			Title:  &updated.Title,
			Status: &updated.Status,
		}, models.PriorityHigh)
	}

	return SanitizeForViewer(updated, actor.Role), nil
}

// Stats aggregates the HOD's department complaint counts
func (s *ComplaintService) Stats(actorID uint) (*models.ComplaintStats, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can view complaint stats")
	}

	return s.complaintRepo.Stats(actor.Department)
}
