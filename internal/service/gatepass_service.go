package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"campusgate/internal/models"
	"campusgate/internal/repository"
)

var (
	errExitInPast       = errors.New("exit time cannot be in the past")
	errReturnBeforeExit = errors.New("expected return time must be after exit time")
)

// GatePassService handles the gate pass lifecycle
type GatePassService struct {
	gatePassRepo  *repository.GatePassRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	pendingMaxAge time.Duration
}

// NewGatePassService creates a new gate pass service
func NewGatePassService(
	gatePassRepo *repository.GatePassRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	pendingMaxAge time.Duration,
) *GatePassService {
	return &GatePassService{
		gatePassRepo:  gatePassRepo,
		userRepo:      userRepo,
		notifications: notifications,
		pendingMaxAge: pendingMaxAge,
	}
}

// CreateGatePassInput carries a new exit request
type CreateGatePassInput struct {
	Reason             string
	Destination        string
	ExitTime           time.Time
	ExpectedReturnTime time.Time
	EmergencyContact   *string
	ParentContact      *string
}

// Create files an exit request for a student and issues its QR token
func (s *GatePassService) Create(actorID uint, input CreateGatePassInput) (*models.GatePass, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleStudent {
		return nil, fmt.Errorf("permission denied: only students can request gate passes")
	}

	if input.Reason == "" || input.Destination == "" {
		return nil, fmt.Errorf("reason and destination are required")
	}
	if input.ExitTime.IsZero() || input.ExpectedReturnTime.IsZero() {
		return nil, fmt.Errorf("exit time and expected return time are required")
	}
	if err := ValidateGatePassTimes(input.ExitTime, input.ExpectedReturnTime, time.Now()); err != nil {
		return nil, err
	}

	pass := &models.GatePass{
		StudentID:          actor.ID,
		StudentName:        actor.Name,
		StudentUSN:         actor.USN,
		Department:         actor.Department,
		Reason:             input.Reason,
		Destination:        input.Destination,
		ExitTime:           input.ExitTime,
		ExpectedReturnTime: input.ExpectedReturnTime,
		Status:             models.GatePassPending,
		EmergencyContact:   input.EmergencyContact,
		ParentContact:      input.ParentContact,
		QRToken:            uuid.NewString(),
	}

	if err := s.gatePassRepo.Create(pass); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("New gate pass request from %s to %s", pass.StudentName, pass.Destination)
	s.notifications.NotifyDepartmentHOD(pass.Department, models.NotificationNewGatePass, message, Action{
		ID:          &pass.ID,
		Destination: &pass.Destination,
		Status:      &pass.Status,
	}, models.PriorityMedium)

	return pass, nil
}

// refreshStatuses applies lazy expiry to a pass list and persists any
// derived change opportunistically.
func (s *GatePassService) refreshStatuses(passes []models.GatePass) []models.GatePass {
	now := time.Now()
	for i := range passes {
		derived := DeriveStatus(&passes[i], now)
		if derived == passes[i].Status {
			continue
		}
		if err := s.gatePassRepo.PersistStatus(passes[i].ID, derived); err != nil {
			slog.Warn("Failed to persist expired gate pass", "gate_pass_id", passes[i].ID, "error", err)
		}
		passes[i].Status = derived
	}
	return passes
}

// ListMine returns the caller's own passes after a stale-pending sweep
func (s *GatePassService) ListMine(actorID uint) ([]models.GatePass, error) {
	s.sweep()

	passes, err := s.gatePassRepo.ListByStudent(actorID)
	if err != nil {
		return nil, err
	}
	return s.refreshStatuses(passes), nil
}

// ListPending returns an HOD's department approval queue
func (s *GatePassService) ListPending(actorID uint) ([]models.GatePass, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can view the approval queue")
	}

	s.sweep()

	return s.gatePassRepo.ListPendingByDepartment(actor.Department)
}

// GatePassPage is one page of a department listing
type GatePassPage struct {
	Passes     []models.GatePass `json:"gate_passes"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// List pages through an HOD's department passes with an optional status filter
func (s *GatePassService) List(actorID uint, status string, page, limit int) (*GatePassPage, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can list department gate passes")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	passes, total, err := s.gatePassRepo.ListByDepartment(actor.Department, status, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &GatePassPage{
		Passes:     s.refreshStatuses(passes),
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// Approve grants a pending request. Only the department's HOD may decide.
func (s *GatePassService) Approve(actorID, passID uint) (*models.GatePass, error) {
	return s.decide(actorID, passID, models.GatePassApproved, "")
}

// Reject declines a pending request with a mandatory reason
func (s *GatePassService) Reject(actorID, passID uint, reason string) (*models.GatePass, error) {
	if reason == "" {
		return nil, fmt.Errorf("rejection reason is required")
	}
	return s.decide(actorID, passID, models.GatePassRejected, reason)
}

func (s *GatePassService) decide(actorID, passID uint, status, rejectionReason string) (*models.GatePass, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can decide gate passes")
	}

	pass, err := s.gatePassRepo.GetByID(passID)
	if err != nil {
		return nil, err
	}
	if pass.Department != actor.Department {
		return nil, fmt.Errorf("permission denied: gate pass belongs to another department")
	}
	if pass.Status != models.GatePassPending {
		return nil, fmt.Errorf("only pending gate passes can be decided")
	}

	var reasonPtr *string
	if rejectionReason != "" {
		reasonPtr = &rejectionReason
	}
	if err := s.gatePassRepo.RecordDecision(passID, status, actor.ID, reasonPtr); err != nil {
		return nil, err
	}

	updated, err := s.gatePassRepo.GetByID(passID)
	if err != nil {
		return nil, err
	}

	notifType := models.NotificationGatePassApproved
	message := fmt.Sprintf("Your gate pass to %s was approved", updated.Destination)
	if status == models.GatePassRejected {
		notifType = models.NotificationGatePassRejected
		message = fmt.Sprintf("Your gate pass to %s was rejected: %s", updated.Destination, rejectionReason)
	}
	s.notifications.Notify(notifType, message, updated.StudentID, Action{
		ID:          &updated.ID,
		Destination: &updated.Destination,
		Status:      &updated.Status,
	}, models.PriorityHigh)

	return updated, nil
}

// Return records the student's check-in at the scanner station. Only an
// approved, not-yet-returned pass can be closed out.
func (s *GatePassService) Return(passID uint) (*models.GatePass, error) {
	pass, err := s.gatePassRepo.GetByID(passID)
	if err != nil {
		return nil, err
	}
	if pass.Status != models.GatePassApproved {
		return nil, fmt.Errorf("only approved gate passes can be returned")
	}
	if pass.IsReturned {
		return nil, fmt.Errorf("gate pass already returned")
	}

	if err := s.gatePassRepo.MarkReturned(passID); err != nil {
		return nil, err
	}

	return s.gatePassRepo.GetByID(passID)
}

// Cleanup removes stale pending requests on behalf of an HOD
func (s *GatePassService) Cleanup(actorID uint) (int64, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return 0, err
	}
	if actor.Role != models.RoleHOD {
		return 0, fmt.Errorf("permission denied: only hods can trigger cleanup")
	}

	return s.CleanupStalePending()
}

// CleanupStalePending deletes pending requests older than the configured
// maximum age. It backs both the manual endpoint and the background job.
func (s *GatePassService) CleanupStalePending() (int64, error) {
	cutoff := time.Now().Add(-s.pendingMaxAge)
	deleted, err := s.gatePassRepo.DeleteStalePending(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		slog.Info("Removed stale pending gate passes", "count", deleted)
	}
	return deleted, nil
}

// sweep is the silent form of the stale-pending purge used by list paths
func (s *GatePassService) sweep() {
	if _, err := s.CleanupStalePending(); err != nil {
		slog.Warn("Stale gate pass sweep failed", "error", err)
	}
}
