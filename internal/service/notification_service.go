package service

import (
	"log/slog"

	"campusgate/internal/models"
	"campusgate/internal/repository"
)

// Action carries the payload a notification links to in the client
type Action struct {
	ID          *uint
	Title       *string
	Destination *string
	Status      *string
}

// NotificationService handles in-app notification delivery
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// Notify delivers a single notification. Delivery is best-effort: failures
// are logged and never fail the calling operation.
func (s *NotificationService) Notify(notifType, message string, recipientID uint, action Action, priority string) {
	if priority == "" {
		priority = models.PriorityMedium
	}

	n := &models.Notification{
		Type:              notifType,
		Message:           message,
		RecipientID:       recipientID,
		ActionID:          action.ID,
		ActionTitle:       action.Title,
		ActionDestination: action.Destination,
		ActionStatus:      action.Status,
		Priority:          priority,
	}

	if err := s.notificationRepo.Create(n); err != nil {
		slog.Error("Failed to create notification", "type", notifType, "recipient_id", recipientID, "error", err)
	}
}

// NotifyMany fans a notification out to several recipients, best-effort
func (s *NotificationService) NotifyMany(notifType, message string, recipientIDs []uint, action Action, priority string) {
	if len(recipientIDs) == 0 {
		return
	}
	if priority == "" {
		priority = models.PriorityMedium
	}

	notifications := make([]models.Notification, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		notifications = append(notifications, models.Notification{
			Type:              notifType,
			Message:           message,
			RecipientID:       id,
			ActionID:          action.ID,
			ActionTitle:       action.Title,
			ActionDestination: action.Destination,
			ActionStatus:      action.Status,
			Priority:          priority,
		})
	}

	if err := s.notificationRepo.CreateBatch(notifications); err != nil {
		slog.Error("Failed to create notifications", "type", notifType, "recipients", len(recipientIDs), "error", err)
	}
}

// NotifyDepartmentHOD notifies the active HOD of a department, if any
func (s *NotificationService) NotifyDepartmentHOD(department, notifType, message string, action Action, priority string) {
	hod, err := s.userRepo.GetHODByDepartment(department)
	if err != nil {
		slog.Warn("No HOD found for notification", "department", department, "type", notifType, "error", err)
		return
	}
	s.Notify(notifType, message, hod.ID, action, priority)
}

// List returns the recipient's newest notifications
func (s *NotificationService) List(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.ListForRecipient(userID, 50)
}

// MarkRead flags one notification as read for its recipient
func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.notificationRepo.MarkRead(id, userID)
}

// MarkAllRead flags all of the recipient's notifications as read
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// Delete removes one of the recipient's notifications
func (s *NotificationService) Delete(id, userID uint) error {
	return s.notificationRepo.Delete(id, userID)
}

// UnreadCount counts the recipient's unread notifications
func (s *NotificationService) UnreadCount(userID uint) (int, error) {
	return s.notificationRepo.UnreadCount(userID)
}
