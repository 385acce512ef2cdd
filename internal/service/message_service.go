package service

import (
	"fmt"

	"campusgate/internal/models"
	"campusgate/internal/repository"
)

// MessageService handles department broadcast messages
type MessageService struct {
	messageRepo   *repository.MessageRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
}

// NewMessageService creates a new message service
func NewMessageService(
	messageRepo *repository.MessageRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
) *MessageService {
	return &MessageService{
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// ListMine returns messages addressed to the caller with read state
func (s *MessageService) ListMine(actorID uint) ([]models.Message, error) {
	return s.messageRepo.ListForRecipient(actorID)
}

// BroadcastResult reports a completed department broadcast
type BroadcastResult struct {
	Message        *models.Message `json:"message"`
	RecipientCount int             `json:"recipient_count"`
}

// Broadcast sends an HOD message to every active student of the HOD's
// department and notifies each recipient.
func (s *MessageService) Broadcast(actorID uint, title, content, priority string) (*BroadcastResult, error) {
	actor, err := s.userRepo.GetByID(actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleHOD {
		return nil, fmt.Errorf("permission denied: only hods can send broadcasts")
	}

	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, fmt.Errorf("invalid priority")
	}

	students, err := s.userRepo.ListActiveStudents(actor.Department)
	if err != nil {
		return nil, err
	}

	recipientIDs := make([]uint, 0, len(students))
	for _, student := range students {
		recipientIDs = append(recipientIDs, student.ID)
	}

	message := &models.Message{
		Title:            title,
		Content:          content,
		Priority:         priority,
		SenderID:         actor.ID,
		SenderName:       actor.Name,
		SenderDepartment: actor.Department,
		Department:       actor.Department,
	}

	if err := s.messageRepo.CreateBroadcast(message, recipientIDs); err != nil {
		return nil, err
	}

	s.notifications.NotifyMany(models.NotificationNewMessage,
		fmt.Sprintf("New message from %s: %s", actor.Name, title),
		recipientIDs, Action{ID: &message.ID, Title: &message.Title}, priority)

	return &BroadcastResult{Message: message, RecipientCount: len(recipientIDs)}, nil
}

// MarkRead flags a message read for its recipient
func (s *MessageService) MarkRead(actorID, messageID uint) error {
	return s.messageRepo.MarkRead(messageID, actorID)
}

// UnreadCount counts the caller's unread messages
func (s *MessageService) UnreadCount(actorID uint) (int, error) {
	return s.messageRepo.UnreadCount(actorID)
}
