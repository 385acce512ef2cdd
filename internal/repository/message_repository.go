package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusgate/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository handles broadcast message database operations
type MessageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateBroadcast stores a message and its recipient rows in one transaction
func (r *MessageRepository) CreateBroadcast(m *models.Message, recipientIDs []uint) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback transaction", "error", err)
		}
	}()

	now := time.Now()
	insert := `
		INSERT INTO messages (title, content, priority, sender_id, sender_name, sender_department, department, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err = tx.QueryRow(insert, m.Title, m.Content, m.Priority, m.SenderID, m.SenderName, m.SenderDepartment, m.Department, true, now, now).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	m.IsActive = true
	m.CreatedAt = now
	m.UpdatedAt = now

	stmt, err := tx.Prepare(`INSERT INTO message_recipients (message_id, user_id) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare recipient insert: %w", err)
	}
	defer stmt.Close()

	for _, userID := range recipientIDs {
		if _, err := stmt.Exec(m.ID, userID); err != nil {
			return fmt.Errorf("failed to insert recipient: %w", err)
		}
	}

	return tx.Commit()
}

// ListForRecipient lists active messages addressed to the user with the
// user's own read state, newest first.
func (r *MessageRepository) ListForRecipient(userID uint) ([]models.Message, error) {
	query := `
		SELECT m.id, m.title, m.content, m.priority, m.sender_id, m.sender_name,
		       m.sender_department, m.department, m.is_active, m.created_at, m.updated_at,
		       mr.is_read, mr.read_at
		FROM messages m
		JOIN message_recipients mr ON mr.message_id = m.id
		WHERE mr.user_id = $1 AND m.is_active = TRUE
		ORDER BY m.created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.Title, &m.Content, &m.Priority, &m.SenderID, &m.SenderName,
			&m.SenderDepartment, &m.Department, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
			&m.IsRead, &m.ReadAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// MarkRead flags a message as read for one recipient. Returns
// ErrMessageNotFound when the user is not a recipient of the message.
func (r *MessageRepository) MarkRead(messageID, userID uint) error {
	query := `
		UPDATE message_recipients
		SET is_read = TRUE, read_at = $1
		WHERE message_id = $2 AND user_id = $3
	`

	result, err := r.db.Exec(query, time.Now(), messageID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return checkAffected(result, ErrMessageNotFound)
}

// UnreadCount counts the user's unread messages
func (r *MessageRepository) UnreadCount(userID uint) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM message_recipients mr
		JOIN messages m ON m.id = mr.message_id
		WHERE mr.user_id = $1 AND mr.is_read = FALSE AND m.is_active = TRUE
	`
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
