package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"campusgate/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a single notification
func (r *NotificationRepository) Create(n *models.Notification) error {
	query := `
		INSERT INTO notifications (type, message, recipient_id, action_id, action_title, action_destination, action_status, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(query, n.Type, n.Message, n.RecipientID, n.ActionID, n.ActionTitle, n.ActionDestination, n.ActionStatus, n.Priority, now).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	n.CreatedAt = now
	return nil
}

// CreateBatch stores a fan-out of notifications in one transaction
func (r *NotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback transaction", "error", err)
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO notifications (type, message, recipient_id, action_id, action_title, action_destination, action_status, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare notification insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, n := range notifications {
		if _, err := stmt.Exec(n.Type, n.Message, n.RecipientID, n.ActionID, n.ActionTitle, n.ActionDestination, n.ActionStatus, n.Priority, now); err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}

	return tx.Commit()
}

// ListForRecipient lists the user's newest notifications, capped at limit
func (r *NotificationRepository) ListForRecipient(userID uint, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, type, message, recipient_id, action_id, action_title, action_destination, action_status, priority, is_read, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(&n.ID, &n.Type, &n.Message, &n.RecipientID, &n.ActionID, &n.ActionTitle, &n.ActionDestination, &n.ActionStatus, &n.Priority, &n.IsRead, &n.ReadAt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead flags one of the user's notifications as read
func (r *NotificationRepository) MarkRead(id, userID uint) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE id = $2 AND recipient_id = $3`

	result, err := r.db.Exec(query, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return checkAffected(result, ErrNotificationNotFound)
}

// MarkAllRead flags all of the user's notifications as read
func (r *NotificationRepository) MarkAllRead(userID uint) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE recipient_id = $2 AND is_read = FALSE`
	if _, err := r.db.Exec(query, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Delete removes one of the user's notifications
func (r *NotificationRepository) Delete(id, userID uint) error {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return checkAffected(result, ErrNotificationNotFound)
}

// UnreadCount counts the user's unread notifications
func (r *NotificationRepository) UnreadCount(userID uint) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
