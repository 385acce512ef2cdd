package handlers

import (
	"net/http"
	"strconv"

	"campusgate/internal/middleware"
	"campusgate/internal/service"
)

// NotificationHandler handles in-app notification requests
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the caller's most recent notifications
// @Summary My notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	notifications, err := h.notificationService.List(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", notifications)
}

// MarkRead marks one notification as read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "Not found"
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(uint(id), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Notification marked as read", nil)
}

// MarkAllRead marks every notification of the caller as read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "All notifications marked as read", nil)
}

// Delete removes one notification of the caller
// @Summary Delete notification
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "Not found"
// @Router /notifications/{id} [delete]
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.notificationService.Delete(uint(id), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Notification deleted", nil)
}

// UnreadCount returns the caller's unread notification count
// @Summary Unread notification count
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	count, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]int{"unread_count": count})
}
