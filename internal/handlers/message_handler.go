package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campusgate/internal/middleware"
	"campusgate/internal/service"
)

// MessageHandler handles department broadcast messages
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest represents an HOD broadcast
type SendMessageRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Priority string `json:"priority"`
}

// ListMine returns the messages addressed to the caller
// @Summary My messages
// @Description Messages addressed to the caller with per-recipient read state
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /messages [get]
func (h *MessageHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	messages, err := h.messageService.ListMine(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", messages)
}

// Send broadcasts a message to the HOD's active students
// @Summary Broadcast message
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse "Missing title or content"
// @Failure 403 {object} APIResponse "HOD only"
// @Router /messages/send [post]
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	result, err := h.messageService.Broadcast(userID, req.Title, req.Content, req.Priority)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, "Message sent successfully", result)
}

// MarkRead marks one message as read for the caller
// @Summary Mark message read
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "Not a recipient"
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid message ID")
		return
	}

	if err := h.messageService.MarkRead(userID, uint(id)); err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Message marked as read", nil)
}

// UnreadCount returns the caller's unread message count
// @Summary Unread message count
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	count, err := h.messageService.UnreadCount(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", map[string]int{"unread_count": count})
}
