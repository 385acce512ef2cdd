package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"campusgate/internal/middleware"
	"campusgate/internal/service"
)

// GatePassHandler handles gate pass requests
type GatePassHandler struct {
	gatePassService *service.GatePassService
}

// NewGatePassHandler creates a new gate pass handler
func NewGatePassHandler(gatePassService *service.GatePassService) *GatePassHandler {
	return &GatePassHandler{gatePassService: gatePassService}
}

// CreateGatePassRequest represents a new exit request
type CreateGatePassRequest struct {
	Reason             string    `json:"reason" validate:"required"`
	Destination        string    `json:"destination" validate:"required"`
	ExitTime           time.Time `json:"exit_time" validate:"required"`
	ExpectedReturnTime time.Time `json:"expected_return_time" validate:"required"`
	EmergencyContact   *string   `json:"emergency_contact"`
	ParentContact      *string   `json:"parent_contact"`
}

// RejectGatePassRequest carries the mandatory rejection reason
type RejectGatePassRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Create files a new gate pass request
// @Summary Request gate pass
// @Description Submit an exit request; a QR token is issued for the scanner station
// @Tags GatePass
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGatePassRequest true "Exit details"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid times"
// @Failure 403 {object} APIResponse "Students only"
// @Router /gatepass [post]
func (h *GatePassHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req CreateGatePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	pass, err := h.gatePassService.Create(userID, service.CreateGatePassInput{
		Reason:             req.Reason,
		Destination:        req.Destination,
		ExitTime:           req.ExitTime,
		ExpectedReturnTime: req.ExpectedReturnTime,
		EmergencyContact:   req.EmergencyContact,
		ParentContact:      req.ParentContact,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, "Gate pass requested successfully", pass)
}

// ListMine returns the caller's own gate passes
// @Summary My gate passes
// @Tags GatePass
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /gatepass/my [get]
func (h *GatePassHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	passes, err := h.gatePassService.ListMine(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", passes)
}

// ListPending returns the department's pending queue, oldest first
// @Summary Pending gate passes
// @Tags GatePass
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "HOD only"
// @Router /gatepass/pending [get]
func (h *GatePassHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	passes, err := h.gatePassService.ListPending(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", passes)
}

// List pages through the department's gate passes
// @Summary Department gate passes
// @Tags GatePass
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "HOD only"
// @Router /gatepass [get]
func (h *GatePassHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	status := r.URL.Query().Get("status")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.gatePassService.List(userID, status, page, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", result)
}

// Approve grants a pending gate pass
// @Summary Approve gate pass
// @Tags GatePass
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gate pass ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Not pending"
// @Failure 403 {object} APIResponse "Wrong department"
// @Failure 404 {object} APIResponse "Not found"
// @Router /gatepass/{id}/approve [put]
func (h *GatePassHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid gate pass ID")
		return
	}

	pass, err := h.gatePassService.Approve(userID, uint(id))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Gate pass approved", pass)
}

// Reject declines a pending gate pass with a reason
// @Summary Reject gate pass
// @Tags GatePass
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gate pass ID"
// @Param request body RejectGatePassRequest true "Rejection reason"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Missing reason or not pending"
// @Failure 403 {object} APIResponse "Wrong department"
// @Failure 404 {object} APIResponse "Not found"
// @Router /gatepass/{id}/reject [put]
func (h *GatePassHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid gate pass ID")
		return
	}

	var req RejectGatePassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	pass, err := h.gatePassService.Reject(userID, uint(id), req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Gate pass rejected", pass)
}

// Return records the student's check-in at the scanner station
// @Summary Record return
// @Tags GatePass
// @Produce json
// @Security BearerAuth
// @Param id path int true "Gate pass ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Not approved or already returned"
// @Failure 404 {object} APIResponse "Not found"
// @Router /gatepass/{id}/return [put]
func (h *GatePassHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid gate pass ID")
		return
	}

	pass, err := h.gatePassService.Return(uint(id))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Return recorded", pass)
}

// Cleanup purges stale pending gate passes on demand
// @Summary Purge stale requests
// @Description Deletes pending gate passes older than the configured cutoff
// @Tags GatePass
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "HOD only"
// @Router /gatepass/cleanup [post]
func (h *GatePassHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	deleted, err := h.gatePassService.Cleanup(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Cleanup complete", map[string]int64{"deleted": deleted})
}
