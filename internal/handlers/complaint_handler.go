package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campusgate/internal/middleware"
	"campusgate/internal/service"
)

// ComplaintHandler handles complaint requests
type ComplaintHandler struct {
	complaintService *service.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// CreateComplaintRequest represents a new complaint submission
type CreateComplaintRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description" validate:"required"`
	Category        string `json:"category" validate:"required"`
	Priority        string `json:"priority"`
	RelatedGatePass *uint  `json:"related_gate_pass"`
	OpenToAll       bool   `json:"open_to_all"`
}

// UpdateComplaintStatusRequest represents an HOD status change
type UpdateComplaintStatusRequest struct {
	Status   string `json:"status" validate:"required"`
	Response string `json:"response"`
}

// Create files a new complaint
// @Summary Submit complaint
// @Description File a complaint; the submitter's identity is snapshotted at creation time
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateComplaintRequest true "Complaint details"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid input"
// @Failure 403 {object} APIResponse "Students only"
// @Router /complaints [post]
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	complaint, err := h.complaintService.Create(userID, service.CreateComplaintInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Priority:        req.Priority,
		RelatedGatePass: req.RelatedGatePass,
		OpenToAll:       req.OpenToAll,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusCreated, "Complaint submitted successfully", complaint)
}

// ListMine returns the caller's own complaints
// @Summary My complaints
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Router /complaints/my [get]
func (h *ComplaintHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	complaints, err := h.complaintService.ListMine(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", complaints)
}

// ListDepartment returns all complaints of the HOD's department
// @Summary Department complaints
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "HOD only"
// @Router /complaints [get]
func (h *ComplaintHandler) ListDepartment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	complaints, err := h.complaintService.ListDepartment(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", complaints)
}

// ListActionable returns the complaints still waiting on the HOD
// @Summary Pending complaints
// @Description Department complaints in pending or in_progress state, urgent first
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "HOD only"
// @Router /complaints/pending [get]
func (h *ComplaintHandler) ListActionable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	complaints, err := h.complaintService.ListActionable(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", complaints)
}

// Get returns one complaint
// @Summary Get complaint
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "Not yours"
// @Failure 404 {object} APIResponse "Not found"
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID")
		return
	}

	complaint, err := h.complaintService.Get(userID, uint(id))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", complaint)
}

// UpdateStatus records an HOD decision on a complaint
// @Summary Update complaint status
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body UpdateComplaintStatusRequest true "New status"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid status"
// @Failure 403 {object} APIResponse "Wrong department"
// @Failure 404 {object} APIResponse "Not found"
// @Router /complaints/{id}/status [put]
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid complaint ID")
		return
	}

	var req UpdateComplaintStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	complaint, err := h.complaintService.UpdateStatus(userID, uint(id), req.Status, req.Response)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Complaint updated successfully", complaint)
}

// Stats returns complaint counts grouped by status and category
// @Summary Complaint statistics
// @Tags Complaints
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "HOD only"
// @Router /complaints/stats/overview [get]
func (h *ComplaintHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	stats, err := h.complaintService.Stats(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", stats)
}
