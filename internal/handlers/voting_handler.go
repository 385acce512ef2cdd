package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"campusgate/internal/middleware"
	"campusgate/internal/service"
)

// VotingHandler handles community voting requests
type VotingHandler struct {
	votingService *service.VotingService
}

// NewVotingHandler creates a new voting handler
func NewVotingHandler(votingService *service.VotingService) *VotingHandler {
	return &VotingHandler{votingService: votingService}
}

// CastVoteRequest represents a single ballot
type CastVoteRequest struct {
	Vote   string `json:"vote" validate:"required"`
	Reason string `json:"reason"`
}

// EnableVotingRequest opens a complaint for voting
type EnableVotingRequest struct {
	Scope    string     `json:"scope"`
	Deadline *time.Time `json:"deadline"`
}

// ListOpen returns the complaints currently open for voting
// @Summary Open ballots
// @Description Students see the ballots they may still vote in; the dean sees college-wide ballots with the running tally
// @Tags Voting
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "Voting is for students and the dean"
// @Router /voting/complaints [get]
func (h *VotingHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	complaints, err := h.votingService.ListOpen(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", complaints)
}

// CastVote records the caller's ballot on a complaint
// @Summary Cast vote
// @Tags Voting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body CastVoteRequest true "Ballot"
// @Success 200 {object} APIResponse "Vote recorded with updated tally"
// @Failure 400 {object} APIResponse "Already voted or voting closed"
// @Failure 403 {object} APIResponse "Out of scope"
// @Failure 404 {object} APIResponse "Not found"
// @Router /voting/complaints/{id}/vote [post]
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
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

	var req CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	summary, err := h.votingService.CastVote(userID, uint(id), req.Vote, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Vote recorded successfully", summary)
}

// EnableVoting opens a complaint for community voting
// @Summary Enable voting
// @Description The complaint's author or the dean opens the ballot; scope defaults from the complaint's visibility and the deadline defaults to one week
// @Tags Voting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param request body EnableVotingRequest true "Scope and deadline"
// @Success 200 {object} APIResponse
// @Failure 403 {object} APIResponse "Author or dean only"
// @Failure 404 {object} APIResponse "Not found"
// @Router /voting/complaints/{id}/enable-voting [post]
func (h *VotingHandler) EnableVoting(w http.ResponseWriter, r *http.Request) {
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

	var req EnableVotingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	complaint, err := h.votingService.EnableVoting(userID, uint(id), req.Scope, req.Deadline)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Voting enabled", complaint)
}

// FinalizeResults tallies the ballots and mails the report
// @Summary Finalize voting results
// @Description Tallies the votes, renders the PDF report and emails it to the dean (college scope) or the department HOD
// @Tags Voting
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Already finalized or voting not enabled"
// @Failure 403 {object} APIResponse "Permission denied"
// @Failure 404 {object} APIResponse "Not found"
// @Router /voting/complaints/{id}/finalize-results [post]
func (h *VotingHandler) FinalizeResults(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.votingService.FinalizeResults(userID, uint(id))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "Voting results sent", result)
}
