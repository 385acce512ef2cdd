package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"campusgate/internal/middleware"
	"campusgate/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Role       string  `json:"role" validate:"required"`
	Department string  `json:"department"`
	USN        string  `json:"usn"`
	Phone      *string `json:"phone"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles account creation
// @Summary Register a new user
// @Description Create a student, HOD or dean account. Students must supply a valid seat number.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} APIResponse "Registration successful"
// @Failure 400 {object} APIResponse "Invalid request"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	result, err := h.authService.Register(service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Department: req.Department,
		USN:        req.USN,
		Phone:      req.Phone,
	})
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "ip", getIP(r), "error", err)
		respondServiceError(w, err)
		return
	}

	slog.Info("User registered", "user_id", result.User.ID, "email", result.User.Email, "role", result.User.Role)
	respondWithData(w, http.StatusCreated, "Registration successful", result)
}

// Login authenticates a user and issues a token
// @Summary Log in
// @Description Authenticate with email and password, returns a bearer token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse "Login successful"
// @Failure 401 {object} APIResponse "Invalid credentials"
// @Failure 403 {object} APIResponse "Account deactivated"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if err.Error() == "invalid credentials" {
			slog.Warn("Login failed", "email", req.Email, "ip", getIP(r))
			respondWithError(w, http.StatusUnauthorized, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}

	slog.Info("User logged in", "user_id", result.User.ID, "email", result.User.Email)
	respondWithData(w, http.StatusOK, "Login successful", result)
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, "", user)
}

// Departments lists the departments accounts can belong to
// @Summary List departments
// @Tags Authentication
// @Produce json
// @Success 200 {object} APIResponse
// @Router /auth/departments [get]
func (h *AuthHandler) Departments(w http.ResponseWriter, r *http.Request) {
	respondWithData(w, http.StatusOK, "", h.authService.Departments())
}
