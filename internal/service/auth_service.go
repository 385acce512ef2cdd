package service

import (
	"errors"
	"fmt"

	"campusgate/internal/auth"
	"campusgate/internal/models"
	"campusgate/internal/repository"
	"campusgate/pkg/validator"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo    *repository.UserRepository
	authService *auth.Service
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *repository.UserRepository, authService *auth.Service) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		authService: authService,
	}
}

// RegisterInput carries a registration payload
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
	USN        string
	Phone      *string
}

// AuthResult pairs an account with its issued token
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account. Students must carry a valid, unused seat
// number; a department missing from the payload is inferred from its prefix.
// Each department has at most one HOD.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	input.Email = validator.SanitizeEmail(input.Email)
	if err := validator.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validator.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validator.ValidateRequired("name", input.Name); err != nil {
		return nil, err
	}

	switch input.Role {
	case models.RoleStudent, models.RoleHOD, models.RoleDean:
	default:
		return nil, fmt.Errorf("invalid role")
	}

	if _, err := s.userRepo.GetByEmail(input.Email); err == nil {
		return nil, fmt.Errorf("email already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	var usn *string
	if input.Role == models.RoleStudent {
		normalized := validator.SanitizeUSN(input.USN)
		if err := validator.ValidateUSN(normalized); err != nil {
			return nil, err
		}
		if _, err := s.userRepo.GetByUSN(normalized); err == nil {
			return nil, fmt.Errorf("usn already registered")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		if input.Department == "" {
			input.Department = validator.DepartmentFromUSN(normalized)
		}
		usn = &normalized
	}

	if !models.ValidDepartment(input.Department) {
		return nil, fmt.Errorf("invalid department")
	}

	if input.Role == models.RoleHOD {
		if _, err := s.userRepo.GetHODByDepartment(input.Department); err == nil {
			return nil, fmt.Errorf("department already has an hod")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		Department:   input.Department,
		USN:          usn,
		Phone:        input.Phone,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

// Login verifies credentials for an active account
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = validator.SanitizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("permission denied: account is deactivated")
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := s.authService.GenerateToken(user.ID, user.Email, user.Role, user.Department, user.Name, user.USN)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the caller's own account
func (s *AuthService) Me(actorID uint) (*models.User, error) {
	return s.userRepo.GetByID(actorID)
}

// Departments returns the static department list
func (s *AuthService) Departments() []string {
	return models.Departments
}
