package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusgate/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

const userColumns = `id, name, email, password_hash, role, department, usn, phone, is_active, created_at, updated_at`

// UserRepository handles user database operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Department,
		&user.USN,
		&user.Phone,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, department, usn, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Department,
		user.USN,
		user.Phone,
		user.IsActive,
		now,
		now,
	).Scan(&user.ID)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByUSN retrieves a user by university seat number
func (r *UserRepository) GetByUSN(usn string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE usn = $1`

	user, err := scanUser(r.db.QueryRow(query, usn))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetHODByDepartment retrieves the active HOD of a department
func (r *UserRepository) GetHODByDepartment(department string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND department = $2 AND is_active = TRUE
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRow(query, models.RoleHOD, department))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department hod: %w", err)
	}

	return user, nil
}

// GetDean retrieves the active dean account
func (r *UserRepository) GetDean() (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND is_active = TRUE
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRow(query, models.RoleDean))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dean: %w", err)
	}

	return user, nil
}

// ListActiveStudents lists active students, optionally restricted to a
// department when department is non-empty.
func (r *UserRepository) ListActiveStudents(department string) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND is_active = TRUE
	`
	args := []any{models.RoleStudent}
	if department != "" {
		query += ` AND department = $2`
		args = append(args, department)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

// Update persists mutable profile fields
func (r *UserRepository) Update(user *models.User) error {
	query := `
		UPDATE users
		SET name = $1, phone = $2, is_active = $3, updated_at = $4
		WHERE id = $5
	`

	now := time.Now()
	result, err := r.db.Exec(query, user.Name, user.Phone, user.IsActive, now, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	user.UpdatedAt = now
	return nil
}
