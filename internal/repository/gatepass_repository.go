package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusgate/internal/models"
)

var ErrGatePassNotFound = errors.New("gate pass not found")

const gatePassColumns = `
	id, student_id, student_name, student_usn, department, reason, destination,
	exit_time, expected_return_time, actual_return_time, status, approved_by,
	approval_date, rejection_reason, emergency_contact, parent_contact,
	is_returned, scanner_used, scanner_used_at, qr_token, created_at, updated_at`

// GatePassRepository handles gate pass database operations
type GatePassRepository struct {
	db *sql.DB
}

// NewGatePassRepository creates a new gate pass repository
func NewGatePassRepository(db *sql.DB) *GatePassRepository {
	return &GatePassRepository{db: db}
}

func scanGatePass(row interface{ Scan(...any) error }) (*models.GatePass, error) {
	p := &models.GatePass{}
	err := row.Scan(
		&p.ID,
		&p.StudentID,
		&p.StudentName,
		&p.StudentUSN,
		&p.Department,
		&p.Reason,
		&p.Destination,
		&p.ExitTime,
		&p.ExpectedReturnTime,
		&p.ActualReturnTime,
		&p.Status,
		&p.ApprovedBy,
		&p.ApprovalDate,
		&p.RejectionReason,
		&p.EmergencyContact,
		&p.ParentContact,
		&p.IsReturned,
		&p.ScannerUsed,
		&p.ScannerUsedAt,
		&p.QRToken,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *GatePassRepository) queryGatePasses(query string, args ...any) ([]models.GatePass, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query gate passes: %w", err)
	}
	defer rows.Close()

	var passes []models.GatePass
	for rows.Next() {
		p, err := scanGatePass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gate pass: %w", err)
		}
		passes = append(passes, *p)
	}

	return passes, rows.Err()
}

// Create creates a new gate pass request
func (r *GatePassRepository) Create(p *models.GatePass) error {
	query := `
		INSERT INTO gate_passes (
			student_id, student_name, student_usn, department, reason, destination,
			exit_time, expected_return_time, status, emergency_contact,
			parent_contact, qr_token, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		p.StudentID,
		p.StudentName,
		p.StudentUSN,
		p.Department,
		p.Reason,
		p.Destination,
		p.ExitTime,
		p.ExpectedReturnTime,
		p.Status,
		p.EmergencyContact,
		p.ParentContact,
		p.QRToken,
		now,
		now,
	).Scan(&p.ID)

	if err != nil {
		return fmt.Errorf("failed to create gate pass: %w", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// GetByID retrieves a gate pass by ID
func (r *GatePassRepository) GetByID(id uint) (*models.GatePass, error) {
	query := `SELECT ` + gatePassColumns + ` FROM gate_passes WHERE id = $1`

	p, err := scanGatePass(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrGatePassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get gate pass: %w", err)
	}

	return p, nil
}

// ListByStudent lists a student's passes, newest first
func (r *GatePassRepository) ListByStudent(studentID uint) ([]models.GatePass, error) {
	query := `SELECT ` + gatePassColumns + ` FROM gate_passes WHERE student_id = $1 ORDER BY created_at DESC`
	return r.queryGatePasses(query, studentID)
}

// ListPendingByDepartment lists a department's pending requests, oldest first
func (r *GatePassRepository) ListPendingByDepartment(department string) ([]models.GatePass, error) {
	query := `
		SELECT ` + gatePassColumns + `
		FROM gate_passes
		WHERE department = $1 AND status = $2
		ORDER BY created_at
	`
	return r.queryGatePasses(query, department, models.GatePassPending)
}

// ListByDepartment pages through a department's passes, optionally filtered
// by status. Returns the page and the total matching count.
func (r *GatePassRepository) ListByDepartment(department, status string, page, limit int) ([]models.GatePass, int, error) {
	where := `WHERE department = $1`
	args := []any{department}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM gate_passes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count gate passes: %w", err)
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`SELECT %s FROM gate_passes %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		gatePassColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	passes, err := r.queryGatePasses(query, args...)
	if err != nil {
		return nil, 0, err
	}

	return passes, total, nil
}

// RecordDecision stores an approval or rejection made on a pending request
func (r *GatePassRepository) RecordDecision(id uint, status string, decidedBy uint, rejectionReason *string) error {
	now := time.Now()
	query := `
		UPDATE gate_passes
		SET status = $1, approved_by = $2, approval_date = $3,
		    rejection_reason = $4, updated_at = $3
		WHERE id = $5
	`

	result, err := r.db.Exec(query, status, decidedBy, now, rejectionReason, id)
	if err != nil {
		return fmt.Errorf("failed to record gate pass decision: %w", err)
	}
	return checkAffected(result, ErrGatePassNotFound)
}

// MarkReturned records the student's return through the scanner station
func (r *GatePassRepository) MarkReturned(id uint) error {
	now := time.Now()
	query := `
		UPDATE gate_passes
		SET is_returned = TRUE, actual_return_time = $1,
		    scanner_used = TRUE, scanner_used_at = $1, updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark gate pass returned: %w", err)
	}
	return checkAffected(result, ErrGatePassNotFound)
}

// PersistStatus stores a derived status change, e.g. lazy expiry
func (r *GatePassRepository) PersistStatus(id uint, status string) error {
	result, err := r.db.Exec(`UPDATE gate_passes SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to persist gate pass status: %w", err)
	}
	return checkAffected(result, ErrGatePassNotFound)
}

// DeleteStalePending removes pending requests created before the cutoff and
// returns how many were removed.
func (r *GatePassRepository) DeleteStalePending(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM gate_passes WHERE status = $1 AND created_at < $2`, models.GatePassPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale gate passes: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted gate passes: %w", err)
	}

	return deleted, nil
}
