package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"campusgate/internal/models"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrAlreadyVoted      = errors.New("already voted")
)

const complaintColumns = `
	id, student_id, student_name, student_usn, department, title, description,
	category, priority, status, assigned_to, response, response_date,
	related_gate_pass_id, requires_voting, open_to_all, voting_scope,
	voting_enabled, voting_deadline, total_votes, accept_votes, reject_votes,
	accept_percentage, reject_percentage, sent_to_dean, sent_to_dean_at,
	dean_response, dean_response_date, sent_to_hod, sent_to_hod_at,
	created_at, updated_at`

// ComplaintRepository handles complaint and vote database operations
type ComplaintRepository struct {
	db *sql.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func scanComplaint(row interface{ Scan(...any) error }) (*models.Complaint, error) {
	c := &models.Complaint{}
	summary := models.VotingSummary{}
	err := row.Scan(
		&c.ID,
		&c.StudentID,
		&c.StudentName,
		&c.StudentUSN,
		&c.Department,
		&c.Title,
		&c.Description,
		&c.Category,
		&c.Priority,
		&c.Status,
		&c.AssignedTo,
		&c.Response,
		&c.ResponseDate,
		&c.RelatedGatePass,
		&c.RequiresVoting,
		&c.OpenToAll,
		&c.VotingScope,
		&c.VotingEnabled,
		&c.VotingDeadline,
		&summary.TotalVotes,
		&summary.AcceptVotes,
		&summary.RejectVotes,
		&summary.AcceptPercentage,
		&summary.RejectPercentage,
		&c.SentToDean,
		&c.SentToDeanAt,
		&c.DeanResponse,
		&c.DeanResponseDate,
		&c.SentToHod,
		&c.SentToHodAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.VotingSummary = &summary
	return c, nil
}

func (r *ComplaintRepository) queryComplaints(query string, args ...any) ([]models.Complaint, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *c)
	}

	return complaints, rows.Err()
}

// Create creates a new complaint with its frozen submitter snapshot
func (r *ComplaintRepository) Create(c *models.Complaint) error {
	query := `
		INSERT INTO complaints (
			student_id, student_name, student_usn, department, title, description,
			category, priority, status, related_gate_pass_id, requires_voting,
			open_to_all, voting_scope, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		c.StudentID,
		c.StudentName,
		c.StudentUSN,
		c.Department,
		c.Title,
		c.Description,
		c.Category,
		c.Priority,
		c.Status,
		c.RelatedGatePass,
		c.RequiresVoting,
		c.OpenToAll,
		c.VotingScope,
		now,
		now,
	).Scan(&c.ID)

	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

// GetByID retrieves a complaint without its ballot list
func (r *ComplaintRepository) GetByID(id uint) (*models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`

	c, err := scanComplaint(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}

	return c, nil
}

// ListByStudent lists a student's own complaints, newest first
func (r *ComplaintRepository) ListByStudent(studentID uint) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE student_id = $1 ORDER BY created_at DESC`
	return r.queryComplaints(query, studentID)
}

// ListByDepartment lists a department's complaints, newest first
func (r *ComplaintRepository) ListByDepartment(department string) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE department = $1 ORDER BY created_at DESC`
	return r.queryComplaints(query, department)
}

// ListActionableByDepartment lists a department's unresolved complaints
// ordered by priority (high first), then recency.
func (r *ComplaintRepository) ListActionableByDepartment(department string) ([]models.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE department = $1 AND status = ANY($2)
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at DESC
	`
	return r.queryComplaints(query, department, pq.Array([]string{models.ComplaintPending, models.ComplaintInProgress}))
}

// ListOpenForVoting lists complaints whose ballot box is open at the given
// instant, i.e. voting enabled with a future deadline.
func (r *ComplaintRepository) ListOpenForVoting(now time.Time) ([]models.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE voting_enabled = TRUE AND voting_deadline IS NOT NULL AND voting_deadline > $1
		ORDER BY created_at DESC
	`
	return r.queryComplaints(query, now)
}

// ListCollegeVoting lists voting-enabled college-scope complaints regardless
// of deadline, for dean oversight.
func (r *ComplaintRepository) ListCollegeVoting() ([]models.Complaint, error) {
	query := `
		SELECT ` + complaintColumns + `
		FROM complaints
		WHERE voting_enabled = TRUE AND voting_scope = $1
		ORDER BY created_at DESC
	`
	return r.queryComplaints(query, models.ScopeCollege)
}

// GetVotes lists a complaint's ballots in casting order
func (r *ComplaintRepository) GetVotes(complaintID uint) ([]models.Vote, error) {
	query := `
		SELECT id, complaint_id, voter_id, voter_name, voter_usn, department, vote, reason, voted_at
		FROM complaint_votes
		WHERE complaint_id = $1
		ORDER BY voted_at, id
	`

	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		err := rows.Scan(&v.ID, &v.ComplaintID, &v.VoterID, &v.VoterName, &v.VoterUSN, &v.Department, &v.Vote, &v.Reason, &v.VotedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}

	return votes, rows.Err()
}

// HasVoted reports whether a voter already cast a ballot on a complaint
func (r *ComplaintRepository) HasVoted(complaintID, voterID uint) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM complaint_votes WHERE complaint_id = $1 AND voter_id = $2)`
	if err := r.db.QueryRow(query, complaintID, voterID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return exists, nil
}

// VotedComplaintIDs returns the complaint ids the voter already voted on
func (r *ComplaintRepository) VotedComplaintIDs(voterID uint) (map[uint]bool, error) {
	rows, err := r.db.Query(`SELECT complaint_id FROM complaint_votes WHERE voter_id = $1`, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voted complaints: %w", err)
	}
	defer rows.Close()

	voted := make(map[uint]bool)
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan complaint id: %w", err)
		}
		voted[id] = true
	}

	return voted, rows.Err()
}

// AddVote appends a ballot and recomputes the denormalized tally in a single
// transaction. The complaint row is locked first so concurrent ballots on the
// same complaint serialize; under READ COMMITTED an unlocked transaction pair
// could both pass the duplicate check and both count before either commit,
// leaving the stored tally behind the stored ballots. The duplicate check is
// re-run inside the transaction after the lock is held.
func (r *ComplaintRepository) AddVote(vote *models.Vote) (*models.VotingSummary, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("Failed to rollback transaction", "error", err)
		}
	}()

	var lockedID uint
	lock := `SELECT id FROM complaints WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRow(lock, vote.ComplaintID).Scan(&lockedID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to lock complaint: %w", err)
	}

	var exists bool
	dupQuery := `SELECT EXISTS(SELECT 1 FROM complaint_votes WHERE complaint_id = $1 AND voter_id = $2)`
	if err := tx.QueryRow(dupQuery, vote.ComplaintID, vote.VoterID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check vote: %w", err)
	}
	if exists {
		return nil, ErrAlreadyVoted
	}

	now := time.Now()
	insert := `
		INSERT INTO complaint_votes (complaint_id, voter_id, voter_name, voter_usn, department, vote, reason, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(insert, vote.ComplaintID, vote.VoterID, vote.VoterName, vote.VoterUSN, vote.Department, vote.Vote, vote.Reason, now).Scan(&vote.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}
	vote.VotedAt = now

	var accept, reject int
	count := `
		SELECT
			COUNT(*) FILTER (WHERE vote = 'accept'),
			COUNT(*) FILTER (WHERE vote = 'reject')
		FROM complaint_votes
		WHERE complaint_id = $1
	`
	if err := tx.QueryRow(count, vote.ComplaintID).Scan(&accept, &reject); err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	summary := models.ComputeSummary(accept, reject)
	update := `
		UPDATE complaints
		SET total_votes = $1, accept_votes = $2, reject_votes = $3,
		    accept_percentage = $4, reject_percentage = $5, updated_at = $6
		WHERE id = $7
	`
	_, err = tx.Exec(update, summary.TotalVotes, summary.AcceptVotes, summary.RejectVotes,
		summary.AcceptPercentage, summary.RejectPercentage, now, vote.ComplaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to update voting summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	return &summary, nil
}

// EnableVoting opens the ballot box with the given scope and deadline
func (r *ComplaintRepository) EnableVoting(id uint, scope string, deadline time.Time, openToAll bool) error {
	query := `
		UPDATE complaints
		SET requires_voting = TRUE, voting_enabled = TRUE, voting_scope = $1,
		    voting_deadline = $2, open_to_all = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(query, scope, deadline, openToAll, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to enable voting: %w", err)
	}
	return checkAffected(result, ErrComplaintNotFound)
}

// MarkSentToDean records the one-time dean report dispatch
func (r *ComplaintRepository) MarkSentToDean(id uint) error {
	now := time.Now()
	query := `UPDATE complaints SET sent_to_dean = TRUE, sent_to_dean_at = $1, updated_at = $1 WHERE id = $2`
	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark sent to dean: %w", err)
	}
	return checkAffected(result, ErrComplaintNotFound)
}

// MarkSentToHod records the one-time department report dispatch
func (r *ComplaintRepository) MarkSentToHod(id uint) error {
	now := time.Now()
	query := `UPDATE complaints SET sent_to_hod = TRUE, sent_to_hod_at = $1, updated_at = $1 WHERE id = $2`
	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark sent to hod: %w", err)
	}
	return checkAffected(result, ErrComplaintNotFound)
}

// UpdateStatus moves a complaint through its lifecycle and records the
// handling HOD and optional response.
func (r *ComplaintRepository) UpdateStatus(id uint, status string, assignedTo uint, response *string, responseDate *time.Time) error {
	query := `
		UPDATE complaints
		SET status = $1, assigned_to = $2,
		    response = COALESCE($3, response),
		    response_date = COALESCE($4, response_date),
		    updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(query, status, assignedTo, response, responseDate, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	return checkAffected(result, ErrComplaintNotFound)
}

// Stats aggregates a department's complaint counts by status and category
func (r *ComplaintRepository) Stats(department string) (*models.ComplaintStats, error) {
	stats := &models.ComplaintStats{
		ByStatus:   make(map[string]int),
		ByCategory: make(map[string]int),
	}

	rows, err := r.db.Query(`SELECT status, category, COUNT(*) FROM complaints WHERE department = $1 GROUP BY status, category`, department)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaint stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, category string
		var count int
		if err := rows.Scan(&status, &category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan complaint stats: %w", err)
		}
		stats.Total += count
		stats.ByStatus[status] += count
		stats.ByCategory[category] += count
	}

	return stats, rows.Err()
}

func checkAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
