package testutil

import (
	"database/sql"
	"testing"
	"time"

	"campusgate/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures holds test data
type Fixtures struct {
	DB        *sql.DB
	StudentCS *models.User
	StudentEE *models.User
	HodCS     *models.User
	Dean      *models.User
	Complaint *models.Complaint
	GatePass  *models.GatePass
}

// TestPassword is the plain-text password every fixture user is created with
const TestPassword = "password123"

// SetupFixtures creates test data
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	fixtures := &Fixtures{
		DB: db,
	}

	csUSN := "CS22001"
	eeUSN := "EE22187"
	fixtures.StudentCS = CreateUser(t, db, "Asha Rao", "asha@test.edu", "student", "Computer Science", &csUSN)
	fixtures.StudentEE = CreateUser(t, db, "Kiran Shetty", "kiran@test.edu", "student", "Electrical", &eeUSN)
	fixtures.HodCS = CreateUser(t, db, "Prof. Mehta", "hod.cs@test.edu", "hod", "Computer Science", nil)
	fixtures.Dean = CreateUser(t, db, "Dr. Iyer", "dean@test.edu", "dean", "Administration", nil)

	fixtures.Complaint = CreateComplaint(t, db, fixtures.StudentCS, "Broken gate scanner", "The scanner at gate 2 rejects valid passes.")
	fixtures.GatePass = CreateGatePass(t, db, fixtures.StudentCS)

	return fixtures
}

// Cleanup removes all test data
func (f *Fixtures) Cleanup(t *testing.T) {
	t.Helper()

	// Cleanup is handled by container termination
	// Data is not persisted between tests
}

// CreateUser inserts a user with the shared test password
func CreateUser(t *testing.T, db *sql.DB, name, email, role, department string, usn *string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Name:       name,
		Email:      email,
		Role:       role,
		Department: department,
		USN:        usn,
		IsActive:   true,
	}

	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role, department, usn, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING id, created_at, updated_at`,
		name, email, string(hash), role, department, usn,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}

	return user
}

// CreateComplaint inserts a pending complaint filed by the given student
func CreateComplaint(t *testing.T, db *sql.DB, student *models.User, title, description string) *models.Complaint {
	t.Helper()

	complaint := &models.Complaint{
		StudentID:   student.ID,
		StudentName: student.Name,
		StudentUSN:  student.USN,
		Department:  student.Department,
		Title:       title,
		Description: description,
		Category:    models.CategoryGatePass,
		Priority:    models.PriorityMedium,
		Status:      models.ComplaintPending,
	}

	err := db.QueryRow(`
		INSERT INTO complaints (student_id, student_name, student_usn, department, title, description, category, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		student.ID, student.Name, student.USN, student.Department,
		title, description, complaint.Category, complaint.Priority, complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create complaint: %v", err)
	}

	return complaint
}

// CreateGatePass inserts a pending gate pass for the given student
func CreateGatePass(t *testing.T, db *sql.DB, student *models.User) *models.GatePass {
	t.Helper()

	exit := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	ret := exit.Add(4 * time.Hour)

	pass := &models.GatePass{
		StudentID:          student.ID,
		StudentName:        student.Name,
		StudentUSN:         student.USN,
		Department:         student.Department,
		Reason:             "Medical appointment",
		Destination:        "City hospital",
		ExitTime:           exit,
		ExpectedReturnTime: ret,
		Status:             models.GatePassPending,
		QRToken:            uuid.NewString(),
	}

	err := db.QueryRow(`
		INSERT INTO gate_passes (student_id, student_name, student_usn, department, reason, destination, exit_time, expected_return_time, status, qr_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		student.ID, student.Name, student.USN, student.Department,
		pass.Reason, pass.Destination, pass.ExitTime, pass.ExpectedReturnTime,
		pass.Status, pass.QRToken,
	).Scan(&pass.ID, &pass.CreatedAt, &pass.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create gate pass: %v", err)
	}

	return pass
}
