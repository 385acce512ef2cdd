package models

import (
	"time"
)

// User roles
const (
	RoleStudent = "student"
	RoleHOD     = "hod"
	RoleDean    = "dean"
)

// Complaint categories
const (
	CategoryGatePass    = "gate_pass"
	CategorySystemIssue = "system_issue"
	CategorySecurity    = "security"
	CategoryOther       = "other"
)

// Complaint and message priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Complaint statuses
const (
	ComplaintPending    = "pending"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
	ComplaintClosed     = "closed"
)

// Voting scopes
const (
	ScopeDepartment = "department"
	ScopeCollege    = "college"
)

// Vote values
const (
	VoteAccept = "accept"
	VoteReject = "reject"
)

// Gate pass statuses
const (
	GatePassPending  = "pending"
	GatePassApproved = "approved"
	GatePassRejected = "rejected"
	GatePassExpired  = "expired"
)

// Notification types
const (
	NotificationNewGatePass            = "new_gatepass"
	NotificationGatePassApproved       = "gatepass_approved"
	NotificationGatePassRejected       = "gatepass_rejected"
	NotificationGatePassExpired        = "gatepass_expired"
	NotificationNewComplaint           = "new_complaint"
	NotificationComplaintResponse      = "complaint_response"
	NotificationComplaintStatusUpdate  = "complaint_status_update"
	NotificationComplaintVotingEnabled = "complaint_voting_enabled"
	NotificationNewMessage             = "new_message"
	NotificationSystemUpdate           = "system_update"
)

// Departments lists the recognized academic departments.
var Departments = []string{
	"Computer Science",
	"Information Technology",
	"Electronics",
	"Electronics and Telecommunication",
	"Mechanical",
	"Civil",
	"Electrical",
	"Chemical",
	"Biotechnology",
}

// User represents an account in the system
type User struct {
	ID           uint      `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Department   string    `json:"department" db:"department"`
	USN          *string   `json:"usn,omitempty" db:"usn"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Complaint represents a student complaint with its frozen submitter snapshot
type Complaint struct {
	ID          uint    `json:"id" db:"id"`
	StudentID   uint    `json:"student_id" db:"student_id"`
	StudentName string  `json:"student_name" db:"student_name"`
	StudentUSN  *string `json:"student_usn,omitempty" db:"student_usn"`
	Department  string  `json:"department" db:"department"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Category    string  `json:"category" db:"category"`
	Priority    string  `json:"priority" db:"priority"`
	Status      string  `json:"status" db:"status"`

	AssignedTo      *uint      `json:"assigned_to,omitempty" db:"assigned_to"`
	Response        *string    `json:"response,omitempty" db:"response"`
	ResponseDate    *time.Time `json:"response_date,omitempty" db:"response_date"`
	RelatedGatePass *uint      `json:"related_gate_pass,omitempty" db:"related_gate_pass_id"`

	RequiresVoting bool       `json:"requires_voting" db:"requires_voting"`
	OpenToAll      bool       `json:"open_to_all" db:"open_to_all"`
	VotingScope    string     `json:"voting_scope" db:"voting_scope"`
	VotingEnabled  bool       `json:"voting_enabled" db:"voting_enabled"`
	VotingDeadline *time.Time `json:"voting_deadline,omitempty" db:"voting_deadline"`

	Votes         []Vote         `json:"votes,omitempty" db:"-"`
	VotingSummary *VotingSummary `json:"voting_summary,omitempty" db:"-"`

	SentToDean       bool       `json:"sent_to_dean" db:"sent_to_dean"`
	SentToDeanAt     *time.Time `json:"sent_to_dean_at,omitempty" db:"sent_to_dean_at"`
	DeanResponse     *string    `json:"dean_response,omitempty" db:"dean_response"`
	DeanResponseDate *time.Time `json:"dean_response_date,omitempty" db:"dean_response_date"`
	SentToHod        bool       `json:"sent_to_hod" db:"sent_to_hod"`
	SentToHodAt      *time.Time `json:"sent_to_hod_at,omitempty" db:"sent_to_hod_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Vote represents a single ballot with its frozen voter snapshot
type Vote struct {
	ID          uint      `json:"id" db:"id"`
	ComplaintID uint      `json:"complaint_id" db:"complaint_id"`
	VoterID     uint      `json:"voter_id" db:"voter_id"`
	VoterName   string    `json:"voter_name" db:"voter_name"`
	VoterUSN    *string   `json:"voter_usn,omitempty" db:"voter_usn"`
	Department  string    `json:"department" db:"department"`
	Vote        string    `json:"vote" db:"vote"`
	Reason      *string   `json:"reason,omitempty" db:"reason"`
	VotedAt     time.Time `json:"voted_at" db:"voted_at"`
}

// VotingSummary is the denormalized tally kept on the complaint row
type VotingSummary struct {
	TotalVotes       int `json:"total_votes" db:"total_votes"`
	AcceptVotes      int `json:"accept_votes" db:"accept_votes"`
	RejectVotes      int `json:"reject_votes" db:"reject_votes"`
	AcceptPercentage int `json:"accept_percentage" db:"accept_percentage"`
	RejectPercentage int `json:"reject_percentage" db:"reject_percentage"`
}

// GatePass represents a campus exit permission request
type GatePass struct {
	ID                 uint       `json:"id" db:"id"`
	StudentID          uint       `json:"student_id" db:"student_id"`
	StudentName        string     `json:"student_name" db:"student_name"`
	StudentUSN         *string    `json:"student_usn,omitempty" db:"student_usn"`
	Department         string     `json:"department" db:"department"`
	Reason             string     `json:"reason" db:"reason"`
	Destination        string     `json:"destination" db:"destination"`
	ExitTime           time.Time  `json:"exit_time" db:"exit_time"`
	ExpectedReturnTime time.Time  `json:"expected_return_time" db:"expected_return_time"`
	ActualReturnTime   *time.Time `json:"actual_return_time,omitempty" db:"actual_return_time"`
	Status             string     `json:"status" db:"status"`
	ApprovedBy         *uint      `json:"approved_by,omitempty" db:"approved_by"`
	ApprovalDate       *time.Time `json:"approval_date,omitempty" db:"approval_date"`
	RejectionReason    *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`
	EmergencyContact   *string    `json:"emergency_contact,omitempty" db:"emergency_contact"`
	ParentContact      *string    `json:"parent_contact,omitempty" db:"parent_contact"`
	IsReturned         bool       `json:"is_returned" db:"is_returned"`
	ScannerUsed        bool       `json:"scanner_used" db:"scanner_used"`
	ScannerUsedAt      *time.Time `json:"scanner_used_at,omitempty" db:"scanner_used_at"`
	QRToken            string     `json:"qr_token" db:"qr_token"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// Message represents a department broadcast sent by an HOD
type Message struct {
	ID               uint      `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	Content          string    `json:"content" db:"content"`
	Priority         string    `json:"priority" db:"priority"`
	SenderID         uint      `json:"sender_id" db:"sender_id"`
	SenderName       string    `json:"sender_name" db:"sender_name"`
	SenderDepartment string    `json:"sender_department" db:"sender_department"`
	Department       string    `json:"department" db:"department"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`

	// Per-viewer read state, populated when listing for a recipient.
	IsRead bool       `json:"is_read" db:"-"`
	ReadAt *time.Time `json:"read_at,omitempty" db:"-"`
}

// MessageRecipient tracks per-user read state of a broadcast
type MessageRecipient struct {
	MessageID uint       `json:"message_id" db:"message_id"`
	UserID    uint       `json:"user_id" db:"user_id"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty" db:"read_at"`
}

// Notification represents an in-app notification for a single recipient
type Notification struct {
	ID                uint       `json:"id" db:"id"`
	Type              string     `json:"type" db:"type"`
	Message           string     `json:"message" db:"message"`
	RecipientID       uint       `json:"recipient_id" db:"recipient_id"`
	ActionID          *uint      `json:"action_id,omitempty" db:"action_id"`
	ActionTitle       *string    `json:"action_title,omitempty" db:"action_title"`
	ActionDestination *string    `json:"action_destination,omitempty" db:"action_destination"`
	ActionStatus      *string    `json:"action_status,omitempty" db:"action_status"`
	Priority          string     `json:"priority" db:"priority"`
	IsRead            bool       `json:"is_read" db:"is_read"`
	ReadAt            *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// ComplaintStats aggregates department complaint counts for the HOD overview
type ComplaintStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByCategory map[string]int `json:"by_category"`
}

// ValidDepartment reports whether dept is one of the recognized departments.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// ValidVotingScope reports whether scope is a recognized voting scope.
func ValidVotingScope(scope string) bool {
	return scope == ScopeDepartment || scope == ScopeCollege
}
