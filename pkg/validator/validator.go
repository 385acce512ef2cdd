package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usnRegex   = regexp.MustCompile(`^[A-Z]{2}\d{5}$`)
)

// usnDepartments maps the two-letter USN prefix to a department name.
var usnDepartments = map[string]string{
	"CS": "Computer Science",
	"IT": "Information Technology",
	"EC": "Electronics",
	"ET": "Electronics and Telecommunication",
	"ME": "Mechanical",
	"CV": "Civil",
	"EE": "Electrical",
	"CH": "Chemical",
	"BT": "Biotechnology",
}

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidatePassword validates a password
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password is required")
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	return nil
}

// ValidateUSN validates a university seat number such as "EE22187".
// The input is expected to be uppercased already.
func ValidateUSN(usn string) error {
	if usn == "" {
		return errors.New("usn is required")
	}
	if !usnRegex.MatchString(usn) {
		return errors.New("invalid usn format")
	}
	if _, ok := usnDepartments[usn[:2]]; !ok {
		return fmt.Errorf("unknown department code %q in usn", usn[:2])
	}
	return nil
}

// DepartmentFromUSN returns the department encoded in a USN prefix,
// or "" when the prefix is not recognized.
func DepartmentFromUSN(usn string) string {
	if len(usn) < 2 {
		return ""
	}
	return usnDepartments[strings.ToUpper(usn[:2])]
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// SanitizeString removes null bytes and surrounding whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// SanitizeEmail normalizes an email address for storage and lookup
func SanitizeEmail(email string) string {
	return strings.ToLower(SanitizeString(email))
}

// SanitizeUSN normalizes a seat number for storage and lookup
func SanitizeUSN(usn string) string {
	return strings.ToUpper(SanitizeString(usn))
}
