package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"student@test.edu",
		"first.last@college.ac.in",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("Expected %s to be valid, got %v", email, err)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"missing@domain",
		"@test.edu",
	}
	for _, email := range invalid {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("Expected %s to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret"); err != nil {
		t.Errorf("Six characters should be enough, got %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("Five characters should be rejected")
	}
}

func TestValidateUSN(t *testing.T) {
	valid := []string{"EE22187", "CS22001", "ME21042"}
	for _, usn := range valid {
		if err := ValidateUSN(usn); err != nil {
			t.Errorf("Expected %s to be valid, got %v", usn, err)
		}
	}

	invalid := []string{
		"",
		"E22187",    // one-letter prefix
		"EEE22187",  // three-letter prefix
		"EE2218",    // four digits
		"EE221877",  // six digits
		"ee22187",   // lowercase
		"EE22A87",   // letter among digits
	}
	for _, usn := range invalid {
		if err := ValidateUSN(usn); err == nil {
			t.Errorf("Expected %s to be invalid", usn)
		}
	}
}

func TestDepartmentFromUSN(t *testing.T) {
	cases := map[string]string{
		"CS22001": "Computer Science",
		"EE22187": "Electrical",
		"ME21042": "Mechanical",
		"XX22001": "",
	}
	for usn, want := range cases {
		if got := DepartmentFromUSN(usn); got != want {
			t.Errorf("DepartmentFromUSN(%s) = %q, want %q", usn, got, want)
		}
	}
}

func TestSanitizeUSN(t *testing.T) {
	if got := SanitizeUSN("  ee22187 "); got != "EE22187" {
		t.Errorf("Expected EE22187, got %q", got)
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Student@Test.EDU "); got != "student@test.edu" {
		t.Errorf("Expected student@test.edu, got %q", got)
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("name", "Asha"); err != nil {
		t.Errorf("Non-empty value should pass, got %v", err)
	}
	if err := ValidateRequired("name", "   "); err == nil {
		t.Error("Whitespace-only value should fail")
	}
}
