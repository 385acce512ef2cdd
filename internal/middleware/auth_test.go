package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusgate/internal/auth"
	"campusgate/internal/config"
)

func testAuthService() *auth.Service {
	return auth.NewService(&config.JWTConfig{
		Secret:     "test-secret-key-for-testing-only",
		Expiration: time.Hour,
	})
}

func TestAuthenticatePopulatesContext(t *testing.T) {
	svc := testAuthService()
	mw := NewAuthMiddleware(svc)

	token, err := svc.GenerateToken(42, "student@test.edu", "student", "Computer Science", "Asha Rao", nil)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	var gotID uint
	var gotRole, gotDepartment string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r)
		gotRole, _ = GetUserRole(r)
		gotDepartment, _ = GetUserDepartment(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.Authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if gotID != 42 {
		t.Errorf("Expected user ID 42, got %d", gotID)
	}
	if gotRole != "student" {
		t.Errorf("Expected role student, got %s", gotRole)
	}
	if gotDepartment != "Computer Science" {
		t.Errorf("Expected department Computer Science, got %s", gotDepartment)
	}
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(testAuthService())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	mw.Authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	mw := NewAuthMiddleware(testAuthService())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached with a bad token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	mw.Authenticate(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	svc := testAuthService()
	authMw := NewAuthMiddleware(svc)
	rbacMw := NewRBACMiddleware()

	token, err := svc.GenerateToken(7, "hod.cs@test.edu", "hod", "Computer Science", "Prof. Mehta", nil)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	reached := false
	handler := authMw.Authenticate(rbacMw.RequireRole("hod")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !reached || rec.Code != http.StatusOK {
		t.Errorf("HOD should reach an hod-only handler, status %d", rec.Code)
	}

	// Same handler, student token
	studentToken, err := svc.GenerateToken(8, "student@test.edu", "student", "Computer Science", "Asha Rao", nil)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	reached = false
	req = httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if reached {
		t.Error("Student should not reach an hod-only handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}
}

func TestRequireAnyRole(t *testing.T) {
	svc := testAuthService()
	authMw := NewAuthMiddleware(svc)
	rbacMw := NewRBACMiddleware()

	handler := authMw.Authenticate(rbacMw.RequireAnyRole("student", "dean")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	))

	for role, want := range map[string]int{
		"student": http.StatusOK,
		"dean":    http.StatusOK,
		"hod":     http.StatusForbidden,
	} {
		token, err := svc.GenerateToken(1, role+"@test.edu", role, "Computer Science", "Test User", nil)
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/voting/complaints", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != want {
			t.Errorf("Role %s: expected %d, got %d", role, want, rec.Code)
		}
	}
}

func TestRespondWithErrorEncodesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, http.StatusUnauthorized, `token "abc" is not valid`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Body is not valid JSON: %v (%s)", err, rec.Body.String())
	}
	if body.Success {
		t.Error("Expected success=false")
	}
	if body.Message != `token "abc" is not valid` {
		t.Errorf("Message was not preserved: %q", body.Message)
	}
}
