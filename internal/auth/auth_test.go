package auth

import (
	"errors"
	"testing"
	"time"

	"campusgate/internal/config"
)

func TestHashPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if hash == "" {
		t.Error("Hash should not be empty")
	}

	if hash == password {
		t.Error("Hash should not equal the original password")
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	// Test correct password
	if err := VerifyPassword(hash, password); err != nil {
		t.Errorf("Should verify correct password, got error: %v", err)
	}

	// Test incorrect password
	if err := VerifyPassword(hash, "wrongpassword"); err == nil {
		t.Error("Should not verify incorrect password")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService(&config.JWTConfig{
		Secret:     "test-secret",
		Expiration: 24 * time.Hour,
	})

	usn := "CS22001"
	token, err := svc.GenerateToken(1, "student@test.edu", "student", "Computer Science", "Asha Rao", &usn)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("Token should not be empty")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("Expected user ID 1, got %d", claims.UserID)
	}
	if claims.Email != "student@test.edu" {
		t.Errorf("Expected email student@test.edu, got %s", claims.Email)
	}
	if claims.Role != "student" {
		t.Errorf("Expected role student, got %s", claims.Role)
	}
	if claims.Department != "Computer Science" {
		t.Errorf("Expected department Computer Science, got %s", claims.Department)
	}
	if claims.USN == nil || *claims.USN != usn {
		t.Errorf("Expected USN %s, got %v", usn, claims.USN)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewService(&config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})
	other := NewService(&config.JWTConfig{
		Secret:     "other-secret",
		Expiration: time.Hour,
	})

	token, err := svc.GenerateToken(1, "student@test.edu", "student", "Computer Science", "Asha Rao", nil)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewService(&config.JWTConfig{
		Secret:     "test-secret",
		Expiration: -time.Hour,
	})

	token, err := svc.GenerateToken(1, "student@test.edu", "student", "Computer Science", "Asha Rao", nil)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewService(&config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})

	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}
