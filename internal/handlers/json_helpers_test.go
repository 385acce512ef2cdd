package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusgate/internal/models"
	"campusgate/internal/repository"
)

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found sentinel", repository.ErrComplaintNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load actor: %w", repository.ErrUserNotFound), http.StatusNotFound},
		{"permission denied", errors.New("permission denied: only students can file complaints"), http.StatusForbidden},
		{"repository failure", errors.New("failed to insert complaint: connection refused"), http.StatusInternalServerError},
		{"domain rule", errors.New("voting deadline has passed"), http.StatusBadRequest},
		{"duplicate ballot", repository.ErrAlreadyVoted, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tc.err)

			if rec.Code != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, rec.Code)
			}

			var resp APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Success {
				t.Error("Error responses must carry success=false")
			}
			if resp.Message == "" {
				t.Error("Error responses must carry a message")
			}
		})
	}
}

func TestRespondServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.New("failed to query users: dial tcp 10.0.0.5:5432"))

	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("Database details must not leak to the client")
	}
}

func TestRespondWithDataNormalizesNilSlices(t *testing.T) {
	rec := httptest.NewRecorder()

	var complaints []models.Complaint
	respondWithData(rec, http.StatusOK, "", complaints)

	body := rec.Body.String()
	if !strings.Contains(body, `"data":[]`) {
		t.Errorf("Nil slice should encode as [], got %s", body)
	}
}

func TestRespondWithDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithData(rec, http.StatusCreated, "Created", map[string]int{"id": 7})

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected application/json, got %s", got)
	}

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Created" {
		t.Errorf("Unexpected envelope: %+v", resp)
	}
}
