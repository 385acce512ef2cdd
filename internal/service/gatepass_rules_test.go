package service

import (
	"testing"
	"time"

	"campusgate/internal/models"
)

func TestDeriveStatusExpiresOverduePass(t *testing.T) {
	now := time.Now()
	pass := &models.GatePass{
		Status:             models.GatePassApproved,
		ExpectedReturnTime: now.Add(-time.Hour),
		IsReturned:         false,
	}

	if got := DeriveStatus(pass, now); got != models.GatePassExpired {
		t.Errorf("Overdue approved pass should derive expired, got %s", got)
	}
}

func TestDeriveStatusStable(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		pass models.GatePass
		want string
	}{
		{
			name: "approved pass still inside its window",
			pass: models.GatePass{Status: models.GatePassApproved, ExpectedReturnTime: now.Add(time.Hour)},
			want: models.GatePassApproved,
		},
		{
			name: "returned pass never expires",
			pass: models.GatePass{Status: models.GatePassApproved, ExpectedReturnTime: now.Add(-time.Hour), IsReturned: true},
			want: models.GatePassApproved,
		},
		{
			name: "pending pass is unaffected by the clock",
			pass: models.GatePass{Status: models.GatePassPending, ExpectedReturnTime: now.Add(-time.Hour)},
			want: models.GatePassPending,
		},
		{
			name: "rejected pass stays rejected",
			pass: models.GatePass{Status: models.GatePassRejected, ExpectedReturnTime: now.Add(-time.Hour)},
			want: models.GatePassRejected,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(&tc.pass, now); got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestValidateGatePassTimes(t *testing.T) {
	now := time.Now()

	exit := now.Add(time.Hour)
	ret := exit.Add(4 * time.Hour)
	if err := ValidateGatePassTimes(exit, ret, now); err != nil {
		t.Errorf("Valid window should pass, got %v", err)
	}

	if err := ValidateGatePassTimes(now.Add(-time.Minute), ret, now); err == nil {
		t.Error("Exit in the past should fail")
	}

	if err := ValidateGatePassTimes(exit, exit.Add(-time.Minute), now); err == nil {
		t.Error("Return before exit should fail")
	}

	if err := ValidateGatePassTimes(exit, exit, now); err == nil {
		t.Error("Return equal to exit should fail")
	}
}
