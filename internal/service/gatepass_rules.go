package service

import (
	"time"

	"campusgate/internal/models"
)

// DeriveStatus computes a gate pass's effective status at a given instant.
// An approved pass whose expected return time is behind the clock and whose
// holder has not checked back in is expired. All other statuses are stable.
func DeriveStatus(p *models.GatePass, now time.Time) string {
	if p.Status == models.GatePassApproved && !p.IsReturned && p.ExpectedReturnTime.Before(now) {
		return models.GatePassExpired
	}
	return p.Status
}

// ValidateGatePassTimes checks the requested exit window: the exit must not
// be in the past and the expected return must follow it.
func ValidateGatePassTimes(exit, expectedReturn, now time.Time) error {
	if exit.Before(now) {
		return errExitInPast
	}
	if !expectedReturn.After(exit) {
		return errReturnBeforeExit
	}
	return nil
}
