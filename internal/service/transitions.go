package service

import "siruang/internal/models"

// legalSuccessor encodes the reservation lifecycle: pending is the only
// non-terminal status, and it may move to approved, rejected or canceled.
func legalSuccessor(from, to string) bool {
	if from != models.StatusPending {
		return false
	}
	switch to {
	case models.StatusApproved, models.StatusRejected, models.StatusCanceled:
		return true
	}
	return false
}

// transitionPermitted checks the actor's capability set against the
// requested transition: approval decisions need admin, cancellation needs
// owner or admin.
func transitionPermitted(to string, cap models.Capability) bool {
	switch to {
	case models.StatusApproved, models.StatusRejected:
		return cap.Admin
	case models.StatusCanceled:
		return cap.Admin || cap.Owner
	}
	return false
}
