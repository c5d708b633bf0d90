package services

import "errors"

// Precondition and lookup failures surfaced to the HTTP layer. Each maps to a
// specific user-facing message; anything else is treated as an internal error.
var (
	ErrDuplicateReview     = errors.New("you have already reviewed this official for this event")
	ErrOfficialNotAssigned = errors.New("official was not assigned to this event")
	ErrReviewNotFound      = errors.New("review not found")
	ErrOfficialNotFound    = errors.New("official not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
)
