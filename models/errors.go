// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

var (
	ErrDuplicateIdentifier = errors.New("identifier already registered")
	ErrAlreadyVoted        = errors.New("already voted for this position")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCandidate    = errors.New("candidate is not standing for this position")
	ErrCandidateHasVotes   = errors.New("candidate has recorded votes")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStorage             = errors.New("storage failure")
)

// ValidationError reports a request rejected at the boundary
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
