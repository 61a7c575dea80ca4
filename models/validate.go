// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"
	"unicode"
)

// MinPasswordLength applies to rotated admin passwords
const MinPasswordLength = 8

// Validate trims the request fields and checks them
func (r *AddVolunteerRequest) Validate() error {
	r.StudentID = strings.TrimSpace(r.StudentID)
	r.Name = strings.TrimSpace(r.Name)
	r.Year = strings.TrimSpace(r.Year)
	r.Branch = strings.TrimSpace(r.Branch)
	r.Phone = strings.TrimSpace(r.Phone)

	if r.StudentID == "" {
		return invalid("student_id", "is required")
	}
	if len(r.StudentID) > 32 || strings.IndexFunc(r.StudentID, unicode.IsSpace) >= 0 {
		return invalid("student_id", "must be at most 32 characters without spaces")
	}
	if r.Name == "" {
		return invalid("name", "is required")
	}
	if len(r.Name) > 100 {
		return invalid("name", "must be at most 100 characters")
	}
	if r.Phone != "" && !validPhone(r.Phone) {
		return invalid("phone", "must contain only digits, spaces, '+' or '-'")
	}
	return nil
}

// Validate trims the request fields and checks them
func (r *AddCandidateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Year = strings.TrimSpace(r.Year)
	r.Branch = strings.TrimSpace(r.Branch)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Position1 = strings.TrimSpace(r.Position1)
	r.Position2 = strings.TrimSpace(r.Position2)

	if r.Name == "" {
		return invalid("name", "is required")
	}
	if len(r.Name) > 100 {
		return invalid("name", "must be at most 100 characters")
	}
	if r.Position1 == "" {
		return invalid("position1", "is required")
	}
	if r.Position2 != "" && strings.EqualFold(r.Position1, r.Position2) {
		return invalid("position2", "must differ from position1")
	}
	if r.Phone != "" && !validPhone(r.Phone) {
		return invalid("phone", "must contain only digits, spaces, '+' or '-'")
	}
	return nil
}

// Validate trims the position and checks the candidate id
func (r *CastVoteRequest) Validate() error {
	r.Position = strings.TrimSpace(r.Position)
	if r.CandidateID <= 0 {
		return invalid("candidate_id", "is required")
	}
	if r.Position == "" {
		return invalid("position", "is required")
	}
	return nil
}

func (r *RotatePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return invalid("current_password", "is required")
	}
	if len(r.NewPassword) < MinPasswordLength {
		return invalid("new_password", "must be at least 8 characters")
	}
	if r.NewPassword == r.CurrentPassword {
		return invalid("new_password", "must differ from the current password")
	}
	return nil
}

func validPhone(s string) bool {
	for _, c := range s {
		if !unicode.IsDigit(c) && c != '+' && c != '-' && c != ' ' {
			return false
		}
	}
	return true
}
