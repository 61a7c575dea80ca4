// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Rohith723/nss-election-app/models"
)

// ParseVolunteersCSV reads volunteer rows from CSV with a header line.
// Recognised columns are student_id, name, year, branch and phone in any
// order; student_id and name are required, unknown columns are ignored.
func ParseVolunteersCSV(r io.Reader) ([]models.AddVolunteerRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.ValidationError{Field: "file", Message: "is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = strings.ReplaceAll(key, " ", "_")
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, required := range []string{"student_id", "name"} {
		if _, ok := cols[required]; !ok {
			return nil, &models.ValidationError{Field: "file", Message: "missing column " + required}
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	reqs := []models.AddVolunteerRequest{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		reqs = append(reqs, models.AddVolunteerRequest{
			StudentID: field(record, "student_id"),
			Name:      field(record, "name"),
			Year:      field(record, "year"),
			Branch:    field(record, "branch"),
			Phone:     field(record, "phone"),
		})
	}
	return reqs, nil
}
