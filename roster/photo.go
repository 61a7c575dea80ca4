// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roster

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/Rohith723/nss-election-app/models"
)

// MaxPhotoBytes caps an uploaded candidate photo
const MaxPhotoBytes = 2 << 20

var ErrPhotoTooLarge = errors.New("photo too large")

// ReadPhoto reads at most MaxPhotoBytes and accepts PNG or JPEG content
func ReadPhoto(r io.Reader) (*models.Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) > MaxPhotoBytes {
		return nil, fmt.Errorf("%w: limit is %s", ErrPhotoTooLarge, humanize.IBytes(MaxPhotoBytes))
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/png", "image/jpeg":
	default:
		return nil, &models.ValidationError{Field: "photo", Message: "must be a PNG or JPEG image"}
	}
	return &models.Photo{Data: data, ContentType: contentType}, nil
}
