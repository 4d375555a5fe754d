package storage

import (
	"context"
	"io"
)

// PhotoStore keeps admin profile photos.
type PhotoStore interface {
	// UploadPhoto stores the image read from r as the admin's profile photo,
	// replacing any previous one, and returns its public URL.
	UploadPhoto(ctx context.Context, adminID string, r io.Reader) (string, error)
	// DeletePhoto removes the admin's profile photo.
	DeletePhoto(ctx context.Context, adminID string) error
}
