package identity

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized means the token is missing, malformed, expired or
	// not signed with the shared secret.
	ErrUnauthorized = errors.New("invalid or expired token")
	// ErrNotFound means the token is valid but no admin is enrolled for it.
	ErrNotFound = errors.New("admin not found")
	// ErrInvalidProfile is matched by every *ValidationError.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrPhotoStoreDisabled is returned by UploadPhoto without a PhotoStore.
	ErrPhotoStoreDisabled = errors.New("photo uploads are not configured")
)

// ValidationError lists the profile fields that failed validation and the
// rule each one broke.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+": "+rule)
	}
	sort.Strings(parts)
	return "invalid profile: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidProfile
}
