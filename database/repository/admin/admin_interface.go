package adminRepo

import (
	"context"
	"errors"

	"providerhub/models"
)

var (
	ErrNotFound       = errors.New("admin not found")
	ErrDuplicateEmail = errors.New("admin with this email already exists")
)

// AdminRepository defines methods for admin data access.
type AdminRepository interface {
	// GetByID retrieves an admin by unique ID.
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	// GetByEmail retrieves an admin by email.
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	// Create inserts a new admin. Email must be unused.
	Create(ctx context.Context, admin *models.Admin) error
	// Update replaces the mutable profile fields of an existing admin.
	Update(ctx context.Context, admin *models.Admin) error
}
