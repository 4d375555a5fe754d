package adminRepo

import (
	"context"
	"sync"

	"providerhub/models"
)

// MemoryAdminRepo is an in-process AdminRepository.
type MemoryAdminRepo struct {
	mu      sync.RWMutex
	byID    map[string]models.Admin
	byEmail map[string]string
}

func NewMemoryAdminRepo() *MemoryAdminRepo {
	return &MemoryAdminRepo{
		byID:    make(map[string]models.Admin),
		byEmail: make(map[string]string),
	}
}

func cloneAdmin(a models.Admin) *models.Admin {
	a.Services = append([]models.ServiceType(nil), a.Services...)
	return &a
}

func (r *MemoryAdminRepo) GetByID(_ context.Context, id string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAdmin(a), nil
}

func (r *MemoryAdminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAdmin(r.byID[id]), nil
}

func (r *MemoryAdminRepo) Create(_ context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[admin.Email]; ok {
		return ErrDuplicateEmail
	}
	r.byID[admin.ID] = *cloneAdmin(*admin)
	r.byEmail[admin.Email] = admin.ID
	return nil
}

func (r *MemoryAdminRepo) Update(_ context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[admin.ID]
	if !ok {
		return ErrNotFound
	}
	next := *cloneAdmin(*admin)
	next.Email = cur.Email
	next.CreatedAt = cur.CreatedAt
	r.byID[admin.ID] = next
	return nil
}
