package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	adminRepo "providerhub/database/repository/admin"
	"providerhub/models"
	"providerhub/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gate turns bearer tokens issued by the OTP login flow into admins. Token
// issuance happens elsewhere; the gate only verifies them.
type Gate struct {
	Admins adminRepo.AdminRepository
	// Cache maps token hashes to admin ids. Nil disables caching.
	Cache    *redis.Client
	Secret   []byte
	CacheTTL time.Duration
	Clock    func() time.Time
}

func NewGate(admins adminRepo.AdminRepository, cache *redis.Client, secret string, ttl time.Duration) *Gate {
	return &Gate{Admins: admins, Cache: cache, Secret: []byte(secret), CacheTTL: ttl}
}

func (g *Gate) now() time.Time {
	if g.Clock != nil {
		return g.Clock()
	}
	return time.Now()
}

// verify checks the token and returns its lowercased email claim and expiry.
func (g *Gate) verify(token string) (string, time.Time, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", time.Time{}, ErrUnauthorized
	}
	email, expires, err := utils.ExtractTokenClaims(token, g.Secret)
	if err != nil {
		return "", time.Time{}, ErrUnauthorized
	}
	return strings.ToLower(strings.TrimSpace(email)), expires, nil
}

// ResolveAdmin returns the admin the token was issued to.
func (g *Gate) ResolveAdmin(ctx context.Context, token string) (*models.Admin, error) {
	cacheKey := utils.AuthCachePrefix + utils.HashToken(token)
	if admin := g.fromCache(ctx, cacheKey); admin != nil {
		return admin, nil
	}

	email, expires, err := g.verify(token)
	if err != nil {
		return nil, err
	}
	admin, err := g.Admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, adminRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve admin: %w", err)
	}
	g.remember(ctx, cacheKey, admin.ID, expires)
	return admin, nil
}

// Enroll creates the admin for the token's email on first use and returns
// the existing admin afterwards. The bool reports whether it was created.
func (g *Gate) Enroll(ctx context.Context, token string) (*models.Admin, bool, error) {
	email, _, err := g.verify(token)
	if err != nil {
		return nil, false, err
	}

	existing, err := g.Admins.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, adminRepo.ErrNotFound) {
		return nil, false, fmt.Errorf("enroll lookup: %w", err)
	}

	now := g.now().UTC()
	admin := &models.Admin{
		ID:        uuid.NewString(),
		Email:     email,
		Services:  []models.ServiceType{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.Admins.Create(ctx, admin); err != nil {
		if errors.Is(err, adminRepo.ErrDuplicateEmail) {
			// Lost a race with a concurrent enrolment for the same email.
			existing, getErr := g.Admins.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, fmt.Errorf("enroll reload: %w", getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("enroll create: %w", err)
	}
	utils.GetLogger().Info("admin enrolled", zap.String("adminId", admin.ID))
	return admin, true, nil
}

func (g *Gate) fromCache(ctx context.Context, key string) *models.Admin {
	if g.Cache == nil {
		return nil
	}
	adminID, err := g.Cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("auth cache read failed", zap.Error(err))
		}
		return nil
	}
	admin, err := g.Admins.GetByID(ctx, adminID)
	if err != nil {
		return nil
	}
	return admin
}

// remember caches the resolution no longer than the token stays valid.
func (g *Gate) remember(ctx context.Context, key, adminID string, expires time.Time) {
	if g.Cache == nil {
		return
	}
	ttl := g.CacheTTL
	if !expires.IsZero() {
		if left := expires.Sub(g.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return
	}
	if err := g.Cache.Set(ctx, key, adminID, ttl).Err(); err != nil {
		utils.GetLogger().Warn("auth cache write failed", zap.Error(err))
	}
}
