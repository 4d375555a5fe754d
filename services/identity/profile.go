package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	adminRepo "providerhub/database/repository/admin"
	"providerhub/models"
	"providerhub/services/storage"

	"github.com/go-playground/validator/v10"
)

// ProfileService reads and edits admin profiles.
type ProfileService struct {
	Admins   adminRepo.AdminRepository
	Photos   storage.PhotoStore
	Clock    func() time.Time
	validate *validator.Validate
}

func NewProfileService(admins adminRepo.AdminRepository, photos storage.PhotoStore) *ProfileService {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("servicetype", func(fl validator.FieldLevel) bool {
		return models.IsKnownServiceType(models.ServiceType(fl.Field().String()))
	})
	return &ProfileService{Admins: admins, Photos: photos, validate: v}
}

func (s *ProfileService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *ProfileService) GetProfile(ctx context.Context, adminID string) (*models.Admin, error) {
	admin, err := s.Admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, adminRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return admin, nil
}

// UpdateProfile validates upd and applies it. Email is never changed here.
func (s *ProfileService) UpdateProfile(ctx context.Context, adminID string, upd models.ProfileUpdate) (*models.Admin, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	upd.Phone = strings.TrimSpace(upd.Phone)
	upd.AadhaarNumber = strings.TrimSpace(upd.AadhaarNumber)
	upd.Gender = strings.TrimSpace(upd.Gender)
	upd.Services = dedupeServices(upd.Services)

	if err := s.validate.Struct(upd); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return nil, &ValidationError{Fields: fields}
		}
		return nil, fmt.Errorf("validate profile: %w", err)
	}

	admin, err := s.GetProfile(ctx, adminID)
	if err != nil {
		return nil, err
	}
	admin.Name = upd.Name
	admin.Phone = upd.Phone
	admin.AadhaarNumber = upd.AadhaarNumber
	admin.Age = upd.Age
	admin.Gender = upd.Gender
	admin.Services = upd.Services
	if upd.Location != nil {
		admin.Location = *upd.Location
	}
	admin.UpdatedAt = s.now()

	if err := s.Admins.Update(ctx, admin); err != nil {
		if errors.Is(err, adminRepo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return admin, nil
}

// UploadPhoto stores a new profile photo and records its URL.
func (s *ProfileService) UploadPhoto(ctx context.Context, adminID string, r io.Reader) (*models.Admin, error) {
	if s.Photos == nil {
		return nil, ErrPhotoStoreDisabled
	}
	admin, err := s.GetProfile(ctx, adminID)
	if err != nil {
		return nil, err
	}
	url, err := s.Photos.UploadPhoto(ctx, adminID, r)
	if err != nil {
		return nil, err
	}
	admin.Photo = url
	admin.UpdatedAt = s.now()
	if err := s.Admins.Update(ctx, admin); err != nil {
		return nil, fmt.Errorf("save photo url: %w", err)
	}
	return admin, nil
}

// RemovePhoto deletes the stored photo and clears the admin's photo URL.
func (s *ProfileService) RemovePhoto(ctx context.Context, adminID string) (*models.Admin, error) {
	if s.Photos == nil {
		return nil, ErrPhotoStoreDisabled
	}
	admin, err := s.GetProfile(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Photo == "" {
		return admin, nil
	}
	if err := s.Photos.DeletePhoto(ctx, adminID); err != nil {
		return nil, err
	}
	admin.Photo = ""
	admin.UpdatedAt = s.now()
	if err := s.Admins.Update(ctx, admin); err != nil {
		return nil, fmt.Errorf("clear photo url: %w", err)
	}
	return admin, nil
}

func dedupeServices(in []models.ServiceType) []models.ServiceType {
	if in == nil {
		return nil
	}
	seen := make(map[models.ServiceType]bool, len(in))
	out := make([]models.ServiceType, 0, len(in))
	for _, s := range in {
		s = models.ServiceType(strings.TrimSpace(string(s)))
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
