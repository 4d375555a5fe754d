package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const photoFolder = "admins/photos"

// CloudinaryPhotoStore implements PhotoStore on Cloudinary. Each admin has
// one image whose public id is derived from the admin id.
type CloudinaryPhotoStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryPhotoStore initializes a Cloudinary client from credentials.
func NewCloudinaryPhotoStore(cloudName, apiKey, apiSecret string) (*CloudinaryPhotoStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryPhotoStore{cld: cld}, nil
}

func (s *CloudinaryPhotoStore) UploadPhoto(ctx context.Context, adminID string, r io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:       photoFolder,
		PublicID:     adminID,
		ResourceType: "image",
	}
	result, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload photo: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("no secure url returned for photo upload")
	}
	return result.SecureURL, nil
}

func (s *CloudinaryPhotoStore) DeletePhoto(ctx context.Context, adminID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: photoFolder + "/" + adminID})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
