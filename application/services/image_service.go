package services

import (
	"context"
	"io"
	"time"

	"reach-backend/application/ports"
	apperrors "reach-backend/pkg/errors"

	"go.uber.org/zap"
)

// MaxImageSize is the upload cap for profile images.
const MaxImageSize = 5 << 20

// presignExpiry is how long a generated image URL stays valid.
const presignExpiry = time.Hour

// ImageService stores one fixed-name profile image per researcher.
type ImageService struct {
	store  ports.ImageStore
	logger *zap.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(store ports.ImageStore, logger *zap.Logger) *ImageService {
	return &ImageService{
		store:  store,
		logger: logger,
	}
}

// imageKey is the per-user object key. One key per user means an upload
// replaces the previous image.
func imageKey(userID string) string {
	return userID + "/profile.png"
}

// Upload validates and stores a profile image. Only JPEG and PNG are
// accepted, capped at MaxImageSize bytes.
func (s *ImageService) Upload(ctx context.Context, userID string, body io.Reader, contentType string, size int64) (string, error) {
	if userID == "" {
		return "", apperrors.NewValidationError("userId is required")
	}
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", apperrors.NewValidationError("image must be JPEG or PNG")
	}
	if size > MaxImageSize {
		return "", apperrors.NewValidationError("image exceeds the 5 MB limit")
	}

	location, err := s.store.Put(ctx, imageKey(userID), body, contentType)
	if err != nil {
		return "", err
	}

	s.logger.Info("Stored profile image", zap.String("userID", userID))
	return location, nil
}

// GetURL returns a presigned, time-limited URL for the user's image.
func (s *ImageService) GetURL(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperrors.NewValidationError("userId is required")
	}
	return s.store.PresignGet(ctx, imageKey(userID), presignExpiry)
}

// Delete removes the user's image. Absent images delete successfully.
func (s *ImageService) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("userId is required")
	}
	return s.store.Delete(ctx, imageKey(userID))
}
