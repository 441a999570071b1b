package services

import (
	"context"

	"reach-backend/application/ports"
	"reach-backend/domain"
	apperrors "reach-backend/pkg/errors"
	"reach-backend/pkg/utils"

	"go.uber.org/zap"
)

// CreateProfileInput carries the fields accepted at profile creation.
type CreateProfileInput struct {
	UserID          string `json:"userId" validate:"required"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	Institution     string `json:"institution"`
	FieldOfInterest string `json:"fieldOfInterest"`
	Bio             string `json:"bio"`
}

// ProfileService owns profile lifecycle operations.
type ProfileService struct {
	profiles ports.ProfileRepository
	logger   *zap.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ports.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// CreateProfile validates the input and writes a fresh profile record.
// Counters start at zero; an existing record under the same userId is
// replaced.
func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*domain.Profile, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	now := utils.NowRFC3339()
	profile := &domain.Profile{
		UserID:          in.UserID,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Email:           in.Email,
		Phone:           in.Phone,
		Institution:     in.Institution,
		FieldOfInterest: in.FieldOfInterest,
		Bio:             in.Bio,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Created profile", zap.String("userID", profile.UserID))
	return profile, nil
}

// GetProfile returns one profile by user ID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("userId is required")
	}
	return s.profiles.FindByID(ctx, userID)
}

// UpdateProfile merges the allow-listed fields into the stored record and
// refreshes updatedAt, even when no field changed.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update *domain.ProfileUpdate) (*domain.Profile, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("userId is required")
	}
	return s.profiles.ApplyUpdate(ctx, userID, update, utils.NowRFC3339())
}

// DeleteProfile removes a profile. Deleting an absent profile succeeds.
func (s *ProfileService) DeleteProfile(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("userId is required")
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("Deleted profile", zap.String("userID", userID))
	return nil
}

// ListProfiles returns a page of profiles and the cursor for the next one.
func (s *ProfileService) ListProfiles(ctx context.Context, limit int, cursor string) ([]domain.Profile, string, error) {
	return s.profiles.List(ctx, limit, cursor)
}
