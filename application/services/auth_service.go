package services

import (
	"context"

	"reach-backend/application/ports"
	"reach-backend/domain"
	"reach-backend/pkg/auth"
	apperrors "reach-backend/pkg/errors"
	"reach-backend/pkg/utils"

	"go.uber.org/zap"
)

// SignUpRequest carries the registration fields.
type SignUpRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// SignInResult is the outcome of a successful sign-in: the token set plus
// the identity claims lifted from the ID token.
type SignInResult struct {
	Tokens *ports.AuthTokens
	UserID string
	Email  string
}

// AuthService delegates credential handling to the identity provider and
// provisions the matching profile record at registration.
type AuthService struct {
	identity ports.IdentityProvider
	profiles ports.ProfileRepository
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(identity ports.IdentityProvider, profiles ports.ProfileRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		identity: identity,
		profiles: profiles,
		logger:   logger,
	}
}

// SignUp registers the account with the identity provider and writes the
// profile record under the same userId, so a signed-up researcher is
// immediately visible in the network.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	if err := s.identity.SignUp(ctx, ports.SignUpInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return err
	}

	now := utils.NowRFC3339()
	profile := &domain.Profile{
		UserID:    req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		// The account exists but the profile does not. Surface the failure
		// so the client retries profile creation rather than signing in to
		// a half-provisioned account.
		s.logger.Error("Profile provisioning after signup failed",
			zap.String("userID", req.Username),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("Registered researcher", zap.String("userID", req.Username))
	return nil
}

// SignIn authenticates and returns the token set. The userId and email in
// the result come from the ID token the provider just issued.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*SignInResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password are required")
	}

	tokens, err := s.identity.SignIn(ctx, username, password)
	if err != nil {
		return nil, err
	}

	result := &SignInResult{Tokens: tokens, UserID: username}
	if claims, err := auth.ParseIDTokenClaims(tokens.IDToken); err == nil {
		if claims.Subject != "" {
			result.UserID = claims.Subject
		}
		result.Email = claims.Email
	}
	return result, nil
}

// Confirm completes a registration with the emailed verification code.
func (s *AuthService) Confirm(ctx context.Context, username, code string) error {
	if username == "" || code == "" {
		return apperrors.NewValidationError("username and code are required")
	}
	return s.identity.ConfirmSignUp(ctx, username, code)
}

// SignOut revokes the caller's tokens. Failures other than upstream
// outages are already absorbed by the provider wrapper.
func (s *AuthService) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return apperrors.NewValidationError("accessToken is required")
	}
	return s.identity.SignOut(ctx, accessToken)
}

// CheckToken validates a bearer token and returns the user it belongs to.
func (s *AuthService) CheckToken(ctx context.Context, accessToken string) (string, error) {
	return s.identity.CheckAccessToken(ctx, accessToken)
}
