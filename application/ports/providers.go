package ports

import (
	"context"
	"io"
	"time"

	"reach-backend/domain/events"
)

// SignUpInput carries the fields forwarded to the identity provider at
// registration.
type SignUpInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

// AuthTokens is the token set issued by the identity provider at sign-in.
type AuthTokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int32
}

// IdentityProvider wraps the managed auth service. Implementations map
// provider failures onto the shared error taxonomy (Conflict for duplicate
// usernames, Unauthorized for bad credentials, Validation for bad codes).
type IdentityProvider interface {
	SignUp(ctx context.Context, in SignUpInput) error
	SignIn(ctx context.Context, username, password string) (*AuthTokens, error)
	ConfirmSignUp(ctx context.Context, username, code string) error
	SignOut(ctx context.Context, accessToken string) error

	// CheckAccessToken validates a bearer token against the provider and
	// returns the user it belongs to.
	CheckAccessToken(ctx context.Context, accessToken string) (userID string, err error)
}

// ImageStore wraps the object store holding profile images.
type ImageStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (location string, err error)
	PresignGet(ctx context.Context, key string, expiry time.Duration) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes domain events. Publishing is best-effort: the
// request that triggered an event never fails because the event bus did.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
