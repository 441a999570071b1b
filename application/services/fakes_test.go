package services

import (
	"context"
	"io"
	"sync"
	"time"

	"reach-backend/application/ports"
	"reach-backend/domain"
	"reach-backend/domain/events"
	apperrors "reach-backend/pkg/errors"
)

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	saveErr  error
	findErr  error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) Save(_ context.Context, profile *domain.Profile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *profile
	f.profiles[profile.UserID] = &clone
	return nil
}

func (f *fakeProfileRepo) FindByID(_ context.Context, userID string) (*domain.Profile, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile")
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileRepo) ApplyUpdate(_ context.Context, userID string, update *domain.ProfileUpdate, updatedAt string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile")
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&profile.FirstName, update.FirstName)
	set(&profile.LastName, update.LastName)
	set(&profile.Email, update.Email)
	set(&profile.Phone, update.Phone)
	set(&profile.Institution, update.Institution)
	set(&profile.FieldOfInterest, update.FieldOfInterest)
	set(&profile.Bio, update.Bio)
	profile.UpdatedAt = updatedAt
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, userID)
	return nil
}

func (f *fakeProfileRepo) List(_ context.Context, limit int, _ string) ([]domain.Profile, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Profile, 0, len(f.profiles))
	for _, p := range f.profiles {
		out = append(out, *p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, "", nil
}

func (f *fakeProfileRepo) GetCounters(_ context.Context, userID string) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return 0, 0, nil
	}
	return profile.Followers, profile.Following, nil
}

// fakeFollowRepo keeps the edge set and adjusts the counters on the
// profile fake the way the transactional store does.
type fakeFollowRepo struct {
	mu       sync.Mutex
	edges    map[[2]string]bool
	profiles *fakeProfileRepo
}

func newFakeFollowRepo(profiles *fakeProfileRepo) *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[[2]string]bool), profiles: profiles}
}

func (f *fakeFollowRepo) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edges[[2]string{followerID, followingID}], nil
}

func (f *fakeFollowRepo) CreateWithCounters(_ context.Context, edge *domain.FollowRelationship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]string{edge.FollowerID, edge.FollowingID}
	if f.edges[key] {
		return apperrors.NewConflictError("already following this user")
	}
	f.edges[key] = true
	f.bump(edge.FollowerID, edge.FollowingID, 1)
	return nil
}

func (f *fakeFollowRepo) DeleteWithCounters(_ context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]string{followerID, followingID}
	if !f.edges[key] {
		return apperrors.NewNotFoundError("follow relationship")
	}
	delete(f.edges, key)
	f.bump(followerID, followingID, -1)
	return nil
}

func (f *fakeFollowRepo) bump(followerID, followingID string, delta int) {
	f.profiles.mu.Lock()
	defer f.profiles.mu.Unlock()
	if p, ok := f.profiles.profiles[followerID]; ok {
		p.Following += delta
	}
	if p, ok := f.profiles.profiles[followingID]; ok {
		p.Followers += delta
	}
}

type fakePostRepo struct {
	mu      sync.Mutex
	posts   []domain.Post
	saveErr error
}

func (f *fakePostRepo) Save(_ context.Context, post *domain.Post) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakePostRepo) FindByID(_ context.Context, postID string) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.PostID == postID {
			clone := p
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError("post")
}

func (f *fakePostRepo) List(_ context.Context, limit int, _ string) ([]domain.Post, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.posts
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return append([]domain.Post(nil), out...), "", nil
}

type fakeIdentity struct {
	mu         sync.Mutex
	signUpErr  error
	signInErr  error
	confirmErr error
	tokens     ports.AuthTokens
	signUps    []ports.SignUpInput
	signOuts   []string
	validToken string
}

func (f *fakeIdentity) SignUp(_ context.Context, in ports.SignUpInput) error {
	if f.signUpErr != nil {
		return f.signUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUps = append(f.signUps, in)
	return nil
}

func (f *fakeIdentity) SignIn(_ context.Context, _, _ string) (*ports.AuthTokens, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	tokens := f.tokens
	return &tokens, nil
}

func (f *fakeIdentity) ConfirmSignUp(_ context.Context, _, _ string) error {
	return f.confirmErr
}

func (f *fakeIdentity) SignOut(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts = append(f.signOuts, accessToken)
	return nil
}

func (f *fakeIdentity) CheckAccessToken(_ context.Context, accessToken string) (string, error) {
	if f.validToken != "" && accessToken == f.validToken {
		return "user-1", nil
	}
	return "", apperrors.NewUnauthorizedError("invalid or expired token")
}

type fakeImageStore struct {
	mu       sync.Mutex
	puts     map[string]string
	deletes  []string
	putErr   error
	presigns []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{puts: make(map[string]string)}
}

func (f *fakeImageStore) Put(_ context.Context, key string, _ io.Reader, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts[key] = contentType
	return "s3://test-bucket/" + key, nil
}

func (f *fakeImageStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presigns = append(f.presigns, key)
	return "https://example.com/" + key, nil
}

func (f *fakeImageStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (c *capturePublisher) Publish(_ context.Context, event events.DomainEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType())
	}
	return out
}

type staticToggle bool

func (t staticToggle) DemoFeedEnabled() bool { return bool(t) }
