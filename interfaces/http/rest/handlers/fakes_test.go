package handlers

import (
	"context"
	"io"
	"time"

	"reach-backend/application/ports"
	"reach-backend/application/services"
	"reach-backend/domain"
	"reach-backend/domain/events"
	apperrors "reach-backend/pkg/errors"

	"go.uber.org/zap"
)

// memProfileRepo is an in-memory ports.ProfileRepository for handler tests.
type memProfileRepo struct {
	profiles map[string]*domain.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (m *memProfileRepo) Save(_ context.Context, profile *domain.Profile) error {
	clone := *profile
	m.profiles[profile.UserID] = &clone
	return nil
}

func (m *memProfileRepo) FindByID(_ context.Context, userID string) (*domain.Profile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile")
	}
	clone := *profile
	return &clone, nil
}

func (m *memProfileRepo) ApplyUpdate(_ context.Context, userID string, update *domain.ProfileUpdate, updatedAt string) (*domain.Profile, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, apperrors.NewNotFoundError("profile")
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.FirstName != nil {
		profile.FirstName = *update.FirstName
	}
	profile.UpdatedAt = updatedAt
	clone := *profile
	return &clone, nil
}

func (m *memProfileRepo) Delete(_ context.Context, userID string) error {
	delete(m.profiles, userID)
	return nil
}

func (m *memProfileRepo) List(_ context.Context, limit int, _ string) ([]domain.Profile, string, error) {
	out := make([]domain.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, *p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, "", nil
}

func (m *memProfileRepo) GetCounters(_ context.Context, userID string) (int, int, error) {
	profile, ok := m.profiles[userID]
	if !ok {
		return 0, 0, nil
	}
	return profile.Followers, profile.Following, nil
}

// memFollowRepo is an in-memory ports.FollowRepository.
type memFollowRepo struct {
	edges    map[[2]string]bool
	profiles *memProfileRepo
}

func newMemFollowRepo(profiles *memProfileRepo) *memFollowRepo {
	return &memFollowRepo{edges: make(map[[2]string]bool), profiles: profiles}
}

func (m *memFollowRepo) Exists(_ context.Context, followerID, followingID string) (bool, error) {
	return m.edges[[2]string{followerID, followingID}], nil
}

func (m *memFollowRepo) CreateWithCounters(_ context.Context, edge *domain.FollowRelationship) error {
	key := [2]string{edge.FollowerID, edge.FollowingID}
	if m.edges[key] {
		return apperrors.NewConflictError("already following this user")
	}
	m.edges[key] = true
	m.bump(edge.FollowerID, edge.FollowingID, 1)
	return nil
}

func (m *memFollowRepo) DeleteWithCounters(_ context.Context, followerID, followingID string) error {
	key := [2]string{followerID, followingID}
	if !m.edges[key] {
		return apperrors.NewNotFoundError("follow relationship")
	}
	delete(m.edges, key)
	m.bump(followerID, followingID, -1)
	return nil
}

func (m *memFollowRepo) bump(followerID, followingID string, delta int) {
	if p, ok := m.profiles.profiles[followerID]; ok {
		p.Following += delta
	}
	if p, ok := m.profiles.profiles[followingID]; ok {
		p.Followers += delta
	}
}

// memPostRepo is an in-memory ports.PostRepository.
type memPostRepo struct {
	posts []domain.Post
}

func (m *memPostRepo) Save(_ context.Context, post *domain.Post) error {
	m.posts = append(m.posts, *post)
	return nil
}

func (m *memPostRepo) FindByID(_ context.Context, postID string) (*domain.Post, error) {
	for _, p := range m.posts {
		if p.PostID == postID {
			clone := p
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError("post")
}

func (m *memPostRepo) List(_ context.Context, limit int, _ string) ([]domain.Post, string, error) {
	out := m.posts
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return append([]domain.Post(nil), out...), "", nil
}

// memImageStore records object-store calls.
type memImageStore struct {
	puts map[string]string
}

func newMemImageStore() *memImageStore {
	return &memImageStore{puts: make(map[string]string)}
}

func (m *memImageStore) Put(_ context.Context, key string, _ io.Reader, contentType string) (string, error) {
	m.puts[key] = contentType
	return "s3://test-bucket/" + key, nil
}

func (m *memImageStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://example.com/" + key, nil
}

func (m *memImageStore) Delete(_ context.Context, key string) error {
	delete(m.puts, key)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.DomainEvent) error {
	return nil
}

type demoToggle bool

func (d demoToggle) DemoFeedEnabled() bool { return bool(d) }

var _ ports.ProfileRepository = (*memProfileRepo)(nil)
var _ ports.PostRepository = (*memPostRepo)(nil)
var _ ports.FollowRepository = (*memFollowRepo)(nil)
var _ ports.ImageStore = (*memImageStore)(nil)

func testLogger() *zap.Logger { return zap.NewNop() }

func newProfileFixture() (*ProfileHandler, *memProfileRepo) {
	repo := newMemProfileRepo()
	return NewProfileHandler(services.NewProfileService(repo, testLogger()), testLogger()), repo
}

func seedProfile(repo *memProfileRepo, userID, first, last string) {
	repo.profiles[userID] = &domain.Profile{
		UserID:    userID,
		FirstName: first,
		LastName:  last,
		Email:     userID + "@example.edu",
		CreatedAt: "2026-01-01T00:00:00Z",
		UpdatedAt: "2026-01-01T00:00:00Z",
	}
}
