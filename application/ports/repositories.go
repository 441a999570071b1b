package ports

import (
	"context"

	"reach-backend/domain"
)

// ProfileRepository persists Profile records in the Profiles table.
type ProfileRepository interface {
	// Save writes a profile with replace semantics: an existing record
	// under the same userId is silently overwritten.
	Save(ctx context.Context, profile *domain.Profile) error

	// FindByID returns the profile or a NotFound error.
	FindByID(ctx context.Context, userID string) (*domain.Profile, error)

	// ApplyUpdate merges the non-nil fields of update into the stored
	// record, refreshes updatedAt, and returns the post-update image.
	// Returns NotFound when no record exists under userID.
	ApplyUpdate(ctx context.Context, userID string, update *domain.ProfileUpdate, updatedAt string) (*domain.Profile, error)

	// Delete removes a profile unconditionally. Deleting an absent key is
	// a no-op success.
	Delete(ctx context.Context, userID string) error

	// List returns up to limit profiles and an opaque cursor for the next
	// page ("" when the scan is exhausted).
	List(ctx context.Context, limit int, cursor string) ([]domain.Profile, string, error)

	// GetCounters reads the follower/following counters. Absent profiles
	// and absent attributes both read as zero.
	GetCounters(ctx context.Context, userID string) (followers, following int, err error)
}

// FollowRepository persists follow edges and keeps the denormalized
// profile counters in step with them.
type FollowRepository interface {
	// Exists reports whether the (followerId, followingId) edge is present.
	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	// CreateWithCounters writes the edge and increments both endpoint
	// counters in a single transaction. Returns Conflict when the edge
	// already exists.
	CreateWithCounters(ctx context.Context, edge *domain.FollowRelationship) error

	// DeleteWithCounters removes the edge and decrements both endpoint
	// counters in a single transaction. Returns NotFound when the edge
	// does not exist.
	DeleteWithCounters(ctx context.Context, followerID, followingID string) error
}

// PostRepository persists Post records in the Posts table.
type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID string) (*domain.Post, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Post, string, error)
}
