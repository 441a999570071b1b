package services

import (
	"context"
	"sync"

	"reach-backend/application/ports"
	"reach-backend/domain"
	"reach-backend/domain/events"
	apperrors "reach-backend/pkg/errors"
	"reach-backend/pkg/utils"

	"go.uber.org/zap"
)

// FollowService owns the follow graph: edge writes, the denormalized
// counters riding along with them, and the read-side queries.
type FollowService struct {
	follows   ports.FollowRepository
	profiles  ports.ProfileRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewFollowService creates a new FollowService.
func NewFollowService(follows ports.FollowRepository, profiles ports.ProfileRepository, publisher ports.EventPublisher, logger *zap.Logger) *FollowService {
	return &FollowService{
		follows:   follows,
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
	}
}

// Follow creates the follower -> following edge. Both endpoint profiles
// must exist; following yourself is rejected; a duplicate edge is a
// Conflict and leaves the counters untouched.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*domain.FollowRelationship, error) {
	if err := s.checkPair(ctx, followerID, followingID); err != nil {
		return nil, err
	}

	edge := &domain.FollowRelationship{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   utils.NowRFC3339(),
	}
	if err := s.follows.CreateWithCounters(ctx, edge); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.FollowCreated{
		BaseEvent:   events.NewBaseEvent(),
		FollowerID:  followerID,
		FollowingID: followingID,
	})
	return edge, nil
}

// Unfollow removes the edge. Unfollowing someone you do not follow is a
// NotFound, not a silent success, so clients can surface the stale state.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if err := s.checkPair(ctx, followerID, followingID); err != nil {
		return err
	}

	if err := s.follows.DeleteWithCounters(ctx, followerID, followingID); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.FollowDeleted{
		BaseEvent:   events.NewBaseEvent(),
		FollowerID:  followerID,
		FollowingID: followingID,
	})
	return nil
}

// IsFollowing reports whether the edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, apperrors.NewValidationError("followerId and followingId are required")
	}
	return s.follows.Exists(ctx, followerID, followingID)
}

// FollowerCount returns how many researchers follow userID.
func (s *FollowService) FollowerCount(ctx context.Context, userID string) (int, error) {
	followers, _, err := s.profiles.GetCounters(ctx, userID)
	return followers, err
}

// FollowingCount returns how many researchers userID follows.
func (s *FollowService) FollowingCount(ctx context.Context, userID string) (int, error) {
	_, following, err := s.profiles.GetCounters(ctx, userID)
	return following, err
}

// checkPair validates the pair and confirms both profiles exist, checking
// the two sides concurrently.
func (s *FollowService) checkPair(ctx context.Context, followerID, followingID string) error {
	if followerID == "" || followingID == "" {
		return apperrors.NewValidationError("followerId and followingId are required")
	}
	if followerID == followingID {
		return apperrors.NewValidationError("cannot follow yourself")
	}

	var wg sync.WaitGroup
	var followerErr, followingErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, followerErr = s.profiles.FindByID(ctx, followerID)
	}()
	go func() {
		defer wg.Done()
		_, followingErr = s.profiles.FindByID(ctx, followingID)
	}()
	wg.Wait()

	if followerErr != nil {
		if apperrors.IsNotFound(followerErr) {
			return apperrors.NewNotFoundError("follower profile")
		}
		return followerErr
	}
	if followingErr != nil {
		if apperrors.IsNotFound(followingErr) {
			return apperrors.NewNotFoundError("following profile")
		}
		return followingErr
	}
	return nil
}
