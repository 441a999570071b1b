package services

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"reach-backend/application/ports"
	"reach-backend/domain"
	"reach-backend/domain/events"
	apperrors "reach-backend/pkg/errors"
	"reach-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// unknownAuthorName is shown when a post's author profile is missing
// (deleted after posting, or never provisioned).
const unknownAuthorName = "Unknown Researcher"

// CreatePostInput carries the fields accepted at post creation. LikeCount
// lets an import seed a post with an existing count; it defaults to zero.
type CreatePostInput struct {
	UserID    string   `json:"userId" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Tags      []string `json:"tags"`
	LikeCount int      `json:"likeCount" validate:"gte=0"`
}

// FeedToggle exposes the runtime demo-feed switch.
type FeedToggle interface {
	DemoFeedEnabled() bool
}

// PostService owns post creation and the enriched feed reads.
type PostService struct {
	posts     ports.PostRepository
	profiles  ports.ProfileRepository
	toggle    FeedToggle
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewPostService creates a new PostService.
func NewPostService(posts ports.PostRepository, profiles ports.ProfileRepository, toggle FeedToggle, publisher ports.EventPublisher, logger *zap.Logger) *PostService {
	return &PostService{
		posts:     posts,
		profiles:  profiles,
		toggle:    toggle,
		publisher: publisher,
		logger:    logger,
	}
}

// CreatePost validates the input and writes a new post under a generated
// ID. Tags default to an empty list.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	if err := utils.ValidateStruct(in); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := utils.NowRFC3339()
	post := &domain.Post{
		PostID:    uuid.NewString(),
		UserID:    in.UserID,
		Title:     in.Title,
		Content:   in.Content,
		Tags:      tags,
		LikeCount: in.LikeCount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.PostCreated{
		BaseEvent: events.NewBaseEvent(),
		PostID:    post.PostID,
		UserID:    post.UserID,
	})
	s.logger.Info("Created post",
		zap.String("postID", post.PostID),
		zap.String("userID", post.UserID),
	)
	return post, nil
}

// GetPost returns one post by ID.
func (s *PostService) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	if postID == "" {
		return nil, apperrors.NewValidationError("postId is required")
	}
	return s.posts.FindByID(ctx, postID)
}

// ListPosts returns a page of posts with the author display data joined
// in. When the table is empty on the first page and the demo feed is
// switched on, a canned feed is returned instead so a fresh deployment is
// not a blank screen.
func (s *PostService) ListPosts(ctx context.Context, limit int, cursor string) ([]domain.EnrichedPost, string, error) {
	posts, next, err := s.posts.List(ctx, limit, cursor)
	if err != nil {
		return nil, "", err
	}

	if len(posts) == 0 && cursor == "" && s.toggle.DemoFeedEnabled() {
		return demoFeed(), "", nil
	}

	return s.enrich(ctx, posts), next, nil
}

// enrich joins each post with its author's display fields. Author lookups
// fan out concurrently, one per distinct author.
func (s *PostService) enrich(ctx context.Context, posts []domain.Post) []domain.EnrichedPost {
	authors := make(map[string]*domain.Profile)
	for _, post := range posts {
		authors[post.UserID] = nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for userID := range authors {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			profile, err := s.profiles.FindByID(ctx, userID)
			if err != nil {
				if !apperrors.IsNotFound(err) {
					s.logger.Warn("Author lookup failed",
						zap.String("userID", userID),
						zap.Error(err),
					)
				}
				return
			}
			mu.Lock()
			authors[userID] = profile
			mu.Unlock()
		}(userID)
	}
	wg.Wait()

	enriched := make([]domain.EnrichedPost, 0, len(posts))
	for _, post := range posts {
		e := domain.EnrichedPost{
			Post:                 post,
			AuthorID:             post.UserID,
			AuthorName:           unknownAuthorName,
			AuthorProfilePicture: avatarURL(post.UserID),
		}
		if author := authors[post.UserID]; author != nil {
			e.AuthorName = author.DisplayName()
		}
		enriched = append(enriched, e)
	}
	return enriched
}

// avatarURL derives a stable placeholder avatar for a user. The provider
// serves 70 distinct images, so the hash is folded into that range.
func avatarURL(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	img := h.Sum32()%70 + 1
	return "https://i.pravatar.cc/150?img=" + strconv.Itoa(int(img))
}

// demoFeed is the canned first-run feed.
func demoFeed() []domain.EnrichedPost {
	now := utils.NowRFC3339()
	demo := []struct {
		id, author, name, title, content string
		tags                             []string
	}{
		{
			id:      "demo-1",
			author:  "demo-ada",
			name:    "Ada Lovelace",
			title:   "Notes on the Analytical Engine",
			content: "Sketching how a general-purpose engine could weave algebraic patterns.",
			tags:    []string{"computing", "mathematics"},
		},
		{
			id:      "demo-2",
			author:  "demo-rosalind",
			name:    "Rosalind Franklin",
			title:   "Diffraction patterns of crystallized fibres",
			content: "Photo 51 suggests a helical structure worth a closer look.",
			tags:    []string{"crystallography", "biology"},
		},
		{
			id:      "demo-3",
			author:  "demo-george",
			name:    "George Carver",
			title:   "Crop rotation field results",
			content: "Soil nitrogen recovers markedly after a legume season.",
			tags:    []string{"agronomy"},
		},
	}

	feed := make([]domain.EnrichedPost, 0, len(demo))
	for _, d := range demo {
		feed = append(feed, domain.EnrichedPost{
			Post: domain.Post{
				PostID:    d.id,
				UserID:    d.author,
				Title:     d.title,
				Content:   d.content,
				Tags:      d.tags,
				CreatedAt: now,
				UpdatedAt: now,
			},
			AuthorID:             d.author,
			AuthorName:           d.name,
			AuthorProfilePicture: avatarURL(d.author),
		})
	}
	return feed
}
