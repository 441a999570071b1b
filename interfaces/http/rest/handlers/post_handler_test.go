package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"reach-backend/application/services"
	"reach-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostFixture(demoFeed bool) (*PostHandler, *memPostRepo, *memProfileRepo) {
	posts := &memPostRepo{}
	profiles := newMemProfileRepo()
	svc := services.NewPostService(posts, profiles, demoToggle(demoFeed), nopPublisher{}, testLogger())
	return NewPostHandler(svc, testLogger()), posts, profiles
}

func TestPostCreateEndpoint(t *testing.T) {
	handler, _, _ := newPostFixture(false)

	rec := doJSON(t, handler.Routes(), http.MethodPost, "/",
		`{"userId":"marie","title":"On polonium","content":"A new element.","tags":["chemistry"],"likeCount":7}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.NotEmpty(t, post.PostID)
	assert.Equal(t, "marie", post.UserID)
	assert.Equal(t, []string{"chemistry"}, post.Tags)
	assert.Equal(t, 7, post.LikeCount)
	assert.NotEmpty(t, post.CreatedAt)
}

func TestPostCreateEndpointDefaults(t *testing.T) {
	handler, _, _ := newPostFixture(false)

	rec := doJSON(t, handler.Routes(), http.MethodPost, "/",
		`{"userId":"marie","title":"t","content":"c"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, []string{}, post.Tags)
	assert.Zero(t, post.LikeCount)
}

func TestPostCreateEndpointRejectsBadBody(t *testing.T) {
	handler, _, _ := newPostFixture(false)
	router := handler.Routes()

	rec := doJSON(t, router, http.MethodPost, "/", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/", `{"userId":"marie"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostGetEndpoint(t *testing.T) {
	handler, posts, _ := newPostFixture(false)
	posts.posts = []domain.Post{{PostID: "p1", UserID: "marie", Title: "On polonium"}}

	rec := doJSON(t, handler.Routes(), http.MethodGet, "/p1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var post domain.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "On polonium", post.Title)
}

func TestPostGetEndpointNotFound(t *testing.T) {
	handler, _, _ := newPostFixture(false)

	rec := doJSON(t, handler.Routes(), http.MethodGet, "/ghost", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "post not found", body["error"])
}

func TestPostListEndpoint(t *testing.T) {
	handler, posts, profiles := newPostFixture(false)
	seedProfile(profiles, "marie", "Marie", "Curie")
	posts.posts = []domain.Post{
		{PostID: "p1", UserID: "marie", Title: "On polonium"},
		{PostID: "p2", UserID: "vanished", Title: "Orphaned"},
	}

	rec := doJSON(t, handler.Routes(), http.MethodGet, "/?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Posts            []domain.EnrichedPost `json:"posts"`
		LastEvaluatedKey string                `json:"lastEvaluatedKey"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Posts, 2)
	assert.Empty(t, body.LastEvaluatedKey)

	assert.Equal(t, "marie", body.Posts[0].AuthorID)
	assert.Equal(t, "Marie Curie", body.Posts[0].AuthorName)
	assert.NotEmpty(t, body.Posts[0].AuthorProfilePicture)
	assert.Zero(t, body.Posts[0].CommentCount)

	assert.Equal(t, "Unknown Researcher", body.Posts[1].AuthorName)
}

func TestPostListEndpointEmpty(t *testing.T) {
	handler, _, _ := newPostFixture(false)

	rec := doJSON(t, handler.Routes(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Posts []domain.EnrichedPost `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Posts)
}
