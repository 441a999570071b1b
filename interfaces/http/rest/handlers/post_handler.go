package handlers

import (
	"net/http"

	"reach-backend/application/services"
	"reach-backend/domain"
	"reach-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler serves the /api/posts routes.
type PostHandler struct {
	service *services.PostService
	logger  *zap.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the post routes on a fresh router.
func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{postId}", h.Get)
	return r
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreatePostInput
	if err := common.ParseJSONBody(w, r, &in, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.service.CreatePost(r.Context(), in)
	if err != nil {
		common.RespondAppError(w, err, "failed to create post")
		return
	}
	common.RespondJSON(w, http.StatusCreated, post)
}

// Get handles GET /api/posts/{postId}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		common.RespondAppError(w, err, "failed to get post")
		return
	}
	common.RespondJSON(w, http.StatusOK, post)
}

// List handles GET /api/posts?limit=&lastEvaluatedKey=. Posts come back
// enriched with author display fields.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, next, err := h.service.ListPosts(r.Context(), queryLimit(r), r.URL.Query().Get("lastEvaluatedKey"))
	if err != nil {
		common.RespondAppError(w, err, "failed to list posts")
		return
	}

	common.RespondJSON(w, http.StatusOK, struct {
		Posts            []domain.EnrichedPost `json:"posts"`
		LastEvaluatedKey string                `json:"lastEvaluatedKey,omitempty"`
	}{Posts: posts, LastEvaluatedKey: next})
}
