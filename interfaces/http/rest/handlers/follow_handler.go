package handlers

import (
	"net/http"

	"reach-backend/application/services"
	"reach-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// followBody is the request body naming the follower side of the edge.
// The following side rides in the URL.
type followBody struct {
	FollowerID string `json:"followerId"`
}

// FollowHandler serves the /api/follows routes.
type FollowHandler struct {
	service *services.FollowService
	logger  *zap.Logger
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(service *services.FollowService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the follow routes on a fresh router.
func (h *FollowHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{followingId}", h.Follow)
	r.Delete("/{followingId}", h.Unfollow)
	r.Get("/{followingId}/status", h.Status)
	r.Get("/{userId}/followers/count", h.FollowerCount)
	r.Get("/{userId}/following/count", h.FollowingCount)
	return r
}

// Follow handles POST /api/follows/{followingId}.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	var body followBody
	if err := common.ParseJSONBody(w, r, &body, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.FollowerID == "" {
		common.RespondError(w, http.StatusBadRequest, "followerId is required")
		return
	}

	edge, err := h.service.Follow(r.Context(), body.FollowerID, chi.URLParam(r, "followingId"))
	if err != nil {
		common.RespondAppError(w, err, "failed to follow user")
		return
	}
	common.RespondJSON(w, http.StatusCreated, edge)
}

// Unfollow handles DELETE /api/follows/{followingId}.
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	var body followBody
	if err := common.ParseJSONBody(w, r, &body, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.FollowerID == "" {
		common.RespondError(w, http.StatusBadRequest, "followerId is required")
		return
	}

	if err := h.service.Unfollow(r.Context(), body.FollowerID, chi.URLParam(r, "followingId")); err != nil {
		common.RespondAppError(w, err, "failed to unfollow user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /api/follows/{followingId}/status?followerId=.
func (h *FollowHandler) Status(w http.ResponseWriter, r *http.Request) {
	following, err := h.service.IsFollowing(r.Context(),
		r.URL.Query().Get("followerId"),
		chi.URLParam(r, "followingId"),
	)
	if err != nil {
		common.RespondAppError(w, err, "failed to check follow status")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"isFollowing": following})
}

// FollowerCount handles GET /api/follows/{userId}/followers/count.
func (h *FollowHandler) FollowerCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.FollowerCount(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		common.RespondAppError(w, err, "failed to count followers")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"followers": count})
}

// FollowingCount handles GET /api/follows/{userId}/following/count.
func (h *FollowHandler) FollowingCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.FollowingCount(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		common.RespondAppError(w, err, "failed to count following")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"following": count})
}
