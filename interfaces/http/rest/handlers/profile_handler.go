package handlers

import (
	"net/http"
	"strconv"

	"reach-backend/application/services"
	"reach-backend/domain"
	"reach-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// ProfileHandler serves the /api/profiles routes.
type ProfileHandler struct {
	service *services.ProfileService
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *services.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the profile routes on a fresh router.
func (h *ProfileHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{userId}", h.Get)
	r.Put("/{userId}", h.Update)
	r.Delete("/{userId}", h.Delete)
	return r
}

// Create handles POST /api/profiles.
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateProfileInput
	if err := common.ParseJSONBody(w, r, &in, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), in)
	if err != nil {
		common.RespondAppError(w, err, "failed to create profile")
		return
	}
	common.RespondJSON(w, http.StatusCreated, profile)
}

// Get handles GET /api/profiles/{userId}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		common.RespondAppError(w, err, "failed to get profile")
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// Update handles PUT /api/profiles/{userId}.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update domain.ProfileUpdate
	if err := common.ParseJSONBody(w, r, &update, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "userId"), &update)
	if err != nil {
		common.RespondAppError(w, err, "failed to update profile")
		return
	}
	common.RespondJSON(w, http.StatusOK, profile)
}

// Delete handles DELETE /api/profiles/{userId}.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProfile(r.Context(), chi.URLParam(r, "userId")); err != nil {
		common.RespondAppError(w, err, "failed to delete profile")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/profiles?limit=&lastEvaluatedKey=.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, next, err := h.service.ListProfiles(r.Context(), queryLimit(r), r.URL.Query().Get("lastEvaluatedKey"))
	if err != nil {
		common.RespondAppError(w, err, "failed to list profiles")
		return
	}

	common.RespondJSON(w, http.StatusOK, struct {
		Profiles         []domain.Profile `json:"profiles"`
		LastEvaluatedKey string           `json:"lastEvaluatedKey,omitempty"`
	}{Profiles: profiles, LastEvaluatedKey: next})
}

// queryLimit parses the limit query parameter, 0 when absent or invalid
// so the store applies its default.
func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
