package handlers

import (
	"net/http"

	"reach-backend/application/services"
	"reach-backend/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	service *services.AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Routes mounts the auth routes on a fresh router.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.SignUp)
	r.Post("/signin", h.SignIn)
	r.Post("/confirm", h.Confirm)
	r.Post("/signout", h.SignOut)
	return r
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req services.SignUpRequest
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SignUp(r.Context(), req); err != nil {
		common.RespondAppError(w, err, "failed to sign up")
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "user registered, confirmation code sent",
	})
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		common.RespondAppError(w, err, "failed to sign in")
		return
	}

	common.RespondJSON(w, http.StatusOK, struct {
		AccessToken  string `json:"accessToken"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken,omitempty"`
		ExpiresIn    int32  `json:"expiresIn"`
		UserID       string `json:"userId"`
		Email        string `json:"email,omitempty"`
	}{
		AccessToken:  result.Tokens.AccessToken,
		IDToken:      result.Tokens.IDToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		UserID:       result.UserID,
		Email:        result.Email,
	})
}

// Confirm handles POST /api/auth/confirm.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Code     string `json:"code"`
	}
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Confirm(r.Context(), req.Username, req.Code); err != nil {
		common.RespondAppError(w, err, "failed to confirm signup")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "account confirmed"})
}

// SignOut handles POST /api/auth/signout.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"accessToken"`
	}
	if err := common.ParseJSONBody(w, r, &req, maxJSONBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SignOut(r.Context(), req.AccessToken); err != nil {
		common.RespondAppError(w, err, "failed to sign out")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}
