package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"evmarket/internal/models"
	"evmarket/internal/service"
)

// UsersHandlers serves the user profile endpoints.
type UsersHandlers struct {
	service *service.UserService
	logger  *zap.Logger
}

// NewUsersHandlers returns handler.
func NewUsersHandlers(svc *service.UserService, logger *zap.Logger) *UsersHandlers {
	return &UsersHandlers{service: svc, logger: logger}
}

// Get handles GET /api/users/{userId}, auto-creating a default profile for
// unknown ids.
func (h *UsersHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetOrCreate(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondError(w, h.logger, err, "Failed to get user profile")
		return
	}
	writeData(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name      *string         `json:"name"`
	Email     *string         `json:"email" validate:"omitempty,email"`
	Phone     *string         `json:"phone"`
	AvatarURL *string         `json:"avatarUrl"`
	Address   *models.Address `json:"address"`
}

// Upsert handles PUT /api/users/{userId}.
func (h *UsersHandlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid profile payload")
		return
	}

	user, err := h.service.Upsert(r.Context(), r.PathValue("userId"), service.UpdateProfileInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
		Address:   req.Address,
	})
	if err != nil {
		respondError(w, h.logger, err, "Failed to save profile")
		return
	}

	writeMessage(w, http.StatusOK, user, "Profile saved successfully")
}

// Delete handles DELETE /api/users/{userId}.
func (h *UsersHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("userId")); err != nil {
		respondError(w, h.logger, err, "Failed to delete profile")
		return
	}
	writeMessage(w, http.StatusOK, nil, "Profile deleted successfully")
}
