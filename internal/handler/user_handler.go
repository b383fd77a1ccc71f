package handler

import (
	"net/http"

	"field-tech-api/internal/model"
	"field-tech-api/internal/service"
)

type UserHandler struct {
	auth            *service.AuthService
	photos          *service.PhotoService
	maxProfileBytes int64
}

func NewUserHandler(auth *service.AuthService, photos *service.PhotoService, maxProfileBytes int64) *UserHandler {
	return &UserHandler{auth: auth, photos: photos, maxProfileBytes: maxProfileBytes}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Profile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateProfileRequest
	if err := decodeJSON(w, r, 0, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), actorFromRequest(r), identity.UserID, model.ProfilePatch{
		FullName: payload.FullName,
		Email:    payload.Email,
		City:     payload.City,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Perfil atualizado com sucesso", user)
}

func (h *UserHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ProfilePhotoRequest
	if err := decodeJSON(w, r, base64Limit(h.maxProfileBytes), &payload); err != nil {
		writeError(w, err)
		return
	}

	url, err := h.photos.SaveProfilePhoto(r.Context(), actorFromRequest(r), identity.UserID, payload.Photo)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Foto atualizada com sucesso", map[string]string{"photo": url})
}

// base64Limit sizes a JSON body limit for an embedded base64 image of at
// most raw bytes.
func base64Limit(raw int64) int64 {
	if raw <= 0 {
		return 0
	}
	return raw*4/3 + 64*1024
}
