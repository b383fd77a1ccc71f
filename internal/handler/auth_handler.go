package handler

import (
	"net/http"

	"field-tech-api/internal/model"
	"field-tech-api/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, 0, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), actorFromRequest(r), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Login realizado com sucesso", result)
}

type meData struct {
	Identity model.Identity `json:"identity"`
	User     model.User     `json:"user"`
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Profile(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, meData{Identity: identity, User: user}, nil)
}
