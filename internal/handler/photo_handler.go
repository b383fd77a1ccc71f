package handler

import (
	"net/http"
	"strconv"
	"strings"

	"field-tech-api/internal/model"
	"field-tech-api/internal/service"
	"field-tech-api/pkg/apierror"
)

type PhotoHandler struct {
	photos        *service.PhotoService
	maxPhotoBytes int64
}

func NewPhotoHandler(photos *service.PhotoService, maxPhotoBytes int64) *PhotoHandler {
	return &PhotoHandler{photos: photos, maxPhotoBytes: maxPhotoBytes}
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var payload model.PhotoUploadRequest
	if err := decodeJSON(w, r, base64Limit(h.maxPhotoBytes), &payload); err != nil {
		writeError(w, err)
		return
	}

	photo, err := h.photos.Upload(r.Context(), actorFromRequest(r), payload.CPF, payload.Photo, payload.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Foto enviada com sucesso", photo)
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	cpf := strings.TrimSpace(r.URL.Query().Get("cpf"))
	if cpf == "" {
		writeError(w, apierror.BadRequest("cpf is required", "cpf"))
		return
	}

	photos, err := h.photos.List(r.Context(), cpf)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.PhotoListData{Items: photos}, nil)
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("id")), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apierror.BadRequest("id must be a positive integer", "id"))
		return
	}

	if err := h.photos.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Foto removida", nil)
}
