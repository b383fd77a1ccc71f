package handler

import (
	"net/http"

	"field-tech-api/internal/service"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.service.Plans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, plans, nil)
}

func (h *CatalogHandler) Installers(w http.ResponseWriter, r *http.Request) {
	installers, err := h.service.Installers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, installers, nil)
}
