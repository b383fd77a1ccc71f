package handler

import (
	"net/http"

	"field-tech-api/internal/model"
	"field-tech-api/internal/service"
)

type CarrierHandler struct {
	service *service.CarrierService
}

func NewCarrierHandler(service *service.CarrierService) *CarrierHandler {
	return &CarrierHandler{service: service}
}

func (h *CarrierHandler) Status(w http.ResponseWriter, r *http.Request) {
	var payload model.CarrierStatusRequest
	if err := decodeJSON(w, r, 0, &payload); err != nil {
		writeError(w, err)
		return
	}

	data, err := h.service.Status(r.Context(), actorFromRequest(r), service.CarrierRequest{
		Action:   payload.Action,
		CPF:      payload.CPF,
		Contract: payload.Contract,
		MAC:      payload.MAC,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data, nil)
}
