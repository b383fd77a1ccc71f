package handler

import (
	"net/http"
	"strings"

	"field-tech-api/internal/model"
	"field-tech-api/internal/service"
	"field-tech-api/pkg/apierror"
)

type EquipmentHandler struct {
	clients *service.ClientService
}

func NewEquipmentHandler(clients *service.ClientService) *EquipmentHandler {
	return &EquipmentHandler{clients: clients}
}

func (h *EquipmentHandler) Link(w http.ResponseWriter, r *http.Request) {
	var payload model.LinkEquipmentRequest
	if err := decodeJSON(w, r, 0, &payload); err != nil {
		writeError(w, err)
		return
	}

	var change *model.SerialChange
	if payload.Reason != nil {
		change = &model.SerialChange{
			Reason:            model.SerialReason(*payload.Reason),
			ReasonDescription: payload.ReasonDescription,
			OldPhotos:         payload.OldPhotos,
		}
	}

	result, err := h.clients.ReassignSerial(r.Context(), actorFromRequest(r), payload.CPF, payload.Serial, change)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Equipamento vinculado com sucesso", result)
}

func (h *EquipmentHandler) History(w http.ResponseWriter, r *http.Request) {
	cpf := strings.TrimSpace(r.URL.Query().Get("cpf"))
	if cpf == "" {
		writeError(w, apierror.BadRequest("cpf is required", "cpf"))
		return
	}

	data, err := h.clients.SerialHistory(r.Context(), cpf)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, data, nil)
}
