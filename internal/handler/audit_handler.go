package handler

import (
	"net/http"
	"strings"
	"time"

	"field-tech-api/internal/model"
	"field-tech-api/internal/service"
	"field-tech-api/internal/util"
	"field-tech-api/pkg/apierror"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := parseDateParam(query.Get("start_date"), "start_date")
	if err != nil {
		writeError(w, err)
		return
	}
	end, err := parseDateParam(query.Get("end_date"), "end_date")
	if err != nil {
		writeError(w, err)
		return
	}

	items, meta, err := h.service.Query(r.Context(), model.AuditFilter{
		ActionType: strings.TrimSpace(query.Get("action_type")),
		Username:   strings.TrimSpace(query.Get("username")),
		StartDate:  start,
		EndDate:    end,
		Limit:      parseIntOrDefault(query.Get("limit"), service.DefaultAuditLimit),
		Offset:     parseIntOrDefault(query.Get("offset"), 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AuditListData{Items: items}, &meta)
}

// Create appends an event reported by the front-end.
func (h *AuditHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.AuditPostRequest
	if err := decodeJSON(w, r, 0, &payload); err != nil {
		writeError(w, err)
		return
	}

	event := model.ActorEvent(actorFromRequest(r), util.CleanText(payload.ActionType, 50), util.CleanText(payload.ActionDescription, 1000))
	event.EntityType = util.CleanText(payload.EntityType, 50)
	event.EntityID = util.CleanText(payload.EntityID, 100)
	event.EntityName = util.CleanText(payload.EntityName, 255)
	event.Details = payload.Details

	h.service.Record(r.Context(), event)

	writeMessage(w, http.StatusCreated, "Evento registrado", nil)
}

func parseDateParam(raw string, name string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apierror.BadRequest(name+" must be formatted as YYYY-MM-DD", name)
	}

	return &parsed, nil
}
