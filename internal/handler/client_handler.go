package handler

import (
	"net/http"
	"strings"
	"time"

	"field-tech-api/internal/model"
	"field-tech-api/internal/service"
	"field-tech-api/pkg/apierror"
)

const (
	quickSearchMinLength    = 2
	quickSearchDefaultLimit = 10
)

type ClientHandler struct {
	clients *service.ClientService
	scopes  *service.ScopeResolver
}

func NewClientHandler(clients *service.ClientService, scopes *service.ScopeResolver) *ClientHandler {
	return &ClientHandler{clients: clients, scopes: scopes}
}

// List serves a single lookup when ?cpf= is given and a paged search
// otherwise. Technicians only see clients of their profile city.
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.cityScope(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	if cpf := strings.TrimSpace(query.Get("cpf")); cpf != "" {
		client, err := h.clients.Get(r.Context(), scope, cpf)
		if err != nil {
			writeError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, client, nil)
		return
	}

	items, meta, err := h.clients.Search(r.Context(), model.ClientQuery{
		Term:  query.Get("search"),
		Scope: scope,
		Page:  parseIntOrDefault(query.Get("page"), 1),
		Limit: parseIntOrDefault(query.Get("limit"), service.DefaultClientPageSize),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ClientListData{Items: items}, &meta)
}

func (h *ClientHandler) QuickSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("search"))
	if len([]rune(term)) < quickSearchMinLength {
		writeError(w, apierror.BadRequest("search must have at least 2 characters", "search"))
		return
	}

	scope, ok := h.cityScope(w, r)
	if !ok {
		return
	}

	items, meta, err := h.clients.Search(r.Context(), model.ClientQuery{
		Term:  term,
		Scope: scope,
		Page:  1,
		Limit: parseIntOrDefault(r.URL.Query().Get("limit"), quickSearchDefaultLimit),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ClientListData{Items: items}, &meta)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateClientRequest
	if err := decodeJSON(w, r, 0, &payload); err != nil {
		writeError(w, err)
		return
	}

	birthDate, err := parseDate(payload.BirthDate)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := h.clients.Create(r.Context(), actorFromRequest(r), model.NewClient{
		CPF:           payload.CPF,
		Name:          payload.Name,
		Phone:         payload.Phone,
		BirthDate:     birthDate,
		CEP:           payload.CEP,
		City:          payload.City,
		Address:       payload.Address,
		Number:        payload.Number,
		Complement:    payload.Complement,
		PlanID:        payload.PlanID,
		PPPoE:         payload.PPPoE,
		PPPoEPassword: payload.PPPoEPassword,
		DueDay:        payload.DueDay,
		Observation:   payload.Observation,
		Installer:     payload.Installer,
		Status:        payload.Status,
		Active:        payload.Active,
		Latitude:      payload.Latitude,
		Longitude:     payload.Longitude,
		Accuracy:      payload.Accuracy,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Cliente cadastrado com sucesso", created)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.UpdateClientRequest
	if err := decodeJSON(w, r, 0, &payload); err != nil {
		writeError(w, err)
		return
	}

	birthDate, err := parseDate(payload.BirthDate)
	if err != nil {
		writeError(w, err)
		return
	}

	client, err := h.clients.Update(r.Context(), actorFromRequest(r), payload.CPF, model.ClientPatch{
		Name:          payload.Name,
		Phone:         payload.Phone,
		BirthDate:     birthDate,
		CEP:           payload.CEP,
		City:          payload.City,
		Address:       payload.Address,
		Number:        payload.Number,
		Complement:    payload.Complement,
		PlanID:        payload.PlanID,
		PPPoE:         payload.PPPoE,
		PPPoEPassword: payload.PPPoEPassword,
		DueDay:        payload.DueDay,
		Installer:     payload.Installer,
		Observation:   payload.Observation,
		Status:        payload.Status,
		Active:        payload.Active,
		Serial:        payload.Serial,
		Contract:      payload.Contract,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Cliente atualizado com sucesso", client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	cpf := strings.TrimSpace(r.URL.Query().Get("cpf"))
	if cpf == "" {
		writeError(w, apierror.BadRequest("cpf is required", "cpf"))
		return
	}

	if err := h.clients.Delete(r.Context(), actorFromRequest(r), cpf); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Cliente excluído com sucesso", nil)
}

func (h *ClientHandler) cityScope(w http.ResponseWriter, r *http.Request) (model.Scope, bool) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, err)
		return model.Scope{}, false
	}

	scope, err := h.scopes.CityScope(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return model.Scope{}, false
	}

	return scope, true
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(*raw))
	if err != nil {
		return nil, apierror.BadRequest("birth_date must be formatted as YYYY-MM-DD", "birth_date")
	}

	return &parsed, nil
}
