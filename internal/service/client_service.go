package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"field-tech-api/internal/metrics"
	"field-tech-api/internal/model"
	"field-tech-api/internal/util"
)

const (
	DefaultClientPageSize = 20
	MaxClientPageSize     = 100
	SerialHistoryLimit    = 50

	historyWriteTimeout = 5 * time.Second
)

// ClientService owns the client registry rules: normalized CPF keys,
// registration defaults, typed partial updates and serial reassignment.
type ClientService struct {
	clients       ClientStore
	history       SerialHistoryStore
	audit         AuditRecorder
	defaultPlanID int64
	logger        *slog.Logger
	now           func() time.Time
}

func NewClientService(clients ClientStore, history SerialHistoryStore, audit AuditRecorder, defaultPlanID int64, logger *slog.Logger) *ClientService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ClientService{
		clients:       clients,
		history:       history,
		audit:         audit,
		defaultPlanID: defaultPlanID,
		logger:        logger,
		now:           time.Now,
	}
}

// NormalizeCPF strips every non-digit and requires exactly 11 digits.
func NormalizeCPF(raw string) (string, error) {
	cpf := util.OnlyDigits(raw)
	if len(cpf) != model.TaxIDLength {
		return "", model.ErrInvalidTaxID
	}

	return cpf, nil
}

// NormalizeSerial trims and upper-cases an equipment serial.
func NormalizeSerial(raw string) (string, error) {
	serial := strings.ToUpper(strings.TrimSpace(raw))
	if len([]rune(serial)) < model.MinSerialLength {
		return "", model.ErrInvalidSerial
	}

	return serial, nil
}

func (s *ClientService) Create(ctx context.Context, actor model.Actor, input model.NewClient) (model.CreatedClient, error) {
	name := util.CleanText(input.Name, 200)
	if name == "" {
		return model.CreatedClient{}, fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}

	cpf, err := NormalizeCPF(input.CPF)
	if err != nil {
		return model.CreatedClient{}, err
	}

	exists, err := s.clients.Exists(ctx, cpf)
	if err != nil {
		return model.CreatedClient{}, fmt.Errorf("create client: %w", err)
	}
	if exists {
		return model.CreatedClient{}, model.ErrClientAlreadyExists
	}

	client := s.buildClient(actor, cpf, name, input)
	if err := s.clients.Insert(ctx, client); err != nil {
		if errors.Is(err, model.ErrClientAlreadyExists) {
			return model.CreatedClient{}, err
		}
		return model.CreatedClient{}, fmt.Errorf("create client: %w", err)
	}

	channel := "authenticated"
	if actor.Anonymous() {
		channel = "anonymous"
	}
	metrics.ClientsCreatedTotal.WithLabelValues(channel).Inc()

	event := model.ActorEvent(actor, model.ActionClientCreated, fmt.Sprintf("Cliente %s cadastrado", name))
	event.EntityType = "client"
	event.EntityID = cpf
	event.EntityName = name
	event.Details = map[string]any{
		"installer": client.Installer,
		"plan_id":   client.PlanID,
		"city":      client.City,
	}
	s.audit.Record(ctx, event)

	return model.CreatedClient{CPF: cpf}, nil
}

// buildClient applies registration defaults so every create path stores
// the same canonical shape.
func (s *ClientService) buildClient(actor model.Actor, cpf string, name string, input model.NewClient) model.Client {
	city := util.CleanOptional(input.City, 100)

	address := model.AddressPlaceholder
	if explicit := util.CleanOptional(input.Address, 255); explicit != nil {
		address = *explicit
	} else if city != nil {
		address = *city
	}

	dueDay := model.DefaultDueDay
	if input.DueDay != nil && model.IsAllowedDueDay(*input.DueDay) {
		dueDay = *input.DueDay
	}

	planID := s.defaultPlanID
	if input.PlanID != nil && *input.PlanID > 0 {
		planID = *input.PlanID
	}

	pppoe := cpf
	if explicit := util.CleanOptional(input.PPPoE, 100); explicit != nil {
		pppoe = *explicit
	}
	pppoePassword := cpf
	if explicit := util.CleanOptional(input.PPPoEPassword, 100); explicit != nil {
		pppoePassword = *explicit
	}

	installer := model.AnonymousInstaller
	if explicit := util.CleanOptional(input.Installer, 100); explicit != nil {
		installer = *explicit
	} else if actor.Username != "" && !actor.Anonymous() {
		installer = actor.Username
	}

	status := model.StatusActive
	if input.Status != nil && model.IsAllowedStatus(*input.Status) {
		status = *input.Status
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	var birthDate *string
	if input.BirthDate != nil {
		formatted := input.BirthDate.Format(time.DateOnly)
		birthDate = &formatted
	}

	var cep *string
	if input.CEP != nil {
		if digits := util.OnlyDigits(*input.CEP); digits != "" {
			cep = &digits
		}
	}

	return model.Client{
		CPF:           cpf,
		Name:          name,
		Phone:         util.CleanOptional(input.Phone, 30),
		BirthDate:     birthDate,
		CEP:           cep,
		City:          city,
		Address:       address,
		Number:        util.CleanOptional(input.Number, 20),
		Complement:    util.CleanOptional(input.Complement, 100),
		PlanID:        planID,
		PPPoE:         pppoe,
		PPPoEPassword: pppoePassword,
		DueDay:        dueDay,
		Observation:   util.CleanOptional(input.Observation, 0),
		Installer:     installer,
		Status:        status,
		Active:        active,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Accuracy:      input.Accuracy,
		CreatedAt:     s.now().UTC(),
	}
}

func (s *ClientService) Get(ctx context.Context, scope model.Scope, rawCPF string) (model.Client, error) {
	cpf, err := NormalizeCPF(rawCPF)
	if err != nil {
		return model.Client{}, err
	}

	return s.clients.FindByCPF(ctx, cpf, scope)
}

func (s *ClientService) Search(ctx context.Context, query model.ClientQuery) ([]model.Client, model.Meta, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = DefaultClientPageSize
	}
	if query.Limit > MaxClientPageSize {
		query.Limit = MaxClientPageSize
	}
	query.Term = strings.TrimSpace(query.Term)

	clients, total, err := s.clients.Search(ctx, query)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("search clients: %w", err)
	}

	return clients, model.PageMeta(query.Page, query.Limit, total), nil
}

func (s *ClientService) Update(ctx context.Context, actor model.Actor, rawCPF string, patch model.ClientPatch) (model.Client, error) {
	cpf, err := NormalizeCPF(rawCPF)
	if err != nil {
		return model.Client{}, err
	}

	exists, err := s.clients.Exists(ctx, cpf)
	if err != nil {
		return model.Client{}, fmt.Errorf("check client: %w", err)
	}
	if !exists {
		return model.Client{}, model.ErrClientNotFound
	}

	patch, err = normalizePatch(patch)
	if err != nil {
		return model.Client{}, err
	}
	if patch.IsEmpty() {
		return model.Client{}, model.ErrNothingToUpdate
	}

	if err := s.clients.Update(ctx, cpf, patch, s.now().UTC()); err != nil {
		if errors.Is(err, model.ErrClientNotFound) || errors.Is(err, model.ErrNothingToUpdate) {
			return model.Client{}, err
		}
		return model.Client{}, fmt.Errorf("update client: %w", err)
	}

	updated, err := s.clients.FindByCPF(ctx, cpf, model.Scope{})
	if err != nil {
		return model.Client{}, fmt.Errorf("reload client: %w", err)
	}

	event := model.ActorEvent(actor, model.ActionClientUpdated, fmt.Sprintf("Cliente %s atualizado", updated.Name))
	event.EntityType = "client"
	event.EntityID = cpf
	event.EntityName = updated.Name
	event.Details = map[string]any{"fields": patch.Fields()}
	s.audit.Record(ctx, event)

	return updated, nil
}

func normalizePatch(patch model.ClientPatch) (model.ClientPatch, error) {
	if patch.Name != nil {
		name := util.CleanText(*patch.Name, 200)
		if name == "" {
			return patch, fmt.Errorf("%w: name cannot be empty", model.ErrInvalidInput)
		}
		patch.Name = &name
	}
	if patch.DueDay != nil && !model.IsAllowedDueDay(*patch.DueDay) {
		return patch, fmt.Errorf("%w: due_day must be 10, 20 or 30", model.ErrInvalidInput)
	}
	if patch.Status != nil && !model.IsAllowedStatus(*patch.Status) {
		return patch, fmt.Errorf("%w: unknown status", model.ErrInvalidInput)
	}
	if patch.PlanID != nil && *patch.PlanID <= 0 {
		return patch, fmt.Errorf("%w: plan_id must be positive", model.ErrInvalidInput)
	}
	if patch.Serial != nil {
		serial, err := NormalizeSerial(*patch.Serial)
		if err != nil {
			return patch, err
		}
		patch.Serial = &serial
	}
	if patch.CEP != nil {
		digits := util.OnlyDigits(*patch.CEP)
		patch.CEP = &digits
	}

	return patch, nil
}

// ReassignSerial links a new equipment serial to the client. When change is
// non-nil a history entry is appended after the serial is written; that
// write is best-effort and never fails the reassignment.
func (s *ClientService) ReassignSerial(ctx context.Context, actor model.Actor, rawCPF string, rawSerial string, change *model.SerialChange) (model.LinkResult, error) {
	cpf, err := NormalizeCPF(rawCPF)
	if err != nil {
		return model.LinkResult{}, err
	}

	serial, err := NormalizeSerial(rawSerial)
	if err != nil {
		return model.LinkResult{}, err
	}

	if change != nil && !change.Reason.Valid() {
		change.Reason = model.ReasonOther
	}

	current, err := s.clients.FindByCPF(ctx, cpf, model.Scope{})
	if err != nil {
		return model.LinkResult{}, err
	}

	if err := s.clients.Update(ctx, cpf, model.ClientPatch{Serial: &serial}, s.now().UTC()); err != nil {
		if errors.Is(err, model.ErrClientNotFound) {
			return model.LinkResult{}, err
		}
		return model.LinkResult{}, fmt.Errorf("link equipment: %w", err)
	}

	if change != nil {
		s.appendHistory(ctx, actor, current, serial, *change)
	}

	var reason any
	if change != nil {
		reason = change.Reason
	}

	event := model.ActorEvent(actor, model.ActionEquipmentLinked, fmt.Sprintf("Equipamento %s vinculado ao cliente %s", serial, current.Name))
	event.EntityType = "client"
	event.EntityID = cpf
	event.EntityName = current.Name
	event.Details = map[string]any{
		"old_serial": current.Serial,
		"new_serial": serial,
		"reason":     reason,
	}
	s.audit.Record(ctx, event)

	return model.LinkResult{
		CPF:        cpf,
		ClientName: current.Name,
		OldSerial:  current.Serial,
		NewSerial:  serial,
		LinkedBy:   actor.UserID,
	}, nil
}

func (s *ClientService) appendHistory(ctx context.Context, actor model.Actor, current model.Client, serial string, change model.SerialChange) {
	var oldPhotos json.RawMessage
	if len(change.OldPhotos) > 0 {
		encoded, err := json.Marshal(change.OldPhotos)
		if err == nil {
			oldPhotos = encoded
		}
	}

	changedBy := actor.Username
	if changedBy == "" {
		changedBy = model.SystemActor
	}

	entry := model.SerialHistoryEntry{
		CPF:               current.CPF,
		ClientName:        current.Name,
		OldSerial:         current.Serial,
		NewSerial:         serial,
		Reason:            change.Reason,
		ReasonDescription: util.CleanOptional(&change.ReasonDescription, 500),
		OldPhotos:         oldPhotos,
		ChangedBy:         actor.UserID,
		ChangedByName:     changedBy,
		CreatedAt:         s.now().UTC(),
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	if err := s.history.Insert(writeCtx, entry); err != nil {
		metrics.SerialHistoryWriteFailuresTotal.Inc()
		s.logger.Error("serial history write failed", "cpf", current.CPF, "new_serial", serial, "error", err)
	}
}

// SaveContract stores the carrier contract number and/or the equipment MAC
// (kept in the serial column) for a client.
func (s *ClientService) SaveContract(ctx context.Context, actor model.Actor, rawCPF string, contract *string, mac *string) error {
	cpf, err := NormalizeCPF(rawCPF)
	if err != nil {
		return err
	}

	patch := model.ClientPatch{Contract: util.CleanOptional(contract, 50)}
	if cleaned := util.CleanOptional(mac, 100); cleaned != nil {
		upper := strings.ToUpper(*cleaned)
		patch.Serial = &upper
	}
	if patch.IsEmpty() {
		return model.ErrNothingToUpdate
	}

	if err := s.clients.Update(ctx, cpf, patch, s.now().UTC()); err != nil {
		if errors.Is(err, model.ErrClientNotFound) {
			return err
		}
		return fmt.Errorf("save contract: %w", err)
	}

	event := model.ActorEvent(actor, model.ActionContractSaved, "Contrato e MAC salvos")
	event.EntityType = "client"
	event.EntityID = cpf
	event.Details = map[string]any{"contract": patch.Contract, "mac": patch.Serial}
	s.audit.Record(ctx, event)

	return nil
}

func (s *ClientService) Delete(ctx context.Context, actor model.Actor, rawCPF string) error {
	cpf, err := NormalizeCPF(rawCPF)
	if err != nil {
		return err
	}

	current, err := s.clients.FindByCPF(ctx, cpf, model.Scope{})
	if err != nil {
		return err
	}

	if err := s.clients.Delete(ctx, cpf); err != nil {
		if errors.Is(err, model.ErrClientNotFound) {
			return err
		}
		return fmt.Errorf("delete client: %w", err)
	}

	event := model.ActorEvent(actor, model.ActionClientDeleted, fmt.Sprintf("Cliente %s excluído", current.Name))
	event.EntityType = "client"
	event.EntityID = cpf
	event.EntityName = current.Name
	s.audit.Record(ctx, event)

	return nil
}

// SerialHistory returns the newest entries for a client with display labels.
func (s *ClientService) SerialHistory(ctx context.Context, rawCPF string) (model.SerialHistoryData, error) {
	cpf, err := NormalizeCPF(rawCPF)
	if err != nil {
		return model.SerialHistoryData{}, err
	}

	entries, err := s.history.ListByCPF(ctx, cpf, SerialHistoryLimit)
	if err != nil {
		return model.SerialHistoryData{}, fmt.Errorf("serial history: %w", err)
	}

	now := s.now()
	for i := range entries {
		entries[i].ReasonLabel = entries[i].Reason.Label()
		entries[i].TimeAgo = util.RelativeTime(now, entries[i].CreatedAt)
	}

	return model.SerialHistoryData{CPF: cpf, Items: entries, Total: len(entries)}, nil
}
