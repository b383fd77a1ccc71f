package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"field-tech-api/internal/model"
)

type fakeClientStore struct {
	mu        sync.Mutex
	clients   map[string]model.Client
	insertErr error
	updateErr error
	lastQuery model.ClientQuery
	patches   []model.ClientPatch
}

func newFakeClientStore(clients ...model.Client) *fakeClientStore {
	store := &fakeClientStore{clients: make(map[string]model.Client)}
	for _, c := range clients {
		store.clients[c.CPF] = c
	}
	return store
}

func (f *fakeClientStore) Exists(_ context.Context, cpf string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.clients[cpf]
	return ok, nil
}

func (f *fakeClientStore) Insert(_ context.Context, c model.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.clients[c.CPF]; ok {
		return model.ErrClientAlreadyExists
	}
	f.clients[c.CPF] = c
	return nil
}

func (f *fakeClientStore) FindByCPF(_ context.Context, cpf string, scope model.Scope) (model.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[cpf]
	if !ok || !inScope(c, scope) {
		return model.Client{}, model.ErrClientNotFound
	}
	return c, nil
}

func (f *fakeClientStore) Search(_ context.Context, query model.ClientQuery) ([]model.Client, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query

	matched := make([]model.Client, 0)
	for _, c := range f.clients {
		if inScope(c, query.Scope) && strings.Contains(strings.ToLower(c.Name), strings.ToLower(query.Term)) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CPF < matched[j].CPF })

	total := len(matched)
	start := (query.Page - 1) * query.Limit
	if start > total {
		start = total
	}
	end := start + query.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeClientStore) Update(_ context.Context, cpf string, patch model.ClientPatch, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	c, ok := f.clients[cpf]
	if !ok {
		return model.ErrClientNotFound
	}
	f.patches = append(f.patches, patch)

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.City != nil {
		c.City = patch.City
	}
	if patch.DueDay != nil {
		c.DueDay = *patch.DueDay
	}
	if patch.Serial != nil {
		c.Serial = patch.Serial
	}
	if patch.Contract != nil {
		c.Contract = patch.Contract
	}
	c.UpdatedAt = &at
	f.clients[cpf] = c
	return nil
}

func (f *fakeClientStore) Delete(_ context.Context, cpf string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[cpf]; !ok {
		return model.ErrClientNotFound
	}
	delete(f.clients, cpf)
	return nil
}

func inScope(c model.Client, scope model.Scope) bool {
	if scope.City != "" {
		if c.City == nil || !strings.Contains(strings.ToLower(*c.City), strings.ToLower(scope.City)) {
			return false
		}
	}
	if scope.Installer != "" && c.Installer != scope.Installer {
		return false
	}
	return true
}

type fakeHistoryStore struct {
	mu        sync.Mutex
	entries   []model.SerialHistoryEntry
	insertErr error
	ctxErrs   []error
}

func (f *fakeHistoryStore) Insert(ctx context.Context, entry model.SerialHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryStore) ListByCPF(_ context.Context, cpf string, limit int) ([]model.SerialHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.SerialHistoryEntry, 0)
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].CPF == cpf {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []model.AuditEvent
}

func (r *recordingAudit) Record(_ context.Context, event model.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAudit) last() model.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return model.AuditEvent{}
	}
	return r.events[len(r.events)-1]
}

type fakeAuditStore struct {
	mu         sync.Mutex
	inserted   []model.AuditEvent
	insertErr  error
	ctxErrs    []error
	records    []model.AuditRecord
	lastFilter model.AuditFilter
}

func (f *fakeAuditStore) Insert(ctx context.Context, event model.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, event)
	return nil
}

func (f *fakeAuditStore) Query(_ context.Context, filter model.AuditFilter) ([]model.AuditRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	out := make([]model.AuditRecord, len(f.records))
	copy(out, f.records)
	return out, len(f.records), nil
}

type fakeUserStore struct {
	mu        sync.Mutex
	users     map[int64]model.User
	nextID    int64
	countErr  error
	photoURLs map[int64]string
}

func newFakeUserStore(users ...model.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[int64]model.User), nextID: 100, photoURLs: make(map[int64]string)}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (f *fakeUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id int64, patch model.ProfilePatch, at time.Time) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.City != nil {
		if *patch.City == "" {
			u.City = nil
		} else {
			city := *patch.City
			u.City = &city
		}
	}
	u.UpdatedAt = at
	f.users[id] = u
	return u, nil
}

func (f *fakeUserStore) UpdatePhoto(_ context.Context, id int64, photo string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Photo = &photo
	u.UpdatedAt = at
	f.users[id] = u
	f.photoURLs[id] = photo
	return nil
}

func (f *fakeUserStore) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.users), nil
}

type fakeTokens struct {
	expiresAt time.Time
}

func (f fakeTokens) Issue(userID int64, username string, role string) (string, time.Time, error) {
	return "token-" + username + "-" + role, f.expiresAt, nil
}

type periodCall struct {
	scope  model.Scope
	period *model.Period
}

type fakeStatsStore struct {
	mu             sync.Mutex
	countFn        func(scope model.Scope, period *model.Period) int
	countCalls     []periodCall
	daily          map[string]int
	dailyCalls     []periodCall
	byInstaller    []model.InstallerCount
	installerCalls []periodCall
	byPlan         []model.PlanCount
	recent         []model.ClientSummary
	last           *model.ClientSummary
}

func (f *fakeStatsStore) CountClients(_ context.Context, scope model.Scope, period *model.Period) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls = append(f.countCalls, periodCall{scope: scope, period: period})
	if f.countFn == nil {
		return 0, nil
	}
	return f.countFn(scope, period), nil
}

func (f *fakeStatsStore) RecentRegistrations(_ context.Context, _ model.Scope, limit int) ([]model.ClientSummary, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeStatsStore) LastRegistration(_ context.Context, _ model.Scope) (*model.ClientSummary, error) {
	return f.last, nil
}

func (f *fakeStatsStore) CountByInstaller(_ context.Context, scope model.Scope, period *model.Period) ([]model.InstallerCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installerCalls = append(f.installerCalls, periodCall{scope: scope, period: period})
	return f.byInstaller, nil
}

func (f *fakeStatsStore) CountByPlan(_ context.Context, _ model.Scope) ([]model.PlanCount, error) {
	return f.byPlan, nil
}

func (f *fakeStatsStore) DailyCounts(_ context.Context, scope model.Scope, period model.Period) ([]model.DailyCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := period
	f.dailyCalls = append(f.dailyCalls, periodCall{scope: scope, period: &p})

	out := make([]model.DailyCount, 0)
	for day := period.From; day.Before(period.To); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		if total, ok := f.daily[key]; ok {
			out = append(out, model.DailyCount{Date: key, Total: total})
		}
	}
	return out, nil
}

type fakeGateway struct {
	configured   bool
	customer     json.RawMessage
	access       json.RawMessage
	err          error
	lastCPF      string
	lastContract string
}

func (f *fakeGateway) Configured() bool { return f.configured }

func (f *fakeGateway) FindCustomer(_ context.Context, cpf string) (json.RawMessage, error) {
	f.lastCPF = cpf
	if f.err != nil {
		return nil, f.err
	}
	return f.customer, nil
}

func (f *fakeGateway) CheckAccess(_ context.Context, contract string) (json.RawMessage, error) {
	f.lastContract = contract
	if f.err != nil {
		return nil, f.err
	}
	return f.access, nil
}

type fakePhotoStore struct {
	mu        sync.Mutex
	photos    map[int64]model.Photo
	nextID    int64
	insertErr error
}

func newFakePhotoStore(photos ...model.Photo) *fakePhotoStore {
	store := &fakePhotoStore{photos: make(map[int64]model.Photo)}
	for _, p := range photos {
		store.photos[p.ID] = p
		if p.ID > store.nextID {
			store.nextID = p.ID
		}
	}
	return store
}

func (f *fakePhotoStore) Insert(_ context.Context, p model.Photo) (model.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return model.Photo{}, f.insertErr
	}
	f.nextID++
	p.ID = f.nextID
	f.photos[p.ID] = p
	return p, nil
}

func (f *fakePhotoStore) ListByCPF(_ context.Context, cpf string) ([]model.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Photo, 0)
	for _, p := range f.photos {
		if p.CPF == cpf {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakePhotoStore) FindByID(_ context.Context, id int64) (model.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.photos[id]
	if !ok {
		return model.Photo{}, model.ErrPhotoNotFound
	}
	return p, nil
}

func (f *fakePhotoStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.photos[id]; !ok {
		return model.ErrPhotoNotFound
	}
	delete(f.photos, id)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
