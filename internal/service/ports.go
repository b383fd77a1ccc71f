package service

import (
	"context"
	"encoding/json"
	"time"

	"field-tech-api/internal/model"
)

// The interfaces below are what the services need from their collaborators.
// The repository and storage packages satisfy them in production; tests use
// in-memory fakes.

type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, u model.User) (int64, error)
	UpdateProfile(ctx context.Context, id int64, patch model.ProfilePatch, at time.Time) (model.User, error)
	UpdatePhoto(ctx context.Context, id int64, photo string, at time.Time) error
	Count(ctx context.Context) (int, error)
}

type ClientStore interface {
	Exists(ctx context.Context, cpf string) (bool, error)
	Insert(ctx context.Context, c model.Client) error
	FindByCPF(ctx context.Context, cpf string, scope model.Scope) (model.Client, error)
	Search(ctx context.Context, query model.ClientQuery) ([]model.Client, int, error)
	Update(ctx context.Context, cpf string, patch model.ClientPatch, at time.Time) error
	Delete(ctx context.Context, cpf string) error
}

type AuditStore interface {
	Insert(ctx context.Context, event model.AuditEvent) error
	Query(ctx context.Context, filter model.AuditFilter) ([]model.AuditRecord, int, error)
}

type SerialHistoryStore interface {
	Insert(ctx context.Context, entry model.SerialHistoryEntry) error
	ListByCPF(ctx context.Context, cpf string, limit int) ([]model.SerialHistoryEntry, error)
}

type PhotoStore interface {
	Insert(ctx context.Context, p model.Photo) (model.Photo, error)
	ListByCPF(ctx context.Context, cpf string) ([]model.Photo, error)
	FindByID(ctx context.Context, id int64) (model.Photo, error)
	Delete(ctx context.Context, id int64) error
}

type StatsStore interface {
	CountClients(ctx context.Context, scope model.Scope, period *model.Period) (int, error)
	RecentRegistrations(ctx context.Context, scope model.Scope, limit int) ([]model.ClientSummary, error)
	LastRegistration(ctx context.Context, scope model.Scope) (*model.ClientSummary, error)
	CountByInstaller(ctx context.Context, scope model.Scope, period *model.Period) ([]model.InstallerCount, error)
	CountByPlan(ctx context.Context, scope model.Scope) ([]model.PlanCount, error)
	DailyCounts(ctx context.Context, scope model.Scope, period model.Period) ([]model.DailyCount, error)
}

type CatalogStore interface {
	Plans(ctx context.Context) ([]model.Plan, error)
	Installers(ctx context.Context) ([]model.Installer, error)
}

// FileStore is satisfied by *storage.Storage.
type FileStore interface {
	WriteFile(key string, data []byte) error
	ReadFile(key string) ([]byte, error)
	Remove(key string) error
	Exists(key string) (bool, error)
}

// CarrierGateway is satisfied by *carrier.Client.
type CarrierGateway interface {
	Configured() bool
	FindCustomer(ctx context.Context, cpf string) (json.RawMessage, error)
	CheckAccess(ctx context.Context, contract string) (json.RawMessage, error)
}

type TokenIssuer interface {
	Issue(userID int64, username string, role string) (string, time.Time, error)
}

// AuditRecorder appends audit events. Implementations never fail the caller.
type AuditRecorder interface {
	Record(ctx context.Context, event model.AuditEvent)
}
