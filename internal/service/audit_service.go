package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"field-tech-api/internal/metrics"
	"field-tech-api/internal/model"
	"field-tech-api/internal/util"
)

const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 500

	auditWriteTimeout = 2 * time.Second
)

type AuditService struct {
	store        AuditStore
	logger       *slog.Logger
	now          func() time.Time
	writeTimeout time.Duration
}

func NewAuditService(store AuditStore, logger *slog.Logger) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuditService{store: store, logger: logger, now: time.Now, writeTimeout: auditWriteTimeout}
}

// Record persists event on a context detached from the request, so a client
// disconnect does not drop the row. The write holds the caller for at most
// writeTimeout. Failures are logged and counted only.
func (s *AuditService) Record(ctx context.Context, event model.AuditEvent) {
	if s == nil || s.store == nil {
		return
	}

	if event.Username == "" && event.UserID == nil {
		event.Username = model.SystemActor
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.store.Insert(writeCtx, event); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		s.logger.Error("audit write failed",
			"action_type", event.ActionType,
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}

// Query returns matching audit rows newest first. Limit defaults to 100 and
// is capped at 500; created_at_relative is computed against the current time.
func (s *AuditService) Query(ctx context.Context, filter model.AuditFilter) ([]model.AuditRecord, model.Meta, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultAuditLimit
	}
	if filter.Limit > MaxAuditLimit {
		filter.Limit = MaxAuditLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, model.Meta{}, fmt.Errorf("%w: end_date is before start_date", model.ErrInvalidInput)
	}

	records, total, err := s.store.Query(ctx, filter)
	if err != nil {
		return nil, model.Meta{}, fmt.Errorf("query audit trail: %w", err)
	}

	now := s.now()
	for i := range records {
		records[i].CreatedAtRelative = util.RelativeTime(now, records[i].CreatedAt)
	}

	return records, model.Meta{Limit: filter.Limit, Offset: filter.Offset, Total: total}, nil
}
