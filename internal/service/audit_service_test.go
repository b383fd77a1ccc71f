package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-tech-api/internal/model"
)

func TestAuditService_Record(t *testing.T) {
	t.Run("anonymous events are attributed to system", func(t *testing.T) {
		store := &fakeAuditStore{}
		svc := NewAuditService(store, discardLogger())

		svc.Record(context.Background(), model.AuditEvent{ActionType: "client_created", Description: "x"})

		require.Len(t, store.inserted, 1)
		assert.Equal(t, model.SystemActor, store.inserted[0].Username)
	})

	t.Run("write runs detached from a cancelled request", func(t *testing.T) {
		store := &fakeAuditStore{}
		svc := NewAuditService(store, discardLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc.Record(ctx, model.AuditEvent{ActionType: "login", Username: "joao"})

		require.Len(t, store.ctxErrs, 1)
		assert.NoError(t, store.ctxErrs[0])
		assert.Len(t, store.inserted, 1)
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		store := &fakeAuditStore{insertErr: errors.New("connection reset")}
		svc := NewAuditService(store, discardLogger())

		assert.NotPanics(t, func() {
			svc.Record(context.Background(), model.AuditEvent{ActionType: "login"})
		})
	})

	t.Run("slow store is cut off at the write timeout", func(t *testing.T) {
		store := &stalledAuditStore{}
		svc := NewAuditService(store, discardLogger())
		svc.writeTimeout = 20 * time.Millisecond

		started := time.Now()
		svc.Record(context.Background(), model.AuditEvent{ActionType: "login"})

		assert.Less(t, time.Since(started), time.Second)
		assert.ErrorIs(t, store.err, context.DeadlineExceeded)
	})

	t.Run("nil service is a no-op", func(t *testing.T) {
		var svc *AuditService
		assert.NotPanics(t, func() {
			svc.Record(context.Background(), model.AuditEvent{ActionType: "login"})
		})
	})
}

func TestAuditService_Query(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	newService := func(store *fakeAuditStore) *AuditService {
		svc := NewAuditService(store, discardLogger())
		svc.now = fixedClock(now)
		return svc
	}

	tests := []struct {
		name      string
		limit     int
		offset    int
		wantLimit int
		wantOff   int
	}{
		{name: "default limit", limit: 0, wantLimit: DefaultAuditLimit},
		{name: "negative limit", limit: -5, wantLimit: DefaultAuditLimit},
		{name: "within range", limit: 25, offset: 50, wantLimit: 25, wantOff: 50},
		{name: "capped", limit: 10000, wantLimit: MaxAuditLimit},
		{name: "negative offset", limit: 10, offset: -1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeAuditStore{}
			_, meta, err := newService(store).Query(context.Background(), model.AuditFilter{Limit: tt.limit, Offset: tt.offset})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, store.lastFilter.Limit)
			assert.Equal(t, tt.wantOff, store.lastFilter.Offset)
			assert.Equal(t, tt.wantLimit, meta.Limit)
		})
	}

	t.Run("end before start", func(t *testing.T) {
		start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)

		_, _, err := newService(&fakeAuditStore{}).Query(context.Background(), model.AuditFilter{StartDate: &start, EndDate: &end})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("same start and end day is allowed", func(t *testing.T) {
		day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

		_, _, err := newService(&fakeAuditStore{}).Query(context.Background(), model.AuditFilter{StartDate: &day, EndDate: &day})
		assert.NoError(t, err)
	})

	t.Run("relative time is filled", func(t *testing.T) {
		store := &fakeAuditStore{records: []model.AuditRecord{
			{ID: 2, CreatedAt: now.Add(-10 * time.Second)},
			{ID: 1, CreatedAt: now.Add(-26 * time.Hour)},
		}}

		records, meta, err := newService(store).Query(context.Background(), model.AuditFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, meta.Total)
		assert.Equal(t, "agora mesmo", records[0].CreatedAtRelative)
		assert.Equal(t, "ontem", records[1].CreatedAtRelative)
	})
}

// stalledAuditStore never completes an insert before its context ends.
type stalledAuditStore struct {
	fakeAuditStore
	err error
}

func (s *stalledAuditStore) Insert(ctx context.Context, _ model.AuditEvent) error {
	<-ctx.Done()
	s.err = ctx.Err()
	return s.err
}
