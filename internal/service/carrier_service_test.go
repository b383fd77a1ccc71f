package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-tech-api/internal/carrier"
	"field-tech-api/internal/model"
)

func TestCarrierService_Status(t *testing.T) {
	t.Run("find customer normalizes cpf", func(t *testing.T) {
		gateway := &fakeGateway{configured: true, customer: json.RawMessage(`{"clientes":[{"nome":"Ana"}]}`)}
		svc := NewCarrierService(gateway, nil)

		out, err := svc.Status(context.Background(), technicianActor(), CarrierRequest{Action: CarrierFindCustomer, CPF: "123.456.789-01"})
		require.NoError(t, err)
		assert.Equal(t, "12345678901", gateway.lastCPF)
		assert.JSONEq(t, `{"clientes":[{"nome":"Ana"}]}`, string(out.(json.RawMessage)))
	})

	t.Run("find customer rejects bad cpf", func(t *testing.T) {
		svc := NewCarrierService(&fakeGateway{configured: true}, nil)

		_, err := svc.Status(context.Background(), technicianActor(), CarrierRequest{Action: CarrierFindCustomer, CPF: "12"})
		assert.ErrorIs(t, err, model.ErrInvalidTaxID)
	})

	t.Run("upstream error passes through", func(t *testing.T) {
		upstream := &carrier.UpstreamError{StatusCode: 500, Body: "boom"}
		svc := NewCarrierService(&fakeGateway{configured: true, err: upstream}, nil)

		_, err := svc.Status(context.Background(), technicianActor(), CarrierRequest{Action: CarrierFindCustomer, CPF: "12345678901"})
		var target *carrier.UpstreamError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "boom", target.Body)
	})

	t.Run("check access requires contract", func(t *testing.T) {
		svc := NewCarrierService(&fakeGateway{configured: true}, nil)

		_, err := svc.Status(context.Background(), technicianActor(), CarrierRequest{Action: CarrierCheckAccess, Contract: ptr(" ")})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("check access", func(t *testing.T) {
		gateway := &fakeGateway{configured: true, access: json.RawMessage(`{"online":true}`)}
		svc := NewCarrierService(gateway, nil)

		out, err := svc.Status(context.Background(), technicianActor(), CarrierRequest{Action: CarrierCheckAccess, Contract: ptr(" 4411 ")})
		require.NoError(t, err)
		assert.Equal(t, "4411", gateway.lastContract)
		assert.JSONEq(t, `{"online":true}`, string(out.(json.RawMessage)))
	})

	t.Run("save contract delegates to the registry", func(t *testing.T) {
		store := newFakeClientStore(model.Client{CPF: "12345678901"})
		clients := newTestClientService(store, &fakeHistoryStore{}, &recordingAudit{})
		svc := NewCarrierService(&fakeGateway{}, clients)

		out, err := svc.Status(context.Background(), technicianActor(), CarrierRequest{
			Action:   CarrierSaveContract,
			CPF:      "12345678901",
			Contract: ptr("4411"),
			MAC:      ptr("aa:bb"),
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"saved": true}, out)
		assert.Equal(t, "4411", *store.clients["12345678901"].Contract)
		assert.Equal(t, "AA:BB", *store.clients["12345678901"].Serial)
	})

	t.Run("unknown action", func(t *testing.T) {
		svc := NewCarrierService(&fakeGateway{}, nil)

		_, err := svc.Status(context.Background(), technicianActor(), CarrierRequest{Action: "reboot"})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestCarrierOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: "ok"},
		{err: carrier.ErrCustomerNotFound, want: "not_found"},
		{err: carrier.ErrNotConfigured, want: "not_configured"},
		{err: &carrier.UpstreamError{Err: errors.New("dial tcp: refused")}, want: "unreachable"},
		{err: fmt.Errorf("wrapped: %w", &carrier.UpstreamError{StatusCode: 503}), want: "upstream_error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, carrierOutcome(tt.err))
		})
	}
}

func TestCatalogService(t *testing.T) {
	svc := NewCatalogService(stubCatalog{})

	plans, err := svc.Plans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Plan{{ID: 1, Name: "100 Mega"}}, plans)

	installers, err := svc.Installers(context.Background())
	require.NoError(t, err)
	assert.Len(t, installers, 2)
}

type stubCatalog struct{}

func (stubCatalog) Plans(context.Context) ([]model.Plan, error) {
	return []model.Plan{{ID: 1, Name: "100 Mega"}}, nil
}

func (stubCatalog) Installers(context.Context) ([]model.Installer, error) {
	return []model.Installer{{ID: 1, Name: "joao"}, {ID: 2, Name: "maria"}}, nil
}
