package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"field-tech-api/internal/carrier"
	"field-tech-api/internal/metrics"
	"field-tech-api/internal/model"
)

const (
	CarrierFindCustomer = "buscar_cliente"
	CarrierCheckAccess  = "verificar_acesso"
	CarrierSaveContract = "salvar_contrato"
)

// ContractSaver is satisfied by *ClientService.
type ContractSaver interface {
	SaveContract(ctx context.Context, actor model.Actor, cpf string, contract *string, mac *string) error
}

type CarrierRequest struct {
	Action   string
	CPF      string
	Contract *string
	MAC      *string
}

// CarrierService proxies technician lookups to the carrier portal and
// persists the contract data it hands back.
type CarrierService struct {
	gateway   CarrierGateway
	contracts ContractSaver
}

func NewCarrierService(gateway CarrierGateway, contracts ContractSaver) *CarrierService {
	return &CarrierService{gateway: gateway, contracts: contracts}
}

// Status dispatches one carrier action. Portal answers are returned as the
// raw JSON the portal produced.
func (s *CarrierService) Status(ctx context.Context, actor model.Actor, req CarrierRequest) (any, error) {
	switch req.Action {
	case CarrierFindCustomer:
		cpf, err := NormalizeCPF(req.CPF)
		if err != nil {
			return nil, err
		}
		body, err := s.gateway.FindCustomer(ctx, cpf)
		observeCarrierCall(req.Action, err)
		if err != nil {
			return nil, err
		}
		return body, nil

	case CarrierCheckAccess:
		if req.Contract == nil || strings.TrimSpace(*req.Contract) == "" {
			return nil, fmt.Errorf("%w: contrato is required", model.ErrInvalidInput)
		}
		body, err := s.gateway.CheckAccess(ctx, strings.TrimSpace(*req.Contract))
		observeCarrierCall(req.Action, err)
		if err != nil {
			return nil, err
		}
		return body, nil

	case CarrierSaveContract:
		if err := s.contracts.SaveContract(ctx, actor, req.CPF, req.Contract, req.MAC); err != nil {
			return nil, err
		}
		return map[string]bool{"saved": true}, nil

	default:
		return nil, fmt.Errorf("%w: unknown action %q", model.ErrInvalidInput, req.Action)
	}
}

// Configured reports whether portal lookups can be made at all.
func (s *CarrierService) Configured() bool {
	return s.gateway != nil && s.gateway.Configured()
}

func observeCarrierCall(action string, err error) {
	metrics.CarrierCallsTotal.WithLabelValues(action, carrierOutcome(err)).Inc()
}

func carrierOutcome(err error) string {
	var upstream *carrier.UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, carrier.ErrCustomerNotFound):
		return "not_found"
	case errors.Is(err, carrier.ErrNotConfigured):
		return "not_configured"
	case errors.As(err, &upstream) && upstream.StatusCode == 0:
		return "unreachable"
	default:
		return "upstream_error"
	}
}
