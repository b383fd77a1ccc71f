package service

import (
	"context"
	"fmt"

	"field-tech-api/internal/model"
)

type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Plans(ctx context.Context) ([]model.Plan, error) {
	plans, err := s.store.Plans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

func (s *CatalogService) Installers(ctx context.Context) ([]model.Installer, error) {
	installers, err := s.store.Installers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list installers: %w", err)
	}
	return installers, nil
}
