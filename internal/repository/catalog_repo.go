package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"field-tech-api/internal/model"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) Plans(ctx context.Context) ([]model.Plan, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM plans ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := make([]model.Plan, 0)
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *CatalogRepository) Installers(ctx context.Context) ([]model.Installer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM installers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list installers: %w", err)
	}
	defer rows.Close()

	installers := make([]model.Installer, 0)
	for rows.Next() {
		var i model.Installer
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, fmt.Errorf("scan installer: %w", err)
		}
		installers = append(installers, i)
	}
	return installers, rows.Err()
}
