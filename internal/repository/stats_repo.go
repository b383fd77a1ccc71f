package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"field-tech-api/internal/model"
)

// StatsRepository runs the aggregate queries behind the dashboard and the
// performance view. Every method takes the caller's scope.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) CountClients(ctx context.Context, scope model.Scope, period *model.Period) (int, error) {
	b := &whereBuilder{}
	applyScope(b, scope, "c")
	applyPeriod(b, period, "c")

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients c `+b.String(), b.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}

func (r *StatsRepository) RecentRegistrations(ctx context.Context, scope model.Scope, limit int) ([]model.ClientSummary, error) {
	b := &whereBuilder{}
	applyScope(b, scope, "c")
	limitIdx := b.next(limit)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT c.cpf, c.name, c.city, c.plan_id, c.installer, c.created_at
		 FROM clients c %s
		 ORDER BY c.created_at DESC, c.cpf
		 LIMIT $%d`, b.String(), limitIdx), b.args...)
	if err != nil {
		return nil, fmt.Errorf("recent registrations: %w", err)
	}
	defer rows.Close()

	out := make([]model.ClientSummary, 0, limit)
	for rows.Next() {
		var s model.ClientSummary
		if err := rows.Scan(&s.CPF, &s.Name, &s.City, &s.PlanID, &s.Installer, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StatsRepository) LastRegistration(ctx context.Context, scope model.Scope) (*model.ClientSummary, error) {
	recent, err := r.RecentRegistrations(ctx, scope, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}
	return &recent[0], nil
}

// CountByInstaller groups registrations inside period by installer, highest
// count first. Ties break alphabetically so ranks are stable.
func (r *StatsRepository) CountByInstaller(ctx context.Context, scope model.Scope, period *model.Period) ([]model.InstallerCount, error) {
	b := &whereBuilder{}
	applyScope(b, scope, "c")
	applyPeriod(b, period, "c")

	rows, err := r.pool.Query(ctx,
		`SELECT c.installer, COUNT(*) AS total
		 FROM clients c `+b.String()+`
		 GROUP BY c.installer
		 ORDER BY total DESC, c.installer`, b.args...)
	if err != nil {
		return nil, fmt.Errorf("count by installer: %w", err)
	}
	defer rows.Close()

	out := make([]model.InstallerCount, 0)
	for rows.Next() {
		var ic model.InstallerCount
		if err := rows.Scan(&ic.Installer, &ic.Total); err != nil {
			return nil, fmt.Errorf("scan installer count: %w", err)
		}
		out = append(out, ic)
	}
	return out, rows.Err()
}

func (r *StatsRepository) CountByPlan(ctx context.Context, scope model.Scope) ([]model.PlanCount, error) {
	b := &whereBuilder{}
	applyScope(b, scope, "c")

	rows, err := r.pool.Query(ctx,
		`SELECT c.plan_id, COUNT(*) AS total
		 FROM clients c `+b.String()+`
		 GROUP BY c.plan_id
		 ORDER BY total DESC, c.plan_id`, b.args...)
	if err != nil {
		return nil, fmt.Errorf("count by plan: %w", err)
	}
	defer rows.Close()

	out := make([]model.PlanCount, 0)
	for rows.Next() {
		var pc model.PlanCount
		if err := rows.Scan(&pc.PlanID, &pc.Total); err != nil {
			return nil, fmt.Errorf("scan plan count: %w", err)
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// DailyCounts returns one row per calendar day that has registrations,
// oldest first. Days without registrations are absent.
func (r *StatsRepository) DailyCounts(ctx context.Context, scope model.Scope, period model.Period) ([]model.DailyCount, error) {
	b := &whereBuilder{}
	applyScope(b, scope, "c")
	applyPeriod(b, &period, "c")

	rows, err := r.pool.Query(ctx,
		`SELECT to_char(c.created_at::date, 'YYYY-MM-DD') AS day, COUNT(*) AS total
		 FROM clients c `+b.String()+`
		 GROUP BY day
		 ORDER BY day`, b.args...)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	out := make([]model.DailyCount, 0)
	for rows.Next() {
		var dc model.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Total); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}
