package service

import (
	"context"
	"fmt"
	"time"

	"field-tech-api/internal/model"
)

const (
	recentRegistrationsLimit = 5
	installerWindowDays      = 30
	dailyChartDays           = 7
)

type DashboardService struct {
	stats StatsStore
	loc   *time.Location
	now   func() time.Time
}

func NewDashboardService(stats StatsStore) *DashboardService {
	return &DashboardService{stats: stats, loc: time.Local, now: time.Now}
}

// Dashboard aggregates registrations visible under scope.
func (s *DashboardService) Dashboard(ctx context.Context, scope model.Scope) (model.Dashboard, error) {
	now := s.now().In(s.loc)
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	var dash model.Dashboard
	var err error

	if dash.Totals.Clients, err = s.stats.CountClients(ctx, scope, nil); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard totals: %w", err)
	}
	if dash.Totals.Today, err = s.stats.CountClients(ctx, scope, &model.Period{From: today, To: tomorrow}); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard today: %w", err)
	}
	if dash.Totals.Week, err = s.stats.CountClients(ctx, scope, &model.Period{From: startOfWeek(now), To: tomorrow}); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard week: %w", err)
	}
	if dash.Totals.Month, err = s.stats.CountClients(ctx, scope, &model.Period{From: startOfMonth(now), To: tomorrow}); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard month: %w", err)
	}

	if dash.LastRegistration, err = s.stats.LastRegistration(ctx, scope); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard last registration: %w", err)
	}

	installerWindow := &model.Period{From: today.AddDate(0, 0, -installerWindowDays), To: tomorrow}
	if dash.ByInstaller, err = s.stats.CountByInstaller(ctx, scope, installerWindow); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard by installer: %w", err)
	}

	if dash.ByPlan, err = s.stats.CountByPlan(ctx, scope); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard by plan: %w", err)
	}

	if dash.RecentRegistrations, err = s.stats.RecentRegistrations(ctx, scope, recentRegistrationsLimit); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard recent: %w", err)
	}

	chart := model.Period{From: today.AddDate(0, 0, -(dailyChartDays - 1)), To: tomorrow}
	if dash.DailyChart, err = s.stats.DailyCounts(ctx, scope, chart); err != nil {
		return model.Dashboard{}, fmt.Errorf("dashboard chart: %w", err)
	}

	return dash, nil
}
