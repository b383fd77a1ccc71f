package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-tech-api/internal/model"
)

func TestDashboardService_Dashboard(t *testing.T) {
	last := &model.ClientSummary{CPF: "12345678901", Name: "Ana"}
	stats := &fakeStatsStore{
		countFn: func(_ model.Scope, period *model.Period) int {
			if period == nil {
				return 140
			}
			switch period.From.Format(time.DateOnly) {
			case "2026-03-18":
				return 3
			case "2026-03-16":
				return 9
			case "2026-03-01":
				return 41
			}
			return -1
		},
		daily:       map[string]int{"2026-03-11": 4, "2026-03-12": 1, "2026-03-18": 3},
		byInstaller: []model.InstallerCount{{Installer: "joao", Total: 9}},
		byPlan:      []model.PlanCount{{PlanID: 1, Total: 100}},
		recent:      []model.ClientSummary{*last, {CPF: "2"}, {CPF: "3"}, {CPF: "4"}, {CPF: "5"}, {CPF: "6"}},
		last:        last,
	}

	svc := NewDashboardService(stats)
	svc.loc = time.UTC
	svc.now = fixedClock(perfNow)

	scope := model.Scope{City: "Campinas"}
	dash, err := svc.Dashboard(context.Background(), scope)
	require.NoError(t, err)

	assert.Equal(t, model.DashboardTotals{Clients: 140, Today: 3, Week: 9, Month: 41}, dash.Totals)
	assert.Equal(t, last, dash.LastRegistration)
	assert.Len(t, dash.RecentRegistrations, 5)
	assert.Equal(t, stats.byPlan, dash.ByPlan)
	assert.Equal(t, stats.byInstaller, dash.ByInstaller)

	// 2026-03-11 falls outside the seven-day window ending today.
	assert.Equal(t, []model.DailyCount{{Date: "2026-03-12", Total: 1}, {Date: "2026-03-18", Total: 3}}, dash.DailyChart)

	require.Len(t, stats.installerCalls, 1)
	assert.Equal(t, "2026-02-16", stats.installerCalls[0].period.From.Format(time.DateOnly))

	for _, call := range stats.countCalls {
		assert.Equal(t, scope, call.scope)
	}
}
