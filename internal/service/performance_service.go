package service

import (
	"context"
	"fmt"
	"time"

	"field-tech-api/internal/model"
)

// streakLookback bounds how far back the streak query reads.
const streakLookback = 90

type PerformanceService struct {
	stats       StatsStore
	monthlyGoal int
	loc         *time.Location
	now         func() time.Time
}

func NewPerformanceService(stats StatsStore, monthlyGoal int) *PerformanceService {
	return &PerformanceService{stats: stats, monthlyGoal: monthlyGoal, loc: time.Local, now: time.Now}
}

// Performance builds the performance view. Technicians see only their own
// registrations and get a streak and a monthly ranking; admins see totals
// across everyone with streak and ranking left at zero.
func (s *PerformanceService) Performance(ctx context.Context, identity model.Identity) (model.Performance, error) {
	scope := OwnershipScope(identity)
	now := s.now().In(s.loc)
	today := startOfDay(now)
	month := startOfMonth(now)

	periods := []struct {
		target *int
		period model.Period
	}{
		{period: model.Period{From: today, To: today.AddDate(0, 0, 1)}},
		{period: model.Period{From: startOfWeek(now), To: today.AddDate(0, 0, 1)}},
		{period: model.Period{From: month, To: month.AddDate(0, 1, 0)}},
		{period: model.Period{From: month.AddDate(0, -1, 0), To: month}},
	}

	perf := model.Performance{
		MonthlyGoal: s.monthlyGoal,
		Username:    identity.Username,
		Role:        identity.Role,
	}
	periods[0].target = &perf.TodayInstallations
	periods[1].target = &perf.WeekInstallations
	periods[2].target = &perf.MonthInstallations
	periods[3].target = &perf.PrevMonthInstallations

	for _, p := range periods {
		period := p.period
		count, err := s.stats.CountClients(ctx, scope, &period)
		if err != nil {
			return model.Performance{}, fmt.Errorf("performance counts: %w", err)
		}
		*p.target = count
	}

	breakdown, err := s.stats.DailyCounts(ctx, scope, model.Period{From: month, To: month.AddDate(0, 1, 0)})
	if err != nil {
		return model.Performance{}, fmt.Errorf("daily breakdown: %w", err)
	}
	perf.DailyBreakdown = breakdown

	if identity.IsAdmin() {
		return perf, nil
	}

	recent, err := s.stats.DailyCounts(ctx, scope, model.Period{From: today.AddDate(0, 0, -streakLookback), To: today.AddDate(0, 0, 1)})
	if err != nil {
		return model.Performance{}, fmt.Errorf("streak: %w", err)
	}
	perf.Streak = ComputeStreak(recent, today)

	ranked, err := s.stats.CountByInstaller(ctx, model.Scope{}, &model.Period{From: month, To: month.AddDate(0, 1, 0)})
	if err != nil {
		return model.Performance{}, fmt.Errorf("ranking: %w", err)
	}
	perf.Ranking, perf.TotalTechnicians = ComputeRanking(ranked, identity.Username)

	return perf, nil
}

// ComputeStreak counts consecutive calendar days with at least one
// registration, walking back from today. When today has none the count may
// start from yesterday. The first gap ends the streak.
func ComputeStreak(days []model.DailyCount, today time.Time) int {
	active := make(map[string]struct{}, len(days))
	for _, day := range days {
		if day.Total > 0 {
			active[day.Date] = struct{}{}
		}
	}

	cursor := today
	if _, ok := active[cursor.Format(time.DateOnly)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := active[cursor.Format(time.DateOnly)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// ComputeRanking returns the 1-based position of username in ranked, which
// is ordered by descending count. An installer absent from the list ranks
// one past the last position and is added to the total.
func ComputeRanking(ranked []model.InstallerCount, username string) (int, int) {
	for i, entry := range ranked {
		if entry.Installer == username {
			return i + 1, len(ranked)
		}
	}

	return len(ranked) + 1, len(ranked) + 1
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns Monday 00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t).AddDate(0, 0, -offset)
}
