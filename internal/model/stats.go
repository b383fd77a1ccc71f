package model

import "time"

type DailyCount struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

type InstallerCount struct {
	Installer string `json:"installer"`
	Total     int    `json:"total"`
}

type PlanCount struct {
	PlanID int64 `json:"plan_id"`
	Total  int   `json:"total"`
}

type DashboardTotals struct {
	Clients int `json:"clients"`
	Today   int `json:"today"`
	Week    int `json:"week"`
	Month   int `json:"month"`
}

type Dashboard struct {
	Totals              DashboardTotals  `json:"totals"`
	LastRegistration    *ClientSummary   `json:"last_registration"`
	ByInstaller         []InstallerCount `json:"by_installer"`
	ByPlan              []PlanCount      `json:"by_plan"`
	RecentRegistrations []ClientSummary  `json:"recent_registrations"`
	DailyChart          []DailyCount     `json:"daily_chart"`
}

type Performance struct {
	TodayInstallations     int          `json:"today_installations"`
	WeekInstallations      int          `json:"week_installations"`
	MonthInstallations     int          `json:"month_installations"`
	PrevMonthInstallations int          `json:"prev_month_installations"`
	DailyBreakdown         []DailyCount `json:"daily_breakdown"`
	MonthlyGoal            int          `json:"monthly_goal"`
	Streak                 int          `json:"streak"`
	Ranking                int          `json:"ranking"`
	TotalTechnicians       int          `json:"total_technicians"`
	Username               string       `json:"username"`
	Role                   string       `json:"role"`
}

// Period is a half-open [From, To) time range.
type Period struct {
	From time.Time
	To   time.Time
}
