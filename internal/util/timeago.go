package util

import (
	"fmt"
	"time"
)

// RelativeTime renders t relative to now the way the front-end displays
// it: minutes, hours and days for the first week, then a plain date.
func RelativeTime(now time.Time, t time.Time) string {
	diff := now.Sub(t)
	if diff < time.Minute {
		return "agora mesmo"
	}

	switch {
	case diff < time.Hour:
		return plural(int(diff/time.Minute), "minuto", "minutos")
	case diff < 24*time.Hour:
		return plural(int(diff/time.Hour), "hora", "horas")
	case diff < 48*time.Hour:
		return "ontem"
	case diff < 7*24*time.Hour:
		return plural(int(diff/(24*time.Hour)), "dia", "dias")
	case diff < 30*24*time.Hour:
		return plural(int(diff/(7*24*time.Hour)), "semana", "semanas")
	default:
		return t.In(now.Location()).Format("02/01/2006")
	}
}

func plural(n int, singular string, many string) string {
	if n == 1 {
		return fmt.Sprintf("há 1 %s", singular)
	}

	return fmt.Sprintf("há %d %s", n, many)
}
