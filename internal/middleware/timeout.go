package middleware

import (
	"net/http"
	"time"
)

const timeoutBody = `{"success":false,"message":"request timed out","error":"REQUEST_TIMEOUT","code":"REQUEST_TIMEOUT"}`

// Timeout bounds API handlers with http.TimeoutHandler. Only JSON routes are
// wrapped, so the timeout body is always sent as JSON.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return func(next http.Handler) http.Handler {
		bounded := http.TimeoutHandler(next, timeout, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			bounded.ServeHTTP(w, r)
		})
	}
}
