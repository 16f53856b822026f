package httpkit

import (
	"net/http"
	"time"

	"scheduling/internal/platform/config"
	"scheduling/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout     time.Duration
	SlowRequest time.Duration
	CORSOrigins []string
}

// StackFromConfig reads CORE_API_REQUEST_TIMEOUT, CORE_API_SLOW_REQUEST and CORE_API_CORS_ORIGINS
func StackFromConfig(cfg config.Conf) StackOptions {
	c := cfg.Prefix("CORE_API_")
	return StackOptions{
		Timeout:     c.MayDuration("REQUEST_TIMEOUT", 15*time.Second),
		SlowRequest: c.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		CORSOrigins: c.MayCSV("CORS_ORIGINS", []string{"*"}),
	}
}

// CommonStack returns the middleware every versioned API router gets
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	mws := middleware.Defaults(o.Timeout)
	return append(mws,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow: o.SlowRequest,
			Skip: []string{"/api/v1/meta/health"},
		}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
	)
}

// RateLimit limits each client IP to n requests per second, n <= 0 disables it
func RateLimit(n int) func(http.Handler) http.Handler {
	return middleware.RateLimitByIP(n, time.Second)
}
