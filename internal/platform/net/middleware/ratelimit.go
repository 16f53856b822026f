package middleware

import (
	"net/http"
	"time"

	perr "scheduling/internal/platform/errors"

	"github.com/go-chi/httprate"
)

// RateLimitByIP allows n requests per window per client ip and answers the rest
// with the JSON 429 envelope; n <= 0 disables limiting
// mount after RealIP so proxied clients are keyed by their own address
func RateLimitByIP(n int, window time.Duration) func(http.Handler) http.Handler {
	if n <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Second
	}
	return httprate.Limit(n, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, r, perr.TooManyRequestsf("rate limit exceeded, retry shortly"))
		}),
	)
}
