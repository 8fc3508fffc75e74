package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"datahub/internal/platform/ratelimit"
	"datahub/pkg/platform/httputil"
	"datahub/pkg/requestcontext"
)

// RateLimitExceeded is the 429 body.
type RateLimitExceeded struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// RateLimit caps requests per authenticated actor. It must run after
// RequireAuth. Store errors let the request through.
func RateLimit(store ratelimit.Store, limit int, window time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor := requestcontext.ActorID(ctx)
			if actor == "" || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			res, err := store.Allow(ctx, "actor:"+actor, limit, window)
			if err != nil {
				logger.ErrorContext(ctx, "rate limit check failed", "error", err, "actor_id", actor)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if !res.Allowed {
				logger.WarnContext(ctx, "rate limit exceeded", "actor_id", actor)
				w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter))
				httputil.WriteJSON(w, http.StatusTooManyRequests, RateLimitExceeded{
					Error:      "rate_limit_exceeded",
					Message:    "too many requests for this market actor",
					RetryAfter: res.RetryAfter,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
