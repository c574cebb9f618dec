package httpadapter

import (
	"net/http"
	"strconv"

	"golang.org/x/time/rate"
)

// TrafficControlConfig bounds inbound load. Zero values disable the
// corresponding control.
type TrafficControlConfig struct {
	RequestsPerSecond int
	Burst             int
	MaxConcurrent     int
}

// trafficControlMiddleware sheds load before it reaches the handlers:
// a token bucket answers 429 with Retry-After, a semaphore answers 503
// once too many requests are already in flight.
func trafficControlMiddleware(cfg TrafficControlConfig, next http.Handler) http.Handler {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = cfg.RequestsPerSecond
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	var semaphore chan struct{}
	if cfg.MaxConcurrent > 0 {
		semaphore = make(chan struct{}, cfg.MaxConcurrent)
	}

	if limiter == nil && semaphore == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil {
			reservation := limiter.Reserve()
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				retryAfter := int(delay.Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
		}

		if semaphore != nil {
			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			default:
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "server is at capacity, retry shortly"})
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
