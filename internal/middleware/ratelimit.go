package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"

	"github.com/launchbase/api-template/internal/request"
)

// RateLimitExceededResponse is the JSON body returned with a 429.
type RateLimitExceededResponse struct {
	Detail            string `json:"detail"`
	RetryAfterSeconds int    `json:"retry_after_seconds"`
}

// ParseRate parses a rate limit rule of the shape "<count>/<unit>" where
// unit is one of second, minute, hour, or day.
func ParseRate(rule string) (limiter.Rate, error) {
	parts := strings.SplitN(strings.TrimSpace(rule), "/", 2)
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate limit rule %q: expected <count>/<unit>", rule)
	}

	count, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || count <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid rate limit count %q in rule %q", parts[0], rule)
	}

	var period time.Duration
	switch strings.TrimSpace(parts[1]) {
	case "second":
		period = time.Second
	case "minute":
		period = time.Minute
	case "hour":
		period = time.Hour
	case "day":
		period = 24 * time.Hour
	default:
		return limiter.Rate{}, fmt.Errorf("invalid rate limit unit %q in rule %q (must be second, minute, hour, or day)", parts[1], rule)
	}

	return limiter.Rate{Period: period, Limit: count}, nil
}

// RateLimit creates rate limiting middleware using ulule/limiter, keyed on
// the client IP. An empty redisURL selects the in-memory store, where each
// process keeps its own counters; set redisURL to share counters across
// processes.
func RateLimit(rule, redisURL string, log *zap.Logger) (func(http.Handler) http.Handler, error) {
	rate, err := ParseRate(rule)
	if err != nil {
		return nil, err
	}

	store, err := newLimiterStore(redisURL)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(store, rate)
	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(func(r *http.Request) string {
			return request.ClientIP(r)
		}),
		stdlibmw.WithLimitReachedHandler(limitReachedHandler(rate, log)),
	)
	return mw.Handler, nil
}

func newLimiterStore(redisURL string) (limiter.Store, error) {
	if redisURL == "" {
		return memorystore.NewStore(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return redisstore.NewStore(client)
}

// limitReachedHandler returns a 429 with a Retry-After header derived from
// the rate period.
func limitReachedHandler(rate limiter.Rate, log *zap.Logger) func(http.ResponseWriter, *http.Request) {
	retryAfter := int(rate.Period / time.Second)
	if retryAfter < 1 {
		retryAfter = 1
	}

	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("rate_limit_exceeded",
			zap.String("client_ip", request.ClientIP(r)),
			zap.String("path", r.URL.Path),
		)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		w.WriteHeader(http.StatusTooManyRequests)

		body := RateLimitExceededResponse{
			Detail:            "Rate limit exceeded. Please try again later.",
			RetryAfterSeconds: retryAfter,
		}
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Error("failed_to_encode_rate_limit_response", zap.Error(err))
		}
	}
}
