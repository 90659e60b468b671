package authhandlers

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Black-And-White-Club/tournament-uploader/config"
)

// RateLimitPolicy is a token bucket per client. A non-positive Rate turns
// limiting off.
type RateLimitPolicy struct {
	Rate  rate.Limit
	Burst int
	// IdleTTL is how long a client's bucket survives without requests.
	IdleTTL time.Duration
}

// RateLimitPolicyFromConfig reads the API server settings.
func RateLimitPolicyFromConfig(cfg config.HTTPConfig) RateLimitPolicy {
	return RateLimitPolicy{
		Rate:    rate.Limit(cfg.RateLimit),
		Burst:   cfg.RateBurst,
		IdleTTL: cfg.RateLimitIdle,
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.Rate > 0 && p.Burst > 0
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter holds one bucket per client key.
type ClientLimiter struct {
	policy    RateLimitPolicy
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func NewClientLimiter(policy RateLimitPolicy) *ClientLimiter {
	return &ClientLimiter{
		policy:  policy,
		buckets: make(map[string]*bucket),
	}
}

// Reserve takes a token for key at now. When none is available it reports
// how long the client should wait.
func (l *ClientLimiter) Reserve(key string, now time.Time) (bool, time.Duration) {
	if !l.policy.enabled() {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.policy.Rate, l.policy.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops idle buckets, at most once per IdleTTL.
func (l *ClientLimiter) sweep(now time.Time) {
	if l.policy.IdleTTL <= 0 || now.Sub(l.lastSweep) < l.policy.IdleTTL {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-l.policy.IdleTTL)
	for k, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}

// Clients returns the number of tracked clients.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// ClientKey picks the bucket a request counts against.
type ClientKey func(r *http.Request) string

// RemoteIP keys requests by the peer address without its port.
func RemoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimit rejects requests over the client's budget with 429 and a
// Retry-After header in whole seconds.
func RateLimit(limiter *ClientLimiter, key ClientKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := limiter.Reserve(key(r), time.Now())
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
