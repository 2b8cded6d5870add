package routes

import (
	"context"
	"math"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	lastSeen time.Time
}

type RateLimiter struct {
	limiter map[string]*visitor
	mutex *sync.Mutex
	limit rate.Limit
	cap int
}

// NewRateLimiter allows `perSecond` requests per second for each ip.
// <= 0 lets everything through.
func NewRateLimiter(perSecond float64) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(math.Max(1, math.Ceil(perSecond)))
	}
	return &RateLimiter{
		limiter: make(map[string]*visitor, 0),
		mutex: &sync.Mutex{},
		limit: limit,
		cap: burst,
	}
}

func ResolveMostPossibleIP(w http.ResponseWriter, r *http.Request) string {
	ip := r.Header.Get("X-Real-IP")
	netip := net.ParseIP(ip)
	if netip != nil { return netip.String() }

	ips := r.Header.Values("X-Forwarded-For")
	// one should know that this is never going to be 100% correct.
	for _, ip := range ips {
		for k := range strings.SplitSeq(ip, ",") {
			netip = net.ParseIP(strings.TrimSpace(k))
			if netip != nil { return netip.String() }
		}
	}

	h, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil { return r.RemoteAddr }
	return h
}

func (rl *RateLimiter) IsIPAllowed(s string) bool {
	rl.mutex.Lock()
	v, ok := rl.limiter[s]
	if !ok {
		v = &visitor{ limiter: rate.NewLimiter(rl.limit, rl.cap) }
		rl.limiter[s] = v
	}
	v.lastSeen = time.Now()
	rl.mutex.Unlock()
	return v.limiter.Allow()
}

// Prune forgets ips not seen since `before`. returns how many were
// dropped.
func (rl *RateLimiter) Prune(before time.Time) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	n := 0
	for k, v := range rl.limiter {
		if v.lastSeen.Before(before) {
			delete(rl.limiter, k)
			n += 1
		}
	}
	return n
}

// PruneEvery runs Prune with an `idle` cutoff every `interval` until
// `ctx` is done.
func (rl *RateLimiter) PruneEvery(ctx context.Context, interval time.Duration, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			rl.Prune(now.Add(-idle))
		}
	}
}
