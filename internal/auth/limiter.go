package auth

import (
	"net"
	"strings"
	"sync"
	"time"
)

const (
	DefaultMaxAttempts = 10
	DefaultWindow      = 60 * time.Second
	DefaultBlock       = 2 * time.Minute
)

type attemptWindow struct {
	start        time.Time
	count        int
	blockedUntil time.Time
}

// Limiter counts login attempts per peer. A peer that exceeds the attempt budget inside one
// window is blocked for a fixed period.
type Limiter struct {
	maxAttempts int
	window      time.Duration
	block       time.Duration
	now         func() time.Time

	mu    sync.Mutex
	peers map[string]*attemptWindow
}

func NewLimiter(maxAttempts int, window, block time.Duration) *Limiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if block <= 0 {
		block = DefaultBlock
	}
	return &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		block:       block,
		now:         time.Now,
		peers:       make(map[string]*attemptWindow),
	}
}

// PeerKey strips the port from a remote address so reconnects share one budget.
func PeerKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(remoteAddr))
	if err != nil || host == "" {
		return strings.TrimSpace(remoteAddr)
	}
	return host
}

// Allow records an attempt. When it returns false, retry is how long the peer stays blocked.
func (l *Limiter) Allow(peer string) (ok bool, retry time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.peers[peer]
	if w == nil {
		w = &attemptWindow{}
		l.peers[peer] = w
	}
	if now.Before(w.blockedUntil) {
		return false, w.blockedUntil.Sub(now)
	}
	if w.start.IsZero() || now.Sub(w.start) > l.window {
		w.start = now
		w.count = 0
	}
	w.count++
	if w.count > l.maxAttempts {
		w.blockedUntil = now.Add(l.block)
		return false, l.block
	}
	return true, 0
}

// Reset forgets a peer after a successful login.
func (l *Limiter) Reset(peer string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.peers, peer)
}
