// Package session keeps the per-shopper state: cart, account and pending
// notifications.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/pizzeria-storefront/internal/auth"
	"github.com/fairyhunter13/pizzeria-storefront/internal/cart"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

// Session is one shopper's state.
type Session struct {
	ID   string
	Cart *cart.Cart

	mu      sync.Mutex
	auth    auth.State
	notices []string

	submitting atomic.Bool
	lastSeen   atomic.Int64
	cartItems  atomic.Int64
}

func newSession(id string, p cart.Pricing, now time.Time) *Session {
	s := &Session{ID: id}
	s.Cart = cart.New(p, s.Notify)
	s.Cart.Subscribe(s.trackItems)
	s.touch(now)
	return s
}

// trackItems moves the live cart items gauge by the change in this cart.
func (s *Session) trackItems(snap cart.Snapshot) {
	n := int64(snap.ItemCount)
	if prev := s.cartItems.Swap(n); prev != n {
		obs.Metrics.CartItems.Add(float64(n - prev))
	}
}

// release takes the session's items out of the gauge once it is dropped.
func (s *Session) release() {
	if n := s.cartItems.Swap(0); n != 0 {
		obs.Metrics.CartItems.Sub(float64(n))
	}
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// LastSeen is the time of the last lookup.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Notify queues a message for the shopper.
func (s *Session) Notify(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, msg)
}

// Notifications returns and clears the queued messages.
func (s *Session) Notifications() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

// Auth returns the account state.
func (s *Session) Auth() auth.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth
}

// SetAuth replaces the account state.
func (s *Session) SetAuth(st auth.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = st
}

// BeginSubmit marks a checkout as in flight. It returns false when one
// already is.
func (s *Session) BeginSubmit() bool { return s.submitting.CompareAndSwap(false, true) }

// EndSubmit clears the in-flight mark.
func (s *Session) EndSubmit() { s.submitting.Store(false) }

// Submitting reports whether a checkout is in flight.
func (s *Session) Submitting() bool { return s.submitting.Load() }

// Manager owns every live session.
type Manager struct {
	pricing cart.Pricing
	ttl     time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns a Manager whose sessions expire after ttl of inactivity.
func NewManager(p cart.Pricing, ttl time.Duration) *Manager {
	return &Manager{pricing: p, ttl: ttl, now: time.Now, sessions: make(map[string]*Session)}
}

// Get returns the live session for id and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.now())
	}
	return s, ok
}

// GetOrCreate returns the session for id, or a new session with a fresh id
// when id is empty or unknown.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	s = newSession(uuid.NewString(), m.pricing, m.now())
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	obs.Metrics.SessionsActive.Set(float64(n))
	return s, true
}

// Delete drops a session.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	if ok {
		s.release()
	}
	obs.Metrics.SessionsActive.Set(float64(n))
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL as of now. Sessions with
// a checkout in flight are kept. It returns the number dropped.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	dropped := 0
	for id, s := range m.sessions {
		if s.Submitting() || now.Sub(s.LastSeen()) <= m.ttl {
			continue
		}
		delete(m.sessions, id)
		s.release()
		dropped++
	}
	n := len(m.sessions)
	m.mu.Unlock()
	obs.Metrics.SessionsActive.Set(float64(n))
	if dropped > 0 {
		obs.Logger.Info("sessions expired", "expired", dropped, "active", n)
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep(m.now())
		}
	}
}
