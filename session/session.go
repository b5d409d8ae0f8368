package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"aninha-confeccoes/cart"
	"aninha-confeccoes/models"
)

// CookieName binds a browser to its session
const CookieName = "shop_session-id"

// Session is the state of one browsing session. Callers hold Lock while
// reading or mutating it.
type Session struct {
	sync.Mutex

	ID       string
	Cart     *cart.Cart
	Customer *models.Customer
	Admin    bool
	Filter   models.CatalogFilter

	lastSeen time.Time
}

// LoggedIn reports whether the customer gate was passed
func (s *Session) LoggedIn() bool {
	return s.Customer != nil
}

// Store keeps sessions in memory, expiring the ones idle longer than ttl
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Lookup returns the live session for id and refreshes its idle timer.
// Expired sessions are dropped.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(id, s.now())
}

// Get returns the live session for id, creating and storing a fresh one when
// id is unknown or expired. The second result is true when a new session was made.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.lookup(id, now); ok {
		return sess, false
	}

	sess := newSession(uuid.NewString(), now)
	s.sessions[sess.ID] = sess
	return sess, true
}

// Anonymous returns an empty session that is not stored. It serves read-only
// requests from browsers that have not started a session yet.
func Anonymous() *Session {
	return newSession("", time.Time{})
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		Cart:     cart.New(),
		lastSeen: now,
	}
}

func (s *Store) lookup(id string, now time.Time) (*Session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Delete ends a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep drops every expired session and returns how many were dropped
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of stored sessions, expired ones included until swept
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

type contextKey struct{}

// WithSession returns a context carrying sess
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session bound to ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok
}
