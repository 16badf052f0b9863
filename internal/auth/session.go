package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one authenticated login.
type Session struct {
	Token     string
	Username  string
	Role      string
	Reviewer  bool
	ExpiresAt time.Time
}

// Sessions is an in-memory session table. Sessions do not survive a
// restart; logins are cheap and the portal is internal.
type Sessions struct {
	mu   sync.RWMutex
	ttl  time.Duration
	byID map[string]Session
	now  func() time.Time
}

// NewSessions builds a session table with the given lifetime.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:  ttl,
		byID: map[string]Session{},
		now:  time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *Sessions) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Start creates a session for the user and returns its token.
func (s *Sessions) Start(username, role string, reviewer bool) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := Session{
		Token:     uuid.NewString(),
		Username:  username,
		Role:      role,
		Reviewer:  reviewer,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.byID[sess.Token] = sess
	return sess
}

// Get returns the live session for a token. Expired sessions are
// dropped and reported as absent. The expiry slides on each lookup.
func (s *Sessions) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[token]
	if !ok {
		return Session{}, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.byID, token)
		return Session{}, false
	}
	sess.ExpiresAt = s.now().Add(s.ttl)
	s.byID[token] = sess
	return sess, true
}

// End removes a session. Unknown tokens are a no-op.
func (s *Sessions) End(token string) {
	s.mu.Lock()
	delete(s.byID, token)
	s.mu.Unlock()
}

// EndAllFor removes every session belonging to a username, used when an
// account is deleted or its password force-reset.
func (s *Sessions) EndAllFor(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.byID {
		if sess.Username == username {
			delete(s.byID, token)
		}
	}
}
