// Package auth is the session/credential boundary. Token issuance lives
// with the external auth service; this package only validates bearer
// tokens and holds the active session for outbound calls.
package auth

import "sync"

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
}

// Provider supplies the current session. The order store consults it
// synchronously before every submission or fetch, so a login/logout never
// leaves a stale token cached anywhere.
type Provider interface {
	CurrentUser() (User, bool)
	CurrentToken() (string, bool)
}

// Session is a mutex-guarded Provider for the single active UI session.
type Session struct {
	mu    sync.RWMutex
	user  User
	token string
	valid bool
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) Set(user User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.valid = true
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = User{}
	s.token = ""
	s.valid = false
}

func (s *Session) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.valid
}

func (s *Session) CurrentToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return "", false
	}
	return s.token, true
}
