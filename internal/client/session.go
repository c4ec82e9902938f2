// Package client implements the API consumer used by the terminal client:
// an in-memory session holding the current token and profile, and an HTTP
// client that attaches the token as a bearer credential on protected calls.
package client

import (
	"sync"

	"taskhub/internal/model"
)

// Session holds the authenticated identity for the lifetime of the process.
// Nothing is persisted to disk; closing the client logs the user out.
type Session struct {
	mu           sync.RWMutex
	token        string
	refreshToken string
	user         *model.User
}

// NewSession creates an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// Set stores the identity and tokens returned by login or register.
func (s *Session) Set(user *model.User, token, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.refreshToken = refreshToken
}

// Clear drops the identity and tokens, returning to the unauthenticated state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.refreshToken = ""
}

// Token returns the current access token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RefreshToken returns the current refresh token, or "" when unauthenticated.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// SetToken replaces only the access token, keeping identity and refresh token.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// User returns the current user profile, or nil when unauthenticated.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is currently held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
