// Package auth implements the shared-secret gate in front of the task list
// and the per-session state the presentation layers carry around.
package auth

import (
	"crypto/subtle"
	"errors"
)

// ErrIncorrectPassword is returned by Session.Login on a mismatch
var ErrIncorrectPassword = errors.New("incorrect password")

// Flash messages shown once after an action.
const (
	FlashLoggedIn    = "Logged in!"
	FlashLoggedOut   = "Logged out successfully."
	FlashTaskAdded   = "Task added!"
	FlashItemAdded   = "Subtask added!"
	FlashTaskDeleted = "Task deleted."
)

// Gate holds the single shared secret. An empty secret disables the gate.
type Gate struct {
	secret []byte
}

// NewGate creates a gate for the given secret.
func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (g *Gate) Enabled() bool {
	return g != nil && len(g.secret) > 0
}

// Check compares input against the secret in constant time. A disabled
// gate accepts anything.
func (g *Gate) Check(input string) bool {
	if !g.Enabled() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(input), g.secret) == 1
}

// Session is the state of one interactive session or request: whether the
// user got past the gate, and the one-shot banners waiting to be shown.
type Session struct {
	LoggedIn bool
	flashes  []string
}

// NewSession starts a session, already logged in when the gate is disabled.
func NewSession(g *Gate) *Session {
	return &Session{LoggedIn: !g.Enabled()}
}

// Login checks input against the gate.
func (s *Session) Login(g *Gate, input string) error {
	if !g.Check(input) {
		return ErrIncorrectPassword
	}
	s.LoggedIn = true
	if g.Enabled() {
		s.Flash(FlashLoggedIn)
	}
	return nil
}

// Logout ends the session.
func (s *Session) Logout() {
	s.LoggedIn = false
	s.flashes = nil
	s.Flash(FlashLoggedOut)
}

// Flash queues a message for the next render.
func (s *Session) Flash(msg string) {
	s.flashes = append(s.flashes, msg)
}

// TakeFlashes returns the queued messages and clears them.
func (s *Session) TakeFlashes() []string {
	out := s.flashes
	s.flashes = nil
	return out
}
