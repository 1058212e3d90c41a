package domain

import (
	"errors"
	"strings"
)

var ErrInvalidSessionName = errors.New("session name is required")

// Session is the locally stored logged-in user. It is trusted as stored:
// nothing validates it against a backend and it never expires.
type Session struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// NewSession builds a session record for a display name
func NewSession(name, email string) (*Session, error) {
	s := &Session{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
	}
	if s.Name == "" {
		return nil, ErrInvalidSessionName
	}
	return s, nil
}
