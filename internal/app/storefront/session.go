package storefront

import (
	"context"

	"github.com/mrops-br/storefront/internal/app/dto"
	"github.com/mrops-br/storefront/internal/domain"
)

const msgLoggedOut = "You have logged out successfully."

// LoggedIn reports whether a session record was present when the page was opened
func (s *Storefront) LoggedIn() bool {
	return s.session != nil
}

// Login stores a session record. Like Logout it only takes effect on the
// page after a reload.
func (s *Storefront) Login(ctx context.Context, session *domain.Session) error {
	return s.store.SaveSession(ctx, session)
}

// Logout deletes the session record and confirms it to the shopper.
// The caller reloads the page afterwards.
func (s *Storefront) Logout(ctx context.Context) (string, error) {
	if err := s.store.ClearSession(ctx); err != nil {
		return "", err
	}
	s.Alert(msgLoggedOut)
	return msgLoggedOut, nil
}

func (s *Storefront) sessionDisplay() dto.SessionView {
	if s.session == nil {
		return dto.SessionView{LoginURL: s.opts.LoginPath}
	}
	return dto.SessionView{
		LoggedIn: true,
		Name:     s.session.Name,
		Greeting: "Hi, " + s.session.Name,
	}
}
