package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mrops-br/storefront/internal/infrastructure/telemetry"
)

const (
	// ClientCookie carries the browser's client id
	ClientCookie = "storefront_client"
	// ClientHeader lets API callers pick their client id
	ClientHeader = "X-Client-ID"
)

// ClientID resolves the client a request belongs to, issuing a new UUID
// cookie to browsers that have none. The id is placed in the request
// context for handlers and logs.
func ClientID() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(ClientHeader)
			if id == "" {
				if c, err := r.Cookie(ClientCookie); err == nil && c.Value != "" {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := telemetry.WithClientID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIDFromRequest returns the id set by ClientID
func ClientIDFromRequest(ctx context.Context) string {
	return telemetry.ClientIDFromContext(ctx)
}
