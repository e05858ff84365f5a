package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/saral-hq/saral/internal/shared"
)

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Bearer returns middleware that resolves the Authorization header into the
// request context actor. Requests without a valid token pass through
// anonymous; permission gates reject them downstream.
func Bearer(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if userID, _, err := issuer.Verify(token); err == nil {
					r = r.WithContext(shared.ContextWithActor(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
