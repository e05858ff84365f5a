package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/saral-hq/saral/internal/platform/httpx"
	"github.com/saral-hq/saral/internal/shared"
)

// Checker answers whether a user holds a capability code.
type Checker interface {
	HasPermission(ctx context.Context, userID int64, code string) (bool, error)
}

// Middleware gates routes on capability codes derived from the HTTP method
// and the entity name: GET needs view_<entity>, POST add_<entity>, PUT and
// PATCH edit_<entity>, DELETE delete_<entity>.
type Middleware struct {
	checker Checker
	logger  *slog.Logger
}

// NewMiddleware constructs the Middleware.
func NewMiddleware(checker Checker, logger *slog.Logger) Middleware {
	return Middleware{checker: checker, logger: logger}
}

func capability(method, entity string) string {
	switch method {
	case http.MethodPost:
		return "add_" + entity
	case http.MethodPut, http.MethodPatch:
		return "edit_" + entity
	case http.MethodDelete:
		return "delete_" + entity
	default:
		return "view_" + entity
	}
}

// Require returns a middleware enforcing the capability for entity.
func (m Middleware) Require(entity string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := shared.ActorFromContext(r.Context())
			if userID == 0 {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			code := capability(r.Method, entity)
			ok, err := m.checker.HasPermission(r.Context(), userID, code)
			if err != nil {
				m.logger.Error("permission check failed",
					slog.Int64("user_id", userID), slog.String("code", code), slog.Any("error", err))
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !ok {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing capability "+code)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
