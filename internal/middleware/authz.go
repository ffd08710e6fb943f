package middleware

import (
	"context"
	"errors"
	"go-blog-app/internal/data"
	"go-blog-app/internal/session"
	"net/http"

	"github.com/casbin/casbin/v2"
)

// sessionUserKey is the session key holding the signed-in user's id.
const sessionUserKey = "user_id"

// UserFinder loads user records for session resolution.
type UserFinder interface {
	GetUserByID(ctx context.Context, id int64) (*data.User, error)
}

// Authorizer creates a new middleware for authorization.
// It resolves the session's user id to a full user record, stores the
// resulting UserInfo in the request context, and enforces the Casbin policy
// using the account's role as the subject.
func Authorizer(e *casbin.Enforcer, sm session.Manager, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{Role: AnonymousRole}

			if id := sm.GetInt64(r.Context(), sessionUserKey); id != 0 {
				user, err := users.GetUserByID(r.Context(), id)
				switch {
				case err == nil:
					userInfo = &UserInfo{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
				case errors.Is(err, data.ErrNotFound):
					// Stale session pointing at a removed account; drop it.
					sm.Remove(r.Context(), sessionUserKey)
				default:
					http.Error(w, "Authorization error", http.StatusInternalServerError)
					return
				}
			}

			// Add user info to the request context for downstream handlers.
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			// Use Casbin to enforce the policy.
			allowed, err := e.Enforce(userInfo.Role, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
