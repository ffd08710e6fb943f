package middleware

import (
	"context"
	"errors"
	"go-blog-app/internal/data"
	"net/http"
	"strconv"
)

// CommentFinder loads comment records for ownership checks.
type CommentFinder interface {
	GetCommentByID(ctx context.Context, id int64) (*data.Comment, error)
}

// CommentOwner creates a guard that permits a request only when the current
// user authored the comment targeted by the "user_comment" query parameter,
// or holds the administrator role. The check is parameterized by the exact
// comment id; having authored some other comment grants nothing.
func CommentOwner(comments CommentFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := GetUserInfo(r.Context())
			if !userInfo.IsAuthenticated() {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			commentID, err := strconv.ParseInt(r.URL.Query().Get("user_comment"), 10, 64)
			if err != nil {
				http.NotFound(w, r)
				return
			}

			comment, err := comments.GetCommentByID(r.Context(), commentID)
			if err != nil {
				if errors.Is(err, data.ErrNotFound) {
					http.NotFound(w, r)
					return
				}
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if comment.UserID != userInfo.ID && userInfo.Role != data.RoleAdmin {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
