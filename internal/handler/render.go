package handler

import (
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
	"net/http"
)

// templateData builds the common data map for page rendering: the current
// user for the navigation bar and any pending one-shot flash notice.
func templateData(r *http.Request, sm session.Manager, data map[string]interface{}) map[string]interface{} {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["UserInfo"] = middleware.GetUserInfo(r.Context())
	if sm != nil {
		data["Flash"] = sm.PopString(r.Context(), "flash")
	}
	return data
}
