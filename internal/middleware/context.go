package middleware

import "context"

// contextKey defines a custom type for context keys to avoid collisions.
type contextKey string

const userContextKey = contextKey("user")

// AnonymousRole is the enforcement subject used when no session user exists.
const AnonymousRole = "anonymous"

// UserInfo represents the essential user information stored in the request
// context. ID is zero for anonymous visitors.
type UserInfo struct {
	ID    int64
	Name  string
	Email string
	Role  string
}

// IsAuthenticated reports whether the request carries a signed-in user.
func (u *UserInfo) IsAuthenticated() bool {
	return u.ID != 0
}

// GetUserInfo retrieves the user information from the request context.
func GetUserInfo(ctx context.Context) *UserInfo {
	if userInfo, ok := ctx.Value(userContextKey).(*UserInfo); ok {
		return userInfo
	}
	// Return an anonymous user if no user info is found in the context.
	return &UserInfo{Role: AnonymousRole}
}

// SetUserInfo adds the user information to the request context.
func SetUserInfo(ctx context.Context, userInfo *UserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}
