package handler

import (
	"context"
	"errors"
	"go-blog-app/internal/auth"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
	netmail "net/mail"
	"net/http"
	"strings"
)

// sessionUserKey is the session key holding the signed-in user's id.
const sessionUserKey = "user_id"

// UserRepository defines the user persistence operations the auth handlers need.
type UserRepository interface {
	CreateUser(ctx context.Context, user *data.User) error
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// AuthHandler holds the dependencies for registration, login, and logout.
type AuthHandler struct {
	users      UserRepository
	session    session.Manager
	view       *view.View
	log        logger.Logger
	adminEmail string
}

// NewAuthHandler creates a new AuthHandler. adminEmail names the account
// that is promoted to administrator on registration; when empty, the first
// registered account becomes the administrator.
func NewAuthHandler(users UserRepository, sm session.Manager, v *view.View, log logger.Logger, adminEmail string) *AuthHandler {
	return &AuthHandler{
		users:      users,
		session:    sm,
		view:       v,
		log:        log,
		adminEmail: adminEmail,
	}
}

// registerFormHandler renders the registration form.
func (h *AuthHandler) registerFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.view.Render(w, r, "register.html", templateData(r, h.session, nil)); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render registration page", Code: http.StatusInternalServerError}
	}
	return nil
}

// registerHandler creates a new account, signs it in, and redirects to the
// post listing. A duplicate email creates nothing and redirects to login.
func (h *AuthHandler) registerHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		h.session.Put(r.Context(), "flash", "All fields are required.")
		data := templateData(r, h.session, map[string]interface{}{"Name": name, "Email": email})
		if err := h.view.Render(w, r, "register.html", data); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render registration page", Code: http.StatusInternalServerError}
		}
		return nil
	}
	if _, err := netmail.ParseAddress(email); err != nil {
		h.session.Put(r.Context(), "flash", "Please provide a valid email address.")
		data := templateData(r, h.session, map[string]interface{}{"Name": name})
		if err := h.view.Render(w, r, "register.html", data); err != nil {
			return &middleware.AppError{Error: err, Message: "Failed to render registration page", Code: http.StatusInternalServerError}
		}
		return nil
	}

	role, err := h.roleForNewUser(r.Context(), email)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to register", Code: http.StatusInternalServerError}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to register", Code: http.StatusInternalServerError}
	}

	user := &data.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			h.session.Put(r.Context(), "flash", "You've already signed up with that email, log in instead.")
			http.Redirect(w, r, "/login", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to register", Code: http.StatusInternalServerError}
	}

	if err := h.signIn(r, user.ID); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to establish session", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// roleForNewUser decides the role of a registering account. The configured
// admin email always gets the administrator role; otherwise the very first
// account does.
func (h *AuthHandler) roleForNewUser(ctx context.Context, email string) (string, error) {
	if h.adminEmail != "" {
		if strings.EqualFold(email, h.adminEmail) {
			return data.RoleAdmin, nil
		}
		return data.RoleUser, nil
	}
	count, err := h.users.CountUsers(ctx)
	if err != nil {
		return "", err
	}
	if count == 0 {
		return data.RoleAdmin, nil
	}
	return data.RoleUser, nil
}

// loginFormHandler renders the login form.
func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.view.Render(w, r, "login.html", templateData(r, h.session, nil)); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render login page", Code: http.StatusInternalServerError}
	}
	return nil
}

// loginHandler verifies credentials and establishes an authenticated session.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			h.session.Put(r.Context(), "flash", "Register with us first.")
			http.Redirect(w, r, "/register", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to log in", Code: http.StatusInternalServerError}
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to log in", Code: http.StatusInternalServerError}
	}
	if !ok {
		h.session.Put(r.Context(), "flash", "Invalid password provided. Please try again.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}

	if err := h.signIn(r, user.ID); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to establish session", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// logoutHandler tears down the session unconditionally.
func (h *AuthHandler) logoutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.session.Destroy(r.Context()); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to log out", Code: http.StatusInternalServerError}
	}
	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// signIn rotates the session token and records the user id.
func (h *AuthHandler) signIn(r *http.Request, userID int64) error {
	if err := h.session.RenewToken(r.Context()); err != nil {
		return err
	}
	h.session.Put(r.Context(), sessionUserKey, userID)
	return nil
}
