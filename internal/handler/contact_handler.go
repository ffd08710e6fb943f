package handler

import (
	"go-blog-app/internal/logger"
	"go-blog-app/internal/mail"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
	"net/http"
	"strings"
)

// ContactHandler holds the dependencies for the static pages and the
// contact-form relay.
type ContactHandler struct {
	mailer  mail.Mailer
	session session.Manager
	view    *view.View
	log     logger.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(mailer mail.Mailer, sm session.Manager, v *view.View, log logger.Logger) *ContactHandler {
	return &ContactHandler{
		mailer:  mailer,
		session: sm,
		view:    v,
		log:     log,
	}
}

// aboutHandler renders the static about page.
func (h *ContactHandler) aboutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.view.Render(w, r, "about.html", templateData(r, h.session, nil)); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render about page", Code: http.StatusInternalServerError}
	}
	return nil
}

// contactFormHandler renders the contact form.
func (h *ContactHandler) contactFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	data := templateData(r, h.session, map[string]interface{}{"MsgSent": false})
	if err := h.view.Render(w, r, "contact.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render contact page", Code: http.StatusInternalServerError}
	}
	return nil
}

// contactHandler relays the submitted message to the operator's inbox.
// A transport failure degrades to a flash notice, never an error page.
func (h *ContactHandler) contactHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userInfo := middleware.GetUserInfo(r.Context())
	if !userInfo.IsAuthenticated() {
		h.session.Put(r.Context(), "flash", "Login before trying to contact the blog admin.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || email == "" || message == "" {
		h.session.Put(r.Context(), "flash", "Name, email, and message are required.")
		return h.contactFormHandler(w, r)
	}

	msgSent := true
	if err := h.mailer.SendContactMessage(r.Context(), name, email, phone, message); err != nil {
		h.log.Error(err, "Failed to relay contact message")
		h.session.Put(r.Context(), "flash", "Your message could not be sent. Please try again later.")
		msgSent = false
	}

	data := templateData(r, h.session, map[string]interface{}{"MsgSent": msgSent})
	if err := h.view.Render(w, r, "contact.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render contact page", Code: http.StatusInternalServerError}
	}
	return nil
}
