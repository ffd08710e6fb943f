package handler

import (
	appmw "go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
	"go-blog-app/web"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a new chi router.
func NewRouter(
	postHandler *PostHandler,
	authHandler *AuthHandler,
	contactHandler *ContactHandler,
	seoHandler *SeoHandler,
	authzMiddleware func(http.Handler) http.Handler,
	commentOwnerGuard func(http.Handler) http.Handler,
	errorMiddleware func(appmw.AppHandler) http.Handler,
	sessionManager session.Manager,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Session state is loaded for every route; the authorizer resolves the
	// session user and enforces the role policy for the requested path.
	r.Use(sessionManager.LoadAndSave)
	r.Use(authzMiddleware)

	// Static assets and SEO endpoints.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))
	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)

	// Public pages.
	r.Method(http.MethodGet, "/", errorMiddleware(postHandler.listHandler))
	r.Method(http.MethodGet, "/about", errorMiddleware(contactHandler.aboutHandler))
	r.Method(http.MethodGet, "/post/{id}", errorMiddleware(postHandler.viewPostHandler))
	r.Method(http.MethodPost, "/post/{id}", errorMiddleware(postHandler.addCommentHandler))

	// Account flows.
	r.Method(http.MethodGet, "/register", errorMiddleware(authHandler.registerFormHandler))
	r.Method(http.MethodPost, "/register", errorMiddleware(authHandler.registerHandler))
	r.Method(http.MethodGet, "/login", errorMiddleware(authHandler.loginFormHandler))
	r.Method(http.MethodPost, "/login", errorMiddleware(authHandler.loginHandler))
	r.Method(http.MethodGet, "/logout", errorMiddleware(authHandler.logoutHandler))

	// Contact relay.
	r.Method(http.MethodGet, "/contact", errorMiddleware(contactHandler.contactFormHandler))
	r.Method(http.MethodPost, "/contact", errorMiddleware(contactHandler.contactHandler))

	// Post management; the role policy restricts these to administrators.
	r.Method(http.MethodGet, "/new-post", errorMiddleware(postHandler.newPostFormHandler))
	r.Method(http.MethodPost, "/new-post", errorMiddleware(postHandler.newPostHandler))
	r.Method(http.MethodGet, "/edit-post/{id}", errorMiddleware(postHandler.editPostFormHandler))
	r.Method(http.MethodPost, "/edit-post/{id}", errorMiddleware(postHandler.editPostHandler))
	r.Method(http.MethodGet, "/delete/{id}", errorMiddleware(postHandler.deletePostHandler))

	// Comment deletion requires exact ownership of the targeted comment.
	r.Method(http.MethodGet, "/delete_comment",
		commentOwnerGuard(errorMiddleware(postHandler.deleteCommentHandler)))

	return r
}
