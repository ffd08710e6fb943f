package handler

import (
	"errors"
	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// PostHandler holds the dependencies for the post and comment handlers.
type PostHandler struct {
	blog    service.BlogServicer
	session session.Manager
	view    *view.View
	log     logger.Logger
}

// NewPostHandler creates a new PostHandler with the given dependencies.
func NewPostHandler(blog service.BlogServicer, sm session.Manager, v *view.View, log logger.Logger) *PostHandler {
	return &PostHandler{
		blog:    blog,
		session: sm,
		view:    v,
		log:     log,
	}
}

// listHandler renders the front page with all posts.
func (h *PostHandler) listHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve posts", Code: http.StatusInternalServerError}
	}

	data := templateData(r, h.session, map[string]interface{}{"Posts": posts})
	if err := h.view.Render(w, r, "index.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post listing", Code: http.StatusInternalServerError}
	}
	return nil
}

// viewPostHandler renders a single post with its comments and the comment form.
func (h *PostHandler) viewPostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	post, err := h.blog.ViewPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve post", Code: http.StatusInternalServerError}
	}

	comments, err := h.blog.CommentsForPost(r.Context(), id)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve comments", Code: http.StatusInternalServerError}
	}

	tmplData := templateData(r, h.session, map[string]interface{}{
		"Post":     post,
		"Comments": comments,
	})
	if err := h.view.Render(w, r, "post.html", tmplData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}
	return nil
}

// addCommentHandler persists a comment submitted on the post page.
// Unauthenticated submitters are sent to the login page and nothing is stored.
func (h *PostHandler) addCommentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	userInfo := middleware.GetUserInfo(r.Context())
	if !userInfo.IsAuthenticated() {
		h.session.Put(r.Context(), "flash", "Please login first before being able to comment.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}

	text := strings.TrimSpace(r.FormValue("comment"))
	if text == "" {
		h.session.Put(r.Context(), "flash", "A comment cannot be empty.")
		http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusFound)
		return nil
	}

	if _, err := h.blog.AddComment(r.Context(), id, userInfo.ID, text); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to add comment", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusFound)
	return nil
}

// newPostFormHandler renders the post creation form.
func (h *PostHandler) newPostFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.view.Render(w, r, "make-post.html", templateData(r, h.session, nil)); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post form", Code: http.StatusInternalServerError}
	}
	return nil
}

// newPostHandler creates a post authored by the current user.
func (h *PostHandler) newPostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form, appErr := h.postForm(r)
	if appErr != nil {
		return appErr
	}
	if form == nil {
		// Validation failed; the form was re-rendered with a notice.
		return h.newPostFormHandler(w, r)
	}

	userInfo := middleware.GetUserInfo(r.Context())
	_, err := h.blog.CreatePost(r.Context(), form.title, form.subtitle, form.body, form.imgURL, userInfo.ID)
	if err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			h.session.Put(r.Context(), "flash", "A post with that title already exists.")
			return h.newPostFormHandler(w, r)
		}
		return &middleware.AppError{Error: err, Message: "Failed to create post", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// editPostFormHandler renders the edit form pre-filled with the post.
func (h *PostHandler) editPostFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	post, err := h.blog.ViewPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve post", Code: http.StatusInternalServerError}
	}

	tmplData := templateData(r, h.session, map[string]interface{}{"Post": post, "IsEdit": true})
	if err := h.view.Render(w, r, "make-post.html", tmplData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post form", Code: http.StatusInternalServerError}
	}
	return nil
}

// editPostHandler overwrites a post's fields and reassigns authorship to the
// editing user.
func (h *PostHandler) editPostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	form, appErr := h.postForm(r)
	if appErr != nil {
		return appErr
	}
	if form == nil {
		return h.editPostFormHandler(w, r)
	}

	userInfo := middleware.GetUserInfo(r.Context())
	_, err := h.blog.UpdatePost(r.Context(), id, form.title, form.subtitle, form.body, form.imgURL, userInfo.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		case errors.Is(err, data.ErrDuplicate):
			h.session.Put(r.Context(), "flash", "A post with that title already exists.")
			return h.editPostFormHandler(w, r)
		default:
			return &middleware.AppError{Error: err, Message: "Failed to update post", Code: http.StatusInternalServerError}
		}
	}

	http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusFound)
	return nil
}

// deletePostHandler removes a post permanently.
func (h *PostHandler) deletePostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	if err := h.blog.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to delete post", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// deleteCommentHandler removes a comment. Ownership of the targeted comment
// was already verified by the comment-owner guard.
func (h *PostHandler) deleteCommentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	commentID, err := strconv.ParseInt(r.URL.Query().Get("user_comment"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Comment not found", Code: http.StatusNotFound}
	}
	postID, err := strconv.ParseInt(r.URL.Query().Get("blog_id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
	}

	if err := h.blog.DeleteComment(r.Context(), commentID); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Comment not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to delete comment", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/post/"+strconv.FormatInt(postID, 10), http.StatusFound)
	return nil
}

// postFormValues holds the validated fields of the post form.
type postFormValues struct {
	title    string
	subtitle string
	body     string
	imgURL   string
}

// postForm extracts and validates the shared create/edit form fields.
// A nil result with a nil error means validation failed and a flash notice
// was queued.
func (h *PostHandler) postForm(r *http.Request) (*postFormValues, *middleware.AppError) {
	form := &postFormValues{
		title:    strings.TrimSpace(r.FormValue("title")),
		subtitle: strings.TrimSpace(r.FormValue("subtitle")),
		body:     strings.TrimSpace(r.FormValue("body")),
		imgURL:   strings.TrimSpace(r.FormValue("img_url")),
	}
	if form.title == "" || form.subtitle == "" || form.body == "" || form.imgURL == "" {
		h.session.Put(r.Context(), "flash", "All fields are required.")
		return nil, nil
	}
	return form, nil
}

// pathID parses a numeric chi URL parameter. A malformed id behaves like a
// missing record.
func pathID(r *http.Request, name string) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, &middleware.AppError{Error: err, Message: "Not found", Code: http.StatusNotFound}
	}
	return id, nil
}
