package service

import (
	"bytes"
	"context"
	"fmt"
	"go-blog-app/internal/cache"
	"go-blog-app/internal/data"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// postDateFormat produces dates like "April 05, 2024", set once at creation.
const postDateFormat = "January 02, 2006"

// renderCacheTTL bounds how long a rendered post body stays cached.
const renderCacheTTL = time.Hour

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post *data.Post) error
	GetPostByID(ctx context.Context, id int64) (*data.Post, error)
	GetAllPosts(ctx context.Context) ([]*data.Post, error)
	UpdatePost(ctx context.Context, post *data.Post) error
	DeletePost(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for database operations on comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *data.Comment) error
	GetCommentByID(ctx context.Context, id int64) (*data.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID int64) ([]*data.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// BlogServicer defines the interface for interacting with posts and comments.
type BlogServicer interface {
	ListPosts(ctx context.Context) ([]*data.Post, error)
	ViewPost(ctx context.Context, id int64) (*data.Post, error)
	CreatePost(ctx context.Context, title, subtitle, body, imgURL string, authorID int64) (*data.Post, error)
	UpdatePost(ctx context.Context, id int64, title, subtitle, body, imgURL string, editorID int64) (*data.Post, error)
	DeletePost(ctx context.Context, id int64) error
	CommentsForPost(ctx context.Context, postID int64) ([]*data.Comment, error)
	AddComment(ctx context.Context, postID, userID int64, text string) (*data.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

// BlogService provides business logic for managing posts and comments.
type BlogService struct {
	posts     PostRepository
	comments  CommentRepository
	cache     *cache.Cache
	sanitizer *bluemonday.Policy
	markdown  goldmark.Markdown
}

// NewBlogService creates a new BlogService with the given repositories.
// The cache is optional; a nil cache disables render caching.
func NewBlogService(posts PostRepository, comments CommentRepository, c *cache.Cache) *BlogService {
	// UGCPolicy allows basic formatting like links, lists, and bold text
	// while stripping out dangerous HTML from user-supplied content.
	return &BlogService{
		posts:     posts,
		comments:  comments,
		cache:     c,
		sanitizer: bluemonday.UGCPolicy(),
		markdown:  goldmark.New(),
	}
}

// renderMarkdown converts markdown to sanitized HTML.
func (s *BlogService) renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(s.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// postBodyCacheKey is the render cache key for a post's body HTML.
func postBodyCacheKey(id int64) string {
	return fmt.Sprintf("post:%d:html", id)
}

// ListPosts retrieves all posts in insertion order.
func (s *BlogService) ListPosts(ctx context.Context) ([]*data.Post, error) {
	return s.posts.GetAllPosts(ctx)
}

// ViewPost retrieves a single post with its body rendered to HTML. Rendered
// bodies are cached until the post is edited or deleted.
func (s *BlogService) ViewPost(ctx context.Context, id int64) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(postBodyCacheKey(id)); err == nil && cached != nil {
			post.HTMLBody = template.HTML(cached)
			return post, nil
		}
	}

	html, err := s.renderMarkdown(post.Body)
	if err != nil {
		return nil, err
	}
	post.HTMLBody = html

	if s.cache != nil {
		// Best effort; a failed cache write never fails the request.
		_ = s.cache.Set(postBodyCacheKey(id), []byte(html), renderCacheTTL)
	}
	return post, nil
}

// CreatePost handles the creation of a new blog post. The creation date is
// formatted once here and never changes afterwards.
func (s *BlogService) CreatePost(ctx context.Context, title, subtitle, body, imgURL string, authorID int64) (*data.Post, error) {
	post := &data.Post{
		Title:    title,
		Subtitle: subtitle,
		Body:     s.sanitizer.Sanitize(body),
		ImgURL:   imgURL,
		Date:     time.Now().Format(postDateFormat),
		AuthorID: authorID,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites all mutable fields of an existing post and reassigns
// authorship to the editing user.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, title, subtitle, body, imgURL string, editorID int64) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Subtitle = subtitle
	post.Body = s.sanitizer.Sanitize(body)
	post.ImgURL = imgURL
	post.AuthorID = editorID

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(postBodyCacheKey(id))
	}
	return post, nil
}

// DeletePost removes a post; its comments go with it.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(postBodyCacheKey(id))
	}
	return nil
}

// CommentsForPost retrieves a post's comments with their text rendered to HTML.
func (s *BlogService) CommentsForPost(ctx context.Context, postID int64) ([]*data.Comment, error) {
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		html, err := s.renderMarkdown(comment.Text)
		if err != nil {
			return nil, err
		}
		comment.HTMLText = html
	}
	return comments, nil
}

// AddComment creates a comment linked to the given user and post. The post
// must exist; a missing post surfaces as the repository's not-found error.
func (s *BlogService) AddComment(ctx context.Context, postID, userID int64, text string) (*data.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	comment := &data.Comment{
		Text:   s.sanitizer.Sanitize(text),
		UserID: userID,
		PostID: postID,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a single comment.
func (s *BlogService) DeleteComment(ctx context.Context, id int64) error {
	return s.comments.DeleteComment(ctx, id)
}
