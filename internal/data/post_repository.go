package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLPostRepository is a concrete implementation of the post repository
// using sqlx.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// CreatePost inserts a new post and sets its generated ID. A duplicate
// title surfaces as ErrDuplicate.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `INSERT INTO posts (title, subtitle, body, img_url, date, author_id)
		VALUES (:title, :subtitle, :body, :img_url, :date, :author_id)`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("post with title '%s': %w", post.Title, ErrDuplicate)
		}
		return fmt.Errorf("failed to execute create post query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted post id: %w", err)
	}
	post.ID = id
	return nil
}

// GetPostByID retrieves a single post by its ID, including the author name.
func (r *SQLPostRepository) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	query := `SELECT p.id, p.title, p.subtitle, p.body, p.img_url, p.date, p.author_id, u.name AS author_name
		FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id = ?`
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// GetAllPosts retrieves all posts in insertion order.
func (r *SQLPostRepository) GetAllPosts(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	query := `SELECT p.id, p.title, p.subtitle, p.body, p.img_url, p.date, p.author_id, u.name AS author_name
		FROM posts p JOIN users u ON u.id = p.author_id ORDER BY p.id`
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// UpdatePost overwrites the mutable fields of an existing post, including
// the author. The creation date is immutable and not touched.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post) error {
	query := `UPDATE posts SET title = :title, subtitle = :subtitle, body = :body,
		img_url = :img_url, author_id = :author_id WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("post with title '%s': %w", post.Title, ErrDuplicate)
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post with id %d: %w", post.ID, ErrNotFound)
	}
	return nil
}

// DeletePost removes a post by its ID. Comments attached to the post are
// removed by the ON DELETE CASCADE constraint on the comments table.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post with id %d: %w", id, ErrNotFound)
	}
	return nil
}
