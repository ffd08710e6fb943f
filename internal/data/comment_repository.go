package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLCommentRepository is a concrete implementation of the comment
// repository using sqlx.
type SQLCommentRepository struct {
	db *sqlx.DB
}

// NewSQLCommentRepository creates a new SQLCommentRepository.
func NewSQLCommentRepository(db *sqlx.DB) *SQLCommentRepository {
	return &SQLCommentRepository{db: db}
}

// CreateComment inserts a new comment and sets its generated ID.
func (r *SQLCommentRepository) CreateComment(ctx context.Context, comment *Comment) error {
	query := `INSERT INTO comments (text, user_id, post_id) VALUES (:text, :user_id, :post_id)`
	res, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to execute create comment query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentByID retrieves a single comment by its ID.
func (r *SQLCommentRepository) GetCommentByID(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	query := `SELECT c.id, c.text, c.user_id, c.post_id, u.name AS author_name, u.email AS author_email
		FROM comments c JOIN users u ON u.id = c.user_id WHERE c.id = ?`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments on a post in insertion order,
// including the author names for display.
func (r *SQLCommentRepository) GetCommentsByPostID(ctx context.Context, postID int64) ([]*Comment, error) {
	var comments []*Comment
	query := `SELECT c.id, c.text, c.user_id, c.post_id, u.name AS author_name, u.email AS author_email
		FROM comments c JOIN users u ON u.id = c.user_id WHERE c.post_id = ? ORDER BY c.id`
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("failed to get comments by post id: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment by its ID.
func (r *SQLCommentRepository) DeleteComment(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("comment with id %d: %w", id, ErrNotFound)
	}
	return nil
}
