//go:build integration

package data

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a new in-memory SQLite database with the application
// schema. It returns the database handle and a teardown function to be
// deferred.
func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	// Use a non-shared in-memory database for complete test isolation.
	// The pool is pinned to one connection: every sqlite connection gets
	// its own private in-memory database.
	db, err := sqlx.Connect("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema := `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		subtitle TEXT NOT NULL,
		body TEXT NOT NULL,
		img_url TEXT NOT NULL,
		date TEXT NOT NULL,
		author_id INTEGER NOT NULL,
		FOREIGN KEY (author_id) REFERENCES users(id)
	);
	CREATE TABLE comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		post_id INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE
	);`
	db.MustExec(schema)

	teardown := func() {
		db.Close()
	}

	return db, teardown
}

// seedUser inserts a user and returns it.
func seedUser(t *testing.T, db *sqlx.DB, name, email, role string) *User {
	t.Helper()
	repo := NewSQLUserRepository(db)
	user := &User{Name: name, Email: email, PasswordHash: "x", Role: role}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// seedPost inserts a post and returns it.
func seedPost(t *testing.T, db *sqlx.DB, title string, authorID int64) *Post {
	t.Helper()
	repo := NewSQLPostRepository(db)
	post := &Post{
		Title:    title,
		Subtitle: "subtitle",
		Body:     "body",
		ImgURL:   "https://example.com/img.png",
		Date:     "April 05, 2024",
		AuthorID: authorID,
	}
	if err := repo.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLUserRepository(db)

	user := &User{Name: "Alice", Email: "alice@x.com", PasswordHash: "hash", Role: RoleUser}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected non-zero id after create")
	}

	found, err := repo.GetUserByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Name != "Alice" {
		t.Errorf("expected name 'Alice', got '%s'", found.Name)
	}

	byID, err := repo.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Email != "alice@x.com" {
		t.Errorf("expected email 'alice@x.com', got '%s'", byID.Email)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLUserRepository(db)

	seedUser(t, db, "Alice", "alice@x.com", RoleUser)

	dup := &User{Name: "Imposter", Email: "alice@x.com", PasswordHash: "hash", Role: RoleUser}
	err := repo.CreateUser(context.Background(), dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	count, err := repo.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user after duplicate registration, got %d", count)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLUserRepository(db)

	_, err := repo.GetUserByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	_, err = repo.GetUserByID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLPostRepository(db)

	author := seedUser(t, db, "Admin", "admin@x.com", RoleAdmin)
	post := seedPost(t, db, "First Post", author.ID)

	found, err := repo.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Title != "First Post" {
		t.Errorf("expected title 'First Post', got '%s'", found.Title)
	}
	if found.AuthorName != "Admin" {
		t.Errorf("expected author name 'Admin', got '%s'", found.AuthorName)
	}
}

func TestPostRepository_DuplicateTitle(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLPostRepository(db)

	author := seedUser(t, db, "Admin", "admin@x.com", RoleAdmin)
	seedPost(t, db, "First Post", author.ID)

	dup := &Post{
		Title:    "First Post",
		Subtitle: "other",
		Body:     "other",
		ImgURL:   "https://example.com/other.png",
		Date:     "April 06, 2024",
		AuthorID: author.ID,
	}
	err := repo.CreatePost(context.Background(), dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	posts, err := repo.GetAllPosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post after duplicate insert, got %d", len(posts))
	}
}

func TestPostRepository_UpdateReassignsAuthor(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLPostRepository(db)

	author := seedUser(t, db, "Admin", "admin@x.com", RoleAdmin)
	editor := seedUser(t, db, "Second Admin", "admin2@x.com", RoleAdmin)
	post := seedPost(t, db, "First Post", author.ID)

	post.Subtitle = "edited subtitle"
	post.AuthorID = editor.ID
	if err := repo.UpdatePost(context.Background(), post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Subtitle != "edited subtitle" {
		t.Errorf("expected updated subtitle, got '%s'", found.Subtitle)
	}
	if found.AuthorID != editor.ID {
		t.Errorf("expected author reassigned to editor %d, got %d", editor.ID, found.AuthorID)
	}
	if found.Date != post.Date {
		t.Errorf("expected creation date to be immutable, got '%s'", found.Date)
	}
}

func TestPostRepository_DeleteMissing(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLPostRepository(db)

	err := repo.DeletePost(context.Background(), 5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	postRepo := NewSQLPostRepository(db)
	commentRepo := NewSQLCommentRepository(db)

	author := seedUser(t, db, "Admin", "admin@x.com", RoleAdmin)
	post := seedPost(t, db, "First Post", author.ID)

	comment := &Comment{Text: "nice post", UserID: author.ID, PostID: post.ID}
	if err := commentRepo.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	if err := postRepo.DeletePost(context.Background(), post.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := commentRepo.GetCommentByID(context.Background(), comment.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected comment removed by cascade, got %v", err)
	}
}

func TestCommentRepository_CreateAndList(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLCommentRepository(db)

	author := seedUser(t, db, "Admin", "admin@x.com", RoleAdmin)
	alice := seedUser(t, db, "Alice", "alice@x.com", RoleUser)
	post := seedPost(t, db, "First Post", author.ID)

	first := &Comment{Text: "first!", UserID: alice.ID, PostID: post.ID}
	if err := repo.CreateComment(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := &Comment{Text: "second", UserID: author.ID, PostID: post.ID}
	if err := repo.CreateComment(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comments, err := repo.GetCommentsByPostID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Text != "first!" {
		t.Errorf("expected insertion order, got '%s' first", comments[0].Text)
	}
	if comments[0].AuthorName != "Alice" {
		t.Errorf("expected author name 'Alice', got '%s'", comments[0].AuthorName)
	}
	if comments[0].AuthorEmail != "alice@x.com" {
		t.Errorf("expected author email for avatar rendering, got '%s'", comments[0].AuthorEmail)
	}
}

func TestCommentRepository_DeleteMissing(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	repo := NewSQLCommentRepository(db)

	err := repo.DeleteComment(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
