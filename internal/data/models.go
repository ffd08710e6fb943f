package data

import (
	"crypto/md5"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// User roles. The role column replaces the legacy convention of treating a
// hardcoded user id as the administrator.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Post represents a blog article. Date is formatted once at creation time
// and never changes afterwards; editing a post reassigns AuthorID to the
// editing user.
type Post struct {
	ID         int64         `db:"id"`
	Title      string        `db:"title"`
	Subtitle   string        `db:"subtitle"`
	Body       string        `db:"body"`
	HTMLBody   template.HTML `db:"-"`
	ImgURL     string        `db:"img_url"`
	Date       string        `db:"date"`
	AuthorID   int64         `db:"author_id"`
	AuthorName string        `db:"author_name"`
}

// Comment represents a reply attached to a post. AuthorName and AuthorEmail
// are populated by a join when comments are read for display.
type Comment struct {
	ID          int64         `db:"id"`
	Text        string        `db:"text"`
	HTMLText    template.HTML `db:"-"`
	UserID      int64         `db:"user_id"`
	PostID      int64         `db:"post_id"`
	AuthorName  string        `db:"author_name"`
	AuthorEmail string        `db:"author_email"`
}

// GravatarURL returns the profile image URL for the comment's author.
// Gravatar addresses images by the MD5 hex digest of the trimmed,
// lowercased email.
func (c *Comment) GravatarURL() string {
	email := strings.ToLower(strings.TrimSpace(c.AuthorEmail))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", md5.Sum([]byte(email)))
}
