// ABOUTME: Store interface and data types for portfolio-api persistence
// ABOUTME: Defines User, Project, Article, Career, Comment, LikeRecord and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateUser is returned when registering a username that already exists
var ErrDuplicateUser = errors.New("username already exists")

// ErrDuplicateLike is returned when the unique (resource, subject) constraint
// rejects a like insert. It is the backstop for concurrent toggles.
var ErrDuplicateLike = errors.New("like already exists")

// Like resource types
const (
	ResourceArticle = "article"
	ResourceProject = "project"
)

// User is a credential record. The role string is stored normalized
// (without the legacy "ROLE_" prefix) and is immutable after registration.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Project represents a portfolio work entry
type Project struct {
	ID            int64
	Title         string
	Description   string
	Category      string
	CoverURL      string
	MediaURL      string
	MediaType     string // "VIDEO" or "AUDIO"
	AttachmentURL string
	ViewCount     int
	LikeCount     int
	CreatedAt     time.Time
}

// Article represents a blog post. Content holds markdown source.
type Article struct {
	ID        int64
	Title     string
	Summary   string
	Content   string
	Category  string
	CoverURL  string
	ViewCount int
	LikeCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Career represents a resume timeline entry
type Career struct {
	ID          int64
	StartDate   string // "2024-06" style display dates
	EndDate     string
	IsCurrent   bool
	Period      string
	Company     string
	Position    string
	Description string
	Tags        string
}

// Comment represents a comment on an article. Username and ParentUsername are
// filled by list queries for display and are not stored columns.
type Comment struct {
	ID             int64
	Content        string
	ArticleID      int64
	UserID         int64
	ParentID       *int64
	CreatedAt      time.Time
	Username       string
	ParentUsername string
}

// LikeRecord marks that a subject has liked a resource. Uniqueness on
// (resource type, resource id, subject) is the invariant that prevents
// double counting; the resource's like counter is derived from it.
type LikeRecord struct {
	ResourceType string
	ResourceID   int64
	Subject      string
	CreatedAt    time.Time
}

// Store defines the persistence operations used by the HTTP server
type Store interface {
	// Users (credential store)
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CountUsers(ctx context.Context) (int, error)

	// Projects
	ListProjects(ctx context.Context, sortByLikes bool) ([]*Project, error)
	SearchProjects(ctx context.Context, keyword string) ([]*Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	CreateProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id int64) error
	IncrementProjectViews(ctx context.Context, id int64) error

	// Articles
	ListArticles(ctx context.Context) ([]*Article, error)
	GetArticle(ctx context.Context, id int64) (*Article, error)
	CreateArticle(ctx context.Context, a *Article) error
	UpdateArticle(ctx context.Context, a *Article) error
	DeleteArticle(ctx context.Context, id int64) error

	// Careers
	ListCareers(ctx context.Context) ([]*Career, error)
	SaveCareer(ctx context.Context, c *Career) error
	DeleteCareer(ctx context.Context, id int64) error
	CountCareers(ctx context.Context) (int, error)

	// Comments
	CreateComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, id int64) (*Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	ListCommentsByArticle(ctx context.Context, articleID int64) ([]*Comment, error)

	// Likes (interaction toggle)
	ToggleLike(ctx context.Context, resourceType string, resourceID int64, subject string) (likeCount int, isLikedNow bool, err error)
	LikeStatus(ctx context.Context, resourceType string, resourceID int64, subject string) (bool, error)
	ListLikers(ctx context.Context, resourceType string, resourceID int64) ([]*LikeRecord, error)

	// Close releases any resources held by the store
	Close() error
}
