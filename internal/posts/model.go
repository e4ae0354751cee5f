package posts

import (
	"slices"
	"time"
)

// Author is the snapshot of a user captured when a post is created.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Name returns the display name, falling back to the email.
func (a Author) Name() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Email
}

type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	ContentMD     string    `json:"content_md"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	Tags          []string  `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          Author    `json:"user"`
}

func (p *Post) clone() *Post {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	return &c
}

// Draft is a post that has not been assigned an id or timestamps yet.
type Draft struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	ContentMD     string   `json:"content_md"`
	CoverImageURL string   `json:"cover_image_url"`
	Tags          []string `json:"tags"`
	User          Author   `json:"user"`
}

// Patch is a partial update. Nil fields keep their current value.
type Patch struct {
	ID            string    `json:"id"`
	Title         *string   `json:"title"`
	Slug          *string   `json:"slug"`
	ContentMD     *string   `json:"content_md"`
	CoverImageURL *string   `json:"cover_image_url"`
	Tags          *[]string `json:"tags"`
	User          *Author   `json:"user"`

	// IfUnmodifiedSince, when non-zero, must equal the stored UpdatedAt
	// or the update fails with ErrConflict.
	IfUnmodifiedSince time.Time `json:"-"`
}

func (p Patch) apply(dst *Post) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Slug != nil {
		dst.Slug = *p.Slug
	}
	if p.ContentMD != nil {
		dst.ContentMD = *p.ContentMD
	}
	if p.CoverImageURL != nil {
		dst.CoverImageURL = *p.CoverImageURL
	}
	if p.Tags != nil {
		dst.Tags = slices.Clone(*p.Tags)
	}
	if p.User != nil {
		dst.User = *p.User
	}
}

// Tab selects a listing view. Popular lists user-created posts.
type Tab string

const (
	TabAll     Tab = "all"
	TabRecent  Tab = "recent"
	TabPopular Tab = "popular"
)

type ListParams struct {
	Query   string
	Tags    []string
	Tab     Tab
	Page    int
	PerPage int
}

type ListResult struct {
	Posts      []*Post `json:"data"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
}

type Stats struct {
	TotalPosts    int `json:"total_posts"`
	UniqueAuthors int `json:"unique_authors"`
	UniqueTags    int `json:"unique_tags"`
}

// Caller is the signed-in user performing a write.
type Caller struct {
	Author
	Admin bool
}

// CreateInput carries the fields a user submits for a new post.
type CreateInput struct {
	Title         string
	ContentMD     string
	CoverImageURL string
	Tags          []string
}

// UpdateInput carries the fields a user edits. Nil fields are left alone.
type UpdateInput struct {
	Title             *string
	ContentMD         *string
	CoverImageURL     *string
	Tags              *[]string
	IfUnmodifiedSince time.Time
}

func (in UpdateInput) Empty() bool {
	return in.Title == nil && in.ContentMD == nil && in.CoverImageURL == nil && in.Tags == nil
}

type SearchHit struct {
	ID        string
	Score     float64
	Fragments map[string][]string
}

type SearchResult struct {
	Post      *Post               `json:"post"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}
