// Package content holds the admin-managed editorial records: articles and
// videos surfaced on the storefront alongside the catalog.
package content

import (
	"context"
	"time"
)

type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	CoverURL    *string    `json:"cover_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Published reports whether the article is visible on the storefront.
func (a *Article) Published() bool {
	return a.PublishedAt != nil && !a.PublishedAt.After(time.Now())
}

type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description *string   `json:"description,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Store interface {
	// Articles
	ListArticles(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Article, int, error)
	GetArticleBySlug(ctx context.Context, slug string) (*Article, error)
	CreateArticle(ctx context.Context, a *Article) (*Article, error)
	UpdateArticle(ctx context.Context, a *Article) (*Article, error)
	DeleteArticle(ctx context.Context, id string) error

	// Videos
	ListVideos(ctx context.Context) ([]*Video, error)
	CreateVideo(ctx context.Context, v *Video) (*Video, error)
	DeleteVideo(ctx context.Context, id string) error
}
