package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrVideoNotFound   = errors.New("video not found")
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const articleColumns = `id, title, slug, body, cover_url, published_at, created_at, updated_at`

func scanArticle(row pgx.Row) (*Article, error) {
	a := &Article{}
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Body, &a.CoverURL,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) ListArticles(ctx context.Context, publishedOnly bool, limit, offset int) ([]*Article, int, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + articleColumns + `, COUNT(*) OVER() AS total_count
		FROM articles
		WHERE ($1 = false OR (published_at IS NOT NULL AND published_at <= now()))
		ORDER BY COALESCE(published_at, created_at) DESC
		LIMIT $2 OFFSET $3;`

	rows, err := r.db.Query(ctx, query, publishedOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var list []*Article
	var totalCount int
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Body, &a.CoverURL,
			&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return list, totalCount, nil
}

func (r *Repository) GetArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1;`
	a, err := scanArticle(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

func (r *Repository) CreateArticle(ctx context.Context, a *Article) (*Article, error) {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Slug) == "" {
		return nil, fmt.Errorf("article title and slug are required")
	}

	query := `
		INSERT INTO articles (title, slug, body, cover_url, published_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + articleColumns + `;`

	created, err := scanArticle(r.db.QueryRow(ctx, query,
		a.Title, a.Slug, a.Body, a.CoverURL, a.PublishedAt))
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return created, nil
}

func (r *Repository) UpdateArticle(ctx context.Context, a *Article) (*Article, error) {
	query := `
		UPDATE articles
		SET
			title = COALESCE(NULLIF($1, ''), title),
			slug = COALESCE(NULLIF($2, ''), slug),
			body = COALESCE(NULLIF($3, ''), body),
			cover_url = COALESCE($4, cover_url),
			published_at = $5,
			updated_at = now()
		WHERE id = $6
		RETURNING ` + articleColumns + `;`

	updated, err := scanArticle(r.db.QueryRow(ctx, query,
		a.Title, a.Slug, a.Body, a.CoverURL, a.PublishedAt, a.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return updated, nil
}

func (r *Repository) DeleteArticle(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// ------------------------------------
// Videos
// ------------------------------------

func (r *Repository) ListVideos(ctx context.Context) ([]*Video, error) {
	query := `
		SELECT id, title, url, description, sort_order, created_at, updated_at
		FROM videos
		ORDER BY sort_order, created_at;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var list []*Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.Title, &v.URL, &v.Description,
			&v.SortOrder, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		list = append(list, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return list, nil
}

func (r *Repository) CreateVideo(ctx context.Context, v *Video) (*Video, error) {
	if strings.TrimSpace(v.Title) == "" || strings.TrimSpace(v.URL) == "" {
		return nil, fmt.Errorf("video title and url are required")
	}

	query := `
		INSERT INTO videos (title, url, description, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, url, description, sort_order, created_at, updated_at;`

	created := &Video{}
	err := r.db.QueryRow(ctx, query, v.Title, v.URL, v.Description, v.SortOrder).
		Scan(&created.ID, &created.Title, &created.URL, &created.Description,
			&created.SortOrder, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	return created, nil
}

func (r *Repository) DeleteVideo(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrVideoNotFound
	}
	return nil
}
