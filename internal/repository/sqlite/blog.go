package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

var _ repository.BlogRepository = (*BlogDB)(nil)

// BlogDB reads published posts. Posts are written out-of-band (seed scripts,
// an admin process) — this API only ever reads them.
type BlogDB struct {
	conn *sql.DB
}

// List returns up to limit posts, newest first.
func (b *BlogDB) List(ctx context.Context, limit int) ([]model.BlogPost, error) {
	rows, err := b.conn.QueryContext(ctx,
		`SELECT id, slug, title, excerpt, content, author, tags, published_at, created_at, updated_at
		 FROM blog_posts ORDER BY published_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing blog posts: %w", err)
	}
	defer rows.Close()

	posts := []model.BlogPost{}
	for rows.Next() {
		post, err := scanBlogPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// GetBySlug returns the post with the given slug, or apperror.ErrNotFound.
func (b *BlogDB) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	row := b.conn.QueryRowContext(ctx,
		`SELECT id, slug, title, excerpt, content, author, tags, published_at, created_at, updated_at
		 FROM blog_posts WHERE slug = ?`,
		slug,
	)

	post, err := scanBlogPost(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", slug)
		}
		return nil, fmt.Errorf("sqlite: getting blog post %q: %w", slug, err)
	}
	return post, nil
}

// scanBlogPost reads one row via the given Scan function. Tags are stored as
// a JSON array in a TEXT column — SQLite has no native list type.
func scanBlogPost(scan func(dest ...any) error) (*model.BlogPost, error) {
	var p model.BlogPost
	var tagsJSON string

	err := scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Excerpt,
		&p.Content,
		&p.Author,
		&tagsJSON,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		return nil, fmt.Errorf("sqlite: decoding tags for post %s: %w", p.ID, err)
	}
	return &p, nil
}
