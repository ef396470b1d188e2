package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

// Listing defaults. The marketing site shows six cards per page, so six is
// what an unqualified /api/blogs request returns.
const (
	defaultBlogLimit = 6
	maxBlogLimit     = 50
)

// BlogService serves published posts. Read-only — posts are authored
// out-of-band and this API never writes them.
type BlogService struct {
	blogs  repository.BlogRepository
	logger *slog.Logger
}

func NewBlogService(blogs repository.BlogRepository, logger *slog.Logger) *BlogService {
	return &BlogService{blogs: blogs, logger: logger}
}

// List returns up to limit posts, newest first. A non-positive limit falls
// back to the default; an excessive one is clamped.
func (s *BlogService) List(ctx context.Context, limit int) ([]model.BlogPost, error) {
	if limit <= 0 {
		limit = defaultBlogLimit
	}
	if limit > maxBlogLimit {
		limit = maxBlogLimit
	}

	posts, err := s.blogs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service/blog: listing posts: %w", err)
	}
	return posts, nil
}

// GetBySlug returns one post by its URL slug.
func (s *BlogService) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	if slug == "" {
		return nil, apperror.ValidationFailed("slug", "slug is required")
	}

	post, err := s.blogs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("service/blog: getting post %q: %w", slug, err)
	}
	return post, nil
}
