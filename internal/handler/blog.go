package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/service"
)

// BlogHandler serves the public blog endpoints.
type BlogHandler struct {
	blogs  *service.BlogService
	logger *slog.Logger
}

func NewBlogHandler(blogs *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blogs: blogs, logger: logger}
}

// blogListResponse wraps the list in an object (not a bare array) so the
// payload can grow fields later without breaking clients.
type blogListResponse struct {
	Items []model.BlogPost `json:"items"`
}

// HandleList returns the most recent posts.
//
// HTTP: GET /api/blogs?limit=6
// A missing or unparseable limit falls back to the service default.
func (h *BlogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			limit = parsed
		}
	}

	posts, err := h.blogs.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing blog posts failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blogListResponse{Items: posts})
}

// HandleGetBySlug returns a single post.
//
// HTTP: GET /api/blogs/{slug}
func (h *BlogHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.blogs.GetBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}
