package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/techhorizon/blog/internal/markdown"
	"github.com/techhorizon/blog/internal/model"
	"github.com/techhorizon/blog/internal/store"
)

// ArticleHandler serves the public, read-only article endpoints.
//
// Everything here reads from the in-memory store; no request on this
// handler ever mutates state, so there is nothing to authenticate.
type ArticleHandler struct {
	store    *store.Store
	markdown *markdown.Renderer
	logger   *slog.Logger
}

func NewArticleHandler(st *store.Store, md *markdown.Renderer, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{store: st, markdown: md, logger: logger}
}

// HandleList returns articles, optionally filtered.
//
// HTTP: GET /api/articles
// QUERY PARAMS:
//   - category:      one of the known categories (400 on anything else)
//   - featured=true: only articles flagged for the home page
//
// The two filters are exclusive in the UI (home page vs. category page),
// so when both are sent, category wins.
func (h *ArticleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var articles []model.Article

	switch {
	case r.URL.Query().Get("category") != "":
		category := model.Category(r.URL.Query().Get("category"))
		if !category.Valid() {
			_ = render.Render(w, r, &ErrResponse{
				HTTPStatusCode: http.StatusBadRequest,
				StatusText:     "validation_error",
				Message:        "unknown category: " + string(category),
			})
			return
		}
		articles = h.store.ArticlesByCategory(category)
	case r.URL.Query().Get("featured") == "true":
		articles = h.store.FeaturedArticles()
	default:
		articles = h.store.Articles()
	}

	if err := render.RenderList(w, r, NewArticleListResponse(articles)); err != nil {
		h.logger.Error("failed to render article list", slog.String("error", err.Error()))
	}
}

// HandleGetBySlug returns one article with its body rendered to HTML.
//
// HTTP: GET /api/articles/{slug}
//
// Lookup is by exact slug match. An unknown slug is a plain 404 — the
// frontend shows its own not-found page for those.
func (h *ArticleHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	article, err := h.store.ArticleBySlug(slug)
	if err != nil {
		_ = render.Render(w, r, ErrDomain(err))
		return
	}

	resp := NewArticleResponse(*article)
	resp.HTML = h.markdown.Render(article.Content)

	if err := render.Render(w, r, resp); err != nil {
		h.logger.Error("failed to render article", slog.String("error", err.Error()))
	}
}
