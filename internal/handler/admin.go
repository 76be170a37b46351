package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/xid"

	"github.com/techhorizon/blog/internal/apperror"
	"github.com/techhorizon/blog/internal/model"
	"github.com/techhorizon/blog/internal/store"
)

// AdminHandler owns the authenticated article-management endpoints.
// The admin-only gate lives in the router (auth.RequireAdmin), not here —
// by the time a request reaches these methods it is already authorized.
type AdminHandler struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAdminHandler(st *store.Store, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: st, logger: logger}
}

// ArticleRequest is the request payload for creating an article.
//
// WHY A SEPARATE REQUEST TYPE?
// Binding straight into model.Article would let a client set the ID, and
// any field we add to the model later would silently become writable.
// A dedicated type makes the writable surface explicit.
type ArticleRequest struct {
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Summary       string         `json:"summary"`
	Content       string         `json:"content"`
	Category      model.Category `json:"category"`
	Author        string         `json:"author"`
	PublishedDate string         `json:"publishedDate"`
	ImageURL      string         `json:"imageUrl"`
	Featured      bool           `json:"featured"`
}

// Bind validates the payload and fills defaults: a missing slug is derived
// from the title, a missing date becomes today.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Title == "" {
		return errors.New("title is required")
	}
	if a.Content == "" {
		return errors.New("content is required")
	}
	if !a.Category.Valid() {
		return errors.New("unknown category: " + string(a.Category))
	}
	if a.Slug == "" {
		a.Slug = model.Slugify(a.Title)
	}
	if a.PublishedDate == "" {
		a.PublishedDate = time.Now().Format("2006-01-02")
	}
	return nil
}

// ArticlePatchRequest is the request payload for editing an article.
// It binds directly into the store's patch type: absent fields stay nil
// and the stored values survive the merge.
type ArticlePatchRequest struct {
	store.ArticlePatch
}

func (p *ArticlePatchRequest) Bind(r *http.Request) error {
	if p.Title != nil && *p.Title == "" {
		return errors.New("title cannot be empty")
	}
	if p.Category != nil && !p.Category.Valid() {
		return errors.New("unknown category: " + string(*p.Category))
	}
	return nil
}

// HandleList returns every article, drafts and published alike.
//
// HTTP: GET /api/admin/articles
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if err := render.RenderList(w, r, NewArticleListResponse(h.store.Articles())); err != nil {
		h.logger.Error("failed to render admin article list", slog.String("error", err.Error()))
	}
}

// HandleCreate adds a new article.
//
// HTTP: POST /api/admin/articles
//
// The server assigns the ID — xid gives sortable, collision-free IDs
// without coordinating a counter across instances.
func (h *AdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req := &ArticleRequest{}
	if err := render.Bind(r, req); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	article := model.Article{
		ID:            xid.New().String(),
		Title:         req.Title,
		Slug:          req.Slug,
		Summary:       req.Summary,
		Content:       req.Content,
		Category:      req.Category,
		Author:        req.Author,
		PublishedDate: req.PublishedDate,
		ImageURL:      req.ImageURL,
		Featured:      req.Featured,
	}
	h.store.AddArticle(article)

	h.logger.Info("article created",
		slog.String("id", article.ID),
		slog.String("slug", article.Slug))

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, NewArticleResponse(article)); err != nil {
		h.logger.Error("failed to render created article", slog.String("error", err.Error()))
	}
}

// HandleUpdate applies a partial edit to an existing article.
//
// HTTP: PUT /api/admin/articles/{id}
func (h *AdminHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req := &ArticlePatchRequest{}
	if err := render.Bind(r, req); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if !h.store.UpdateArticle(id, req.ArticlePatch) {
		_ = render.Render(w, r, ErrDomain(apperror.NotFound("article", id)))
		return
	}

	article, err := h.store.ArticleByID(id)
	if err != nil {
		_ = render.Render(w, r, ErrDomain(err))
		return
	}

	h.logger.Info("article updated", slog.String("id", id))

	if err := render.Render(w, r, NewArticleResponse(*article)); err != nil {
		h.logger.Error("failed to render updated article", slog.String("error", err.Error()))
	}
}

// HandleDelete removes an article.
//
// HTTP: DELETE /api/admin/articles/{id}
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !h.store.DeleteArticle(id) {
		_ = render.Render(w, r, ErrDomain(apperror.NotFound("article", id)))
		return
	}

	h.logger.Info("article deleted", slog.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

// HandleSync forces the store to rewrite its snapshot.
//
// HTTP: POST /api/admin/sync
//
// Normally every mutation persists on its own; this endpoint exists for
// the rare case where the backing storage was edited out-of-band and an
// operator wants the in-memory state written back over it.
func (h *AdminHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	h.store.Sync()
	h.logger.Info("manual snapshot sync requested")
	w.WriteHeader(http.StatusNoContent)
}
