package handler

// RESPONSE AND ERROR RENDERING:
// Every payload the API sends implements render.Renderer, and every request
// body we accept implements render.Binder. The chi render package then gives
// us one uniform pipeline: Bind() validates input, Render() shapes output,
// and Status() carries the HTTP code alongside the payload.
//
// WHY render.Renderer INSTEAD OF PLAIN json.Encoder?
// Render() runs just before marshalling, so a response type can compute
// derived fields (like the HTML form of an article body) in one place
// instead of in every handler that returns that type.

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/techhorizon/blog/internal/apperror"
	"github.com/techhorizon/blog/internal/model"
)

// ErrResponse is the standard error payload for all API endpoints.
// The shape never varies, so clients can parse any failure the same way:
//
//	{"status": "not_found", "message": "article not found: missing-slug"}
type ErrResponse struct {
	Err            error `json:"-"` // the underlying error, never serialized
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	Message    string `json:"message"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

// ErrInvalidRequest wraps a Bind() failure as a 400.
func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "invalid_request",
		Message:        err.Error(),
	}
}

// ErrDomain maps a domain error to its HTTP shape.
//
// The store and auth layers return apperror sentinels; this is the single
// place where those become status codes. Handlers never pick codes by hand.
func ErrDomain(err error) render.Renderer {
	status := http.StatusInternalServerError
	statusText := "internal_error"
	message := "An internal error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			statusText = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			statusText = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			statusText = "unauthorized"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			statusText = "conflict"
		}
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: status,
		StatusText:     statusText,
		Message:        message,
	}
}

// ErrUnauthorized is the fixed 401 payload for credential failures, so the
// response never leaks whether the email or the password was wrong.
func ErrUnauthorized() render.Renderer {
	return &ErrResponse{
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "unauthorized",
		Message:        "Invalid email or password",
	}
}

// ArticleResponse is the wire shape of an article.
//
// HTML carries the rendered body and is only populated on the detail
// endpoint — list responses stay light and ship markdown summaries only.
type ArticleResponse struct {
	model.Article

	HTML string `json:"html,omitempty"`
}

func NewArticleResponse(a model.Article) *ArticleResponse {
	return &ArticleResponse{Article: a}
}

func NewArticleListResponse(articles []model.Article) []render.Renderer {
	list := []render.Renderer{}
	for _, a := range articles {
		list = append(list, NewArticleResponse(a))
	}
	return list
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// UserResponse is the wire shape of a user. It deliberately has no
// password-hash field: the hash stays inside the store.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

func NewUserResponse(u model.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsAdmin:     u.IsAdmin,
	}
}

func (rd *UserResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
