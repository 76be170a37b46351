package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/techhorizon/blog/internal/apperror"
	"github.com/techhorizon/blog/internal/auth"
	"github.com/techhorizon/blog/internal/store"
)

// AuthHandler serves the session endpoints when the server runs with the
// built-in credential check (the default mode).
//
// TWO THINGS HAPPEN ON LOGIN:
//  1. The store records the current user, which persists into the snapshot
//     so a restart resumes the same session.
//  2. A signed JWT goes out as an HttpOnly cookie, which is what the admin
//     middleware actually verifies on each request.
//
// The mock session context mirrors the outcome under its own storage key;
// it is optional and only wired in when configured.
type AuthHandler struct {
	store  *store.Store
	tokens *auth.TokenService
	mock   *auth.Mock // may be nil
	logger *slog.Logger
}

func NewAuthHandler(st *store.Store, tokens *auth.TokenService, mock *auth.Mock, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: st, tokens: tokens, mock: mock, logger: logger}
}

// LoginRequest is the credential payload for HandleLogin.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l *LoginRequest) Bind(r *http.Request) error {
	if l.Email == "" || l.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// HandleLogin checks credentials and establishes a session.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"email": "...", "password": "..."}
//
// All credential failures return the same 401 body — the response never
// reveals whether the email exists.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req := &LoginRequest{}
	if err := render.Bind(r, req); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if !h.store.Login(req.Email, req.Password) {
		h.logger.Info("login rejected", slog.String("email", req.Email))
		_ = render.Render(w, r, ErrUnauthorized())
		return
	}
	if h.mock != nil {
		h.mock.SignIn(req.Email, req.Password)
	}

	user := h.store.CurrentUser()
	if user == nil {
		// Login returned true, so this cannot happen short of a data race.
		_ = render.Render(w, r, ErrDomain(apperror.Unauthorized("session not established")))
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		_ = render.Render(w, r, ErrDomain(err))
		return
	}

	// SameSite=Lax: sent on top-level navigations, withheld on cross-site
	// POSTs. Secure stays false for local dev; enable it behind HTTPS.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("login succeeded", slog.String("user_id", user.ID))

	if err := render.Render(w, r, NewUserResponse(*user)); err != nil {
		h.logger.Error("failed to render login response", slog.String("error", err.Error()))
	}
}

// HandleLogout ends the session.
//
// HTTP: POST /api/auth/logout
//
// Logout always succeeds, even without a session — it is idempotent.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout()
	if h.mock != nil {
		h.mock.SignOut()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the authenticated user, or null for anonymous visitors.
//
// HTTP: GET /api/auth/me
//
// The route sits behind OptionalAuth: a missing or bad cookie is not an
// error here, the frontend just renders the signed-out state.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
		return
	}

	user, err := h.store.UserByID(id)
	if err != nil {
		// The cookie outlived the user record; treat it as signed out.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
		return
	}

	if err := render.Render(w, r, NewUserResponse(*user)); err != nil {
		h.logger.Error("failed to render current user", slog.String("error", err.Error()))
	}
}
