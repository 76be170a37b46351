package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/xid"

	"github.com/techhorizon/blog/internal/auth"
)

// RemoteAuthHandler serves the session endpoints when authentication is
// delegated to a hosted identity provider. The handler proxies credential
// checks to the provider and keeps the shared session context informed so
// profile data follows the session.
type RemoteAuthHandler struct {
	client    *auth.RemoteClient
	sessions  *auth.RemoteAuth
	providers map[auth.Provider]*auth.OAuthProvider
	logger    *slog.Logger
}

func NewRemoteAuthHandler(client *auth.RemoteClient, sessions *auth.RemoteAuth,
	providers map[auth.Provider]*auth.OAuthProvider, logger *slog.Logger) *RemoteAuthHandler {
	return &RemoteAuthHandler{
		client:    client,
		sessions:  sessions,
		providers: providers,
		logger:    logger,
	}
}

// SignupRequest is the registration payload. FullName lands in the
// provider's user metadata and later surfaces through the profile row.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (s *SignupRequest) Bind(r *http.Request) error {
	if s.Email == "" || s.Password == "" {
		return errors.New("email and password are required")
	}
	if len(s.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	return nil
}

// sessionResponse is what login and signup return: the provider's token
// plus the identity it belongs to.
type sessionResponse struct {
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType"`
	ExpiresIn   int           `json:"expiresIn"`
	User        auth.Identity `json:"user"`
}

func (rd *sessionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func newSessionResponse(sess *auth.Session) *sessionResponse {
	return &sessionResponse{
		AccessToken: sess.AccessToken,
		TokenType:   sess.TokenType,
		ExpiresIn:   sess.ExpiresIn,
		User:        sess.User,
	}
}

// HandleLogin authenticates against the remote provider.
//
// HTTP: POST /api/auth/login
func (h *RemoteAuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req := &LoginRequest{}
	if err := render.Bind(r, req); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	sess, err := h.client.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("remote login rejected",
			slog.String("email", req.Email),
			slog.String("error", err.Error()))
		_ = render.Render(w, r, ErrUnauthorized())
		return
	}

	h.sessions.Notify(sess)

	if err := render.Render(w, r, newSessionResponse(sess)); err != nil {
		h.logger.Error("failed to render session", slog.String("error", err.Error()))
	}
}

// HandleSignup registers a new account with the remote provider.
//
// HTTP: POST /api/auth/signup
func (h *RemoteAuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	req := &SignupRequest{}
	if err := render.Bind(r, req); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	metadata := map[string]any{}
	if req.FullName != "" {
		metadata["full_name"] = req.FullName
	}

	sess, err := h.client.SignUp(r.Context(), req.Email, req.Password, metadata)
	if err != nil {
		h.logger.Warn("remote signup failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()))
		_ = render.Render(w, r, &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			StatusText:     "signup_failed",
			Message:        err.Error(),
		})
		return
	}

	h.sessions.Notify(sess)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, newSessionResponse(sess)); err != nil {
		h.logger.Error("failed to render session", slog.String("error", err.Error()))
	}
}

// HandleLogout revokes the session with the provider and clears local state.
//
// HTTP: POST /api/auth/logout
func (h *RemoteAuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		// Local state is already cleared; the revocation failure is
		// logged but the client is signed out either way.
		h.logger.Warn("remote logout failed", slog.String("error", err.Error()))
	}
	w.WriteHeader(http.StatusNoContent)
}

// meResponse reports the session context: identity, profile, and whether
// the initial session check is still in flight.
type meResponse struct {
	User    *auth.Identity `json:"user"`
	Profile any            `json:"profile"`
	Loading bool           `json:"loading"`
}

func (rd *meResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// HandleMe returns the current remote session state.
//
// HTTP: GET /api/auth/me
func (h *RemoteAuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	resp := &meResponse{
		User:    h.sessions.User(),
		Loading: h.sessions.Loading(),
	}
	if p := h.sessions.Profile(); p != nil {
		resp.Profile = p
	}

	if err := render.Render(w, r, resp); err != nil {
		h.logger.Error("failed to render session state", slog.String("error", err.Error()))
	}
}

// HandleOAuthRedirect starts an OAuth sign-in with one of the configured
// providers.
//
// HTTP: GET /api/auth/oauth/{provider}
//
// A random state value goes into a short-lived cookie and into the
// provider URL; the callback must present both and they must match.
func (h *RemoteAuthHandler) HandleOAuthRedirect(w http.ResponseWriter, r *http.Request) {
	name := auth.Provider(chi.URLParam(r, "provider"))
	provider, ok := h.providers[name]
	if !ok {
		_ = render.Render(w, r, &ErrResponse{
			HTTPStatusCode: http.StatusBadRequest,
			StatusText:     "validation_error",
			Message:        "unknown oauth provider: " + string(name),
		})
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("oauth redirect", slog.String("provider", string(provider.Name())))
	http.Redirect(w, r, provider.AuthURL(state), http.StatusTemporaryRedirect)
}
