package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/techhorizon/blog/internal/model"
)

// Identity is the provider-issued account record — who the provider says is
// signed in. Distinct from model.Profile, which is the application's own row
// keyed by the identity id.
type Identity struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Session is what the provider returns from a successful sign-in.
// The provider owns its lifetime and expiry; we never persist it locally.
type Session struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

// remoteError is the provider's error body. Different endpoints use
// different field names; message() picks whichever is set.
type remoteError struct {
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e remoteError) message() string {
	switch {
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	}
	return "remote backend error"
}

// RemoteClient calls a hosted identity provider's REST API: password and
// OAuth sign-in, sign-up with profile metadata, sign-out, current-identity
// lookup, and the profile-row fetch. Every failure comes back as a
// descriptive error value — no retries, no panics.
type RemoteClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewRemoteClient creates a client for the provider at baseURL.
// httpClient may be nil to use http.DefaultClient (tests inject their own).
func NewRemoteClient(baseURL, apiKey string, httpClient *http.Client, logger *slog.Logger) *RemoteClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RemoteClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
		logger:  logger,
	}
}

// do issues one JSON request and decodes the response into out (if non-nil).
// Non-2xx responses are turned into the provider's error message.
func (c *RemoteClient) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("auth: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("auth: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth: calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rerr remoteError
		_ = json.NewDecoder(resp.Body).Decode(&rerr)
		return fmt.Errorf("auth: %s: %s (status %d)", path, rerr.message(), resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("auth: decoding %s response: %w", path, err)
		}
	}
	return nil
}

// SignInWithPassword exchanges an email/password pair for a session.
func (c *RemoteClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "",
		map[string]string{"email": email, "password": password}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignUp registers a new account. metadata rides along as user metadata the
// backend copies into the new profile row (e.g. {"full_name": "..."}).
// Providers with email confirmation enabled return a session without an
// access token until the address is confirmed.
func (c *RemoteClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "",
		map[string]any{"email": email, "password": password, "data": metadata}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// CurrentIdentity resolves an access token to the identity it belongs to —
// the "who am I" check behind the initial session probe.
func (c *RemoteClient) CurrentIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	var id Identity
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// SignOut revokes the session behind the access token on the provider side.
func (c *RemoteClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// Profile fetches the profile row keyed by identity id. Returns (nil, nil)
// when no row exists — absence is a state, not an error.
func (c *RemoteClient) Profile(ctx context.Context, identityID string) (*model.Profile, error) {
	path := "/rest/v1/profiles?id=eq." + url.QueryEscape(identityID)
	var rows []model.Profile
	if err := c.do(ctx, http.MethodGet, path, "", nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// RemoteAuth is the remote-variant authentication context. It consumes
// session-change notifications, fetches the matching profile row whenever
// the identity changes, and exposes the current user/session/profile plus a
// loading flag.
//
// SILENT PROFILE DEGRADATION:
// A failed profile fetch leaves profile == nil and logs; it does not surface
// an error. The identity is still signed in — display data is just missing.
type RemoteAuth struct {
	client *RemoteClient
	logger *slog.Logger

	mu      sync.RWMutex
	user    *Identity
	session *Session
	profile *model.Profile
	loading bool

	changes chan *Session
}

func NewRemoteAuth(client *RemoteClient, logger *slog.Logger) *RemoteAuth {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RemoteAuth{
		client:  client,
		logger:  logger,
		loading: true, // until the initial session check completes
		changes: make(chan *Session, 4),
	}
}

// Run consumes session-change notifications until ctx is cancelled.
// Call it in its own goroutine.
//
// There is no local persistence: with no stored session to restore, the
// initial check resolves to anonymous immediately and loading drops to
// false. Everything after that is driven by Notify.
func (a *RemoteAuth) Run(ctx context.Context) {
	a.mu.Lock()
	a.loading = false
	a.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case sess := <-a.changes:
			a.apply(ctx, sess)
		}
	}
}

// Notify delivers a session change (sign-in, token refresh, or nil for
// signed-out). The HTTP layer calls this after completing a provider flow.
func (a *RemoteAuth) Notify(sess *Session) {
	a.changes <- sess
}

func (a *RemoteAuth) apply(ctx context.Context, sess *Session) {
	a.mu.Lock()
	a.session = sess
	if sess != nil {
		u := sess.User
		a.user = &u
	} else {
		a.user = nil
		a.profile = nil
		a.loading = false
		a.mu.Unlock()
		return
	}
	a.loading = true
	userID := sess.User.ID
	a.mu.Unlock()

	profile, err := a.client.Profile(ctx, userID)
	if err != nil {
		a.logger.Warn("profile fetch failed",
			slog.String("identity", userID),
			slog.String("error", err.Error()),
		)
		profile = nil
	}

	a.mu.Lock()
	// Only adopt the result if the identity hasn't changed underneath us.
	if a.user != nil && a.user.ID == userID {
		a.profile = profile
		a.loading = false
	}
	a.mu.Unlock()
}

// SignOut revokes the current session at the provider and clears all local
// state. The provider error (if any) is returned, but local state is
// cleared regardless — the caller wanted out.
func (a *RemoteAuth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	token := ""
	if a.session != nil {
		token = a.session.AccessToken
	}
	a.user = nil
	a.session = nil
	a.profile = nil
	a.mu.Unlock()

	if token == "" {
		return nil
	}
	return a.client.SignOut(ctx, token)
}

// User returns the current identity, or nil when anonymous.
func (a *RemoteAuth) User() *Identity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

// Session returns the current session, or nil.
func (a *RemoteAuth) Session() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

// Profile returns the fetched profile row, or nil when absent or degraded.
func (a *RemoteAuth) Profile() *model.Profile {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.profile == nil {
		return nil
	}
	p := *a.profile
	return &p
}

// Loading reports whether the initial session check or a profile fetch is
// still outstanding.
func (a *RemoteAuth) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}
