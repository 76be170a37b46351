package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/techhorizon/blog/internal/storage"
)

// SessionKey is the storage key the mock context persists its session under,
// separate from the store's snapshot key.
const SessionKey = "blog-session"

// mockSession is the exact persisted shape: {"email": "..."}.
type mockSession struct {
	Email string `json:"email"`
}

// Mock is the single-credential authentication context: one hardcoded
// email/password pair, two states (anonymous / authenticated), session
// persisted independently of the store.
//
// The configured password is bcrypt-hashed once at construction and the
// plaintext is discarded — sign-in compares hashes, never strings. This is
// still a mock (one account, no registration); it is just not a plaintext
// one.
type Mock struct {
	adapter   storage.Adapter
	passwords *PasswordService
	logger    *slog.Logger

	email string
	hash  string

	mu   sync.RWMutex
	user string // signed-in email; "" = anonymous
}

// NewMock builds the mock context for the given credential pair and
// rehydrates any persisted session. A stored value that fails to parse is
// removed and the context starts anonymous — corrupt session data never
// grants access and never crashes startup.
func NewMock(email, password string, adapter storage.Adapter, passwords *PasswordService, logger *slog.Logger) (*Mock, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	hash, err := passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	m := &Mock{
		adapter:   adapter,
		passwords: passwords,
		logger:    logger,
		email:     email,
		hash:      hash,
	}
	m.rehydrate()
	return m, nil
}

func (m *Mock) rehydrate() {
	raw, ok := m.adapter.Get(SessionKey)
	if !ok {
		return
	}
	var sess mockSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.Email == "" {
		m.logger.Warn("stored session unreadable, clearing it")
		m.adapter.Remove(SessionKey)
		return
	}
	m.user = sess.Email
	m.logger.Info("session rehydrated", slog.String("email", sess.Email))
}

// SignIn transitions to authenticated iff the pair matches the configured
// credential. Reports success as a bool — a wrong password is a normal
// outcome, not an error.
func (m *Mock) SignIn(email, password string) bool {
	if email != m.email || m.passwords.Verify(m.hash, password) != nil {
		m.logger.Warn("sign-in failed", slog.String("email", email))
		return false
	}

	m.mu.Lock()
	m.user = email
	m.mu.Unlock()

	raw, err := json.Marshal(mockSession{Email: email})
	if err == nil {
		m.adapter.Set(SessionKey, string(raw))
	}
	m.logger.Info("signed in", slog.String("email", email))
	return true
}

// SignOut transitions to anonymous and clears the persisted session.
func (m *Mock) SignOut() {
	m.mu.Lock()
	m.user = ""
	m.mu.Unlock()
	m.adapter.Remove(SessionKey)
}

// User returns the signed-in email, or "" when anonymous.
func (m *Mock) User() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Authenticated reports whether a session is active.
func (m *Mock) Authenticated() bool {
	return m.User() != ""
}
