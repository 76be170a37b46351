// Package store implements the persisted blog store: one in-memory object
// tree (users, articles, current session) mirrored through a storage adapter
// after every mutation.
//
// CONSISTENCY CONTRACT:
// The Store owns the canonical in-memory copy; the adapter owns only a
// serialized mirror and never interprets it. Every mutating operation
// re-serializes the full state synchronously — no dirty tracking, no
// batching. That makes the mirror at most one mutation behind under a broken
// medium, and exactly current otherwise.
//
// The Store is NOT a package-level singleton: callers construct an instance
// and inject it, so tests get isolated stores instead of shared mutable
// state. Construction never fails — whether persistence is available was
// decided by whoever chose the adapter.
package store

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/techhorizon/blog/internal/apperror"
	"github.com/techhorizon/blog/internal/model"
	"github.com/techhorizon/blog/internal/storage"
)

// SnapshotKey is the fixed key the serialized store lives under in the
// storage medium. Shared by every process pointed at the same medium, and by
// the change watcher.
const SnapshotKey = "blog-storage"

// snapshotVersion tags every written snapshot. There is no migration
// machinery behind it — a future format change bumps the version and the
// shape validation rejects old snapshots back to seed data.
const snapshotVersion = 1

// snapshot is the exact wire shape persisted under SnapshotKey:
// {"state": {"users": [...], "articles": [...], "currentUser": ...}, "version": 1}
type snapshot struct {
	State   snapshotState `json:"state"`
	Version int           `json:"version"`
}

type snapshotState struct {
	Users       []model.User    `json:"users"`
	Articles    []model.Article `json:"articles"`
	CurrentUser *model.User     `json:"currentUser"`
}

// Store holds the canonical in-memory state.
//
// WHY A MUTEX WHEN THE SPEC SAYS SINGLE-THREADED?
// The original ran on one cooperative event loop. Here the store is shared
// across HTTP handler goroutines, so the same "strictly ordered by call
// order" guarantee is provided by a mutex instead: each operation, including
// its re-persist, is one critical section.
type Store struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	logger  *slog.Logger

	users       []model.User
	articles    []model.Article
	currentUser *model.User
}

// New constructs a Store over the given adapter.
//
// Hydration: if a snapshot exists under SnapshotKey and both users and
// articles decode as arrays, the persisted state is adopted — including
// currentUser, so an admin session survives a restart. Anything else
// (absent key, corrupt JSON, wrong shape) falls back to the compiled-in
// seed data: four sample articles and one admin user.
func New(adapter storage.Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{adapter: adapter, logger: logger}

	if state, ok := s.loadSnapshot(); ok {
		s.users = state.Users
		s.articles = state.Articles
		s.currentUser = state.CurrentUser
		logger.Info("store rehydrated from snapshot",
			slog.Int("users", len(state.Users)),
			slog.Int("articles", len(state.Articles)),
		)
	} else {
		s.users = seedUsers(logger)
		s.articles = seedArticles()
		logger.Info("store initialized with seed data",
			slog.Int("articles", len(s.articles)),
		)
	}

	return s
}

// loadSnapshot reads and shape-validates the persisted snapshot.
// Returns ok=false for every failure mode — the caller seeds instead.
func (s *Store) loadSnapshot() (snapshotState, bool) {
	raw, ok := s.adapter.Get(SnapshotKey)
	if !ok {
		return snapshotState{}, false
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// Corrupt or wrong-shaped data (e.g. articles as a string fails to
		// decode into a slice). Fall back to seed data rather than crash.
		s.logger.Warn("invalid stored snapshot, using default data",
			slog.String("error", err.Error()),
		)
		return snapshotState{}, false
	}

	// Both sequences must be present and array-shaped. A missing key decodes
	// to a nil slice, which we reject; an explicit empty array is valid.
	if snap.State.Users == nil || snap.State.Articles == nil {
		s.logger.Warn("stored snapshot missing users or articles, using default data")
		return snapshotState{}, false
	}

	return snap.State, true
}

// persistLocked serializes the full state through the adapter.
// Callers must hold s.mu. The adapter absorbs medium failures, so this
// cannot fail — at worst the mirror goes stale and the adapter logs why.
func (s *Store) persistLocked() {
	raw, err := json.Marshal(snapshot{
		State: snapshotState{
			Users:       s.users,
			Articles:    s.articles,
			CurrentUser: s.currentUser,
		},
		Version: snapshotVersion,
	})
	if err != nil {
		s.logger.Error("serializing snapshot failed", slog.String("error", err.Error()))
		return
	}
	s.adapter.Set(SnapshotKey, string(raw))
}

// Sync forces a write of the current state outside the normal mutation path.
// Slower UI flows call this to guarantee persistence before navigating away.
func (s *Store) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked()
}

// Snapshot returns the serialized form of the current state — what a
// persist would write right now. The change watcher uses it to tell the
// store's own writes apart from external ones.
func (s *Store) Snapshot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, err := json.Marshal(snapshot{
		State: snapshotState{
			Users:       s.users,
			Articles:    s.articles,
			CurrentUser: s.currentUser,
		},
		Version: snapshotVersion,
	})
	if err != nil {
		return ""
	}
	return string(raw)
}

// AddUser appends a user. No duplicate-id or duplicate-email check — the
// store is append-only for users and trusts its (admin-gated) callers.
func (s *Store) AddUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
	s.persistLocked()
}

// AddArticle appends an article verbatim. ID and slug assignment are the
// caller's concern (the admin handler derives both); slug uniqueness is NOT
// enforced here — lookups return the first exact match.
func (s *Store) AddArticle(article model.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, article)
	s.persistLocked()
}

// ArticlePatch is a partial article: nil fields are left untouched,
// non-nil fields are shallow-merged over the stored record.
type ArticlePatch struct {
	Title         *string         `json:"title"`
	Slug          *string         `json:"slug"`
	Summary       *string         `json:"summary"`
	Content       *string         `json:"content"`
	Category      *model.Category `json:"category"`
	Author        *string         `json:"author"`
	PublishedDate *string         `json:"publishedDate"`
	ImageURL      *string         `json:"imageUrl"`
	Featured      *bool           `json:"featured"`
}

func (p ArticlePatch) apply(a *model.Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Slug != nil {
		a.Slug = *p.Slug
	}
	if p.Summary != nil {
		a.Summary = *p.Summary
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	if p.PublishedDate != nil {
		a.PublishedDate = *p.PublishedDate
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
}

// UpdateArticle shallow-merges patch over the article with the given id.
// Returns false (and persists nothing) if no article matches.
func (s *Store) UpdateArticle(id string, patch ArticlePatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID == id {
			patch.apply(&s.articles[i])
			s.persistLocked()
			return true
		}
	}
	return false
}

// DeleteArticle removes the article with the given id.
// Returns false (and persists nothing) if no article matches.
func (s *Store) DeleteArticle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			s.persistLocked()
			return true
		}
	}
	return false
}

// Articles returns all articles in insertion order.
func (s *Store) Articles() []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// ArticleBySlug returns the first article whose slug matches exactly —
// never a prefix or partial match — or apperror.ErrNotFound.
func (s *Store) ArticleBySlug(slug string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.articles {
		if s.articles[i].Slug == slug {
			a := s.articles[i]
			return &a, nil
		}
	}
	return nil, apperror.NotFound("article", slug)
}

// ArticleByID returns the article with the given id, or apperror.ErrNotFound.
func (s *Store) ArticleByID(id string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.articles {
		if s.articles[i].ID == id {
			a := s.articles[i]
			return &a, nil
		}
	}
	return nil, apperror.NotFound("article", id)
}

// ArticlesByCategory returns all articles in the given category,
// in store (insertion) order — not date order.
func (s *Store) ArticlesByCategory(category model.Category) []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Article{}
	for _, a := range s.articles {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// FeaturedArticles returns all featured articles, in store order.
func (s *Store) FeaturedArticles() []model.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Article{}
	for _, a := range s.articles {
		if a.Featured {
			out = append(out, a)
		}
	}
	return out
}

// Login scans users for a matching email whose password verifies against the
// stored bcrypt hash. On success it sets the current session and persists;
// on failure it reports false and leaves the session untouched. Failure is a
// normal result here, not an error — callers own the user-facing messaging.
func (s *Store) Login(email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(s.users[i].PasswordHash), []byte(password)) != nil {
			continue
		}
		u := s.users[i]
		s.currentUser = &u
		s.persistLocked()
		s.logger.Info("user logged in", slog.String("email", email))
		return true
	}
	s.logger.Warn("login failed", slog.String("email", email))
	return false
}

// Logout clears the current session and persists.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = nil
	s.persistLocked()
}

// CurrentUser returns a copy of the logged-in user, or nil when anonymous.
func (s *Store) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

// UserByID returns the user with the given id, or apperror.ErrNotFound.
// The admin middleware uses this to resolve JWT subjects back to accounts.
func (s *Store) UserByID(id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

// Users returns all users in insertion order.
func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}
