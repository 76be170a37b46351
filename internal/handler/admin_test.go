package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techhorizon/blog/internal/model"
	"github.com/techhorizon/blog/internal/store"
)

// jsonRequest builds a request with a JSON body; render.Bind only decodes
// bodies whose Content-Type says they are JSON.
func jsonRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newAdminHandler(t *testing.T) (*AdminHandler, *store.Store) {
	t.Helper()
	st := newSeededStore(t)
	return NewAdminHandler(st, testLogger()), st
}

func TestHandleCreateAssignsIDAndDerivesSlug(t *testing.T) {
	h, st := newAdminHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, jsonRequest(t, http.MethodPost, "/api/admin/articles",
		`{"title":"Blockchain in Supply Chains!","content":"Body.","category":"supply-chain","author":"Pat Writer"}`))

	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Article
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "blockchain-in-supply-chains", created.Slug)
	assert.NotEmpty(t, created.PublishedDate, "missing date defaults to today")

	// The article is in the store, findable by its derived slug.
	got, err := st.ArticleBySlug("blockchain-in-supply-chains")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Len(t, st.Articles(), 5)
}

func TestHandleCreateValidation(t *testing.T) {
	h, st := newAdminHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"content":"x","category":"finance"}`},
		{"missing content", `{"title":"t","category":"finance"}`},
		{"unknown category", `{"title":"t","content":"x","category":"sports"}`},
		{"malformed json", `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, jsonRequest(t, http.MethodPost, "/api/admin/articles", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	assert.Len(t, st.Articles(), 4, "rejected payloads must not create articles")
}

func TestHandleUpdateMergesPatch(t *testing.T) {
	h, st := newAdminHandler(t)

	req := jsonRequest(t, http.MethodPut, "/api/admin/articles/2", `{"title":"Updated Title","featured":false}`)
	req = setPathValue(req, "id", "2")
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	got, err := st.ArticleByID("2")
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)
	assert.False(t, got.Featured)
	assert.NotEmpty(t, got.Content, "fields absent from the patch survive")
}

func TestHandleUpdateUnknownID(t *testing.T) {
	h, _ := newAdminHandler(t)

	req := jsonRequest(t, http.MethodPut, "/api/admin/articles/999", `{"title":"x"}`)
	req = setPathValue(req, "id", "999")
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpdateRejectsEmptyTitle(t *testing.T) {
	h, st := newAdminHandler(t)

	req := jsonRequest(t, http.MethodPut, "/api/admin/articles/2", `{"title":""}`)
	req = setPathValue(req, "id", "2")
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got, err := st.ArticleByID("2")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Title)
}

func TestHandleDelete(t *testing.T) {
	h, st := newAdminHandler(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/articles/3", nil)
	req = setPathValue(req, "id", "3")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, st.Articles(), 3)

	// Deleting it again is a 404, not a silent success.
	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAdminList(t *testing.T) {
	h, _ := newAdminHandler(t)

	rec := httptest.NewRecorder()
	h.HandleList(rec, httptest.NewRequest(http.MethodGet, "/api/admin/articles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeArticleList(t, rec), 4)
}

func TestHandleSync(t *testing.T) {
	h, st := newAdminHandler(t)

	rec := httptest.NewRecorder()
	h.HandleSync(rec, httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, st.Snapshot())
}
