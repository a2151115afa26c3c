package api_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/arcana-api/internal/api"
	"github.com/phrazzld/arcana-api/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogRouter() http.Handler {
	h := api.NewCatalogHandler(catalog.NewCardCatalog(), catalog.NewSpreadCatalog(), slog.Default())
	r := chi.NewRouter()
	r.Get("/cards", h.ListCards)
	r.Get("/cards/{id}", h.GetCard)
	r.Get("/spreads", h.ListSpreads)
	r.Get("/spreads/{id}", h.GetSpread)
	return r
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListCards(t *testing.T) {
	t.Parallel()

	w := doGet(t, newCatalogRouter(), "/cards")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.CardListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 78, resp.Count)
	assert.Len(t, resp.Cards, 78)
}

func TestGetCard(t *testing.T) {
	t.Parallel()

	router := newCatalogRouter()

	t.Run("known card", func(t *testing.T) {
		t.Parallel()

		w := doGet(t, router, "/cards/major.00")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "The Fool")
	})

	t.Run("unknown card", func(t *testing.T) {
		t.Parallel()

		w := doGet(t, router, "/cards/major.99")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Card not found")
	})
}

func TestListSpreads(t *testing.T) {
	t.Parallel()

	w := doGet(t, newCatalogRouter(), "/spreads")
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.SpreadListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
}

func TestGetSpread(t *testing.T) {
	t.Parallel()

	router := newCatalogRouter()

	t.Run("known spread", func(t *testing.T) {
		t.Parallel()

		w := doGet(t, router, "/spreads/celtic-cross")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Celtic Cross")
	})

	t.Run("unknown spread", func(t *testing.T) {
		t.Parallel()

		w := doGet(t, router, "/spreads/horseshoe")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Spread not found")
	})
}
