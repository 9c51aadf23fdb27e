package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/odprema/internal/dispatch"
	"github.com/erazemk/odprema/internal/model"
	"github.com/erazemk/odprema/internal/registry"
)

type staticToken string

func (t staticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}

func TestItemsForDispatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items-for-dispatch/42", r.URL.Path)
		assert.Equal(t, "At Store", r.URL.Query().Get("phase"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"po_number": "PO-42",
			"po_line_items": []map[string]any{
				{
					"po_line_item_id": 1,
					"line_item_name":  "Routers",
					"po_item_details": []map[string]any{
						{"po_item_details_id": 101, "po_item_status": "Inspection Approved"},
					},
				},
			},
		})
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, staticToken("tok"))
	po, err := c.ItemsForDispatch(context.Background(), 42, "At Store")
	require.NoError(t, err)

	assert.Equal(t, "PO-42", po.Number)
	require.Len(t, po.LineItems, 1)
	require.Len(t, po.LineItems[0].Items, 1)
	assert.True(t, po.LineItems[0].Items[0].Actionable())
}

func TestAPIErrorFromBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "item already dispatched"})
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, staticToken("tok"))
	err := c.Submit(context.Background(), &dispatch.RequestBody{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "item already dispatched", apiErr.Message)
}

func TestAPIErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, nil)
	_, err := c.SearchUsers(context.Background(), "ana")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestSubmitSendsSerializedRegistry(t *testing.T) {
	var received dispatch.RequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/dispatch", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	reg := registry.New()
	reg.Upsert(model.KindStore,
		model.Key{LineItemID: 1, ItemDetailsID: 101},
		&model.Ref{ID: 55, Label: "Main store"},
		&model.Ref{ID: 9, Label: "Ana"})

	body, err := dispatch.Serialize(reg, 42, "At Store")
	require.NoError(t, err)

	c := NewClient(server.URL, staticToken("tok"))
	require.NoError(t, c.Submit(context.Background(), body))

	assert.Equal(t, int64(42), received.PoID)
	assert.Equal(t, "store", received.DispatchFrom)
	require.Len(t, received.Stores, 1)
	assert.Equal(t, int64(55), received.Stores[0].StoreID)
	assert.Equal(t, int64(9), received.Stores[0].InchargeID)
}

func TestSearchLocationsScope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locations/search", r.URL.Path)
		assert.Equal(t, "site", r.URL.Query().Get("scope"))
		json.NewEncoder(w).Encode([]map[string]any{{"id": 7, "name": "POP Ljubljana"}})
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, staticToken("tok"))
	refs, err := c.SearchLocations(context.Background(), "site", "ljub")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, model.Ref{ID: 7, Label: "POP Ljubljana"}, refs[0])
}

func TestLoginWithoutTokenSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "acc",
			"refresh_token": "ref",
		})
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, nil)
	res, err := c.Login(context.Background(), "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, "acc", res.AccessToken)
	assert.Equal(t, "ref", res.RefreshToken)
}
