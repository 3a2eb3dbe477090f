package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ovenlab/bakehouse-backend/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOfflineClient returns a client whose remote calls always fail.
func newOfflineClient(t *testing.T) (*Client, kvstore.Store) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	store := kvstore.NewMemory()
	client := NewClient(Config{BaseURL: server.URL, Store: store})
	return client, store
}

func TestAddToCart_RemoteDownFallsBackToLocal(t *testing.T) {
	client, store := newOfflineClient(t)

	result := client.AddToCart(context.Background(), AddPayload{
		ProductID: uintPtr(9),
		Quantity:  2,
	})

	assert.True(t, result.OK)
	assert.Equal(t, SourceLocal, result.Source)

	// The persisted cart contains the line
	raw, ok := store.Get(DefaultStorageKey)
	require.True(t, ok)

	var persisted Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted.Items, 1)
	assert.Equal(t, "p9", persisted.Items[0].LineID)
	assert.Equal(t, 2, persisted.Items[0].Quantity)
}

func TestAddToCart_SameLineMerges(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), VariantID: uintPtr(2), Quantity: 2})
	result := client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), VariantID: uintPtr(2), Quantity: 3})

	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 5, result.Cart.Items[0].Quantity)
}

func TestAddToCart_DifferentLinesStayDistinct(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 1})
	result := client.AddToCart(ctx, AddPayload{ProductID: uintPtr(2), Quantity: 1})

	assert.Len(t, result.Cart.Items, 2)
}

func TestAddToCart_MergeClampsAtCeiling(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 998})
	result := client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 5})

	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 999, result.Cart.Items[0].Quantity)
}

func TestAddToCart_AttributesPassThrough(t *testing.T) {
	client, _ := newOfflineClient(t)

	result := client.AddToCart(context.Background(), AddPayload{
		ProductID:  uintPtr(4),
		Quantity:   1,
		Attributes: map[string]interface{}{"name": "Sourdough Boule", "sliced": true},
	})

	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, "Sourdough Boule", result.Cart.Items[0].Attributes["name"])
	assert.Equal(t, true, result.Cart.Items[0].Attributes["sliced"])
}

func TestAddToCart_RemoteCartReplacesLocal(t *testing.T) {
	serverCart := Cart{Items: []Item{{LineID: "p77", ProductID: uintPtr(77), Quantity: 4}}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/cart/add", r.URL.Path)
		json.NewEncoder(w).Encode(serverCart)
	}))
	defer server.Close()

	store := kvstore.NewMemory()
	client := NewClient(Config{BaseURL: server.URL, Store: store})

	// Divergent local state that the server response must overwrite
	client.persist(Cart{Items: []Item{{LineID: "p1", ProductID: uintPtr(1), Quantity: 1}}})

	result := client.AddToCart(context.Background(), AddPayload{ProductID: uintPtr(77), Quantity: 1})

	assert.Equal(t, SourceAPI, result.Source)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, "p77", result.Cart.Items[0].LineID)
	assert.Equal(t, 4, result.Cart.Items[0].Quantity)

	local := client.Cart()
	require.Len(t, local.Items, 1)
	assert.Equal(t, "p77", local.Items[0].LineID)
}

func TestAddToCart_FallbackChainReachesLegacyPath(t *testing.T) {
	serverCart := Cart{Items: []Item{{LineID: "p5", ProductID: uintPtr(5), Quantity: 1}}}

	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		// Only the oldest mount answers
		if r.URL.Path == "/cart/add" {
			json.NewEncoder(w).Encode(serverCart)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Store: kvstore.NewMemory()})
	result := client.AddToCart(context.Background(), AddPayload{ProductID: uintPtr(5), Quantity: 1})

	assert.Equal(t, SourceAPI, result.Source)
	assert.Equal(t, []string{"/api/v1/cart/add", "/api/cart/add", "/cart/add"}, paths)
}

func TestAddToCart_MalformedRemoteBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`)) // 200 but no items sequence
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Store: kvstore.NewMemory()})
	result := client.AddToCart(context.Background(), AddPayload{ProductID: uintPtr(3), Quantity: 1})

	assert.Equal(t, SourceLocal, result.Source)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, "p3", result.Cart.Items[0].LineID)
}

func TestUpdateCartQuantity_Clamping(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 5})

	result := client.UpdateCartQuantity(ctx, "p1", 0)
	assert.Equal(t, 1, result.Cart.Items[0].Quantity)

	result = client.UpdateCartQuantity(ctx, "p1", 10000)
	assert.Equal(t, 999, result.Cart.Items[0].Quantity)
}

func TestUpdateCartQuantity_UnknownLineIsNoOpButStillNotifies(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 5})

	notified := 0
	unsubscribe := client.Subscribe(func() { notified++ })
	defer unsubscribe()

	result := client.UpdateCartQuantity(ctx, "p999", 7)

	assert.True(t, result.OK)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, 5, result.Cart.Items[0].Quantity)
	assert.Equal(t, 1, notified)
}

func TestRemoveCartItem_Idempotent(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 1})
	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(2), Quantity: 1})

	result := client.RemoveCartItem(ctx, "p1")
	assert.True(t, result.OK)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, "p2", result.Cart.Items[0].LineID)

	// Removing again (or a line that never existed) leaves the cart unchanged
	result = client.RemoveCartItem(ctx, "p1")
	assert.True(t, result.OK)
	assert.Len(t, result.Cart.Items, 1)
}

func TestClearCart_AlwaysEmpties(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 3})
	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(2), Quantity: 1})

	result := client.ClearCart(ctx)

	assert.True(t, result.OK)
	assert.Equal(t, SourceLocal, result.Source)
	assert.Empty(t, result.Cart.Items)
	assert.Empty(t, client.Cart().Items)
}

func TestSubscribe_FiresOnEveryMutation(t *testing.T) {
	client, _ := newOfflineClient(t)
	ctx := context.Background()

	notified := 0
	unsubscribe := client.Subscribe(func() { notified++ })

	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 1})
	client.UpdateCartQuantity(ctx, "p1", 2)
	client.RemoveCartItem(ctx, "p1")
	client.ClearCart(ctx)
	assert.Equal(t, 4, notified)

	unsubscribe()
	client.AddToCart(ctx, AddPayload{ProductID: uintPtr(1), Quantity: 1})
	assert.Equal(t, 4, notified)
}

func TestCart_MalformedPersistedDataYieldsEmptyCart(t *testing.T) {
	store := kvstore.NewMemory()
	store.Set(DefaultStorageKey, "{not json")

	client := NewClient(Config{BaseURL: "http://127.0.0.1:0", Store: store})

	cart := client.Cart()
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}
