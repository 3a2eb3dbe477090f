package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ovenlab/bakehouse-backend/pkg/kvstore"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
)

// Endpoint fallback chains, tried in order until one returns a parseable
// cart. Older storefront deployments mount the cart API without the version
// prefix, so the chain walks from newest to oldest.
var (
	addPaths    = []string{"/api/v1/cart/add", "/api/cart/add", "/cart/add"}
	updatePaths = []string{"/api/v1/cart/update", "/api/cart/update", "/cart/update"}
	removePaths = []string{"/api/v1/cart/items/%s", "/api/cart/items/%s", "/cart/items/%s"}
	clearPaths  = []string{"/api/v1/cart/clear", "/api/cart/clear", "/cart/clear"}
)

// Config configures a cart Client.
type Config struct {
	// BaseURL of the storefront API, without trailing slash.
	BaseURL string

	// Store persists the local cart copy.
	Store kvstore.Store

	// StorageKey for the persisted cart. Defaults to DefaultStorageKey.
	StorageKey string

	// Token, when set, supplies a bearer token attached to remote calls.
	// A missing or stale token simply makes remote calls fail, which the
	// fallback absorbs.
	Token func() string

	// HTTPClient overrides the default client (mainly for tests).
	HTTPClient *http.Client
}

// Client mediates cart mutations between the remote API and the local
// persisted fallback. Mutations never return an error: remote unavailability
// degrades to local-only operation and is reported through Result.Source.
type Client struct {
	baseURL    string
	store      kvstore.Store
	storageKey string
	token      func() string
	httpClient *http.Client
	events     *broadcaster
}

func NewClient(cfg Config) *Client {
	key := cfg.StorageKey
	if key == "" {
		key = DefaultStorageKey
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		store:      cfg.Store,
		storageKey: key,
		token:      cfg.Token,
		httpClient: httpClient,
		events:     newBroadcaster(),
	}
}

// AddPayload carries an add-to-cart request. Attributes are passed through
// to the stored line unchanged.
type AddPayload struct {
	ProductID  *uint                  `json:"product_id,omitempty"`
	VariantID  *uint                  `json:"variant_id,omitempty"`
	Quantity   int                    `json:"quantity"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Cart returns the persisted local cart snapshot.
func (c *Client) Cart() Cart {
	return loadCart(c.store, c.storageKey)
}

// Subscribe registers a no-payload listener fired after every persisted cart
// change. The returned func unsubscribes.
func (c *Client) Subscribe(fn func()) func() {
	return c.events.subscribe(fn)
}

// AddToCart adds a line to the cart. On remote success the server cart
// replaces the local one entirely; otherwise the line is merged into the
// local cart (same line id increments quantity, clamped to [1,999]).
func (c *Client) AddToCart(ctx context.Context, payload AddPayload) Result {
	if remote, ok := c.tryRemote(ctx, http.MethodPost, addPaths, payload); ok {
		c.persist(*remote)
		return Result{OK: true, Source: SourceAPI, Cart: *remote}
	}

	local := c.Cart()
	lineID := DeriveLineID(payload.ProductID, payload.VariantID)

	merged := false
	for i := range local.Items {
		if local.Items[i].LineID == lineID {
			local.Items[i].Quantity = ClampQuantity(local.Items[i].Quantity + payload.Quantity)
			merged = true
			break
		}
	}
	if !merged {
		local.Items = append(local.Items, Item{
			LineID:     lineID,
			ProductID:  payload.ProductID,
			VariantID:  payload.VariantID,
			Quantity:   ClampQuantity(payload.Quantity),
			Attributes: payload.Attributes,
		})
	}

	c.persist(local)
	return Result{OK: true, Source: SourceLocal, Cart: local}
}

// UpdateCartQuantity sets the quantity of an existing line, clamped to
// [1,999]. A line id with no local match is a no-op on the line, but the
// cart is still re-persisted and the change event still fires.
func (c *Client) UpdateCartQuantity(ctx context.Context, lineID string, quantity int) Result {
	quantity = ClampQuantity(quantity)

	body := map[string]interface{}{"line_id": lineID, "quantity": quantity}
	if remote, ok := c.tryRemote(ctx, http.MethodPut, updatePaths, body); ok {
		c.persist(*remote)
		return Result{OK: true, Source: SourceAPI, Cart: *remote}
	}

	local := c.Cart()
	for i := range local.Items {
		if local.Items[i].LineID == lineID {
			local.Items[i].Quantity = quantity
			break
		}
	}

	c.persist(local)
	return Result{OK: true, Source: SourceLocal, Cart: local}
}

// RemoveCartItem removes a line by id. Removing an unknown line id still
// succeeds.
func (c *Client) RemoveCartItem(ctx context.Context, lineID string) Result {
	paths := make([]string, len(removePaths))
	for i, p := range removePaths {
		paths[i] = fmt.Sprintf(p, url.PathEscape(lineID))
	}
	if remote, ok := c.tryRemote(ctx, http.MethodDelete, paths, nil); ok {
		c.persist(*remote)
		return Result{OK: true, Source: SourceAPI, Cart: *remote}
	}

	local := c.Cart()
	kept := local.Items[:0]
	for _, item := range local.Items {
		if item.LineID == lineID {
			continue
		}
		// Legacy carts persisted before line ids were stored match on the
		// derived id instead.
		if item.LineID == "" && DeriveLineID(item.ProductID, item.VariantID) == lineID {
			continue
		}
		kept = append(kept, item)
	}
	local.Items = kept

	c.persist(local)
	return Result{OK: true, Source: SourceLocal, Cart: local}
}

// ClearCart empties the cart. The local fallback always succeeds.
func (c *Client) ClearCart(ctx context.Context) Result {
	if remote, ok := c.tryRemote(ctx, http.MethodPost, clearPaths, nil); ok {
		c.persist(*remote)
		return Result{OK: true, Source: SourceAPI, Cart: *remote}
	}

	empty := Cart{Items: []Item{}}
	c.persist(empty)
	return Result{OK: true, Source: SourceLocal, Cart: empty}
}

// persist writes the cart to the local store and notifies listeners. The
// notification carries no payload; listeners re-read the persisted cart.
func (c *Client) persist(cart Cart) {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		logger.Error("Failed to marshal cart for persistence", err)
		return
	}
	if err := c.store.Set(c.storageKey, string(data)); err != nil {
		logger.Error("Failed to persist cart", err)
		return
	}
	c.events.notify()
}

// tryRemote walks the endpoint chain and returns the first parseable cart.
// Transport errors, non-2xx statuses and malformed bodies are all treated
// the same way: try the next candidate, and finally report remote
// unavailability to the caller.
func (c *Client) tryRemote(ctx context.Context, method string, paths []string, payload interface{}) (*Cart, bool) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			logger.Error("Failed to marshal cart request", err)
			return nil, false
		}
	}

	for _, path := range paths {
		remote, err := c.doRequest(ctx, method, c.baseURL+path, body)
		if err != nil {
			logger.Debug("Cart endpoint candidate failed", map[string]interface{}{
				"method": method,
				"path":   path,
				"error":  err.Error(),
			})
			continue
		}
		return remote, true
	}

	logger.Debug("All cart endpoint candidates failed, falling back to local cart", map[string]interface{}{
		"method": method,
	})
	return nil, false
}

func (c *Client) doRequest(ctx context.Context, method, url string, body []byte) (*Cart, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// A valid cart body must contain an items sequence.
	var parsed struct {
		Items     *[]Item   `json:"items"`
		UpdatedAt time.Time `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("malformed cart response: %w", err)
	}
	if parsed.Items == nil {
		return nil, fmt.Errorf("cart response missing items")
	}

	return &Cart{Items: *parsed.Items, UpdatedAt: parsed.UpdatedAt}, nil
}
