package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ovenlab/bakehouse-backend/pkg/kvstore"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
)

const (
	listPath   = "/api/v1/favorites"
	togglePath = "/api/v1/favorites/toggle"
	checkPath  = "/api/v1/favorites/check"

	maxPages = 50 // guards the pagination walk against a misbehaving server
)

// Config configures a favorites Client.
type Config struct {
	// BaseURL of the storefront API, without trailing slash.
	BaseURL string

	// Store persists the local set and the bearer token.
	Store kvstore.Store

	// StorageKey for the local favorites set. Defaults to DefaultStorageKey.
	StorageKey string

	// TokenKey for the persisted bearer token. Defaults to DefaultTokenKey.
	TokenKey string

	// HTTPClient overrides the default client (mainly for tests).
	HTTPClient *http.Client
}

// Client mediates favorite state between local persistence (anonymous users)
// and the remote API (authenticated users). Server-touching operations
// swallow transport and parse errors and degrade to an empty/failure-shaped
// result; callers cannot distinguish "not a favorite" from "could not
// determine".
type Client struct {
	baseURL    string
	store      kvstore.Store
	storageKey string
	tokenKey   string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	storageKey := cfg.StorageKey
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}
	tokenKey := cfg.TokenKey
	if tokenKey == "" {
		tokenKey = DefaultTokenKey
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		store:      cfg.Store,
		storageKey: storageKey,
		tokenKey:   tokenKey,
		httpClient: httpClient,
	}
}

// SyncResult reports what a sync attempt did.
type SyncResult struct {
	OK      bool
	Added   int // toggles that succeeded
	Failed  int // toggles that failed
	Skipped int // ids the server already had
}

// SyncLocalFavoritesToServer uploads local-only favorites to the server,
// one idempotent toggle per product id, sequentially. The local key is
// deleted once at least one add succeeded or there were zero failures;
// otherwise local data is kept for a future retry. Sync never removes
// server-side favorites.
func (c *Client) SyncLocalFavoritesToServer(ctx context.Context) SyncResult {
	if !c.IsLoggedIn() {
		return SyncResult{}
	}

	local := c.LocalFavorites()
	if len(local) == 0 {
		// Nothing to merge; clean up the key.
		c.store.Delete(c.storageKey)
		return SyncResult{OK: true}
	}

	serverIDs, err := c.fetchServerFavoriteIDs(ctx)
	if err != nil {
		logger.Warn("Failed to fetch server favorites for sync", map[string]interface{}{
			"error": err.Error(),
		})
		return SyncResult{}
	}

	result := SyncResult{OK: true}
	for _, id := range local {
		if serverIDs[id] {
			result.Skipped++
			continue
		}
		if _, err := c.toggle(ctx, id); err != nil {
			logger.Warn("Failed to sync favorite to server", map[string]interface{}{
				"product_id": id,
				"error":      err.Error(),
			})
			result.Failed++
			continue
		}
		result.Added++
	}

	if result.Added > 0 || result.Failed == 0 {
		c.store.Delete(c.storageKey)
	}

	logger.Info("Favorites sync finished", map[string]interface{}{
		"added":   result.Added,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	})
	return result
}

// ToggleFavoriteOnServer flips a favorite server-side and returns the new
// state. Without a token it fails closed and reports not-a-favorite; it
// never falls back to local storage.
func (c *Client) ToggleFavoriteOnServer(ctx context.Context, productID uint) bool {
	if !c.IsLoggedIn() {
		return false
	}

	isFavorite, err := c.toggle(ctx, productID)
	if err != nil {
		logger.Warn("Favorite toggle failed", map[string]interface{}{
			"product_id": productID,
			"error":      err.Error(),
		})
		return false
	}
	return isFavorite
}

// CheckFavoritesOnServer bulk-checks membership. Any failure yields an
// empty set, which callers must treat as unknown/false.
func (c *Client) CheckFavoritesOnServer(ctx context.Context, productIDs []uint) map[uint]bool {
	result := map[uint]bool{}
	if !c.IsLoggedIn() || len(productIDs) == 0 {
		return result
	}

	body, err := json.Marshal(map[string]interface{}{"product_ids": productIDs})
	if err != nil {
		return result
	}

	var resp struct {
		Favorites []uint `json:"favorites"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+checkPath, body, &resp); err != nil {
		logger.Debug("Favorites check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return result
	}

	for _, id := range resp.Favorites {
		result[id] = true
	}
	return result
}

func (c *Client) toggle(ctx context.Context, productID uint) (bool, error) {
	body, err := json.Marshal(map[string]uint{"product_id": productID})
	if err != nil {
		return false, err
	}

	var resp struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+togglePath, body, &resp); err != nil {
		return false, err
	}
	return resp.IsFavorite, nil
}

// favoriteRecord tolerates both server shapes: the product id directly on
// the record, or nested under a product object.
type favoriteRecord struct {
	ProductID *uint `json:"product_id"`
	Product   *struct {
		ID uint `json:"id"`
	} `json:"product"`
}

func (r favoriteRecord) id() (uint, bool) {
	if r.ProductID != nil {
		return *r.ProductID, true
	}
	if r.Product != nil {
		return r.Product.ID, true
	}
	return 0, false
}

// fetchServerFavoriteIDs flattens the paginated favorites listing into a
// product-id set. The response may be a bare array or a {data: [...]}
// envelope.
func (c *Client) fetchServerFavoriteIDs(ctx context.Context) (map[uint]bool, error) {
	ids := map[uint]bool{}

	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s%s?page=%d", c.baseURL, listPath, page)

		raw, err := c.doRaw(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		records, totalPages, err := parseFavoritesPage(raw)
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			if id, ok := record.id(); ok {
				ids[id] = true
			}
		}

		if totalPages == 0 || page >= totalPages || len(records) == 0 {
			break
		}
	}

	return ids, nil
}

// parseFavoritesPage returns the records on a page and the reported total
// page count (0 when the response is a bare, unpaginated array).
func parseFavoritesPage(raw []byte) ([]favoriteRecord, int, error) {
	var bare []favoriteRecord
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, 0, nil
	}

	var envelope struct {
		Data       []favoriteRecord `json:"data"`
		TotalPages int              `json:"total_pages"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, 0, fmt.Errorf("malformed favorites response: %w", err)
	}
	return envelope.Data, envelope.TotalPages, nil
}

func (c *Client) doJSON(ctx context.Context, method, url string, body []byte, out interface{}) error {
	raw, err := c.doRaw(ctx, method, url, body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) doRaw(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
