// Package cart implements the storefront cart client: mutations are tried
// against the remote API first and fall back to a locally persisted cart, so
// the shop keeps working when the API is unreachable. The local copy is the
// source of truth for rendering; whenever the remote answers, its cart
// replaces the local one wholesale.
package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ovenlab/bakehouse-backend/pkg/kvstore"
)

const (
	MinQuantity = 1
	MaxQuantity = 999

	// DefaultStorageKey is the persisted-cart key used when none is configured.
	DefaultStorageKey = "bakehouse_cart"
)

// Item is one cart line. Attributes are free-form display data (name, image,
// unit price at add time) passed through unchanged.
type Item struct {
	LineID     string                 `json:"line_id"`
	ProductID  *uint                  `json:"product_id,omitempty"`
	VariantID  *uint                  `json:"variant_id,omitempty"`
	Quantity   int                    `json:"quantity"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Cart is the persisted cart snapshot.
type Cart struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Source tells the caller which side served a mutation.
type Source string

const (
	SourceAPI   Source = "api"
	SourceLocal Source = "local"
)

// Result is returned by every cart mutation. OK is always true: remote
// failures degrade to the local fallback instead of surfacing as errors.
type Result struct {
	OK     bool   `json:"ok"`
	Source Source `json:"source"`
	Cart   Cart   `json:"cart"`
}

// DeriveLineID builds the stable line id for a product/variant pair. Lines
// with neither id are custom entries and get a random id, so two custom
// entries never merge.
func DeriveLineID(productID, variantID *uint) string {
	switch {
	case productID != nil && variantID != nil:
		return fmt.Sprintf("p%d-v%d", *productID, *variantID)
	case productID != nil:
		return fmt.Sprintf("p%d", *productID)
	case variantID != nil:
		return fmt.Sprintf("v%d", *variantID)
	default:
		return uuid.NewString()
	}
}

// ClampQuantity bounds a quantity to [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// loadCart reads the persisted cart. Missing or malformed data yields an
// empty cart, never an error.
func loadCart(store kvstore.Store, key string) Cart {
	raw, ok := store.Get(key)
	if !ok {
		return Cart{Items: []Item{}}
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cart{Items: []Item{}}
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c
}
