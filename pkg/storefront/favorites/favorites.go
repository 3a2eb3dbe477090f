// Package favorites implements the storefront favorites client. Anonymous
// visitors get a wishlist backed by local persistence; once a user logs in
// the server set becomes authoritative and the local set is merged into it
// one time, one way (local additions upload, server state is never pruned).
package favorites

import (
	"encoding/json"
	"sort"
)

const (
	// DefaultStorageKey holds the anonymous favorites set.
	DefaultStorageKey = "bakehouse_favorites"

	// DefaultTokenKey holds the persisted bearer token. Token presence is
	// the sole login signal; validity is only discovered when a server call
	// fails.
	DefaultTokenKey = "bakehouse_token"
)

// LocalFavorites returns the locally persisted product-id set. Malformed
// stored data reads as an empty set.
func (c *Client) LocalFavorites() []uint {
	raw, ok := c.store.Get(c.storageKey)
	if !ok {
		return []uint{}
	}

	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return []uint{}
	}

	// Deduplicate; order is irrelevant but sorted output keeps it stable.
	seen := make(map[uint]bool, len(ids))
	unique := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique
}

func (c *Client) saveLocalFavorites(ids []uint) {
	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	c.store.Set(c.storageKey, string(data))
}

// AddToLocalFavorites inserts id into the local set and reports whether the
// set changed.
func (c *Client) AddToLocalFavorites(id uint) bool {
	ids := c.LocalFavorites()
	for _, existing := range ids {
		if existing == id {
			return false
		}
	}
	c.saveLocalFavorites(append(ids, id))
	return true
}

// RemoveFromLocalFavorites deletes id from the local set and reports whether
// the set changed.
func (c *Client) RemoveFromLocalFavorites(id uint) bool {
	ids := c.LocalFavorites()
	kept := ids[:0]
	changed := false
	for _, existing := range ids {
		if existing == id {
			changed = true
			continue
		}
		kept = append(kept, existing)
	}
	if changed {
		c.saveLocalFavorites(kept)
	}
	return changed
}

// IsInLocalFavorites reports local membership.
func (c *Client) IsInLocalFavorites(id uint) bool {
	for _, existing := range c.LocalFavorites() {
		if existing == id {
			return true
		}
	}
	return false
}

// Token returns the persisted bearer token, if any.
func (c *Client) Token() string {
	token, _ := c.store.Get(c.tokenKey)
	return token
}

// IsLoggedIn reports whether a bearer token is persisted. No validity check
// is performed client-side.
func (c *Client) IsLoggedIn() bool {
	return c.Token() != ""
}
