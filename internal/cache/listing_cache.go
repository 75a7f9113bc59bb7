// internal/cache/listing_cache.go
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/unclebandit/outreach-backend/internal/model"
)

// Listing is one cached page of a user's campaign history.
type Listing struct {
	Campaigns  []model.Campaign
	Pagination map[string]int
}

type entry struct {
	listing   Listing
	expiresAt time.Time
}

// ListingCache keeps campaign history pages per user until they expire or the user's data changes.
type ListingCache struct {
	mu          sync.Mutex
	ttl         time.Duration
	now         func() time.Time
	entries     map[string]map[string]entry
	generations map[string]uint64
}

func NewListingCache(ttl time.Duration) *ListingCache {
	return &ListingCache{
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]map[string]entry),
		generations: make(map[string]uint64),
	}
}

func PageKey(page, pageSize int) string {
	return fmt.Sprintf("%d:%d", page, pageSize)
}

func (c *ListingCache) Get(userID, key string) (Listing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pages, ok := c.entries[userID]
	if !ok {
		return Listing{}, false
	}
	e, ok := pages[key]
	if !ok {
		return Listing{}, false
	}
	if c.ttl > 0 && c.now().After(e.expiresAt) {
		delete(pages, key)
		return Listing{}, false
	}
	return e.listing.clone(), true
}

// Token returns the user's current generation. Take it before reading the store
// and hand it to Set.
func (c *ListingCache) Token(userID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[userID]
}

// Set stores l unless userID was invalidated after token was taken.
func (c *ListingCache) Set(userID, key string, token uint64, l Listing) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[userID] != token {
		return
	}

	pages, ok := c.entries[userID]
	if !ok {
		pages = make(map[string]entry)
		c.entries[userID] = pages
	}
	pages[key] = entry{listing: l.clone(), expiresAt: c.now().Add(c.ttl)}
}

// Invalidate drops every cached page for userID.
func (c *ListingCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.generations[userID]++
}

func (l Listing) clone() Listing {
	out := Listing{}
	if l.Campaigns != nil {
		out.Campaigns = make([]model.Campaign, len(l.Campaigns))
		copy(out.Campaigns, l.Campaigns)
	}
	if l.Pagination != nil {
		out.Pagination = make(map[string]int, len(l.Pagination))
		for k, v := range l.Pagination {
			out.Pagination[k] = v
		}
	}
	return out
}
