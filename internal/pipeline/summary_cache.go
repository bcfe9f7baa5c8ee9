package pipeline

import (
	"container/list"
	"crypto/sha256"
	"net/url"
	"strings"
	"sync"
	"time"
)

// summaryKey ties a summary to the exact text and prompt parameters it was
// produced from, so an edited page or another model misses the cache.
type summaryKey struct {
	url      string
	model    string
	words    int
	textHash [sha256.Size]byte
}

// newSummaryKey reports false when the request cannot be cached.
func newSummaryKey(rawURL string, model string, words int, text string) (summaryKey, bool) {
	canonical := canonicalCacheURL(rawURL)
	text = strings.TrimSpace(text)

	if canonical == "" || text == "" {
		return summaryKey{}, false
	}

	return summaryKey{
		url:      canonical,
		model:    model,
		words:    words,
		textHash: sha256.Sum256([]byte(text)),
	}, true
}

func canonicalCacheURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)

	return u.String()
}

type cachedSummary struct {
	key       summaryKey
	text      string
	expiresAt time.Time
}

// summaryCache is an LRU of summaries whose entries expire after ttl.
// A nil cache is valid and never hits.
type summaryCache struct {
	mu       sync.Mutex
	byKey    map[summaryKey]*list.Element
	lru      *list.List // front is most recently used
	capacity int
	ttl      time.Duration
}

func newSummaryCache(capacity int, ttl time.Duration) *summaryCache {
	if capacity <= 0 || ttl <= 0 {
		return nil
	}

	return &summaryCache{
		byKey:    make(map[summaryKey]*list.Element, capacity),
		lru:      list.New(),
		capacity: capacity,
		ttl:      ttl,
	}
}

func (c *summaryCache) get(key summaryKey, now time.Time) (string, bool) {
	if c == nil {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.byKey[key]
	if !ok {
		return "", false
	}

	entry := elem.Value.(*cachedSummary) //nolint:forcetypeassert // Only *cachedSummary is stored.
	if now.After(entry.expiresAt) {
		c.drop(elem)

		return "", false
	}

	c.lru.MoveToFront(elem)

	return entry.text, true
}

func (c *summaryCache) put(key summaryKey, text string, now time.Time) {
	if c == nil || text == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cachedSummary{key: key, text: text, expiresAt: now.Add(c.ttl)}

	if elem, ok := c.byKey[key]; ok {
		elem.Value = entry
		c.lru.MoveToFront(elem)
	} else {
		c.byKey[key] = c.lru.PushFront(entry)
	}

	c.trim(now)
}

// trim walks from the least recently used end, dropping expired entries and
// anything beyond capacity.
func (c *summaryCache) trim(now time.Time) {
	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()

		entry := elem.Value.(*cachedSummary) //nolint:forcetypeassert // Only *cachedSummary is stored.
		if len(c.byKey) > c.capacity || now.After(entry.expiresAt) {
			c.drop(elem)
		}

		elem = prev
	}
}

func (c *summaryCache) drop(elem *list.Element) {
	entry := c.lru.Remove(elem).(*cachedSummary) //nolint:forcetypeassert // Only *cachedSummary is stored.
	delete(c.byKey, entry.key)
}

func (c *summaryCache) size() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.byKey)
}
