package helius

import (
	"sync"

	"sandwatch/types"
)

type cacheEntry struct {
	signature string
	detail    *types.TransactionDetail
}

// DetailCache is a bounded ring of fetched transaction details keyed by
// signature. Details are immutable once fetched, so repeated detections of
// an active token can reuse them.
type DetailCache struct {
	mu      sync.RWMutex
	size    int
	entries []cacheEntry
	index   int
	bySig   map[string]*types.TransactionDetail
}

func NewDetailCache(size int) *DetailCache {
	if size <= 0 {
		size = DefaultDetailCacheSize
	}
	return &DetailCache{
		size:    size,
		entries: make([]cacheEntry, 0, size),
		bySig:   make(map[string]*types.TransactionDetail, size),
	}
}

func (c *DetailCache) Put(signature string, detail *types.TransactionDetail) {
	if signature == "" || detail == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bySig[signature]; exists {
		return
	}
	if len(c.entries) < c.size {
		c.entries = append(c.entries, cacheEntry{signature: signature, detail: detail})
	} else {
		old := c.entries[c.index]
		delete(c.bySig, old.signature)
		c.entries[c.index] = cacheEntry{signature: signature, detail: detail}
		c.index = (c.index + 1) % c.size
	}
	c.bySig[signature] = detail
}

func (c *DetailCache) Get(signature string) *types.TransactionDetail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bySig[signature]
}

func (c *DetailCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bySig)
}

func (c *DetailCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make([]cacheEntry, 0, c.size)
	c.bySig = make(map[string]*types.TransactionDetail, c.size)
	c.index = 0
}
