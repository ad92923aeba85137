package datagrid

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"slices"
	"strconv"
	"sync"
	"time"
)

// ViewMemo memoizes computed views so repeated requests over the same records
// and inputs skip the filter and sort pass.
type ViewMemo interface {
	GetOrCompute(key string, compute func() (ComputedView, error)) (ComputedView, error)
}

// ComputedView is the cached product of a filter + sort pass.
type ComputedView struct {
	Rows     []Record
	Total    int
	Summary  SummaryRow
	Computed time.Time
}

// ViewCache is an in-memory TTL cache for computed views.
type ViewCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedView
	now     func() time.Time
}

type cachedView struct {
	view    ComputedView
	expires time.Time
}

// NewViewCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		ttl:     ttl,
		entries: make(map[string]cachedView),
		now:     time.Now,
	}
}

// GetOrCompute returns a cached entry or computes/stores a new one.
func (c *ViewCache) GetOrCompute(key string, compute func() (ComputedView, error)) (ComputedView, error) {
	if view, ok := c.get(key); ok {
		return view, nil
	}
	view, err := compute()
	if err != nil {
		return ComputedView{}, err
	}
	c.set(key, view)
	return view, nil
}

// Invalidate drops every cached entry.
func (c *ViewCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cachedView)
	c.mu.Unlock()
}

// Len reports the number of live entries.
func (c *ViewCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ViewCache) get(key string) (ComputedView, bool) {
	if c == nil || c.ttl <= 0 {
		return ComputedView{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return ComputedView{}, false
	}
	return entry.view, true
}

func (c *ViewCache) set(key string, view ComputedView) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedView{
		view:    view,
		expires: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

type noopMemo struct{}

func (noopMemo) GetOrCompute(_ string, compute func() (ComputedView, error)) (ComputedView, error) {
	return compute()
}

// viewKey returns a deterministic key for the inputs of a view, or "" when
// the params cannot be encoded. version identifies the fetched dataset.
func viewKey(code, locale string, state TableState, params map[string]any, version string) string {
	payload := map[string]any{
		"table":   code,
		"locale":  locale,
		"query":   state.Query,
		"sort":    state.Sort.Normalize(),
		"params":  params,
		"version": version,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// datasetVersion fingerprints the records in order, so any change to a
// source's rows yields a new cache key.
func datasetVersion(records []Record) string {
	h := fnv.New64a()
	keys := make([]string, 0, 8)
	for _, record := range records {
		keys = keys[:0]
		for key := range record {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			value := record[key]
			if t, ok := value.(*time.Time); ok && t != nil {
				value = *t
			}
			fmt.Fprintf(h, "%s=%T:%v\x1f", key, value, value)
		}
		h.Write([]byte{'\n'})
	}
	return strconv.FormatUint(h.Sum64(), 16) + ":" + strconv.Itoa(len(records))
}
