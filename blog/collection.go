package blog

import (
	"sort"
	"sync"
	"time"
)

// MetadataSource produces the full, date-sorted metadata collection. An error
// means the collection could not be enumerated at all.
type MetadataSource interface {
	LoadAllMetadata() ([]Metadata, error)
}

// Collection memoizes the metadata collection and its tag set. With a zero
// ttl the first load is kept for the life of the process; otherwise entries
// older than ttl are reloaded on the next read. Returned slices are shared and
// must not be modified.
type Collection struct {
	mu         sync.RWMutex
	source     MetadataSource
	ttl        time.Duration
	posts      []Metadata
	tags       []string
	fetched    time.Time
	generation uint64
	now        func() time.Time
}

// NewCollection creates a Collection backed by src.
func NewCollection(src MetadataSource, ttl time.Duration) *Collection {
	return &Collection{source: src, ttl: ttl, now: time.Now}
}

func (c *Collection) valid() bool {
	if c.posts == nil {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *Collection) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.tags = nil
	c.mu.Unlock()
}

// load refreshes the cache. A failed load is not memoized: the previous
// posts, if any, keep being served and the next read tries again.
func (c *Collection) load() {
	if c.valid() {
		return
	}
	posts, err := c.source.LoadAllMetadata()
	if err != nil {
		return
	}
	if posts == nil {
		posts = []Metadata{}
	}
	c.posts = posts
	c.tags = collectTags(posts)
	c.fetched = c.now()
	c.generation++
}

// snapshot returns the cached posts, tags and generation after ensuring the
// cache is fresh. It tries a read lock first; only takes a write lock if a
// reload is needed.
func (c *Collection) snapshot() ([]Metadata, []string, uint64) {
	c.mu.RLock()
	if c.valid() {
		posts, tags, gen := c.posts, c.tags, c.generation
		c.mu.RUnlock()
		return posts, tags, gen
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	if c.posts == nil {
		return []Metadata{}, []string{}, c.generation
	}
	return c.posts, c.tags, c.generation
}

// All returns every post, newest first.
func (c *Collection) All() []Metadata {
	posts, _, _ := c.snapshot()
	return posts
}

// Tags returns the distinct tags across all posts, case preserved and sorted.
func (c *Collection) Tags() []string {
	_, tags, _ := c.snapshot()
	return tags
}

// Generation identifies the currently cached load. It changes every time the
// collection is reloaded.
func (c *Collection) Generation() uint64 {
	_, _, gen := c.snapshot()
	return gen
}

// Featured returns the posts flagged as featured, newest first.
func (c *Collection) Featured() []Metadata {
	var featured []Metadata
	for _, p := range c.All() {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

// Get returns the metadata for slug.
func (c *Collection) Get(slug string) (Metadata, bool) {
	for _, p := range c.All() {
		if p.Slug == slug {
			return p, true
		}
	}
	return Metadata{}, false
}

// Related returns up to limit posts sharing tags with slug.
func (c *Collection) Related(slug string, limit int) []Metadata {
	return RelatedTo(c.All(), slug, limit)
}

// collectTags dedupes tags by exact spelling and sorts them.
func collectTags(posts []Metadata) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range posts {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}
