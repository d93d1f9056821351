package pubmark

import (
	"database/sql"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// index is one immutable load of the store.
type index struct {
	posts       []BlogPost
	tags        []string
	byPermalink map[string]int
	byTag       map[string][]BlogPost
	loadedAt    time.Time
}

func newIndex(posts []BlogPost, tags []string) *index {
	if posts == nil {
		posts = []BlogPost{}
	}
	idx := &index{
		posts:       posts,
		tags:        tags,
		byPermalink: make(map[string]int, len(posts)),
		byTag:       make(map[string][]BlogPost),
		loadedAt:    time.Now(),
	}
	for i, p := range posts {
		idx.byPermalink[p.Permalink] = i
		seen := make(map[string]bool, len(p.Tags))
		for _, t := range p.Tags {
			t = normalizeTag(t)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			idx.byTag[t] = append(idx.byTag[t], p)
		}
	}
	return idx
}

// PostCache keeps the indexed posts in memory and reloads them from the
// Store once ttl has passed or after Invalidate.
type PostCache struct {
	store *Store
	ttl   time.Duration

	mu  sync.RWMutex
	idx *index
}

func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

// Invalidate drops the loaded index.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.idx = nil
	c.mu.Unlock()
}

func (c *PostCache) fresh(idx *index) bool {
	return idx != nil && time.Since(idx.loadedAt) < c.ttl
}

// current returns a fresh index, reloading under the write lock when the
// read path finds it stale.
func (c *PostCache) current() (*index, error) {
	c.mu.RLock()
	idx := c.idx
	c.mu.RUnlock()
	if c.fresh(idx) {
		return idx, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh(c.idx) {
		return c.idx, nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return nil, err
	}
	tags, err := c.store.ListTags()
	if err != nil {
		return nil, err
	}
	c.idx = newIndex(posts, tags)
	return c.idx, nil
}

// ListPosts returns posts newest first, restricted to tag when it is set.
func (c *PostCache) ListPosts(tag string) ([]BlogPost, error) {
	idx, err := c.current()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return idx.posts, nil
	}
	return idx.byTag[normalizeTag(tag)], nil
}

func (c *PostCache) ListTags() ([]string, error) {
	idx, err := c.current()
	if err != nil {
		return nil, err
	}
	return idx.tags, nil
}

// GetPost looks a post up by its normalized permalink.
func (c *PostCache) GetPost(permalink string) (BlogPost, error) {
	idx, err := c.current()
	if err != nil {
		return BlogPost{}, err
	}
	i, ok := idx.byPermalink[permalink]
	if !ok || permalink == "" {
		return BlogPost{}, ErrNotFound
	}
	return idx.posts[i], nil
}

func findPost(posts []BlogPost, permalink string) (BlogPost, bool) {
	if permalink == "" {
		return BlogPost{}, false
	}
	for _, p := range posts {
		if p.Permalink == permalink {
			return p, true
		}
	}
	return BlogPost{}, false
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
