package inkwell

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okvist/inkwell/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("inkwell: post not found")

// ContentCache is an in-memory cache of loaded posts and categories with TTL.
// Posts are reloaded from the content directory when the TTL expires or the
// cache is invalidated.
type ContentCache struct {
	mu         sync.RWMutex
	posts      []Post
	categories []string
	fetched    time.Time
	ttl        time.Duration

	dir    string
	render content.RenderFunc

	watcher *fsnotify.Watcher
}

// NewContentCache creates a ContentCache over the given content directory.
func NewContentCache(dir string, render content.RenderFunc, ttl time.Duration) *ContentCache {
	return &ContentCache{dir: dir, render: render, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *ContentCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := content.LoadDir(c.dir, c.render)
	if err != nil {
		return err
	}
	c.posts = posts
	c.categories = collectCategories(posts)
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and categories after ensuring the cache is
// fresh. It tries a read lock first; only takes a write lock if a reload is
// needed.
func (c *ContentCache) ensureLoaded() ([]Post, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, categories := c.posts, c.categories
		c.mu.RUnlock()
		return posts, categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.categories, nil
}

// ListPosts returns posts sorted by date descending, optionally filtered by
// category.
func (c *ContentCache) ListPosts(category string) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if category == "" {
		return posts, nil
	}
	normalized := normalizeCategory(category)
	var filtered []Post
	for _, p := range posts {
		for _, cat := range p.Categories {
			if normalizeCategory(cat) == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

// ListCategories returns all unique categories across posts, sorted.
func (c *ContentCache) ListCategories() ([]string, error) {
	_, categories, err := c.ensureLoaded()
	return categories, err
}

// GetPost returns a single post by slug from the cache.
func (c *ContentCache) GetPost(slug string) (Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Watch starts an fsnotify watcher on the content directory that invalidates
// the cache whenever a file changes. The returned stop function closes the
// watcher.
func (c *ContentCache) Watch() (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	go func() {
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				c.Invalidate()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() { watcher.Close() }, nil
}

func collectCategories(posts []Post) []string {
	set := make(map[string]struct{})
	for _, p := range posts {
		for _, cat := range p.Categories {
			set[normalizeCategory(cat)] = struct{}{}
		}
	}
	var result []string
	for cat := range set {
		result = append(result, cat)
	}
	sort.Strings(result)
	return result
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
