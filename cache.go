package jwsite

import (
	"context"
	"sync"
	"time"

	"github.com/jwdigital/jwsite/content"
)

// ContentCache is an in-memory snapshot of published content with TTL.
// The previewDrafts perspective always reads through to the store.
type ContentCache struct {
	mu      sync.RWMutex
	snap    *snapshot
	fetched time.Time
	ttl     time.Duration
	store   *content.Store
}

type snapshot struct {
	settings *content.Settings
	pages    []content.Page
	posts    []content.Post
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *content.Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: s, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.snap != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *ContentCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	s, err := loadSnapshot(ctx, c.store, content.Published)
	if err != nil {
		return err
	}
	c.snap = s
	c.fetched = time.Now()
	return nil
}

func loadSnapshot(ctx context.Context, store *content.Store, p content.Perspective) (*snapshot, error) {
	settings, err := store.Settings(ctx, p)
	if err != nil {
		return nil, err
	}
	pages, err := store.ListPages(ctx, p)
	if err != nil {
		return nil, err
	}
	posts, err := store.ListPosts(ctx, p)
	if err != nil {
		return nil, err
	}
	return &snapshot{settings: settings, pages: pages, posts: posts}, nil
}

// ensureLoaded returns the cached snapshot after ensuring it is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ContentCache) ensureLoaded(ctx context.Context) (*snapshot, error) {
	c.mu.RLock()
	if c.valid() {
		s := c.snap
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	return c.snap, nil
}

// Settings returns the settings document for perspective p.
func (c *ContentCache) Settings(ctx context.Context, p content.Perspective) (*content.Settings, error) {
	if p == content.PreviewDrafts {
		return c.store.Settings(ctx, p)
	}
	s, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return s.settings, nil
}

// ListPages returns all pages sorted by slug.
func (c *ContentCache) ListPages(ctx context.Context, p content.Perspective) ([]content.Page, error) {
	if p == content.PreviewDrafts {
		return c.store.ListPages(ctx, p)
	}
	s, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return s.pages, nil
}

// ListPosts returns all posts, newest first.
func (c *ContentCache) ListPosts(ctx context.Context, p content.Perspective) ([]content.Post, error) {
	if p == content.PreviewDrafts {
		return c.store.ListPosts(ctx, p)
	}
	s, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	return s.posts, nil
}

// Page returns a single page by slug, or content.ErrNotFound.
func (c *ContentCache) Page(ctx context.Context, slug string, p content.Perspective) (content.Page, error) {
	if p == content.PreviewDrafts {
		return c.store.PageBySlug(ctx, slug, p)
	}
	pages, err := c.ListPages(ctx, p)
	if err != nil {
		return content.Page{}, err
	}
	return content.FindPage(pages, slug)
}

// Post returns a single post by slug, or content.ErrNotFound.
func (c *ContentCache) Post(ctx context.Context, slug string, p content.Perspective) (content.Post, error) {
	if p == content.PreviewDrafts {
		return c.store.PostBySlug(ctx, slug, p)
	}
	posts, err := c.ListPosts(ctx, p)
	if err != nil {
		return content.Post{}, err
	}
	return content.FindPost(posts, slug)
}
