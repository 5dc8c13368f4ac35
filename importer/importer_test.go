package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newStore(t *testing.T) *content.Store {
	t.Helper()
	s, err := content.NewStore(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const settingsYAML = `
branding:
  siteTitle: Acme
nav:
  items:
    - label: About
      kind: link
      link:
        linkType: page
        page:
          slug: about
    - label: Docs
      kind: link
      link:
        linkType: href
        href: https://docs.acme.test
        openInNewTab: true
`

const aboutYAML = `
name: About us
seo:
  title: About
pageBuilder:
  - _key: a1
    _type: callToAction
    heading: Talk to us
    buttonText: Contact
    link:
      linkType: page
      page:
        slug: contact
`

const postMD = `---
title: Hello world
date: 2025-03-04
tags: [news, go]
excerpt: First post
---

# Hello

Body text.
`

func TestImportWritesDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.yaml", settingsYAML)
	writeFile(t, dir, "pages/about.yaml", aboutYAML)
	writeFile(t, dir, "posts/hello-world.md", postMD)
	store := newStore(t)
	ctx := context.Background()

	res, err := Import(ctx, store, dir)
	require.NoError(t, err)
	assert.Equal(t, Result{Settings: 1, Pages: 1, Posts: 1}, res)

	settings, err := store.Settings(ctx, content.Published)
	require.NoError(t, err)
	assert.Equal(t, "Acme", settings.SiteTitle())
	require.Len(t, settings.Nav.Items, 2)
	r, p := settings.Nav.Items[0].Link.Resolve()
	assert.Equal(t, link.ProblemNone, p)
	assert.Equal(t, "/about", r.Href)
	r, _ = settings.Nav.Items[1].Link.Resolve()
	assert.Equal(t, "_blank", r.Target)

	page, err := store.PageBySlug(ctx, "about", content.Published)
	require.NoError(t, err)
	assert.Equal(t, "About us", page.Name)
	assert.NotEmpty(t, page.ID)
	require.Len(t, page.Blocks, 1)
	assert.Equal(t, content.BlockCallToAction, page.Blocks[0].Type)

	post, err := store.PostBySlug(ctx, "hello-world", content.Published)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", post.Title)
	assert.Equal(t, "2025-03-04", post.Date)
	assert.Equal(t, []string{"news", "go"}, post.Tags)
	assert.Contains(t, post.Body, "# Hello")
	assert.NotContains(t, post.Body, "title:")
}

func TestImportIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pages/about.yaml", aboutYAML)
	store := newStore(t)
	ctx := context.Background()

	_, err := Import(ctx, store, dir)
	require.NoError(t, err)
	first, err := store.IDs(ctx)
	require.NoError(t, err)

	res, err := Import(ctx, store, dir)
	require.NoError(t, err)
	assert.Zero(t, res.Removed)
	second, err := store.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestImportDrafts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pages/about.yaml", "_id: about\nname: About\n")
	writeFile(t, dir, "pages/about-draft.yaml", "_id: about\ndraft: true\nslug: about\nname: About (draft)\n")
	store := newStore(t)
	ctx := context.Background()

	res, err := Import(ctx, store, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Drafts)

	published, err := store.PageBySlug(ctx, "about", content.Published)
	require.NoError(t, err)
	assert.Equal(t, "About", published.Name)

	preview, err := store.PageBySlug(ctx, "about", content.PreviewDrafts)
	require.NoError(t, err)
	assert.Equal(t, "About (draft)", preview.Name)
}

func TestImportRemovesDeletedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "posts/a.md", "---\ntitle: A\n---\nbody")
	writeFile(t, dir, "posts/b.md", "---\ntitle: B\n---\nbody")
	store := newStore(t)
	ctx := context.Background()

	_, err := Import(ctx, store, dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "posts", "b.md")))

	res, err := Import(ctx, store, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)
	_, err = store.PostBySlug(ctx, "b", content.Published)
	assert.ErrorIs(t, err, content.ErrNotFound)
}

func TestImportRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"bad yaml", map[string]string{"settings.yaml": "nav: [unclosed"}},
		{"bad post date", map[string]string{"posts/x.md": "---\ntitle: X\ndate: March\n---\n"}},
		{"duplicate ids", map[string]string{
			"pages/a.yaml": "_id: same\nname: A\n",
			"pages/b.yaml": "_id: same\nname: B\n",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tt.files {
				writeFile(t, dir, name, body)
			}
			_, err := Import(context.Background(), newStore(t), dir)
			assert.Error(t, err)
		})
	}
}

func TestLoadEmptyDir(t *testing.T) {
	docs, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestWatchDebouncesChanges(t *testing.T) {
	defer goleak.VerifyNone(t)
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, 50*time.Millisecond, func() { calls <- struct{}{} })
	}()
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		writeFile(t, dir, "settings.yaml", "branding:\n  siteTitle: v"+string(rune('0'+i))+"\n")
	}

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("watch callback did not fire")
	}
	select {
	case <-calls:
		t.Fatal("burst of writes fired more than once")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}
