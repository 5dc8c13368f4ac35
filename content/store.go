package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested document does not exist in the
// requested perspective.
var ErrNotFound = errors.New("content: not found")

// Perspective selects whether unpublished draft edits are visible.
type Perspective string

const (
	Published     Perspective = "published"
	PreviewDrafts Perspective = "previewDrafts"
)

// Query names a fetch. It shows up in logs and cache keys.
type Query string

const (
	QuerySettings Query = "settings"
	QueryPage     Query = "page"
	QueryPost     Query = "post"
	QueryPages    Query = "pages"
	QueryPosts    Query = "posts"
)

// Document types.
const (
	TypeSettings = "settings"
	TypePage     = "page"
	TypePost     = "post"
)

// DraftPrefix marks a document id as the draft of the id that follows it.
const DraftPrefix = "drafts."

// DraftID returns the draft id for a published id.
func DraftID(id string) string {
	return DraftPrefix + BaseID(id)
}

// BaseID strips the draft prefix.
func BaseID(id string) string {
	return strings.TrimPrefix(id, DraftPrefix)
}

// IsDraft reports whether id names a draft.
func IsDraft(id string) bool {
	return strings.HasPrefix(id, DraftPrefix)
}

// Document is a stored JSON body with its routing keys.
type Document struct {
	ID        string
	Type      string
	Slug      string
	Body      json.RawMessage
	UpdatedAt time.Time
}

// Store wraps a SQLite database of JSON documents.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open content db: %w", err)
	}
	// WAL lets the importer write while requests read; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure content db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    doc_type TEXT NOT NULL,
    slug TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_type ON documents(doc_type);
`)
	return err
}

// Put upserts a document.
func (s *Store) Put(ctx context.Context, doc Document) error {
	if doc.ID == "" || doc.Type == "" {
		return fmt.Errorf("content: document needs an id and a type")
	}
	if !json.Valid(doc.Body) {
		return fmt.Errorf("content: document %s has an invalid JSON body", doc.ID)
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, doc_type, slug, body, updated_at) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Type, doc.Slug, string(doc.Body), doc.UpdatedAt.Format(time.RFC3339))
	return err
}

// Delete removes a document by id. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

// IDs returns the id of every stored document, drafts included.
func (s *Store) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// documents returns every document of docType visible in perspective p, in
// id order. In PreviewDrafts a draft replaces its published counterpart.
func (s *Store) documents(ctx context.Context, docType string, p Perspective) ([]Document, error) {
	query := `SELECT id, doc_type, slug, body, updated_at FROM documents WHERE doc_type = ?`
	if p != PreviewDrafts {
		query += ` AND id NOT LIKE 'drafts.%'`
	}
	query += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, docType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	index := make(map[string]int)
	for rows.Next() {
		var d Document
		var body, updated string
		if err := rows.Scan(&d.ID, &d.Type, &d.Slug, &body, &updated); err != nil {
			return nil, err
		}
		d.Body = json.RawMessage(body)
		d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)

		base := BaseID(d.ID)
		if i, ok := index[base]; ok {
			if IsDraft(d.ID) {
				docs[i] = d
			}
			continue
		}
		index[base] = len(docs)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Settings returns the settings document. A site without settings yields
// an empty Settings and no error.
func (s *Store) Settings(ctx context.Context, p Perspective) (*Settings, error) {
	docs, err := s.documents(ctx, TypeSettings, p)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", QuerySettings, err)
	}
	settings := &Settings{}
	if len(docs) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(docs[0].Body, settings); err != nil {
		return nil, fmt.Errorf("decode settings %s: %w", docs[0].ID, err)
	}
	return settings, nil
}

// ListPages returns all pages ordered by slug.
func (s *Store) ListPages(ctx context.Context, p Perspective) ([]Page, error) {
	docs, err := s.documents(ctx, TypePage, p)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", QueryPages, err)
	}
	pages := make([]Page, 0, len(docs))
	for _, d := range docs {
		var page Page
		if err := json.Unmarshal(d.Body, &page); err != nil {
			return nil, fmt.Errorf("decode page %s: %w", d.ID, err)
		}
		if page.ID == "" {
			page.ID = BaseID(d.ID)
		}
		pages = append(pages, page)
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Slug.String() < pages[j].Slug.String()
	})
	return pages, nil
}

// PageBySlug returns the page with the given slug.
func (s *Store) PageBySlug(ctx context.Context, slug string, p Perspective) (Page, error) {
	pages, err := s.ListPages(ctx, p)
	if err == nil {
		var found Page
		if found, err = FindPage(pages, slug); err == nil {
			return found, nil
		}
	}
	return Page{}, fmt.Errorf("fetch %s %q: %w", QueryPage, slug, err)
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts(ctx context.Context, p Perspective) ([]Post, error) {
	docs, err := s.documents(ctx, TypePost, p)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", QueryPosts, err)
	}
	posts := make([]Post, 0, len(docs))
	for _, d := range docs {
		var post Post
		if err := json.Unmarshal(d.Body, &post); err != nil {
			return nil, fmt.Errorf("decode post %s: %w", d.ID, err)
		}
		if post.ID == "" {
			post.ID = BaseID(d.ID)
		}
		posts = append(posts, post)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return posts[i].Title < posts[j].Title
	})
	return posts, nil
}

// PostBySlug returns the post with the given slug.
func (s *Store) PostBySlug(ctx context.Context, slug string, p Perspective) (Post, error) {
	posts, err := s.ListPosts(ctx, p)
	if err == nil {
		var found Post
		if found, err = FindPost(posts, slug); err == nil {
			return found, nil
		}
	}
	return Post{}, fmt.Errorf("fetch %s %q: %w", QueryPost, slug, err)
}

// FindPage picks a page by slug from an already fetched list.
func FindPage(pages []Page, slug string) (Page, error) {
	for _, page := range pages {
		if page.Slug.Valid && page.Slug.Value == slug {
			return page, nil
		}
	}
	return Page{}, ErrNotFound
}

// FindPost picks a post by slug from an already fetched list.
func FindPost(posts []Post, slug string) (Post, error) {
	for _, post := range posts {
		if post.Slug.Valid && post.Slug.Value == slug {
			return post, nil
		}
	}
	return Post{}, ErrNotFound
}
