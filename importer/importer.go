// Package importer loads site content from a directory into the document
// store. The layout is:
//
//	settings.yaml       the settings singleton
//	pages/*.yaml        page-builder pages
//	posts/*.md          posts: YAML frontmatter and a markdown body
//
// Any document may set `draft: true` to be stored as an unpublished draft
// that only the previewDrafts perspective sees.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

const settingsID = "settings"

// Result counts what one Import wrote and removed.
type Result struct {
	Settings int
	Pages    int
	Posts    int
	Drafts   int
	Removed  int
}

// Import writes every document under dir to store and removes stored
// documents that no longer have a source file.
func Import(ctx context.Context, store *content.Store, dir string) (Result, error) {
	var res Result
	docs, err := Load(dir)
	if err != nil {
		return res, err
	}

	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if seen[doc.ID] {
			return res, fmt.Errorf("import: duplicate document id %q", doc.ID)
		}
		seen[doc.ID] = true
		if err := store.Put(ctx, doc); err != nil {
			return res, fmt.Errorf("import: put %s: %w", doc.ID, err)
		}
		switch doc.Type {
		case content.TypeSettings:
			res.Settings++
		case content.TypePage:
			res.Pages++
		case content.TypePost:
			res.Posts++
		}
		if content.IsDraft(doc.ID) {
			res.Drafts++
		}
	}

	ids, err := store.IDs(ctx)
	if err != nil {
		return res, fmt.Errorf("import: list ids: %w", err)
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if err := store.Delete(ctx, id); err != nil {
			return res, fmt.Errorf("import: delete %s: %w", id, err)
		}
		res.Removed++
	}
	return res, nil
}

// Load reads dir into documents without touching a store. Missing
// sections are skipped; a directory with no content yields no documents.
func Load(dir string) ([]content.Document, error) {
	var docs []content.Document

	settingsPath := filepath.Join(dir, "settings.yaml")
	if _, err := os.Stat(settingsPath); err == nil {
		doc, err := loadSettings(settingsPath)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	pages, err := filepath.Glob(filepath.Join(dir, "pages", "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(pages)
	for _, path := range pages {
		doc, err := loadPage(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	posts, err := filepath.Glob(filepath.Join(dir, "posts", "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(posts)
	for _, path := range posts {
		doc, err := loadPost(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func loadSettings(path string) (content.Document, error) {
	fields, err := readYAML(path)
	if err != nil {
		return content.Document{}, err
	}
	id, draft := takeMeta(fields, settingsID)
	body, err := encode(fields, &content.Settings{})
	if err != nil {
		return content.Document{}, fmt.Errorf("import %s: %w", path, err)
	}
	return newDocument(id, draft, content.TypeSettings, "", body), nil
}

func loadPage(path string) (content.Document, error) {
	fields, err := readYAML(path)
	if err != nil {
		return content.Document{}, err
	}
	if _, ok := fields["slug"]; !ok {
		fields["slug"] = fileSlug(path)
	}
	id, draft := takeMeta(fields, "")
	var page content.Page
	body, err := encode(fields, &page)
	if err != nil {
		return content.Document{}, fmt.Errorf("import %s: %w", path, err)
	}
	slug := page.Slug.String()
	if id == "" {
		id = stableID(content.TypePage, slug)
	}
	return newDocument(id, draft, content.TypePage, slug, body), nil
}

// postFrontmatter is the YAML header of a post file.
type postFrontmatter struct {
	ID      string   `yaml:"_id"`
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Date    string   `yaml:"date"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
	Draft   bool     `yaml:"draft"`
}

func loadPost(path string) (content.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return content.Document{}, err
	}
	var fm postFrontmatter
	rest, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return content.Document{}, fmt.Errorf("import %s: frontmatter: %w", path, err)
	}
	slug := fm.Slug
	if slug == "" {
		slug = fileSlug(path)
	}
	if fm.Date != "" {
		if _, err := time.Parse("2006-01-02", fm.Date); err != nil {
			return content.Document{}, fmt.Errorf("import %s: date must be YYYY-MM-DD", path)
		}
	}
	id := fm.ID
	if id == "" {
		id = stableID(content.TypePost, slug)
	}
	post := content.Post{
		ID:      id,
		Title:   fm.Title,
		Slug:    link.NewSlug(slug),
		Excerpt: fm.Excerpt,
		Date:    fm.Date,
		Tags:    fm.Tags,
		Body:    strings.TrimSpace(string(rest)),
	}
	body, err := json.Marshal(post)
	if err != nil {
		return content.Document{}, fmt.Errorf("import %s: %w", path, err)
	}
	return newDocument(id, fm.Draft, content.TypePost, slug, body), nil
}

func readYAML(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return fields, nil
}

// takeMeta removes _id and draft from fields. fallback is used when the
// file has no _id.
func takeMeta(fields map[string]any, fallback string) (id string, draft bool) {
	id, _ = fields["_id"].(string)
	draft, _ = fields["draft"].(bool)
	delete(fields, "_id")
	delete(fields, "draft")
	if id == "" {
		id = fallback
	}
	return id, draft
}

// encode converts YAML fields to JSON and checks they decode into target.
func encode(fields map[string]any, target any) (json.RawMessage, error) {
	body, err := json.Marshal(normalize(fields))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return nil, err
	}
	return body, nil
}

// normalize rewrites YAML timestamps as dates so they survive JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	case time.Time:
		if t.Equal(t.Truncate(24 * time.Hour)) {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	default:
		return v
	}
}

func newDocument(id string, draft bool, docType, slug string, body json.RawMessage) content.Document {
	id = content.BaseID(id)
	if draft {
		id = content.DraftID(id)
	}
	return content.Document{ID: id, Type: docType, Slug: slug, Body: body}
}

// stableID derives a UUID from the document type and slug so re-imports
// keep the same id.
func stableID(docType, slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docType+":"+slug)).String()
}

func fileSlug(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
