package views

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/layout"
	"github.com/jwdigital/jwsite/link"
)

// Meta carries the <head> metadata of one page.
type Meta struct {
	Lang          string
	Title         string
	Description   string
	Canonical     string
	Robots        string
	OGType        string // "website" or "article"
	OGTitle       string
	OGDescription string
	OGImage       string
	OGImageAlt    string
	TwitterHandle string
	Keywords      []string
	JSONLD        []string // pre-encoded JSON documents
}

// Layout renders a full HTML document around body.
func Layout(meta Meta, chrome Chrome, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		lang := meta.Lang
		if lang == "" {
			lang = "en"
		}
		h.raw("<!DOCTYPE html>")
		attrs := []string{"lang", lang}
		for _, kv := range chrome.Theme.DataAttrs() {
			attrs = append(attrs, kv[0], kv[1])
		}
		h.open("html", attrs...)
		writeHead(h, meta)
		h.open("body")
		h.open("section", "class", "page")
		if chrome.Draft {
			writeDraftBanner(h)
		}
		h.component(ctx, Header(chrome.Header))
		h.open("main")
		h.component(ctx, body)
		h.close("main")
		h.component(ctx, Footer(chrome.Footer, chrome.Tagline))
		h.close("section")
		h.close("body")
		h.close("html")
	})
}

func writeHead(h *htmlWriter, meta Meta) {
	h.open("head")
	h.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
	h.element("title", meta.Title)
	metaTag := func(key, name, value string) {
		if value != "" {
			h.open("meta", key, name, "content", value)
		}
	}
	metaTag("name", "description", meta.Description)
	metaTag("name", "robots", meta.Robots)
	metaTag("name", "keywords", strings.Join(meta.Keywords, ", "))
	if meta.Canonical != "" {
		h.open("link", "rel", "canonical", "href", meta.Canonical)
	}
	metaTag("property", "og:type", meta.OGType)
	metaTag("property", "og:title", meta.OGTitle)
	metaTag("property", "og:description", meta.OGDescription)
	metaTag("property", "og:url", meta.Canonical)
	metaTag("property", "og:image", meta.OGImage)
	metaTag("property", "og:image:alt", meta.OGImageAlt)
	if meta.OGImage != "" {
		metaTag("name", "twitter:card", "summary_large_image")
	}
	metaTag("name", "twitter:site", meta.TwitterHandle)
	h.open("link", "rel", "stylesheet", "href", "/public/site.css")
	for _, ld := range meta.JSONLD {
		h.raw(`<script type="application/ld+json">`)
		h.raw(ld)
		h.raw(`</script>`)
	}
	h.close("head")
}

func writeDraftBanner(h *htmlWriter) {
	h.open("div", "class", "draft-banner", "role", "status")
	h.text("Draft mode is on. You are seeing unpublished changes. ")
	h.element("a", "Exit draft mode", "href", "/api/draft-mode/disable")
	h.close("div")
}

// Sections renders page-builder sections in order.
func Sections(sections []layout.Section) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		for _, s := range sections {
			switch s.Type {
			case content.BlockCallToAction:
				h.open("section", "class", "block block-cta", "id", s.Key)
				h.open("div", "class", "container")
				if s.Heading != "" {
					h.element("h2", s.Heading)
				}
				if s.Text != "" {
					h.element("p", s.Text)
				}
				if s.ButtonText != "" {
					h.anchor(s.Link, "button button-primary", func() { h.text(s.ButtonText) })
				}
				h.close("div")
				h.close("section")
			case content.BlockInfoSection:
				h.open("section", "class", "block block-info", "id", s.Key)
				h.open("div", "class", "container")
				if s.Heading != "" {
					h.element("h2", s.Heading)
				}
				if s.Subheading != "" {
					h.element("p", s.Subheading, "class", "block-subheading")
				}
				h.open("div", "class", "prose")
				h.component(ctx, Markdown(s.Markdown))
				h.close("div")
				h.close("div")
				h.close("section")
			}
		}
	})
}

// PageBody renders a page document.
func PageBody(page content.Page, sections []layout.Section) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.open("article", "class", "page-body")
		if len(sections) == 0 && page.Name != "" {
			h.open("div", "class", "container")
			h.element("h1", page.Name)
			h.close("div")
		}
		h.component(ctx, Sections(sections))
		h.close("article")
	})
}

// PostBody renders a single post.
func PostBody(post content.Post) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.open("article", "class", "container post")
		h.element("h1", post.Title)
		if post.Date != "" {
			h.element("time", post.Date, "datetime", post.Date)
		}
		if len(post.Tags) > 0 {
			h.open("ul", "class", "post-tags")
			for _, t := range post.Tags {
				h.element("li", t)
			}
			h.close("ul")
		}
		h.open("div", "class", "prose")
		h.component(ctx, Markdown(post.Body))
		h.close("div")
		h.close("article")
	})
}

// PostsIndex lists posts newest first.
func PostsIndex(posts []content.Post) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("div", "class", "container posts")
		h.element("h1", "Posts")
		if len(posts) == 0 {
			h.element("p", "No posts yet.")
		}
		h.open("ul", "class", "post-list")
		for _, p := range posts {
			h.open("li")
			h.anchor(link.Resolve(link.PostRef{Slug: p.Slug.String()}), "post-link", func() {
				h.element("h2", p.Title)
				if p.Excerpt != "" {
					h.element("p", p.Excerpt)
				}
			})
			if p.Date != "" {
				h.element("time", p.Date, "datetime", p.Date)
			}
			h.close("li")
		}
		h.close("ul")
		h.close("div")
	})
}

// NotFound is the body of the 404 page.
func NotFound() templ.Component {
	return message("Page not found", "The page you are looking for does not exist.")
}

// ServerError is the body of the 5xx page.
func ServerError() templ.Component {
	return message("Something went wrong", "Please try again in a moment.")
}

func message(title, text string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("div", "class", "container message")
		h.element("h1", title)
		h.element("p", text)
		h.element("a", "Back to home", "href", "/")
		h.close("div")
	})
}
