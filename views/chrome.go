package views

import (
	"context"

	"github.com/a-h/templ"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/layout"
)

const chevron = `<svg class="nav-chevron" viewBox="0 0 20 20" fill="currentColor" aria-hidden="true"><path fill-rule="evenodd" d="M5.23 7.21a.75.75 0 0 1 1.06.02L10 10.94l3.71-3.71a.75.75 0 1 1 1.06 1.06l-4.24 4.24a.75.75 0 0 1-1.06 0L5.21 8.29a.75.75 0 0 1 .02-1.08Z" clip-rule="evenodd"/></svg>`

// Header renders the fixed primary navigation.
func Header(hd layout.Header) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("header", "class", "site-header")
		h.open("div", "class", "container site-header-inner")
		h.open("a", "class", "site-title", "href", "/")
		h.text(hd.SiteTitle)
		h.close("a")

		h.open("nav", "aria-label", "Primary")
		h.open("ul", "class", "nav-list")
		for _, item := range hd.Items {
			if item.IsDropdown() {
				writeDropdown(h, item)
				continue
			}
			h.open("li", "class", "nav-item")
			h.anchor(item.Link, "nav-link", func() { h.text(item.Label) })
			h.close("li")
		}
		if hd.CTA != nil {
			h.open("li", "class", "nav-cta")
			h.anchor(hd.CTA.Link, "button button-"+hd.CTA.Variant, func() {
				h.element("span", hd.CTA.Label)
			})
			h.close("li")
		}
		h.close("ul")
		h.close("nav")
		h.close("div")
		h.close("header")
	})
}

func writeDropdown(h *htmlWriter, item layout.NavEntry) {
	h.open("li", "class", "nav-item nav-dropdown")
	h.open("button", "type", "button", "class", "nav-trigger", "aria-haspopup", "menu")
	h.element("span", item.Label)
	h.raw(chevron)
	h.close("button")
	h.open("div", "class", "nav-panel")
	for _, child := range item.Children {
		h.anchor(child.Link, "nav-panel-link", func() {
			h.element("div", child.Label, "class", "nav-panel-label")
			if child.Description != "" {
				h.element("div", child.Description, "class", "nav-panel-description")
			}
		})
	}
	h.close("div")
	h.close("li")
}

// Footer renders the site footer. tagline may be empty.
func Footer(f layout.Footer, tagline string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.open("footer", "class", "site-footer")
		h.open("div", "class", "container footer-grid")

		h.open("div", "class", "footer-brand")
		h.element("h3", f.Brand)
		if tagline != "" {
			h.element("p", tagline, "class", "footer-tagline")
		}
		if len(f.Social) > 0 {
			h.open("div", "class", "footer-social")
			for _, s := range f.Social {
				h.anchor(s.Link, "footer-social-link", func() { h.text(s.Label) })
			}
			h.close("div")
		}
		h.close("div")

		h.open("div", "class", "footer-main")
		if len(f.Columns) > 0 {
			h.open("div", "class", "footer-columns")
			for _, col := range f.Columns {
				h.open("div", "class", "footer-column")
				h.element("h4", col.Title)
				h.open("ul")
				for _, l := range col.Links {
					h.open("li")
					h.anchor(l.Link, "footer-link", func() { h.text(l.Label) })
					h.close("li")
				}
				h.close("ul")
				h.close("div")
			}
			h.close("div")
		} else {
			h.element("div", f.Placeholder, "class", "footer-placeholder")
		}
		h.close("div")
		h.close("div")

		h.open("div", "class", "container footer-bottom")
		h.element("p", f.Copyright, "class", "footer-copyright")
		if len(f.Legal) > 0 {
			h.open("div", "class", "footer-legal")
			for _, l := range f.Legal {
				h.anchor(l.Link, "footer-legal-link", func() { h.text(l.Label) })
			}
			h.close("div")
		}
		h.close("div")
		h.close("footer")
	})
}

// Chrome is everything around the main content of a page.
type Chrome struct {
	Header  layout.Header
	Footer  layout.Footer
	Tagline string
	Theme   content.Theme
	Draft   bool
}
