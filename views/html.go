// Package views renders layout structures and content into HTML as templ
// components.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/jwdigital/jwsite/link"
)

// htmlWriter writes markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// open writes a start tag. attrs alternate name, value; empty values are
// skipped.
func (h *htmlWriter) open(tag string, attrs ...string) {
	h.raw("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		if attrs[i+1] != "" {
			h.attr(attrs[i], attrs[i+1])
		}
	}
	h.raw(">")
}

func (h *htmlWriter) close(tag string) {
	h.raw("</" + tag + ">")
}

// element writes <tag attrs>text</tag>.
func (h *htmlWriter) element(tag, text string, attrs ...string) {
	h.open(tag, attrs...)
	h.text(text)
	h.close(tag)
}

// anchor writes a link to r. Only external links carry target and rel.
func (h *htmlWriter) anchor(r link.Resolved, class string, inner func()) {
	href := string(templ.URL(r.Href))
	if r.External {
		h.open("a", "href", href, "class", class, "target", r.Target, "rel", r.Rel)
	} else {
		h.open("a", "href", href, "class", class)
	}
	inner()
	h.close("a")
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// component builds a templ component from a writer function.
func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}
