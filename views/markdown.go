package views

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// md renders CommonMark plus GFM tables, strikethrough and autolinks. Raw
// HTML in content is dropped (goldmark's default without WithUnsafe).
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// RenderMarkdown converts source to HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Markdown returns a component that renders source as HTML.
func Markdown(source string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		out, err := RenderMarkdown(source)
		if err != nil {
			h.err = err
			return
		}
		h.raw(out)
	})
}
