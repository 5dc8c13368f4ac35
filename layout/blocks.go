package layout

import (
	"fmt"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

// Section is a page-builder block ready for rendering. Unknown block types
// are dropped.
type Section struct {
	Type       string
	Key        string
	Heading    string
	Subheading string
	Text       string
	ButtonText string
	Link       link.Resolved
	Markdown   string
}

// BuildSections resolves the blocks of a page in order.
func BuildSections(blocks []content.Block, opts ...Option) []Section {
	o := buildOptions(opts)
	sections := make([]Section, 0, len(blocks))
	for i, b := range blocks {
		switch b.Type {
		case content.BlockCallToAction:
			s := Section{
				Type:       b.Type,
				Key:        b.Key,
				Heading:    b.Heading,
				Text:       b.Text,
				ButtonText: b.ButtonText,
			}
			if b.ButtonText != "" {
				s.Link = o.resolve(b.Link, "page.callToAction", fmt.Sprintf("pageBuilder[%d]", i), b.ButtonText)
			}
			sections = append(sections, s)
		case content.BlockInfoSection:
			sections = append(sections, Section{
				Type:       b.Type,
				Key:        b.Key,
				Heading:    b.Heading,
				Subheading: b.Subheading,
				Markdown:   b.Content,
			})
		}
	}
	return sections
}
