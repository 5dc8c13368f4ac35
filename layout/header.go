package layout

import (
	"fmt"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

// Header is the rendered primary navigation.
type Header struct {
	SiteTitle string
	Items     []NavEntry
	CTA       *CTA
}

// NavEntry is a top-level navigation item. Entries with Children are
// dropdowns; Link is unused for them.
type NavEntry struct {
	Label    string
	Link     link.Resolved
	Children []NavChildEntry
}

// IsDropdown reports whether the entry renders as a dropdown trigger.
func (e NavEntry) IsDropdown() bool {
	return len(e.Children) > 0
}

type NavChildEntry struct {
	Label       string
	Description string
	Link        link.Resolved
}

// CTA is the call-to-action rendered after all items.
type CTA struct {
	Label   string
	Link    link.Resolved
	Variant string // content.VariantPrimary or content.VariantSecondary
}

// BuildHeader builds the navigation from nav, which may be nil. An empty
// siteTitle falls back to content.DefaultBrand.
func BuildHeader(nav *content.NavData, siteTitle string, opts ...Option) Header {
	o := buildOptions(opts)
	h := Header{SiteTitle: siteTitle}
	if h.SiteTitle == "" {
		h.SiteTitle = content.DefaultBrand
	}
	if nav == nil {
		return h
	}

	for i, item := range nav.Items {
		where := fmt.Sprintf("nav.items[%d]", i)
		if item.Kind == content.KindDropdown {
			if len(item.Children) == 0 {
				continue
			}
			entry := NavEntry{Label: item.Label, Children: make([]NavChildEntry, 0, len(item.Children))}
			for j, child := range item.Children {
				entry.Children = append(entry.Children, NavChildEntry{
					Label:       child.Label,
					Description: child.Description,
					Link:        o.resolve(child.Link, "nav.children", fmt.Sprintf("%s.children[%d]", where, j), child.Label),
				})
			}
			h.Items = append(h.Items, entry)
			continue
		}
		h.Items = append(h.Items, NavEntry{
			Label: item.Label,
			Link:  o.resolve(item.Link, "nav.items", where, item.Label),
		})
	}

	if cta := nav.CTA; cta != nil && cta.Label != "" {
		h.CTA = &CTA{
			Label:   cta.Label,
			Link:    o.resolve(cta.Link, "nav.cta", "nav.cta", cta.Label),
			Variant: ctaVariant(cta.Variant),
		}
	}
	return h
}

func ctaVariant(v string) string {
	if v == content.VariantSecondary {
		return content.VariantSecondary
	}
	return content.VariantPrimary
}
