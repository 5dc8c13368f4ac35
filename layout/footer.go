package layout

import (
	"fmt"
	"time"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

// FooterPlaceholder replaces the column grid when no columns exist.
const FooterPlaceholder = "Add footer columns in Settings → Footer."

// Footer is the rendered site footer.
type Footer struct {
	Brand       string
	Columns     []FooterColumn
	Placeholder string // set only when Columns is empty
	Social      []LinkEntry
	Legal       []LinkEntry
	Copyright   string
}

type FooterColumn struct {
	Title string
	Links []LinkEntry
}

// BuildFooter builds the footer from footer, which may be nil. now supplies
// the year for the default copyright line.
func BuildFooter(footer *content.FooterData, brand string, now time.Time, opts ...Option) Footer {
	o := buildOptions(opts)
	if brand == "" {
		brand = content.DefaultBrand
	}
	f := Footer{Brand: brand}
	if footer == nil {
		footer = &content.FooterData{}
	}

	for i, col := range footer.Columns {
		column := FooterColumn{Title: col.Title, Links: make([]LinkEntry, 0, len(col.Links))}
		for j, l := range col.Links {
			where := fmt.Sprintf("footer.columns[%d].links[%d]", i, j)
			column.Links = append(column.Links, LinkEntry{
				Label: l.Label,
				Link:  o.resolve(l.Link, "footer.columns", where, l.Label),
			})
		}
		f.Columns = append(f.Columns, column)
	}
	if len(f.Columns) == 0 {
		f.Placeholder = FooterPlaceholder
	}

	for _, s := range footer.Social {
		f.Social = append(f.Social, LinkEntry{
			Label: s.Platform,
			Link:  socialLink(s.URL),
		})
	}

	for i, l := range footer.Legal {
		f.Legal = append(f.Legal, LinkEntry{
			Label: l.Label,
			Link:  o.resolve(l.Link, "footer.legal", fmt.Sprintf("footer.legal[%d]", i), l.Label),
		})
	}

	f.Copyright = footer.Copyright
	if f.Copyright == "" {
		f.Copyright = DefaultCopyright(brand, now)
	}
	return f
}

// DefaultCopyright returns "© {year} {brand}. All rights reserved."
func DefaultCopyright(brand string, now time.Time) string {
	return fmt.Sprintf("© %d %s. All rights reserved.", now.Year(), brand)
}

// Social URLs bypass the resolver: they are always external and always
// open in a new tab.
func socialLink(url string) link.Resolved {
	return link.Resolved{
		Href:     url,
		External: true,
		Target:   "_blank",
		Rel:      "noopener noreferrer",
	}
}
