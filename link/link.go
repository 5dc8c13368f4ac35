// Package link turns CMS link records into navigable targets.
//
// Content stores hand us a loose record (a linkType discriminant plus
// optional payloads for every variant). Parse converts that record into a
// Link once, at the decoding boundary; Resolve maps a Link to an href with
// anchor attributes. Resolve has no error path: anything incomplete
// degrades to "#".
package link

// Link is one of Href, PageRef or PostRef. A nil Link means the link was
// absent or could not be parsed.
type Link interface {
	isLink()
}

// Href is a literal URL, optionally opened in a new browsing context.
type Href struct {
	URL    string
	NewTab bool
}

// PageRef points at a page document by slug.
type PageRef struct {
	Slug string
}

// PostRef points at a post document by slug.
type PostRef struct {
	Slug string
}

func (Href) isLink()    {}
func (PageRef) isLink() {}
func (PostRef) isLink() {}

const (
	// HomepageSlug is the page slug served at the site root.
	HomepageSlug = "homepage"

	fallbackHref = "#"
	blankTarget  = "_blank"
	blankRel     = "noopener noreferrer"
)

// Resolved is a concrete anchor target. Empty Target and Rel mean the
// attribute should be omitted.
type Resolved struct {
	Href     string
	External bool
	Target   string
	Rel      string
}

// Resolve maps l to an anchor target. It is total and pure.
func Resolve(l Link) Resolved {
	switch v := l.(type) {
	case Href:
		if v.URL == "" {
			return Resolved{Href: fallbackHref}
		}
		r := Resolved{Href: v.URL, External: true}
		if v.NewTab {
			r.Target = blankTarget
			r.Rel = blankRel
		}
		return r
	case PageRef:
		return Resolved{Href: PagePath(v.Slug)}
	case PostRef:
		return Resolved{Href: PostPath(v.Slug)}
	default:
		return Resolved{Href: fallbackHref}
	}
}

// ResolveRaw parses and resolves a raw record in one step.
func ResolveRaw(raw *Raw) Resolved {
	l, _ := Parse(raw)
	return Resolve(l)
}

// PagePath returns the site path for a page slug. The homepage lives at "/".
func PagePath(slug string) string {
	if slug == HomepageSlug {
		return "/"
	}
	return "/" + slug
}

// PostPath returns the site path for a post slug.
func PostPath(slug string) string {
	return "/posts/" + slug
}
