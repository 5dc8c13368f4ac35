package jwsite

import (
	"fmt"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/views"
)

// pageInfo is what a handler knows about the page it renders.
type pageInfo struct {
	Path        string // site path, e.g. "/about"
	Title       string // page title without the site suffix; "" uses the default
	Description string
	OGType      string
	SEO         *content.PageSEO
	JSONLD      []string // page-specific documents, appended after site ones
}

// siteTitle returns the configured brand when settings carry none.
func (a *App) siteTitle(s *content.Settings) string {
	if t := s.SiteTitle(); t != "" {
		return t
	}
	return a.Config.Name
}

// siteBase returns settings.seo.metadataBase when it is a valid absolute URL,
// otherwise the configured site URL.
func (a *App) siteBase(s *content.Settings) string {
	if base, ok := validBase(s.SEO.MetadataBase); ok {
		return base
	}
	if base, ok := validBase(a.Config.URL); ok {
		return base
	}
	return a.Config.URL
}

func (a *App) buildMeta(s *content.Settings, in pageInfo) views.Meta {
	if s == nil {
		s = &content.Settings{}
	}
	seo := in.SEO
	if seo == nil {
		seo = &content.PageSEO{}
	}
	siteTitle := a.siteTitle(s)
	base := a.siteBase(s)

	title := firstNonEmpty(seo.Title, in.Title)
	if title != "" {
		title = fmt.Sprintf("%s | %s", title, siteTitle)
	} else {
		title = firstNonEmpty(s.SEO.Title, siteTitle)
	}
	siteDescription := firstNonEmpty(s.SEO.Description, a.Config.Description)
	description := firstNonEmpty(seo.Description, in.Description, siteDescription)

	canonical := seo.Canonical
	if canonical == "" {
		canonical = AbsoluteURL(base, in.Path)
	}

	ogType := in.OGType
	if ogType == "" {
		ogType = "website"
	}

	meta := views.Meta{
		Title:         title,
		Description:   description,
		Canonical:     canonical,
		Robots:        robotsDirective(s.SEO.Robots, seo),
		OGType:        ogType,
		OGTitle:       firstNonEmpty(seo.OGTitle, title),
		OGDescription: firstNonEmpty(seo.OGDescription, description),
		TwitterHandle: s.SEO.TwitterHandle,
		Keywords:      FilterEmpty(seo.Keywords),
	}

	img := seo.OGImage
	if img == nil || img.Asset == "" {
		img = s.SEO.OGImage
	}
	if img != nil && img.Asset != "" {
		meta.OGImage = OGImageURL(base, img.Asset)
		meta.OGImageAlt = firstNonEmpty(img.Alt, siteTitle)
	}

	sd := s.StructuredData
	switch {
	case sd == nil:
		meta.JSONLD = append(meta.JSONLD, WebsiteJSONLD(nil, siteTitle, base, siteDescription))
	case sd.IsEnabled():
		meta.Lang = sd.Language
		meta.JSONLD = append(meta.JSONLD, WebsiteJSONLD(sd.Website, siteTitle, base, siteDescription))
		if org := OrganizationJSONLD(sd.Organization, base); org != "" {
			meta.JSONLD = append(meta.JSONLD, org)
		}
	default:
		meta.Lang = sd.Language
	}
	meta.JSONLD = append(meta.JSONLD, in.JSONLD...)
	return meta
}

// robotsDirective combines site defaults (index and follow unless turned
// off) with the page's noIndex and noFollow flags.
func robotsDirective(defaults *content.Robots, seo *content.PageSEO) string {
	index, follow := true, true
	if defaults != nil {
		if defaults.Index != nil {
			index = *defaults.Index
		}
		if defaults.Follow != nil {
			follow = *defaults.Follow
		}
	}
	if seo.NoIndex {
		index = false
	}
	if seo.NoFollow {
		follow = false
	}
	out := "index"
	if !index {
		out = "noindex"
	}
	if follow {
		return out + ", follow"
	}
	return out + ", nofollow"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
