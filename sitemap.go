package jwsite

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapURLs lists the root, every indexable page, the posts index and
// every post. The homepage document maps to the root and is not repeated.
func sitemapURLs(base string, pages []content.Page, posts []content.Post) []sitemapURL {
	urls := []sitemapURL{{Loc: AbsoluteURL(base, "/")}}
	for _, p := range pages {
		if !p.Slug.Valid || p.Slug.Value == link.HomepageSlug {
			continue
		}
		if p.SEO.HideFromSitemap || p.SEO.NoIndex {
			continue
		}
		urls = append(urls, sitemapURL{Loc: AbsoluteURL(base, link.PagePath(p.Slug.Value))})
	}
	urls = append(urls, sitemapURL{Loc: AbsoluteURL(base, "/posts")})
	for _, p := range posts {
		if !p.Slug.Valid {
			continue
		}
		urls = append(urls, sitemapURL{
			Loc:     AbsoluteURL(base, link.PostPath(p.Slug.Value)),
			LastMod: p.Date,
		})
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, base string, pages []content.Page, posts []content.Post) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  sitemapURLs(base, pages, posts),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
