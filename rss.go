package jwsite

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/link"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
}

func (a *App) buildFeed(s *content.Settings, posts []content.Post) rssXML {
	base := a.siteBase(s)
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		if !p.Slug.Valid {
			continue
		}
		pubDate := ""
		if t, err := time.Parse("2006-01-02", p.Date); err == nil {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := AbsoluteURL(base, link.PostPath(p.Slug.Value))
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Excerpt,
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.siteTitle(s),
			Link:        AbsoluteURL(base, "/"),
			Description: firstNonEmpty(s.SEO.Description, a.Config.Description),
			Items:       items,
		},
	}
}

func (a *App) renderRSS(c echo.Context, s *content.Settings, posts []content.Post) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildFeed(s, posts))
}
