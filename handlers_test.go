package jwsite

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/logger"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	store, err := content.NewStore(filepath.Join(t.TempDir(), "content.db"))
	require.NoError(t, err)
	cfg := SiteConfig{
		URL:            "https://jw.test",
		Description:    "Websites for small businesses.",
		ImagesDir:      t.TempDir(),
		SessionSecret:  "test-session-secret",
		DraftSecret:    "preview",
		MetricsEnabled: true,
	}
	all := append([]Option{WithStore(store), WithClock(func() time.Time { return testNow })}, opts...)
	a := New(cfg, all...)
	require.NoError(t, a.Setup())
	t.Cleanup(func() {
		a.Close()
		store.Close()
	})
	return a
}

func putDoc(t *testing.T, a *App, id, docType, slug string, body any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	require.NoError(t, a.Store.Put(context.Background(), content.Document{
		ID: id, Type: docType, Slug: slug, Body: raw,
	}))
	a.Cache.Invalidate()
}

func get(a *App, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func parse(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func pageLink(slug string) map[string]any {
	return map[string]any{"linkType": "page", "page": map[string]any{"slug": map[string]any{"current": slug}}}
}

var acmeSettings = map[string]any{
	"branding": map[string]any{"siteTitle": "Acme"},
	"seo": map[string]any{
		"title":        "Acme | Web studio",
		"description":  "We build websites.",
		"metadataBase": "https://acme.test",
		"ogImage":      map[string]any{"asset": "og.png", "alt": "Acme"},
	},
	"nav": map[string]any{
		"items": []any{
			map[string]any{"label": "About", "kind": "link", "link": pageLink("about")},
			map[string]any{"label": "Home", "kind": "link", "link": pageLink("homepage")},
		},
		"cta": map[string]any{"label": "Contact", "link": pageLink("contact")},
	},
	"footer": map[string]any{
		"columns": []any{map[string]any{"title": "Company", "links": []any{
			map[string]any{"label": "About", "link": pageLink("about")},
		}}},
	},
	"theme": map[string]any{"mode": "dark", "radius": "bogus"},
}

func TestHomeWithoutContent(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := parse(t, rec)
	assert.Equal(t, "JW Digital", doc.Find("a.site-title").Text())
	assert.Equal(t, "JW Digital", doc.Find("title").Text())
	assert.Equal(t, 0, doc.Find(".nav-item").Length())
	assert.Equal(t, "Add footer columns in Settings → Footer.", doc.Find(".footer-placeholder").Text())
	assert.Equal(t, "© 2026 JW Digital. All rights reserved.", doc.Find(".footer-copyright").Text())
	assert.Equal(t, "https://jw.test/", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
}

func TestHomeRendersSettingsAndHomepage(t *testing.T) {
	a := newTestApp(t)
	putDoc(t, a, "settings", content.TypeSettings, "", acmeSettings)
	putDoc(t, a, "home", content.TypePage, "homepage", map[string]any{
		"name": "Home",
		"slug": "homepage",
		"pageBuilder": []any{map[string]any{
			"_key": "cta1", "_type": "callToAction",
			"heading": "Ready?", "buttonText": "Start", "link": pageLink("contact"),
		}},
	})

	doc := parse(t, get(a, "/"))
	assert.Equal(t, "Acme | Web studio", doc.Find("title").Text())
	assert.Equal(t, "Acme", doc.Find("a.site-title").Text())
	assert.Equal(t, "dark", doc.Find("html").AttrOr("data-mode", ""))
	assert.Equal(t, "xl", doc.Find("html").AttrOr("data-radius", ""), "unknown theme values fall back to defaults")

	hrefs := doc.Find(".nav-item a").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("href", "") })
	assert.Equal(t, []string{"/about", "/"}, hrefs)
	assert.Equal(t, "/contact", doc.Find(".nav-cta a").AttrOr("href", ""))
	assert.Equal(t, "/about", doc.Find(".footer-column a").AttrOr("href", ""))
	assert.Equal(t, "/contact", doc.Find(".block-cta a.button").AttrOr("href", ""))
	assert.Equal(t, "https://acme.test/images/og.png?w=1200&h=627", doc.Find(`meta[property="og:image"]`).AttrOr("content", ""))
}

func TestHomepageSlugRedirects(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/homepage")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestTrailingSlashRedirects(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/about/")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/about", rec.Header().Get("Location"))
}

func TestPageMetadata(t *testing.T) {
	a := newTestApp(t)
	putDoc(t, a, "settings", content.TypeSettings, "", acmeSettings)
	putDoc(t, a, "about", content.TypePage, "about", map[string]any{
		"name": "About us",
		"slug": map[string]any{"_type": "slug", "current": "about"},
		"seo": map[string]any{
			"title":    "About",
			"noIndex":  true,
			"keywords": []string{"studio", " "},
		},
	})

	rec := get(a, "/about")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "About | Acme", doc.Find("title").Text())
	assert.Equal(t, "We build websites.", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	assert.Equal(t, "https://acme.test/about", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	assert.Equal(t, "noindex, follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))
	assert.Equal(t, "studio", doc.Find(`meta[name="keywords"]`).AttrOr("content", ""))
	assert.Equal(t, "About us", doc.Find("main h1").Text())
}

func TestPageNotFound(t *testing.T) {
	a := newTestApp(t)
	putDoc(t, a, "settings", content.TypeSettings, "", acmeSettings)

	rec := get(a, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	doc := parse(t, rec)
	assert.Equal(t, "Page not found", doc.Find("main h1").Text())
	assert.Equal(t, "Acme", doc.Find("a.site-title").Text(), "error pages keep the site chrome")
	assert.Equal(t, "noindex, follow", doc.Find(`meta[name="robots"]`).AttrOr("content", ""))

	rec = get(a, "/posts/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPosts(t *testing.T) {
	a := newTestApp(t)
	putDoc(t, a, "p1", content.TypePost, "older", map[string]any{"title": "Older", "slug": "older", "date": "2025-01-01"})
	putDoc(t, a, "p2", content.TypePost, "newer", map[string]any{
		"title": "Newer", "slug": "newer", "date": "2025-02-01",
		"excerpt": "Fresh", "tags": []string{"news"}, "body": "## Section\n\nText",
	})

	doc := parse(t, get(a, "/posts"))
	hrefs := doc.Find("a.post-link").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("href", "") })
	assert.Equal(t, []string{"/posts/newer", "/posts/older"}, hrefs)

	rec := get(a, "/posts/newer")
	require.Equal(t, http.StatusOK, rec.Code)
	doc = parse(t, rec)
	assert.Equal(t, "Newer | JW Digital", doc.Find("title").Text())
	assert.Equal(t, "Fresh", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	assert.Equal(t, "article", doc.Find(`meta[property="og:type"]`).AttrOr("content", ""))
	assert.Equal(t, "Section", doc.Find(".prose h2").Text())

	var types []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var ld map[string]any
		require.NoError(t, json.Unmarshal([]byte(s.Text()), &ld))
		types = append(types, ld["@type"].(string))
	})
	assert.Equal(t, []string{"WebSite", "BlogPosting"}, types)
}

func TestStructuredData(t *testing.T) {
	a := newTestApp(t)
	putDoc(t, a, "settings", content.TypeSettings, "", map[string]any{
		"structuredData": map[string]any{
			"language":     "en-GB",
			"organization": map[string]any{"name": "JW Digital Ltd", "sameAs": []string{"https://x.test/jw"}},
		},
	})
	doc := parse(t, get(a, "/"))
	assert.Equal(t, "en-GB", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, 2, doc.Find(`script[type="application/ld+json"]`).Length())

	putDoc(t, a, "settings", content.TypeSettings, "", map[string]any{
		"structuredData": map[string]any{"enabled": false},
	})
	doc = parse(t, get(a, "/"))
	assert.Equal(t, 0, doc.Find(`script[type="application/ld+json"]`).Length())
}

func TestDraftMode(t *testing.T) {
	a := newTestApp(t)
	putDoc(t, a, "about", content.TypePage, "about", map[string]any{"name": "Published", "slug": "about"})
	putDoc(t, a, content.DraftID("about"), content.TypePage, "about", map[string]any{"name": "Draft", "slug": "about"})

	assert.Equal(t, "Published", parse(t, get(a, "/about")).Find("main h1").Text())

	rec := get(a, "/api/draft-mode/enable?secret=wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(a, "/api/draft-mode/enable?secret=preview&redirect=/about")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/about", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = get(a, "/about", cookies...)
	doc := parse(t, rec)
	assert.Equal(t, "Draft", doc.Find("main h1").Text())
	assert.Equal(t, 1, doc.Find(".draft-banner").Length())
	assert.Equal(t, "private, no-store", rec.Header().Get("Cache-Control"))

	rec = get(a, "/api/draft-mode/disable", cookies...)
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestDraftModeRedirectStaysOnSite(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/api/draft-mode/enable?secret=preview&redirect=//evil.test/x")
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestDraftModeRequiresConfiguredSecret(t *testing.T) {
	a := newTestApp(t)
	a.Config.DraftSecret = ""
	rec := get(a, "/api/draft-mode/enable?secret=")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftModeRateLimited(t *testing.T) {
	a := newTestApp(t)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusUnauthorized, get(a, "/api/draft-mode/enable?secret=nope").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, get(a, "/api/draft-mode/enable?secret=preview").Code)
}

func TestLinkFallbacksAreCounted(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := newTestApp(t, WithLogger(logger.Wrap(zap.New(core))))
	putDoc(t, a, "settings", content.TypeSettings, "", map[string]any{
		"nav": map[string]any{"items": []any{
			map[string]any{"label": "Broken", "kind": "link", "link": map[string]any{"linkType": "page"}},
			map[string]any{"label": "Odd", "kind": "link", "link": map[string]any{"linkType": "email"}},
		}},
	})

	doc := parse(t, get(a, "/"))
	hrefs := doc.Find(".nav-item a").Map(func(_ int, s *goquery.Selection) string { return s.AttrOr("href", "") })
	assert.Equal(t, []string{"#", "#"}, hrefs)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.linkFallbacks.WithLabelValues("nav.items", "incomplete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.linkFallbacks.WithLabelValues("nav.items", "unknown_type")))
	assert.Equal(t, 2, logs.FilterMessage("link fallback").Len())

	rec := get(a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jwsite_link_fallbacks_total")
}

func TestServerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	a := newTestApp(t, WithLogger(logger.Wrap(zap.New(core))))
	require.NoError(t, a.Store.Close())

	rec := get(a, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong", parse(t, rec).Find("main h1").Text())
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRobots(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/robots.txt")
	assert.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: https://jw.test/sitemap.xml\n", rec.Body.String())

	putDoc(t, a, "settings", content.TypeSettings, "", map[string]any{
		"seo": map[string]any{"robots": map[string]any{"index": false}},
	})
	assert.Contains(t, get(a, "/robots.txt").Body.String(), "Disallow: /")
}

func TestPublicAssets(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/public/site.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func TestSitemapAndFeed(t *testing.T) {
	a := newTestApp(t)
	putDoc(t, a, "about", content.TypePage, "about", map[string]any{"name": "About", "slug": "about"})
	putDoc(t, a, content.DraftID("secret"), content.TypePage, "secret", map[string]any{"name": "Secret", "slug": "secret"})
	putDoc(t, a, "p1", content.TypePost, "hello", map[string]any{"title": "Hello & welcome", "slug": "hello", "date": "2025-01-02", "excerpt": "Hi"})

	rec := get(a, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://jw.test/about</loc>")
	assert.Contains(t, body, "<loc>https://jw.test/posts/hello</loc><lastmod>2025-01-02</lastmod>")
	assert.NotContains(t, body, "secret", "drafts never reach the sitemap")

	rec = get(a, "/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	var feed rssXML
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Equal(t, "JW Digital", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 1)
	item := feed.Channel.Items[0]
	assert.Equal(t, "Hello & welcome", item.Title)
	assert.Equal(t, "https://jw.test/posts/hello", item.Link)
	assert.Equal(t, "Thu, 02 Jan 2025 00:00:00 +0000", item.PubDate)
}
