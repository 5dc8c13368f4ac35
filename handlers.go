package jwsite

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/layout"
	"github.com/jwdigital/jwsite/link"
	"github.com/jwdigital/jwsite/logger"
	"github.com/jwdigital/jwsite/views"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	s, err := a.settings(c)
	if err != nil {
		return err
	}
	page, err := a.Cache.Page(ctx, link.HomepageSlug, perspective(c))
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		return err
	}
	// A site without a homepage document still renders its chrome.
	sections := layout.BuildSections(page.Blocks, layout.WithReporter(a.fallbackReporter(c)))
	info := pageInfo{Path: "/", SEO: &page.SEO}
	return a.renderPage(c, http.StatusOK, s, info, views.PageBody(page, sections))
}

func handleHomepageRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handlePage(c echo.Context) error {
	slug := c.Param("slug")
	s, err := a.settings(c)
	if err != nil {
		return err
	}
	page, err := a.Cache.Page(c.Request().Context(), slug, perspective(c))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	sections := layout.BuildSections(page.Blocks, layout.WithReporter(a.fallbackReporter(c)))
	info := pageInfo{
		Path:  link.PagePath(slug),
		Title: page.Name,
		SEO:   &page.SEO,
	}
	return a.renderPage(c, http.StatusOK, s, info, views.PageBody(page, sections))
}

func (a *App) handlePosts(c echo.Context) error {
	s, err := a.settings(c)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(c.Request().Context(), perspective(c))
	if err != nil {
		return err
	}
	info := pageInfo{Path: "/posts", Title: "Posts"}
	return a.renderPage(c, http.StatusOK, s, info, views.PostsIndex(posts))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	s, err := a.settings(c)
	if err != nil {
		return err
	}
	post, err := a.Cache.Post(c.Request().Context(), slug, perspective(c))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	info := pageInfo{
		Path:        link.PostPath(slug),
		Title:       post.Title,
		Description: post.Excerpt,
		OGType:      "article",
		SEO:         &content.PageSEO{Keywords: post.Tags},
		JSONLD:      []string{BlogPostingJSONLD(post, a.siteTitle(s), a.siteBase(s))},
	}
	return a.renderPage(c, http.StatusOK, s, info, views.PostBody(post))
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	s, err := a.Cache.Settings(ctx, content.Published)
	if err != nil {
		return err
	}
	pages, err := a.Cache.ListPages(ctx, content.Published)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(ctx, content.Published)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, a.siteBase(s), pages, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	ctx := c.Request().Context()
	s, err := a.Cache.Settings(ctx, content.Published)
	if err != nil {
		return err
	}
	posts, err := a.Cache.ListPosts(ctx, content.Published)
	if err != nil {
		return err
	}
	return a.renderRSS(c, s, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	s, err := a.Cache.Settings(c.Request().Context(), content.Published)
	if err != nil {
		return err
	}
	rule := "Allow: /"
	if r := s.SEO.Robots; r != nil && r.Index != nil && !*r.Index {
		rule = "Disallow: /"
	}
	body := fmt.Sprintf("User-agent: *\n%s\n\nSitemap: %s\n", rule, AbsoluteURL(a.siteBase(s), "/sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) handleHealth(c echo.Context) error {
	if _, err := a.Store.Settings(c.Request().Context(), content.Published); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	if code >= 500 {
		a.Log.Error("request failed",
			logger.String("method", c.Request().Method),
			logger.String("uri", c.Request().RequestURI),
			logger.Error(err),
		)
	}

	switch {
	case code == http.StatusNotFound:
		a.renderError(c, code, pageInfo{Path: c.Request().URL.Path, Title: "Page not found"}, views.NotFound())
	case code >= 500:
		a.renderError(c, code, pageInfo{Path: c.Request().URL.Path, Title: "Error"}, views.ServerError())
	default:
		msg := http.StatusText(code)
		if he != nil {
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
		_ = c.String(code, msg)
	}
}

// renderError renders an error page inside the site layout. If settings
// cannot be loaded it falls back to the default chrome.
func (a *App) renderError(c echo.Context, code int, info pageInfo, body templ.Component) {
	s, err := a.settings(c)
	if err != nil {
		s = &content.Settings{}
	}
	info.SEO = &content.PageSEO{NoIndex: true}
	if err := a.renderPage(c, code, s, info, body); err != nil {
		a.Log.Error("render error page", logger.Error(err))
	}
}
