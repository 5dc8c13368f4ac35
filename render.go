package jwsite

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/layout"
	"github.com/jwdigital/jwsite/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// chrome builds the header and footer for one request from settings.
func (a *App) chrome(c echo.Context, s *content.Settings) views.Chrome {
	if s == nil {
		s = &content.Settings{}
	}
	report := layout.WithReporter(a.fallbackReporter(c))
	brand := a.siteTitle(s)
	return views.Chrome{
		Header:  layout.BuildHeader(s.Nav, brand, report),
		Footer:  layout.BuildFooter(s.Footer, brand, a.now(), report),
		Tagline: firstNonEmpty(s.SEO.Description, a.Config.Description),
		Theme:   s.Theme.WithDefaults(),
		Draft:   IsDraftMode(c),
	}
}

// renderPage renders body inside the site layout. Settings are fetched once
// per request with the request's perspective.
func (a *App) renderPage(c echo.Context, code int, s *content.Settings, info pageInfo, body templ.Component) error {
	return RenderStatus(c, code, views.Layout(a.buildMeta(s, info), a.chrome(c, s), body))
}

func (a *App) settings(c echo.Context) (*content.Settings, error) {
	return a.Cache.Settings(c.Request().Context(), perspective(c))
}
