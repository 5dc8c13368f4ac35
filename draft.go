package jwsite

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/jwdigital/jwsite/content"
	"github.com/jwdigital/jwsite/logger"
)

const (
	sessionName  = "jwsite_session"
	draftModeKey = "draft_mode"
)

// IsDraftMode reports whether the request's session has draft mode on.
func IsDraftMode(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	on, ok := sess.Values[draftModeKey].(bool)
	return ok && on
}

func perspective(c echo.Context) content.Perspective {
	if IsDraftMode(c) {
		return content.PreviewDrafts
	}
	return content.Published
}

func setDraftSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[draftModeKey] = true
	return sess.Save(c.Request(), c.Response())
}

func clearDraftSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

func (a *App) handleDraftEnable(c echo.Context) error {
	if a.Config.DraftSecret == "" {
		return echo.ErrNotFound
	}
	ip := c.RealIP()
	if !a.draftLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	secret := c.QueryParam("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.Config.DraftSecret)) != 1 {
		a.draftLimiter.Record(ip)
		a.Log.Warn("draft mode: invalid secret", logger.String("ip", ip))
		return c.String(http.StatusUnauthorized, "Invalid secret")
	}
	if err := setDraftSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, safeRedirect(c.QueryParam("redirect")))
}

func handleDraftDisable(c echo.Context) error {
	if err := clearDraftSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, safeRedirect(c.QueryParam("redirect")))
}

// safeRedirect keeps redirects on this site. Anything that is not a plain
// absolute path becomes "/".
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}
	return target
}
