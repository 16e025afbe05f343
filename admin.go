package inkwell

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okvist/inkwell/analytics"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminReload invalidates the content cache so edited markdown files are
// picked up without a restart.
func (a *App) handleAdminReload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "content reloaded")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	var stats analytics.Stats
	if a.analyticsStore != nil {
		stats, err = a.analyticsStore.Summary(30)
		if err != nil {
			return err
		}
	}
	return Render(c, a.Views.AdminDashboard(len(posts), stats, msg, CsrfToken(c)))
}
