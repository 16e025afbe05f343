package stats

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// cacheHeader lets a CDN serve the stats for 20 minutes and keep serving a
// stale copy for 10 more while it revalidates in the background.
const cacheHeader = "public, s-maxage=1200, stale-while-revalidate=600"

// Handler serves the three stats endpoints.
type Handler struct {
	client *Client
}

// NewHandler creates a stats Handler backed by the given client.
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers the stats API routes on the Echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/stats/user", h.handleUser)
	e.GET("/api/stats/stars", h.handleStars)
	e.GET("/api/stats/languages", h.handleLanguages)
}

func (h *Handler) handleUser(c echo.Context) error {
	user, err := h.client.FetchUser(c.Request().Context())
	if err != nil {
		return upstreamError(err)
	}
	c.Response().Header().Set("Cache-Control", cacheHeader)
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) handleStars(c echo.Context) error {
	stars, err := h.client.FetchStars(c.Request().Context())
	if err != nil {
		return upstreamError(err)
	}
	c.Response().Header().Set("Cache-Control", cacheHeader)
	return c.JSON(http.StatusOK, stars)
}

func (h *Handler) handleLanguages(c echo.Context) error {
	languages, err := h.client.FetchLanguages(c.Request().Context())
	if err != nil {
		return upstreamError(err)
	}
	c.Response().Header().Set("Cache-Control", cacheHeader)
	return c.JSON(http.StatusOK, languages)
}

func upstreamError(err error) error {
	return echo.NewHTTPError(http.StatusBadGateway, "upstream stats unavailable").SetInternal(err)
}
