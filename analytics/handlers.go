package analytics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler exposes the analytics HTTP surface: a public ingest endpoint for
// the beacon and an admin-only stats endpoint.
type Handler struct {
	store   *Store
	limiter *rateLimiter
}

// NewHandler creates a Handler backed by the given store.
func NewHandler(store *Store) *Handler {
	return &Handler{
		store:   store,
		limiter: newRateLimiter(30, time.Minute),
	}
}

// RegisterRoutes mounts the analytics routes on e. authMiddleware wraps the
// admin endpoints.
func (h *Handler) RegisterRoutes(e *echo.Echo, authMiddleware echo.MiddlewareFunc) {
	e.POST("/api/analytics/visit", h.handleVisit)
	e.GET("/admin/analytics/api/stats", h.handleStats, authMiddleware)
}

func (h *Handler) handleVisit(c echo.Context) error {
	if !h.limiter.allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}

	var req VisitRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	path := sanitizePath(req.Path)
	if path == "" {
		return c.NoContent(http.StatusBadRequest)
	}

	visit := &Visit{
		VisitorHash: VisitorHash(c.RealIP(), c.Request().UserAgent()),
		Path:        path,
		Referrer:    strings.TrimSpace(req.Referrer),
		Timestamp:   time.Now().UTC(),
	}
	if err := h.store.SaveVisit(visit); err != nil {
		c.Logger().Errorf("analytics: save visit: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) handleStats(c echo.Context) error {
	days := 30
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			return c.NoContent(http.StatusBadRequest)
		}
		days = n
	}
	stats, err := h.store.GetStats(days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// sanitizePath keeps only site-relative paths of sane length.
func sanitizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return ""
	}
	if len(p) > 512 {
		return ""
	}
	return p
}
