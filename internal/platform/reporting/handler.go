package reporting

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler exposes the reporting views as read-only JSON endpoints.
type Handler struct {
	store *Store
	log   zerolog.Logger
}

// NewHandler wires the reporting endpoints.
func NewHandler(store *Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("component", "reporting.handler").Logger(),
	}
}

// RegisterRoutes mounts the report endpoints on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/monthly-kpi", h.handleMonthlyKPI)
	g.GET("/region-kpi", h.handleRegionKPI)
	g.GET("/provider-summary", h.handleProviderSummary)
}

func (h *Handler) handleMonthlyKPI(c echo.Context) error {
	rows, err := h.store.MonthlyKPI(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("monthly kpi query failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "report query failed"})
	}
	if rows == nil {
		rows = []*MonthlyKPI{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) handleRegionKPI(c echo.Context) error {
	rows, err := h.store.RegionKPI(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("region kpi query failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "report query failed"})
	}
	if rows == nil {
		rows = []*RegionKPI{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) handleProviderSummary(c echo.Context) error {
	rows, err := h.store.ProviderSummary(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("provider summary query failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "report query failed"})
	}
	if rows == nil {
		rows = []*ProviderSummary{}
	}
	return c.JSON(http.StatusOK, rows)
}
