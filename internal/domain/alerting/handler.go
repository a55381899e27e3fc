package alerting

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clara/clara/internal/platform/auth"
	"github.com/clara/clara/internal/platform/metrics"
)

type Handler struct {
	engine  *Engine
	metrics *metrics.Metrics
}

func NewHandler(engine *Engine, m *metrics.Metrics) *Handler {
	return &Handler{engine: engine, metrics: m}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleClinician))
	g.POST("/generate-alerts", h.GenerateAlerts)
}

type alertsResponse struct {
	Alerts []Alert `json:"alerts"`
	Count  int     `json:"count"`
}

func (h *Handler) GenerateAlerts(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	alerts := h.engine.Generate(in)
	for _, a := range alerts {
		h.metrics.ObserveAlert(a.Type)
	}
	return c.JSON(http.StatusOK, alertsResponse{Alerts: alerts, Count: len(alerts)})
}
