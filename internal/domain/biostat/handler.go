package biostat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clara/clara/internal/platform/auth"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleAnalyst))
	g.POST("/calculate-metric", h.CalculateMetric)
}

type calculateRequest struct {
	MetricType string          `json:"metric_type"`
	Data       json.RawMessage `json:"data"`
}

func (h *Handler) CalculateMetric(c echo.Context) error {
	var req calculateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	result, err := Calculate(req.MetricType, req.Data)
	if errors.Is(err, ErrUnsupportedKind) || errors.Is(err, ErrInvalidData) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
