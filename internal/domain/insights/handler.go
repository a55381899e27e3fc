package insights

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/platform/auth"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleClinician))
	g.POST("/clinical-insights", h.ClinicalInsights)
}

func (h *Handler) ClinicalInsights(c echo.Context) error {
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := in.Validate(); err != nil {
		if errors.Is(err, patient.ErrNegativeAge) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.engine.Generate(in))
}
