package outcome

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/platform/auth"
)

type Handler struct {
	predictor *Predictor
}

func NewHandler(predictor *Predictor) *Handler {
	return &Handler{predictor: predictor}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleClinician))
	g.POST("/predict-outcomes", h.PredictOutcomes)
}

func (h *Handler) PredictOutcomes(c echo.Context) error {
	var p patient.Attributes
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := p.Validate(); err != nil {
		if errors.Is(err, patient.ErrNegativeAge) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.predictor.Predict(p))
}
