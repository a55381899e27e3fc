package analysis

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clara/clara/internal/domain/nlp"
	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/platform/auth"
)

type Handler struct {
	pipeline *Pipeline
}

func NewHandler(p *Pipeline) *Handler {
	return &Handler{pipeline: p}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinical := api.Group("", auth.RequireRole(auth.RoleClinician))
	clinical.POST("/comprehensive-analysis", h.Comprehensive)

	batch := api.Group("", auth.RequireRole(auth.RoleClinician, auth.RoleAnalyst))
	batch.POST("/batch-analyze", h.Batch)
}

func (h *Handler) Comprehensive(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.pipeline.Comprehensive(c.Request().Context(), req)
	if errors.Is(err, nlp.ErrEmptyTranscript) || errors.Is(err, patient.ErrNegativeAge) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}

type batchRequest struct {
	Transcripts []BatchItem `json:"transcripts"`
}

func (h *Handler) Batch(c echo.Context) error {
	var req batchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, err := h.pipeline.Batch(c.Request().Context(), req.Transcripts)
	if errors.Is(err, ErrBatchTooLarge) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
