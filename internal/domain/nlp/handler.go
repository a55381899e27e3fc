package nlp

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clara/clara/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleClinician, auth.RoleAnalyst))
	g.POST("/analyze-transcript", h.AnalyzeTranscript)
	g.POST("/analyze-nlp", h.AnalyzeTranscript)
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

func (h *Handler) AnalyzeTranscript(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.AnalyzeTranscript(c.Request().Context(), req.Transcript)
	if errors.Is(err, ErrEmptyTranscript) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
