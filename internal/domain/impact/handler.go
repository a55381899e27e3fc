package impact

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clara/clara/internal/platform/auth"
	"github.com/clara/clara/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleAnalyst))
	g.POST("/impact-metrics", h.ImpactMetrics)
	g.POST("/measure-impact", h.MeasureImpact)
	g.POST("/measure-impact/periods", h.MeasureStoredPeriods)
	g.POST("/compare-periods", h.ComparePeriods)
	g.GET("/assessments", h.ListAssessments)
}

type analysesRequest struct {
	Analyses []Record `json:"analyses"`
}

// snapshotInput is a caller-supplied snapshot. Its timestamp shadows the
// embedded one and is ignored, so any format (or none) is accepted.
type snapshotInput struct {
	Snapshot
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type snapshotPair struct {
	Before snapshotInput `json:"before"`
	After  snapshotInput `json:"after"`
}

type windowPair struct {
	Before Window `json:"before"`
	After  Window `json:"after"`
}

func (h *Handler) ImpactMetrics(c echo.Context) error {
	var req analysesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.svc.Comparator().Aggregate(req.Analyses))
}

func (h *Handler) MeasureImpact(c echo.Context) error {
	var req snapshotPair
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.svc.Comparator().Compare(req.Before.Snapshot, req.After.Snapshot))
}

func (h *Handler) ComparePeriods(c echo.Context) error {
	var req snapshotPair
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.svc.Comparator().ScoreChange(req.Before.Snapshot, req.After.Snapshot))
}

func (h *Handler) MeasureStoredPeriods(c echo.Context) error {
	var req windowPair
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rep, err := h.svc.ComparePeriods(c.Request().Context(), req.Before, req.After)
	if errors.Is(err, ErrInvalidWindow) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAssessments(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Record{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
