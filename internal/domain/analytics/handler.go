package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmawatch/pharmawatch/internal/domain/medicine"
	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	view := auth.Require(auth.ActionViewAnalytics)
	api.GET("/analytics/summary", h.Summary, view)
	api.GET("/analytics/by-district", h.ByDistrict, view)
	api.GET("/analytics/by-facility", h.ByFacility, view)
	api.GET("/analytics/consumption", h.Consumption, view)
}

func filterFromQuery(c echo.Context) medicine.Filter {
	return medicine.Filter{
		Country:  c.QueryParam("country"),
		District: c.QueryParam("district"),
		Chiefdom: c.QueryParam("chiefdom"),
		Facility: c.QueryParam("facility"),
	}
}

func (h *Handler) Summary(c echo.Context) error {
	s, err := h.svc.Summary(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute summary")
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ByDistrict(c echo.Context) error {
	rows, err := h.svc.ByDistrict(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to aggregate by district")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) ByFacility(c echo.Context) error {
	rows, err := h.svc.ByFacility(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to aggregate by facility")
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) Consumption(c echo.Context) error {
	rows, err := h.svc.Consumption(c.Request().Context(), filterFromQuery(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to aggregate consumption")
	}
	return c.JSON(http.StatusOK, rows)
}
