package location

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	view := auth.Require(auth.ActionViewInventory)
	api.GET("/locations", h.Tree, view)
	api.GET("/locations/countries", h.Countries, view)
	api.GET("/locations/districts", h.Districts, view)
	api.GET("/locations/chiefdoms", h.Chiefdoms, view)
	api.GET("/locations/facilities", h.Facilities, view)
	api.GET("/locations/reorder-level", h.ReorderLevel, view)
	api.GET("/locations/validate", h.Validate, view)
}

func (h *Handler) Tree(c echo.Context) error {
	return c.JSON(http.StatusOK, Tree)
}

func (h *Handler) Countries(c echo.Context) error {
	return c.JSON(http.StatusOK, Countries())
}

func (h *Handler) Districts(c echo.Context) error {
	country := c.QueryParam("country")
	if country == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "country is required")
	}
	names := Districts(country)
	if names == nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown country")
	}
	return c.JSON(http.StatusOK, names)
}

func (h *Handler) Chiefdoms(c echo.Context) error {
	country, district := c.QueryParam("country"), c.QueryParam("district")
	if country == "" || district == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "country and district are required")
	}
	names := Chiefdoms(country, district)
	if names == nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown district")
	}
	return c.JSON(http.StatusOK, names)
}

func (h *Handler) Facilities(c echo.Context) error {
	country, district, chiefdom := c.QueryParam("country"), c.QueryParam("district"), c.QueryParam("chiefdom")
	if country == "" || district == "" || chiefdom == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "country, district and chiefdom are required")
	}
	names := Facilities(country, district, chiefdom)
	if names == nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chiefdom")
	}
	return c.JSON(http.StatusOK, names)
}

// Validate checks that the four names form a consistent path through the
// hierarchy. Clients call it before submitting a record built from free-form
// input rather than the cascading dropdowns.
func (h *Handler) Validate(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{
		"valid": ValidPath(
			c.QueryParam("country"),
			c.QueryParam("district"),
			c.QueryParam("chiefdom"),
			c.QueryParam("facility"),
		),
	})
}

func (h *Handler) ReorderLevel(c echo.Context) error {
	facility := c.QueryParam("facility")
	if facility == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "facility is required")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"facility":      facility,
		"reorder_level": ReorderLevel(facility),
	})
}
