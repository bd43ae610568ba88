package alerts

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
)

type Handler struct {
	scheduler *Scheduler
}

func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	view := auth.Require(auth.ActionViewInventory)
	api.GET("/alerts", h.List, view)
	api.POST("/alerts/:id/dismiss", h.Dismiss, view)
	api.POST("/alerts/:id/restore", h.Restore, view)
}

func (h *Handler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"active":    h.scheduler.Active(),
		"dismissed": h.scheduler.Dismissed(),
	})
}

func (h *Handler) Dismiss(c echo.Context) error {
	h.scheduler.Dismiss(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Restore(c echo.Context) error {
	h.scheduler.Restore(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
