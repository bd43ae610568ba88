package dhis2

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
)

type Handler struct {
	syncer *Syncer
}

func NewHandler(syncer *Syncer) *Handler {
	return &Handler{syncer: syncer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/sync/dhis2", h.Sync, auth.Require(auth.ActionSyncRemote))
}

func (h *Handler) Sync(c echo.Context) error {
	actor := auth.UsernameFromContext(c.Request().Context())
	result, err := h.syncer.Sync(c.Request().Context(), actor)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "sync failed")
	}
	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusBadGateway
	}
	return c.JSON(status, result)
}
