package auditlog

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
	"github.com/pharmawatch/pharmawatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit-logs", h.List, auth.Require(auth.ActionViewAuditLog))
	api.GET("/audit-logs/export", h.Export, auth.Require(auth.ActionExportData))
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *Handler) query(c echo.Context) (user, action string, from, to time.Time, err error) {
	user = c.QueryParam("user")
	action = c.QueryParam("action")
	from, err = parseDay(c.QueryParam("from"))
	if err != nil {
		return
	}
	to, err = parseDay(c.QueryParam("to"))
	return
}

func (h *Handler) List(c echo.Context) error {
	user, action, from, to, err := h.query(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD")
	}

	entries, err := h.svc.List(c.Request().Context(), user, action, from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list audit entries")
	}

	p := pagination.FromContext(c)
	page, window := pagination.Slice(entries, p.PageSize, p.Page)
	return c.JSON(http.StatusOK, pagination.NewResponse(page, window, p.PageSize))
}

func (h *Handler) Export(c echo.Context) error {
	user, action, from, to, err := h.query(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "dates must be YYYY-MM-DD")
	}

	entries, err := h.svc.List(c.Request().Context(), user, action, from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export audit entries")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="audit-log.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"timestamp", "user", "action", "medicine", "details"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Timestamp.Format(time.RFC3339), e.User, e.Action, e.MedicineName, e.Details,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
