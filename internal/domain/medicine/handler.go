package medicine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
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
	api.GET("/medicines", h.List, auth.Require(auth.ActionViewInventory))
	api.GET("/medicines/export", h.Export, auth.Require(auth.ActionExportData))
	api.GET("/medicines/:id", h.Get, auth.Require(auth.ActionViewInventory))

	api.POST("/medicines", h.Create, auth.Require(auth.ActionAddMedicine))
	api.PUT("/medicines/:id", h.Update, auth.Require(auth.ActionEditMedicine))
	api.DELETE("/medicines/:id", h.Delete, auth.Require(auth.ActionDeleteMedicine))
	api.POST("/medicines/import", h.Import, auth.Require(auth.ActionImportBatch))
}

// recordRequest is the create/update payload. Expiry is a date string so
// clients do not need to send a full timestamp.
type recordRequest struct {
	Name         string `json:"name"`
	BatchNumber  string `json:"batch_number"`
	Expiry       string `json:"expiry"`
	Stock        int    `json:"stock"`
	ReorderLevel int    `json:"reorder_level"`
	Consumed     int    `json:"consumed"`
	Country      string `json:"country"`
	District     string `json:"district"`
	Chiefdom     string `json:"chiefdom"`
	Facility     string `json:"facility"`
}

func (req *recordRequest) toRecord() (*Record, error) {
	var expiry time.Time
	if req.Expiry != "" {
		var err error
		expiry, err = parseExpiry(req.Expiry)
		if err != nil {
			return nil, fmt.Errorf("expiry must be a valid date")
		}
	}
	return &Record{
		Name:         req.Name,
		BatchNumber:  req.BatchNumber,
		Expiry:       expiry,
		Stock:        req.Stock,
		ReorderLevel: req.ReorderLevel,
		Consumed:     req.Consumed,
		Country:      req.Country,
		District:     req.District,
		Chiefdom:     req.Chiefdom,
		Facility:     req.Facility,
	}, nil
}

func filterFromQuery(c echo.Context) Filter {
	var f Filter
	f.Search = c.QueryParam("search")
	f.SetCountry(c.QueryParam("country"))
	if d := c.QueryParam("district"); d != "" {
		f.SetDistrict(d)
	}
	if ch := c.QueryParam("chiefdom"); ch != "" {
		f.SetChiefdom(ch)
	}
	if fac := c.QueryParam("facility"); fac != "" {
		f.Facility = fac
	}
	if s := c.QueryParam("status"); s != "" && ValidStatus(s) {
		f.Status = Status(s)
	}
	return f
}

func (h *Handler) List(c echo.Context) error {
	f := filterFromQuery(c)
	p := pagination.FromContext(c)

	records, page, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list medicines")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, page, p.PageSize))
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load medicine")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Create(c echo.Context) error {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := req.toRecord()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := auth.UsernameFromContext(c.Request().Context())
	if err := h.svc.Create(c.Request().Context(), r, actor); err != nil {
		if errors.Is(err, ErrDuplicateBatch) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r, err := req.toRecord()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.ID = id

	actor := auth.UsernameFromContext(c.Request().Context())
	if err := h.svc.Update(c.Request().Context(), r, actor); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	actor := auth.UsernameFromContext(c.Request().Context())
	if err := h.svc.Delete(c.Request().Context(), id, actor); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete medicine")
	}
	return c.NoContent(http.StatusNoContent)
}

// Import accepts a CSV upload, either as a multipart "file" part or as a
// raw request body. The whole file is validated before anything is stored.
func (h *Handler) Import(c echo.Context) error {
	body := c.Request().Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "failed to read upload")
		}
		defer f.Close()
		body = f
	}

	rows, err := ParseImport(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actor := auth.UsernameFromContext(c.Request().Context())
	result, err := h.svc.Import(c.Request().Context(), rows, actor)
	if err != nil {
		if errors.Is(err, ErrDuplicateBatch) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to import medicines")
	}
	return c.JSON(http.StatusOK, result)
}

// Export streams the filtered inventory as CSV.
func (h *Handler) Export(c echo.Context) error {
	f := filterFromQuery(c)
	records, err := h.svc.All(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to export medicines")
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="medicines.csv"`)
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write(requiredColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Name, r.BatchNumber, r.Expiry.Format("2006-01-02"),
			strconv.Itoa(r.Stock), strconv.Itoa(r.ReorderLevel),
			r.Country, r.District, r.Chiefdom, r.Facility,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
