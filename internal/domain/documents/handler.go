package documents

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mediclinic/mediclinic/internal/platform/auth"
	"github.com/mediclinic/mediclinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/documents", auth.RequireRole("admin", "doctor", "patient"))
	g.POST("", h.Upload)
	g.GET("", h.ListByPatient)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete, auth.RequireRole("admin", "doctor"))
}

// Upload accepts a multipart form with a "file" part plus patient_id and
// doc_type fields.
func (h *Handler) Upload(c echo.Context) error {
	patientID, err := uuid.Parse(c.FormValue("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	if !auth.OwnsPatient(c.Request().Context(), patientID.String()) {
		return echo.NewHTTPError(http.StatusForbidden, "patients can only access their own documents")
	}
	docType := c.FormValue("doc_type")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}

	doc, err := h.svc.Upload(c.Request().Context(), patientID, docType, fileHeader.Filename, content)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doc, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !auth.OwnsPatient(c.Request().Context(), doc.PatientID.String()) {
		return echo.NewHTTPError(http.StatusForbidden, "patients can only access their own documents")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	if !auth.OwnsPatient(c.Request().Context(), patientID.String()) {
		return echo.NewHTTPError(http.StatusForbidden, "patients can only access their own documents")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
