package patient

import (
	"errors"
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
	readGroup := api.Group("", auth.RequireRole("admin", "doctor", "patient"))
	readGroup.GET("/patients/:id", h.GetPatient)
	readGroup.GET("/patients/:id/summary", h.GetSummary)
	readGroup.GET("/patients/:id/lab-results", h.ListLabResults)
	readGroup.GET("/patients/:id/medications", h.ListMedications)
	readGroup.GET("/patients/:id/appointments", h.ListAppointments)
	readGroup.GET("/lab-results/:id", h.GetLabResult)

	writeGroup := api.Group("", auth.RequireRole("admin", "doctor"))
	writeGroup.GET("/patients", h.ListPatients)
	writeGroup.POST("/patients", h.CreatePatient)
	writeGroup.PUT("/patients/:id", h.UpdatePatient)
	writeGroup.DELETE("/patients/:id", h.DeletePatient)
	writeGroup.POST("/patients/:id/lab-results", h.AddLabResult)
	writeGroup.DELETE("/lab-results/:id", h.DeleteLabResult)
	writeGroup.POST("/patients/:id/medications", h.AddMedication)
	writeGroup.PUT("/medications/:id", h.UpdateMedication)
	writeGroup.DELETE("/medications/:id", h.DeleteMedication)
	writeGroup.POST("/patients/:id/appointments", h.AddAppointment)
	writeGroup.PUT("/appointments/:id", h.UpdateAppointment)
	writeGroup.DELETE("/appointments/:id", h.DeleteAppointment)
}

// requireOwnPatient rejects patient-role callers reading another patient's
// records. Doctors and admins passed the role gate already.
func requireOwnPatient(c echo.Context, patientID uuid.UUID) error {
	if auth.OwnsPatient(c.Request().Context(), patientID.String()) {
		return nil
	}
	return echo.NewHTTPError(http.StatusForbidden, "patients can only access their own records")
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func httpErr(err error, notFoundMsg string) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// -- Patient --

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := requireOwnPatient(c, id); err != nil {
		return err
	}
	p, err := h.svc.GetPatient(c.Request().Context(), id)
	if err != nil {
		return httpErr(err, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePatient(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeletePatient(c.Request().Context(), id); err != nil {
		return httpErr(err, "patient not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetSummary(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := requireOwnPatient(c, id); err != nil {
		return err
	}
	summary, err := h.svc.Summary(c.Request().Context(), id)
	if err != nil {
		return httpErr(err, "patient not found")
	}
	return c.JSON(http.StatusOK, summary)
}

// -- Lab results --

func (h *Handler) AddLabResult(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var lr LabResult
	if err := c.Bind(&lr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lr.PatientID = id
	if err := h.svc.AddLabResult(c.Request().Context(), &lr); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, lr)
}

func (h *Handler) GetLabResult(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	lr, err := h.svc.GetLabResult(c.Request().Context(), id)
	if err != nil {
		return httpErr(err, "lab result not found")
	}
	if err := requireOwnPatient(c, lr.PatientID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lr)
}

func (h *Handler) DeleteLabResult(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteLabResult(c.Request().Context(), id); err != nil {
		return httpErr(err, "lab result not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListLabResults(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := requireOwnPatient(c, id); err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListLabResults(c.Request().Context(), id, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Medications --

func (h *Handler) AddMedication(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.PatientID = id
	if err := h.svc.AddMedication(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMedication(c.Request().Context(), &m); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMedication(c.Request().Context(), id); err != nil {
		return httpErr(err, "medication not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMedications(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := requireOwnPatient(c, id); err != nil {
		return err
	}
	activeOnly := c.QueryParam("active") == "true"
	items, err := h.svc.ListMedications(c.Request().Context(), id, activeOnly)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// -- Appointments --

func (h *Handler) AddAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.PatientID = id
	if err := h.svc.AddAppointment(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.UpdateAppointment(c.Request().Context(), &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), id); err != nil {
		return httpErr(err, "appointment not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := requireOwnPatient(c, id); err != nil {
		return err
	}
	upcoming := c.QueryParam("upcoming") == "true"
	items, err := h.svc.ListAppointments(c.Request().Context(), id, upcoming)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
