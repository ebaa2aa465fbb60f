package ai

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mediclinic/mediclinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/ai", auth.RequireRole("admin", "doctor", "nurse", "patient"))
	g.POST("/explain", h.Explain)
	g.POST("/diagnosis", h.ExplainDiagnosis)
	g.POST("/medication", h.ExplainMedication)
}

type explainRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

func (h *Handler) Explain(c echo.Context) error {
	var req explainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	return c.JSON(http.StatusOK, h.svc.ExplainText(c.Request().Context(), req.Text, req.Context))
}

type diagnosisRequest struct {
	Diagnosis  string `json:"diagnosis"`
	Notes      string `json:"notes"`
	PatientAge int    `json:"patient_age"`
}

func (h *Handler) ExplainDiagnosis(c echo.Context) error {
	var req diagnosisRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Diagnosis == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "diagnosis is required")
	}
	return c.JSON(http.StatusOK,
		h.svc.ExplainDiagnosis(c.Request().Context(), req.Diagnosis, req.Notes, req.PatientAge))
}

type medicationRequest struct {
	Medication string   `json:"medication"`
	Conditions []string `json:"conditions"`
}

func (h *Handler) ExplainMedication(c echo.Context) error {
	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Medication == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "medication is required")
	}
	return c.JSON(http.StatusOK,
		h.svc.ExplainMedication(c.Request().Context(), req.Medication, req.Conditions))
}
