package charts

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mediclinic/mediclinic/internal/domain/analysis"
	"github.com/mediclinic/mediclinic/internal/platform/auth"
)

// defaultPatientAge is assumed when no demographics are supplied.
const defaultPatientAge = 50

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/charts", auth.RequireRole("admin", "doctor", "patient"))
	g.POST("/:kind", h.Generate)
}

type chartRequest struct {
	LabData     map[string]float64       `json:"lab_data"`
	PatientInfo analysis.PatientInfo     `json:"patient_info"`
	History     []analysis.HistoryRecord `json:"history"`
}

func (r *chartRequest) age() int {
	if r.PatientInfo.Age > 0 {
		return r.PatientInfo.Age
	}
	return defaultPatientAge
}

// Generate builds the requested chart kind from the posted lab data.
func (h *Handler) Generate(c echo.Context) error {
	var req chartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	kind := c.Param("kind")
	var (
		chart   interface{ Render(w io.Writer) error }
		summary map[string]interface{}
	)
	switch kind {
	case "blood_work":
		if len(req.LabData) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "lab_data is required")
		}
		chart, summary = h.svc.BloodWork(req.LabData)
	case "health_score":
		if len(req.LabData) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "lab_data is required")
		}
		chart, summary = h.svc.HealthScore(req.LabData)
	case "lab_trends":
		line, s, err := h.svc.LabTrends(req.History)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		chart, summary = line, s
	case "risk_assessment":
		if len(req.LabData) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "lab_data is required")
		}
		chart, summary = h.svc.RiskAssessment(req.LabData, req.age())
	case "body_systems":
		if len(req.LabData) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "lab_data is required")
		}
		chart, summary = h.svc.BodySystems(req.LabData)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown chart type: "+kind)
	}

	html, err := renderHTML(chart)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not render chart")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"chart_type":   kind,
		"chart_html":   html,
		"summary":      summary,
		"generated_at": time.Now().UTC(),
	})
}
