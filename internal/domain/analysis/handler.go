package analysis

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mediclinic/mediclinic/internal/platform/auth"
)

// LabSummarizer produces an optional natural-language summary of a lab
// snapshot. Nil means no summarizer is configured.
type LabSummarizer interface {
	SummarizeLabs(ctx context.Context, snapshot map[string]float64) (map[string]interface{}, error)
}

type Handler struct {
	analyzer   *Analyzer
	summarizer LabSummarizer
}

func NewHandler(analyzer *Analyzer, summarizer LabSummarizer) *Handler {
	return &Handler{analyzer: analyzer, summarizer: summarizer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/analysis", auth.RequireRole("admin", "doctor", "patient"))
	g.POST("/labs", h.AnalyzeLabs)
	g.POST("/score", h.CalculateScore)
	g.POST("/risks", h.AssessRisks)
	g.POST("/trends", h.AnalyzeTrends)
	g.POST("/report", h.GenerateReport)
	g.POST("/body-systems", h.AnalyzeBodySystems)
	g.GET("/reference-ranges", h.ReferenceRanges)
}

// labRequest is the shared payload for endpoints that take one snapshot
// plus optional demographics.
type labRequest struct {
	LabData     map[string]float64 `json:"lab_data"`
	PatientInfo PatientInfo        `json:"patient_info"`
}

func (r *labRequest) age() int {
	if r.PatientInfo.Age > 0 {
		return r.PatientInfo.Age
	}
	return defaultPatientAge
}

func (h *Handler) AnalyzeLabs(c echo.Context) error {
	var req labRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.LabData) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "lab_data is required")
	}

	resp := map[string]interface{}{
		"categorization": h.analyzer.Categorize(req.LabData),
		"health_score":   h.analyzer.Score(req.LabData),
		"risk_factors":   h.analyzer.DetectRisks(req.LabData, req.age()),
		"health_report":  h.analyzer.GenerateReport(req.LabData, req.PatientInfo),
		"analyzed_at":    time.Now(),
	}
	if h.summarizer != nil {
		if summary, err := h.summarizer.SummarizeLabs(c.Request().Context(), req.LabData); err == nil {
			resp["ai_analysis"] = summary
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CalculateScore(c echo.Context) error {
	var snapshot map[string]float64
	if err := c.Bind(&snapshot); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.analyzer.Score(snapshot))
}

func (h *Handler) AssessRisks(c echo.Context) error {
	var req labRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.LabData) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "lab_data is required")
	}
	return c.JSON(http.StatusOK, h.analyzer.DetectRisks(req.LabData, req.age()))
}

func (h *Handler) AnalyzeTrends(c echo.Context) error {
	var history []HistoryRecord
	if err := c.Bind(&history); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.analyzer.AnalyzeTrends(history))
}

func (h *Handler) GenerateReport(c echo.Context) error {
	var req labRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.LabData) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "lab_data is required")
	}
	return c.JSON(http.StatusOK, h.analyzer.GenerateReport(req.LabData, req.PatientInfo))
}

func (h *Handler) AnalyzeBodySystems(c echo.Context) error {
	var snapshot map[string]float64
	if err := c.Bind(&snapshot); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"body_systems": h.analyzer.BodySystems(snapshot),
		"analyzed_at":  time.Now(),
	})
}

func (h *Handler) ReferenceRanges(c echo.Context) error {
	return c.JSON(http.StatusOK, h.analyzer.ReferenceRanges())
}
