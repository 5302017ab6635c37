package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
	"github.com/mamadbah2/herdadvisor/internal/service/feeding"
	"github.com/mamadbah2/herdadvisor/internal/service/health"
	"github.com/mamadbah2/herdadvisor/internal/service/market"
)

// AdvisoryHandler exposes the feeding, health and market advisors over HTTP.
type AdvisoryHandler struct {
	feeding feeding.Advisor
	health  health.Matcher
	market  market.Analyzer
	logger  *zap.Logger
}

// NewAdvisoryHandler constructs the HTTP handler adapter.
func NewAdvisoryHandler(feedingSvc feeding.Advisor, healthSvc health.Matcher, marketSvc market.Analyzer, logger *zap.Logger) *AdvisoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisoryHandler{feeding: feedingSvc, health: healthSvc, market: marketSvc, logger: logger}
}

type recordDiagnosisRequest struct {
	LivestockID        int64   `json:"livestock_id" binding:"required"`
	SymptomIDs         []int64 `json:"symptom_ids"`
	SuspectedDiseaseID *int64  `json:"suspected_disease_id,omitempty"`
}

// FeedingRecommendations answers POST /feeding/recommendations.
func (h *AdvisoryHandler) FeedingRecommendations(c *gin.Context) {
	var query models.AnimalQuery
	if !h.bind(c, &query) {
		return
	}

	recs, err := h.feeding.Recommend(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "feeding recommendations failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// FeedingSummary answers GET /livestock/:id/feeding.
func (h *AdvisoryHandler) FeedingSummary(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	summary, err := h.feeding.Summary(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "feeding summary failed", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Diagnose answers POST /health/diagnose.
func (h *AdvisoryHandler) Diagnose(c *gin.Context) {
	var query models.SymptomQuery
	if !h.bind(c, &query) {
		return
	}

	candidates, err := h.health.Diagnose(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "diagnosis failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// CriticalAlerts answers POST /health/alerts.
func (h *AdvisoryHandler) CriticalAlerts(c *gin.Context) {
	var query models.SymptomQuery
	if !h.bind(c, &query) {
		return
	}

	alerts, err := h.health.CriticalAlerts(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "critical alerts failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// PreventionAdvice answers GET /animal-types/:id/prevention.
func (h *AdvisoryHandler) PreventionAdvice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	advice, err := h.health.PreventionAdvice(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "prevention advice failed", err)
		return
	}
	c.JSON(http.StatusOK, advice)
}

// SymptomSuggestions answers GET /animal-types/:id/symptoms.
func (h *AdvisoryHandler) SymptomSuggestions(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	suggestions, err := h.health.SymptomSuggestions(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "symptom suggestions failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symptoms": suggestions})
}

// RecordDiagnosis answers POST /health/records.
func (h *AdvisoryHandler) RecordDiagnosis(c *gin.Context) {
	var req recordDiagnosisRequest
	if !h.bind(c, &req) {
		return
	}

	receipt, err := h.health.RecordDiagnosis(c.Request.Context(), req.LivestockID, req.SymptomIDs, req.SuspectedDiseaseID)
	if err != nil {
		h.fail(c, "record diagnosis failed", err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// AnalyzeMarket answers POST /market/analyze.
func (h *AdvisoryHandler) AnalyzeMarket(c *gin.Context) {
	var query models.MarketQuery
	if !h.bind(c, &query) {
		return
	}

	analysis, err := h.market.AnalyzeMarket(c.Request.Context(), query)
	if err != nil {
		h.fail(c, "market analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Profitability answers GET /livestock/:id/profitability.
func (h *AdvisoryHandler) Profitability(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.market.AnalyzeProfitability(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "profitability analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SellingRecommendations answers GET /farmers/:id/selling-recommendations.
func (h *AdvisoryHandler) SellingRecommendations(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	recs, err := h.market.SellingRecommendations(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "selling recommendations failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

func (h *AdvisoryHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *AdvisoryHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// fail maps service errors onto status codes.
func (h *AdvisoryHandler) fail(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
