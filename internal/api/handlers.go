package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizpulse/bizpulse/internal/models"
	"github.com/bizpulse/bizpulse/internal/services"
)

// Handlers contains the API handlers with their dependencies
type Handlers struct {
	analyticsService *services.AnalyticsService
	logger           *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(analyticsService *services.AnalyticsService, logger *zap.Logger) *Handlers {
	return &Handlers{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// RegisterRoutes wires the analytics endpoints onto the router group.
func (h *Handlers) RegisterRoutes(group *gin.RouterGroup) {
	analyticsGroup := group.Group("/analytics")
	{
		analyticsGroup.GET("/report", h.GetReport)
		analyticsGroup.GET("/anomalies", h.GetAnomalies)
		analyticsGroup.GET("/insights", h.GetInsights)
		analyticsGroup.GET("/ranking", h.GetRanking)
	}
	group.GET("/businesses", h.GetBusinesses)
}

// GetReport returns the full derived report for a filter selection.
func (h *Handlers) GetReport(c *gin.Context) {
	business, location, dateRange, ok := h.parseSelection(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.BuildReport(c.Request.Context(), business, location, dateRange)
	if err != nil {
		h.logger.Error("Failed to build report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetAnomalies returns only the anomaly and temporal-pattern sections.
func (h *Handlers) GetAnomalies(c *gin.Context) {
	business, location, dateRange, ok := h.parseSelection(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.BuildReport(c.Request.Context(), business, location, dateRange)
	if err != nil {
		h.logger.Error("Failed to build report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"anomalies": report.Anomalies,
		"temporal":  report.Temporal,
	})
}

// GetInsights returns the classified insights and recommendations.
func (h *Handlers) GetInsights(c *gin.Context) {
	business, location, dateRange, ok := h.parseSelection(c)
	if !ok {
		return
	}

	report, err := h.analyticsService.BuildReport(c.Request.Context(), business, location, dateRange)
	if err != nil {
		h.logger.Error("Failed to build report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":         report.Metrics,
		"insights":        report.Insights,
		"recommendations": report.Recommendations,
	})
}

// GetRanking returns the cross-business ranking for the selected
// business. Requires an explicit business selection.
func (h *Handlers) GetRanking(c *gin.Context) {
	business, location, dateRange, ok := h.parseSelection(c)
	if !ok {
		return
	}
	if business == models.AllBusinesses {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business query parameter is required for ranking"})
		return
	}

	report, err := h.analyticsService.BuildReport(c.Request.Context(), business, location, dateRange)
	if err != nil {
		h.logger.Error("Failed to build report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	if report.Ranking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no ranking available for the selected business"})
		return
	}

	c.JSON(http.StatusOK, report.Ranking)
}

// GetBusinesses lists the distinct business names in the dataset.
func (h *Handlers) GetBusinesses(c *gin.Context) {
	businesses, err := h.analyticsService.ListBusinesses(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list businesses", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list businesses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"businesses": businesses})
}

// parseSelection reads the business/location/date-range query
// parameters, defaulting both dimensions to the "all" sentinel. On a
// malformed date it writes the error response and returns ok=false.
func (h *Handlers) parseSelection(c *gin.Context) (string, string, *models.DateRange, bool) {
	business := c.DefaultQuery("business", models.AllBusinesses)
	location := c.DefaultQuery("location", models.AllLocations)

	startRaw := c.Query("start")
	endRaw := c.Query("end")
	if startRaw == "" && endRaw == "" {
		return business, location, nil, true
	}
	if startRaw == "" || endRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be provided together"})
		return "", "", nil, false
	}

	start, err := time.Parse("2006-01-02", startRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
		return "", "", nil, false
	}
	end, err := time.Parse("2006-01-02", endRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected YYYY-MM-DD"})
		return "", "", nil, false
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date precedes start date"})
		return "", "", nil, false
	}

	return business, location, &models.DateRange{Start: start, End: end}, true
}
