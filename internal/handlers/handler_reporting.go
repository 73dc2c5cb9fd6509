package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/SscSPs/recordsheet/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/profit-and-loss", h.getProfitAndLoss)
		reportingGroup.GET("/entities", h.listEntities)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Sums every account over non-void journals dated up to asOf. The total is zero for a consistent ledger.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date, YYYY-MM-DD or RFC3339" default(now)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.TrialBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := params.AsOfTime()
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", params.AsOf))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Reports ENTITY:INCOME and ENTITY:EXPENSES accounts for a calendar year. Income is positive,
// @Description expenses negative, and the net is their sum.
// @Tags reports
// @Produce json
// @Param entity query string true "Entity, the top-level account name"
// @Param year query int true "Calendar year"
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ProfitAndLossParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid profit and loss parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), params.Entity, params.Year)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// listEntities godoc
// @Summary List entities
// @Description Top-level accounts, which the profit and loss report treats as entities
// @Tags reports
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entities"
// @Security BearerAuth
// @Router /reports/entities [get]
func (h *reportingHandler) listEntities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entities, err := h.reportingService.ListEntities(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list entities")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(entities))
}
