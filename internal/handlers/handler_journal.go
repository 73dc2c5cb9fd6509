package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/recordsheet/internal/core/domain"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/SscSPs/recordsheet/internal/middleware"
	"github.com/SscSPs/recordsheet/internal/utils"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	posthogClient  *utils.PosthogClientWrapper
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade, posthogClient *utils.PosthogClientWrapper) *journalHandler {
	return &journalHandler{
		journalService: journalService,
		posthogClient:  posthogClient,
	}
}

// RegisterJournalRoutes registers routes related to journals.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := newJournalHandler(journalService, posthogClient)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:id", h.getJournal)
		journals.POST("/:id/void", h.voidJournal)
	}
}

// createJournal godoc
// @Summary Post a journal entry
// @Description Validates and commits a balanced journal. Each posting names an account by accountID
// @Description or account (name), or consumes a pending external transaction by externalTransactionID.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal and postings"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid request or structurally invalid journal"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Closed account or external transaction already posted"
// @Failure 422 {object} map[string]string "Unknown account or unbalanced postings"
// @Failure 503 {object} map[string]string "Store unavailable, safe to retry"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	inputs, err := req.ToPostingInputs()
	if err != nil {
		respondError(c, logger, err, "Failed to post journal")
		return
	}

	batch := h.journalService.NewBatch(creatorUserID)
	if req.BatchID != "" {
		batch = domain.Batch{BatchID: req.BatchID, UserID: creatorUserID}
	}

	journal, err := h.journalService.NewTransaction(c.Request.Context(), batch, inputs, req.Timestamp, req.Memo)
	if err != nil {
		respondError(c, logger, err, "Failed to post journal")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "journal_posted", map[string]any{
		"postings": len(journal.Postings),
	})
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal entry
// @Description Retrieves a journal with its postings
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Security BearerAuth
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journalID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", journalID))

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journal entries
// @Description Newest first, with token pagination
// @Tags journals
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters or token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list journals"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	journals, next, err := h.journalService.ListJournals(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list journals")
		return
	}

	resp := dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, len(journals)),
		NextToken: next,
	}
	for i := range journals {
		resp.Journals[i] = dto.ToJournalResponse(&journals[i])
	}
	c.JSON(http.StatusOK, resp)
}

// voidJournal godoc
// @Summary Void a journal entry
// @Description A void journal stays readable but no longer counts towards balances or reports.
// @Tags journals
// @Param   id path string true "Journal ID"
// @Success 204 "Journal voided"
// @Failure 400 {object} map[string]string "Journal already void"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to void journal"
// @Security BearerAuth
// @Router /journals/{id}/void [post]
func (h *journalHandler) voidJournal(c *gin.Context) {
	journalID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", journalID))

	if err := h.journalService.VoidJournal(c.Request.Context(), journalID); err != nil {
		respondError(c, logger, err, "Failed to void journal")
		return
	}
	c.Status(http.StatusNoContent)
}
