package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/SscSPs/recordsheet/internal/middleware"
	"github.com/SscSPs/recordsheet/internal/utils"
	"github.com/gin-gonic/gin"
)

// maxImportBytes bounds the size of one uploaded statement.
const maxImportBytes = 10 << 20

type externalTransactionHandler struct {
	store         portssvc.ExternalTransactionSvcFacade
	importService portssvc.ImportSvc
	posthogClient *utils.PosthogClientWrapper
}

// RegisterExternalTransactionRoutes registers the pending-record and import routes.
func RegisterExternalTransactionRoutes(rg *gin.RouterGroup, store portssvc.ExternalTransactionSvcFacade, importService portssvc.ImportSvc, posthogClient *utils.PosthogClientWrapper) {
	h := &externalTransactionHandler{store: store, importService: importService, posthogClient: posthogClient}

	ext := rg.Group("/external-transactions")
	{
		ext.GET("", h.listPending)
		ext.GET("/:id", h.getExternalTransaction)
	}

	imports := rg.Group("/imports")
	{
		imports.POST("", h.importDocument)
		imports.GET("/formats", h.listFormats)
	}
}

// listPending godoc
// @Summary List pending external transactions
// @Description Imported records not yet consumed by a journal, ordered by timestamp
// @Tags external-transactions
// @Produce  json
// @Param   limit query int false "Limit number of results" default(50)
// @Param   offset query int false "Offset for pagination" default(0)
// @Param   order query string false "asc or desc" default(asc)
// @Success 200 {array} dto.ExternalTransactionResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list pending records"
// @Security BearerAuth
// @Router /external-transactions [get]
func (h *externalTransactionHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPendingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	records, err := h.store.ListPending(c.Request.Context(), params.Limit, params.Offset, params.SortOrder())
	if err != nil {
		respondError(c, logger, err, "Failed to list pending records")
		return
	}
	c.JSON(http.StatusOK, dto.ToExternalTransactionResponses(records))
}

// getExternalTransaction godoc
// @Summary Get an external transaction
// @Tags external-transactions
// @Produce  json
// @Param   id path string true "External transaction ID"
// @Success 200 {object} dto.ExternalTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 500 {object} map[string]string "Failed to retrieve record"
// @Security BearerAuth
// @Router /external-transactions/{id} [get]
func (h *externalTransactionHandler) getExternalTransaction(c *gin.Context) {
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("external_transaction_id", id))

	rec, err := h.store.GetExternalTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve record")
		return
	}
	c.JSON(http.StatusOK, dto.ToExternalTransactionResponse(rec))
}

// importDocument godoc
// @Summary Import a statement
// @Description The request body is the raw document. Records already imported are skipped and counted as duplicates.
// @Description A malformed document is rejected as a whole.
// @Tags imports
// @Accept  plain
// @Produce  json
// @Param   format query string true "Source format, see /imports/formats"
// @Param   accountID query string false "Account the imported records belong to"
// @Param   document body string true "Raw statement"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string "Unknown format or malformed document"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 413 {object} map[string]string "Document too large"
// @Failure 422 {object} map[string]string "Unknown target account"
// @Failure 503 {object} map[string]string "Store unavailable, safe to retry"
// @Security BearerAuth
// @Router /imports [post]
func (h *externalTransactionHandler) importDocument(c *gin.Context) {
	var params dto.ImportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("format", params.Format))

	var target *string
	if params.AccountID != "" {
		target = &params.AccountID
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	result, err := h.importService.ImportBatch(c.Request.Context(), params.Format, body, target)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Document too large"})
			return
		}
		respondError(c, logger, err, "Failed to import document")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "statement_imported", map[string]any{
		"format":     result.Format,
		"inserted":   result.Inserted,
		"duplicates": result.Duplicates,
	})
	c.JSON(http.StatusOK, dto.ToImportResponse(result))
}

// listFormats godoc
// @Summary List import formats
// @Tags imports
// @Produce  json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /imports/formats [get]
func (h *externalTransactionHandler) listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, h.importService.Formats())
}
