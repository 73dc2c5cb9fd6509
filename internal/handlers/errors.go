package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// errorStatus maps the ledger error taxonomy onto HTTP status codes.
func errorStatus(err error) int {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.Code
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidTransaction),
		errors.Is(err, apperrors.ErrImportFormat):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnknownAccount),
		errors.Is(err, apperrors.ErrUnbalancedTransaction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrClosedAccount),
		errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrDuplicateName),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody renders err for the client. Posting errors carry the offending index and field
// so a form can highlight the line; unbalanced journals carry the computed sum.
func errorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}

	var postingErr *apperrors.PostingError
	if errors.As(err, &postingErr) {
		body["posting"] = postingErr.Index
		if postingErr.Field != "" {
			body["field"] = postingErr.Field
		}
	}
	var unbalanced *apperrors.UnbalancedError
	if errors.As(err, &unbalanced) {
		body["sum"] = unbalanced.Sum.String()
	}
	var formatErr *apperrors.ImportFormatError
	if errors.As(err, &formatErr) && formatErr.Location != "" {
		body["location"] = formatErr.Location
	}
	return body
}

// respondError writes the mapped status. Client errors are logged at warn level; server side
// failures are logged in full but the client only sees fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()), slog.Int("status", status))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, errorBody(err))
}
