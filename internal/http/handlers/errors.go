package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillforge/skillforge-backend/internal/http/response"
	"github.com/skillforge/skillforge-backend/internal/modules/progression"
	"github.com/skillforge/skillforge-backend/internal/platform/apierr"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

// respondServiceError maps service-layer errors: an apierr carries its own
// status and code, anything else is a 500 under the fallback code.
func respondServiceError(c *gin.Context, log *logger.Logger, err error, fallbackCode string) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Err)
		return
	}
	log.Error("unhandled service error", "error", err)
	response.RespondError(c, http.StatusInternalServerError, fallbackCode, err)
}

// respondProgressionError maps module errors onto API statuses. Anything it
// does not recognize is a 500 and gets logged; the known cases are caller
// errors and stay at Warn.
func respondProgressionError(c *gin.Context, log *logger.Logger, err error) {
	var (
		incomplete *progression.IncompleteSubmissionError
		invalid    *progression.InvalidSelectionError
		outOfOrder *progression.OutOfOrderAccessError
	)
	switch {
	case errors.As(err, &incomplete):
		response.RespondError(c, http.StatusUnprocessableEntity, "incomplete_submission", err)
	case errors.As(err, &invalid):
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_selection", err)
	case errors.As(err, &outOfOrder):
		response.RespondError(c, http.StatusForbidden, "out_of_order_access", err)
	case errors.Is(err, progression.ErrAlreadyCompleted):
		response.RespondError(c, http.StatusConflict, "already_completed", err)
	case errors.Is(err, progression.ErrNotEnrolled):
		response.RespondError(c, http.StatusForbidden, "not_enrolled", err)
	case errors.Is(err, progression.ErrCourseNotFound),
		errors.Is(err, progression.ErrQuizNotFound),
		errors.Is(err, progression.ErrLessonNotFound),
		errors.Is(err, progression.ErrSummaryNotFound),
		errors.Is(err, progression.ErrCertificateNotEarned):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		log.Error("unhandled progression error", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
