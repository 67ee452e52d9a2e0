package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"careform-api/internal/response"
)

// handleServiceError maps service layer errors to appropriate HTTP responses
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		// An empty export is a notice, not a failure
		if appErr.Code == response.ErrCodeEmptyResult {
			response.SendNotice(c, http.StatusOK, nil, appErr.Message)
			return
		}

		statusCode := mapErrorCodeToHTTPStatus(appErr.Code)
		if appErr.Details != "" && appErr.Code != response.ErrCodeInternal {
			response.SendErrorWithDetails(c, statusCode, appErr.Code, appErr.Message, appErr.Details)
			return
		}
		response.SendError(c, statusCode, appErr.Code, appErr.Message)
		return
	}

	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodeLimitExceeded:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
