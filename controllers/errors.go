package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/services"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/kendall-kelly/restaurant-assistant-api/utils"
	"github.com/sirupsen/logrus"
)

// errorResponse writes the standard failure envelope used by the /api/v1 routes
func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// validationResponse reports a request body that failed binding
func validationResponse(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// writeError maps a store or service error onto a status code and envelope.
// notFound is the message used when the error is a missing row.
func writeError(c *gin.Context, log *logrus.Logger, err error, notFound string) {
	var validationErr *models.ValidationError
	var contactErr *utils.ContactError
	var providerErr *services.ProviderError

	switch {
	case errors.As(err, &validationErr):
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.As(err, &contactErr):
		errorResponse(c, http.StatusBadRequest, contactErr.Code, contactErr.Message)
	case errors.Is(err, services.ErrEmptyMessage):
		errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message body is required")
	case errors.Is(err, store.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "NOT_FOUND", notFound)
	case errors.Is(err, store.ErrIntegrity):
		errorResponse(c, http.StatusConflict, "CONFLICT", "The request conflicts with existing data")
	case errors.As(err, &providerErr):
		log.WithError(err).Error("SMS provider rejected the message")
		errorResponse(c, http.StatusBadGateway, "SMS_PROVIDER_ERROR", "The SMS provider rejected the message")
	case errors.Is(err, services.ErrSMSDisabled), errors.Is(err, services.ErrStorageDisabled):
		errorResponse(c, http.StatusServiceUnavailable, "FEATURE_DISABLED", err.Error())
	default:
		log.WithError(err).Error("Request failed")
		errorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// parseID reads a positive numeric path parameter, writing a 400 when it is malformed
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
