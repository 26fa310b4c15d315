package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/apperrors"
)

// statusFor maps a domain error kind to an HTTP status code.
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindPermissionDenied:
		return http.StatusForbidden
	case apperrors.KindConflict, apperrors.KindInvalidTransition:
		return http.StatusConflict
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindPaymentNotConfirmed, apperrors.KindDocumentValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	if kind, ok := apperrors.KindOf(err); ok {
		c.JSON(statusFor(kind), gin.H{"error": err.Error(), "kind": kind.String()})
		return
	}
	if errors.Is(err, access.ErrUnaffiliatedManager) {
		// Misconfigured account, not a permission outcome
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error: " + err.Error()})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
