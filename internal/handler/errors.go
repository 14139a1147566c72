package handler

import (
	"errors"
	"net/http"

	"diamondtrade/internal/logger"
	"diamondtrade/internal/printing"
	"diamondtrade/internal/service"
	"diamondtrade/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, printing.ErrRenderTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the standard error envelope. Internal errors are
// logged and their details hidden from the caller.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.FromGin(c).Error("Request failed", zap.Error(err))
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, response.Error(status, msg))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, msg))
}
