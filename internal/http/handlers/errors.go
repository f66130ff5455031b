package handlers

import (
	"errors"
	"net/http"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/http/middleware"
	"github.com/guironm/crew-center/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		var ve domain.ValidationError
		var details any
		if errors.As(err, &ve) && len(ve.Fields) > 0 {
			details = ve.Fields
		}
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		msg := err.Error()
		if cause := errors.Unwrap(err); cause != nil {
			msg += ": " + cause.Error()
		}
		utils.LogEvent(middleware.GetRequestID(c), "http", "internal_error", msg)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
