package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/guironm/crew-center/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Service services.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	token, exp, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
		return
	case errors.Is(err, services.ErrAuthDisabled):
		respondError(c, http.StatusServiceUnavailable, "auth_disabled", err.Error(), nil)
		return
	case err != nil:
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, TokenType: "Bearer", ExpiresAt: exp})
}
