package handlers

import (
	"net/http"
	"strconv"

	"github.com/guironm/crew-center/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Service services.UserService
}

// GET /api/users/random?count=N
func (h UserHandler) Random(c *gin.Context) {
	count, _ := strconv.Atoi(c.Query("count"))
	users, err := h.Service.GetRandomUsers(c.Request.Context(), count)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
