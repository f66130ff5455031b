package handlers

import (
	"net/http"

	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/services"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	Service services.DepartmentService
}

// GET /api/departments
func (h DepartmentHandler) List(c *gin.Context) {
	items, err := h.Service.FindAll(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/departments/search
func (h DepartmentHandler) Search(c *gin.Context) {
	items, err := h.Service.Find(c.Request.Context(), queryMap(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/departments/paginated
func (h DepartmentHandler) Paginated(c *gin.Context) {
	page, err := h.Service.FindPaginated(c.Request.Context(), queryMap(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/departments/:id
func (h DepartmentHandler) Get(c *gin.Context) {
	d, err := h.Service.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/departments
func (h DepartmentHandler) Create(c *gin.Context) {
	var in models.CreateDepartmentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	d, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// PUT /api/departments/:id
func (h DepartmentHandler) Update(c *gin.Context) {
	var in models.UpdateDepartmentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	d, err := h.Service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DELETE /api/departments/:id
func (h DepartmentHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
