package handlers

import (
	"net/http"

	"github.com/guironm/crew-center/internal/domain/models"
	"github.com/guironm/crew-center/internal/services"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	Service services.EmployeeService
	Export  services.ExportService
}

// GET /api/employees
func (h EmployeeHandler) List(c *gin.Context) {
	items, err := h.Service.FindAll(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/employees/search
func (h EmployeeHandler) Search(c *gin.Context) {
	items, err := h.Service.Find(c.Request.Context(), queryMap(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GET /api/employees/paginated
func (h EmployeeHandler) Paginated(c *gin.Context) {
	page, err := h.Service.FindPaginated(c.Request.Context(), queryMap(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/employees/statistics
func (h EmployeeHandler) Statistics(c *gin.Context) {
	stats, err := h.Service.Statistics(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/employees/export/pdf
func (h EmployeeHandler) ExportPDF(c *gin.Context) {
	data, name, err := h.Export.EmployeesPDF(c.Request.Context(), queryMap(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, "application/pdf", name, data)
}

// GET /api/employees/export/xlsx
func (h EmployeeHandler) ExportXLSX(c *gin.Context) {
	data, name, err := h.Export.EmployeesXLSX(c.Request.Context(), queryMap(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", name, data)
}

// GET /api/employees/:id
func (h EmployeeHandler) Get(c *gin.Context) {
	e, err := h.Service.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// POST /api/employees
func (h EmployeeHandler) Create(c *gin.Context) {
	var in models.CreateEmployeeInput
	if !BindJSONOrError(c, &in) {
		return
	}
	e, err := h.Service.Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// PUT /api/employees/:id
func (h EmployeeHandler) Update(c *gin.Context) {
	var in models.UpdateEmployeeInput
	if !BindJSONOrError(c, &in) {
		return
	}
	e, err := h.Service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DELETE /api/employees/:id
func (h EmployeeHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
