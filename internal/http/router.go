package api

import (
	"log"
	stdhttp "net/http"

	intconfig "github.com/guironm/crew-center/internal/config"
	h "github.com/guironm/crew-center/internal/http/handlers"
	"github.com/guironm/crew-center/internal/http/middleware"
	"github.com/guironm/crew-center/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Env         intconfig.Env
	Employees   services.EmployeeService
	Departments services.DepartmentService
	Users       services.UserService
	Export      services.ExportService
	Auth        services.AuthService
	System      h.SystemHandler
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(d.Env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// mutating routes require an admin token once a signing secret is configured
	var guard []gin.HandlerFunc
	if d.Env.AuthEnabled() {
		guard = []gin.HandlerFunc{middleware.RequireAuth(d.Auth), middleware.RequireRoles(services.RoleAdmin)}
	}
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guard...), fn)
	}

	employees := h.EmployeeHandler{Service: d.Employees, Export: d.Export}
	departments := h.DepartmentHandler{Service: d.Departments}
	users := h.UserHandler{Service: d.Users}
	auth := h.AuthHandler{Service: d.Auth}

	api := r.Group("/api")
	{
		api.GET("/health", d.System.Health)
		api.GET("/db-check", d.System.DBCheck)
		api.GET("/routes", h.Routes)

		api.POST("/auth/login", auth.Login)

		api.GET("/users/random", users.Random)

		emp := api.Group("/employees")
		emp.GET("", employees.List)
		emp.GET("/search", employees.Search)
		emp.GET("/paginated", employees.Paginated)
		emp.GET("/statistics", employees.Statistics)
		emp.GET("/export/pdf", employees.ExportPDF)
		emp.GET("/export/xlsx", employees.ExportXLSX)
		emp.GET("/:id", employees.Get)
		emp.POST("", guarded(employees.Create)...)
		emp.PUT("/:id", guarded(employees.Update)...)
		emp.DELETE("/:id", guarded(employees.Delete)...)

		dept := api.Group("/departments")
		dept.GET("", departments.List)
		dept.GET("/search", departments.Search)
		dept.GET("/paginated", departments.Paginated)
		dept.GET("/:id", departments.Get)
		dept.POST("", guarded(departments.Create)...)
		dept.PUT("/:id", guarded(departments.Update)...)
		dept.DELETE("/:id", guarded(departments.Delete)...)
	}

	h.SetRouter(r)
	return r
}
