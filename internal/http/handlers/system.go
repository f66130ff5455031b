package handlers

import (
	"net/http"
	"sync"

	intdb "github.com/guironm/crew-center/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

type SystemHandler struct {
	Store string
	DB    *sqlx.DB
}

func (h SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": h.Store})
}

// DBCheck pings the store and reports missing tables.
func (h SystemHandler) DBCheck(c *gin.Context) {
	if h.Store == intdb.DriverMemory {
		c.JSON(http.StatusOK, gin.H{"message": "in-memory store active", "store": h.Store})
		return
	}
	if h.DB == nil {
		respondError(c, http.StatusInternalServerError, "db_unavailable", "database not connected", nil)
		return
	}
	ctx := c.Request.Context()
	if err := h.DB.PingContext(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, "db_unavailable", "database ping failed: "+err.Error(), nil)
		return
	}
	missing := intdb.MissingTables(ctx, h.DB, h.Store)
	if len(missing) > 0 {
		respondError(c, http.StatusInternalServerError, "schema_incomplete", "missing tables, run migrations", missing)
		return
	}

	var employees int
	if err := h.DB.GetContext(ctx, &employees, "SELECT COUNT(*) FROM employees"); err != nil {
		respondError(c, http.StatusInternalServerError, "db_query_failed", "database query failed: "+err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "store": h.Store, "employees_in_db": employees})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router not ready"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
