package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/sirupsen/logrus"
)

// SystemController serves the liveness and database status endpoints
type SystemController struct {
	store *store.Store
	log   *logrus.Logger
}

// NewSystemController creates a SystemController
func NewSystemController(st *store.Store, log *logrus.Logger) *SystemController {
	return &SystemController{store: st, log: log}
}

// Root handles GET /
func (ctl *SystemController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Restaurant Assistant API",
		"status":  "running",
	})
}

// Health handles GET /health
func (ctl *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// DatabaseStatus handles GET /api/v1/database/status - checks connectivity and lists tables
func (ctl *SystemController) DatabaseStatus(c *gin.Context) {
	ctx := c.Request.Context()

	if err := ctl.store.Ping(ctx); err != nil {
		ctl.log.WithError(err).Error("Database ping failed")
		errorResponse(c, http.StatusInternalServerError, "DATABASE_CONNECTION_ERROR", "Database connection failed")
		return
	}

	tables, err := ctl.store.Tables(ctx)
	if err != nil {
		ctl.log.WithError(err).Error("Failed to list tables")
		errorResponse(c, http.StatusInternalServerError, "DATABASE_QUERY_ERROR", "Failed to query tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
