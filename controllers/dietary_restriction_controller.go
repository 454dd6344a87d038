package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/sirupsen/logrus"
)

// CreateDietaryRestrictionRequest represents the request body for adding a dietary restriction
type CreateDietaryRestrictionRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=250"`
}

// DietaryRestrictionController handles the dietary restriction catalogue
type DietaryRestrictionController struct {
	store *store.Store
	log   *logrus.Logger
}

// NewDietaryRestrictionController creates a DietaryRestrictionController
func NewDietaryRestrictionController(st *store.Store, log *logrus.Logger) *DietaryRestrictionController {
	return &DietaryRestrictionController{store: st, log: log}
}

// List handles GET /api/v1/dietary-restrictions
func (ctl *DietaryRestrictionController) List(c *gin.Context) {
	restrictions, err := ctl.store.ListDietaryRestrictions(c.Request.Context())
	if err != nil {
		writeError(c, ctl.log, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    restrictions,
	})
}

// Create handles POST /api/v1/dietary-restrictions
func (ctl *DietaryRestrictionController) Create(c *gin.Context) {
	var req CreateDietaryRestrictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, err)
		return
	}

	restriction := &models.DietaryRestriction{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := ctl.store.CreateDietaryRestriction(c.Request.Context(), restriction); err != nil {
		writeError(c, ctl.log, err, "")
		return
	}

	staffEntry(c, ctl.log).WithField("dietary_restriction_id", restriction.ID).Info("Dietary restriction created")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    restriction,
	})
}
