package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/kendall-kelly/restaurant-assistant-api/utils"
	"github.com/sirupsen/logrus"
)

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name                  string  `json:"name" binding:"required"`
	Email                 string  `json:"email" binding:"required,email"`
	PhoneNumber           string  `json:"phone_number" binding:"required,max=20"`
	Notes                 *string `json:"notes"`
	DietaryRestrictionIDs []uint  `json:"dietary_restriction_ids"`
}

// UpdateCustomerRequest represents the request body for updating a customer.
// Omitted fields are left unchanged.
type UpdateCustomerRequest struct {
	Name                  *string `json:"name"`
	Email                 *string `json:"email" binding:"omitempty,email"`
	PhoneNumber           *string `json:"phone_number" binding:"omitempty,max=20"`
	Notes                 *string `json:"notes"`
	DietaryRestrictionIDs *[]uint `json:"dietary_restriction_ids"`
}

// CustomerController handles customer endpoints
type CustomerController struct {
	store *store.Store
	log   *logrus.Logger
}

// NewCustomerController creates a CustomerController
func NewCustomerController(st *store.Store, log *logrus.Logger) *CustomerController {
	return &CustomerController{store: st, log: log}
}

// List handles GET /customers - returns every customer as a bare array
func (ctl *CustomerController) List(c *gin.Context) {
	customers, err := ctl.store.ListCustomers(c.Request.Context())
	if err != nil {
		ctl.log.WithError(err).Error("Failed to list customers")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve customers"})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// Create handles POST /api/v1/customers
func (ctl *CustomerController) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, err)
		return
	}
	if err := utils.ValidatePhoneNumber(req.PhoneNumber); err != nil {
		writeError(c, ctl.log, err, "")
		return
	}

	ctx := c.Request.Context()
	customer := &models.Customer{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Notes:       req.Notes,
	}

	err := ctl.store.Transaction(ctx, func(tx *store.Store) error {
		if len(req.DietaryRestrictionIDs) > 0 {
			restrictions, err := tx.FindDietaryRestrictions(ctx, req.DietaryRestrictionIDs)
			if err != nil {
				return err
			}
			customer.DietaryRestrictions = restrictions
		}
		return tx.CreateCustomer(ctx, customer)
	})
	if err != nil {
		writeError(c, ctl.log, err, "Dietary restriction not found")
		return
	}

	staffEntry(c, ctl.log).WithField("customer_id", customer.ID).Info("Customer created")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customer,
	})
}

// Get handles GET /api/v1/customers/:id
func (ctl *CustomerController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := ctl.store.GetCustomer(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.log, err, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// Update handles PUT /api/v1/customers/:id.
// Existing reservations keep the allergy notes captured when they were booked.
func (ctl *CustomerController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, err)
		return
	}
	if req.PhoneNumber != nil {
		if err := utils.ValidatePhoneNumber(*req.PhoneNumber); err != nil {
			writeError(c, ctl.log, err, "")
			return
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			errorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name cannot be empty")
			return
		}
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	ctx := c.Request.Context()
	var customer *models.Customer
	err := ctl.store.Transaction(ctx, func(tx *store.Store) error {
		existing, err := tx.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.UpdateCustomer(ctx, existing, updates); err != nil {
			return err
		}

		if req.DietaryRestrictionIDs != nil {
			restrictions, err := tx.FindDietaryRestrictions(ctx, *req.DietaryRestrictionIDs)
			if err != nil {
				return err
			}
			if err := tx.ReplaceCustomerDietaryRestrictions(ctx, existing, restrictions); err != nil {
				return err
			}
		}

		customer, err = tx.GetCustomer(ctx, id)
		return err
	})
	if err != nil {
		writeError(c, ctl.log, err, "Customer or dietary restriction not found")
		return
	}

	staffEntry(c, ctl.log).WithField("customer_id", customer.ID).Info("Customer updated")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// ListReservations handles GET /api/v1/customers/:id/reservations
func (ctl *CustomerController) ListReservations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := ctl.store.GetCustomer(ctx, id); err != nil {
		writeError(c, ctl.log, err, "Customer not found")
		return
	}

	reservations, err := ctl.store.ListReservationsForCustomer(ctx, id)
	if err != nil {
		writeError(c, ctl.log, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reservations,
	})
}
