package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/sirupsen/logrus"
)

// CreateReservationRequest represents the request body for booking a reservation
type CreateReservationRequest struct {
	CustomerID            uint      `json:"customer_id" binding:"required"`
	ReservationDatetime   time.Time `json:"reservation_datetime" binding:"required"`
	PartySize             int       `json:"party_size" binding:"required,gt=0"`
	Status                string    `json:"status"`
	Occasion              *string   `json:"occasion"`
	ReservationNotes      *string   `json:"reservation_notes"`
	CustomerAllergyNotes  *string   `json:"customer_allergy_notes"`
	DietaryRestrictionIDs []uint    `json:"dietary_restriction_ids"`
}

// UpdateReservationStatusRequest represents the request body for changing a reservation's status
type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReservationController handles reservation endpoints
type ReservationController struct {
	store *store.Store
	log   *logrus.Logger
}

// NewReservationController creates a ReservationController
func NewReservationController(st *store.Store, log *logrus.Logger) *ReservationController {
	return &ReservationController{store: st, log: log}
}

// List handles GET /reservations - returns every reservation as a bare array
func (ctl *ReservationController) List(c *gin.Context) {
	reservations, err := ctl.store.ListReservations(c.Request.Context())
	if err != nil {
		ctl.log.WithError(err).Error("Failed to list reservations")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to retrieve reservations"})
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// Create handles POST /api/v1/reservations.
// When customer_allergy_notes is omitted the customer's notes are copied in at insert time.
func (ctl *ReservationController) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, err)
		return
	}

	reservation := models.NewReservation(req.CustomerID, req.ReservationDatetime, req.PartySize)
	if req.Status != "" {
		if err := reservation.SetStatus(req.Status); err != nil {
			writeError(c, ctl.log, err, "")
			return
		}
	}
	reservation.Occasion = req.Occasion
	reservation.ReservationNotes = req.ReservationNotes
	reservation.CustomerAllergyNotes = req.CustomerAllergyNotes

	ctx := c.Request.Context()
	if len(req.DietaryRestrictionIDs) > 0 {
		restrictions, err := ctl.store.FindDietaryRestrictions(ctx, req.DietaryRestrictionIDs)
		if err != nil {
			writeError(c, ctl.log, err, "Dietary restriction not found")
			return
		}
		reservation.DietaryRestrictions = restrictions
	}

	if err := ctl.store.CreateReservation(ctx, reservation); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found")
			return
		}
		writeError(c, ctl.log, err, "")
		return
	}

	staffEntry(c, ctl.log).WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"customer_id":    reservation.CustomerID,
	}).Info("Reservation created")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    reservation,
	})
}

// Get handles GET /api/v1/reservations/:id
func (ctl *ReservationController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservation, err := ctl.store.GetReservation(c.Request.Context(), id)
	if err != nil {
		writeError(c, ctl.log, err, "Reservation not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reservation,
	})
}

// UpdateStatus handles PATCH /api/v1/reservations/:id/status
func (ctl *ReservationController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, err)
		return
	}

	ctx := c.Request.Context()
	reservation, err := ctl.store.GetReservation(ctx, id)
	if err != nil {
		writeError(c, ctl.log, err, "Reservation not found")
		return
	}

	previous := reservation.Status
	if err := ctl.store.UpdateReservationStatus(ctx, reservation, req.Status); err != nil {
		writeError(c, ctl.log, err, "Reservation not found")
		return
	}

	staffEntry(c, ctl.log).WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"from":           previous,
		"to":             reservation.Status,
	}).Info("Reservation status changed")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reservation,
	})
}
