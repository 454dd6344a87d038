package models

import (
	"strconv"
	"time"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending     ReservationStatus = "pending"
	StatusConfirmed   ReservationStatus = "confirmed"
	StatusNeedsReview ReservationStatus = "needs_review"
	StatusCancelled   ReservationStatus = "cancelled"
)

// ReservationStatuses lists every status a reservation may hold
var ReservationStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusNeedsReview,
	StatusCancelled,
}

// ActiveReservationStatuses are the statuses an inbound message can attach to
var ActiveReservationStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// ParseReservationStatus returns the status for value or a *ValidationError
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, s := range ReservationStatuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "status", Value: value, Err: ErrInvalidStatus}
}

// IsActive reports whether the status is still open for guest messages
func (s ReservationStatus) IsActive() bool {
	for _, a := range ActiveReservationStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// Reservation represents a booking made by a customer
type Reservation struct {
	ID                   uint                 `gorm:"primaryKey" json:"id"`
	CustomerID           uint                 `gorm:"not null;index" json:"customer_id"`
	Customer             *Customer            `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer,omitempty"`
	ReservationDatetime  time.Time            `gorm:"not null;index" json:"reservation_datetime"`
	PartySize            int                  `gorm:"not null;check:party_size > 0" json:"party_size"`
	Status               ReservationStatus    `gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','confirmed','needs_review','cancelled')" json:"status"`
	Occasion             *string              `gorm:"size:250" json:"occasion"`
	ReservationNotes     *string              `gorm:"type:text" json:"reservation_notes"`
	CustomerAllergyNotes *string              `gorm:"type:text" json:"customer_allergy_notes"` // snapshot of Customer.Notes taken at insert
	DietaryRestrictions  []DietaryRestriction `gorm:"many2many:reservation_dietary_restrictions;" json:"dietary_restrictions,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// TableName specifies the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation returns a pending reservation for the customer
func NewReservation(customerID uint, at time.Time, partySize int) *Reservation {
	return &Reservation{
		CustomerID:          customerID,
		ReservationDatetime: at,
		PartySize:           partySize,
		Status:              StatusPending,
	}
}

// SetStatus assigns a new status. An unknown value is rejected and the current status is kept.
func (r *Reservation) SetStatus(value string) error {
	status, err := ParseReservationStatus(value)
	if err != nil {
		return err
	}
	r.Status = status
	return nil
}

// Validate checks the fields that must hold before the reservation is written
func (r *Reservation) Validate() error {
	if r.Status == "" {
		r.Status = StatusPending
	}
	if _, err := ParseReservationStatus(string(r.Status)); err != nil {
		return err
	}
	if r.PartySize <= 0 {
		return &ValidationError{Field: "party_size", Value: strconv.Itoa(r.PartySize), Err: ErrInvalidPartySize}
	}
	return nil
}

// SnapshotAllergyNotes copies the customer's notes into the reservation when no value was supplied.
// It is called once, right before the reservation is first inserted; later edits to the customer are not propagated.
func (r *Reservation) SnapshotAllergyNotes(c *Customer) {
	if r.CustomerAllergyNotes != nil || c == nil || !c.HasNotes() {
		return
	}
	notes := *c.Notes
	r.CustomerAllergyNotes = &notes
}
