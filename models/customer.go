package models

import (
	"strings"
	"time"
)

// Customer represents a restaurant guest identified by email and phone number
type Customer struct {
	ID                  uint                 `gorm:"primaryKey" json:"id"`
	Name                string               `gorm:"not null" json:"name"`
	Email               string               `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber         string               `gorm:"size:20;uniqueIndex;not null" json:"phone_number"`
	Notes               *string              `gorm:"type:text" json:"notes"` // free-text allergies and preferences
	DietaryRestrictions []DietaryRestriction `gorm:"many2many:customer_dietary_restrictions;" json:"dietary_restrictions,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// HasNotes reports whether the customer has any non-blank notes on file
func (c *Customer) HasNotes() bool {
	return c.Notes != nil && strings.TrimSpace(*c.Notes) != ""
}
