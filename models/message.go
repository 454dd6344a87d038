package models

import (
	"time"
)

// MessageDirection tells whether the guest or the restaurant wrote a message
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// Message represents one SMS exchanged with a customer about a reservation
type Message struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	CustomerID    uint             `gorm:"not null;index" json:"customer_id"`
	Customer      *Customer        `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ReservationID *uint            `gorm:"not null;index" json:"reservation_id"` // pointer so a missing link reaches the database as NULL
	Reservation   *Reservation     `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Content       string           `gorm:"type:text;not null" json:"content"`
	Direction     MessageDirection `gorm:"size:10;not null" json:"direction"`
	IsRead        bool             `gorm:"not null;default:false" json:"is_read"`
	ProviderSID   *string          `gorm:"size:64" json:"provider_sid,omitempty"`
	CreatedAt     time.Time        `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// Validate checks the direction before the message is written
func (m *Message) Validate() error {
	switch m.Direction {
	case DirectionInbound, DirectionOutbound:
		return nil
	default:
		return &ValidationError{Field: "direction", Value: string(m.Direction), Err: ErrInvalidDirection}
	}
}
