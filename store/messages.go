package store

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/restaurant-assistant-api/models"
)

// CreateMessage validates the direction and appends the message.
// A message without a reservation link is rejected by the database's NOT NULL constraint.
func (s *Store) CreateMessage(ctx context.Context, message *models.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit("Customer", "Reservation").Create(message).Error; err != nil {
		return fmt.Errorf("create message: %w", classify(err))
	}
	return nil
}

// GetMessage loads a single message
func (s *Store) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := s.db.WithContext(ctx).First(&message, id).Error; err != nil {
		return nil, fmt.Errorf("get message %d: %w", id, classify(err))
	}
	return &message, nil
}

// ListMessagesForReservation returns the conversation for a reservation, oldest first
func (s *Store) ListMessagesForReservation(ctx context.Context, reservationID uint) ([]models.Message, error) {
	messages := []models.Message{}
	if err := s.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages for reservation %d: %w", reservationID, classify(err))
	}
	return messages, nil
}

// MarkMessageRead sets is_read on the message and returns the updated row
func (s *Store) MarkMessageRead(ctx context.Context, id uint) (*models.Message, error) {
	message, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.IsRead {
		return message, nil
	}

	if err := s.db.WithContext(ctx).Model(message).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("mark message %d read: %w", id, classify(err))
	}
	message.IsRead = true
	return message, nil
}

// SetMessageProviderSID records the id the SMS provider assigned to an outbound message
func (s *Store) SetMessageProviderSID(ctx context.Context, message *models.Message, sid string) error {
	if err := s.db.WithContext(ctx).Model(message).Update("provider_sid", sid).Error; err != nil {
		return fmt.Errorf("set provider sid on message %d: %w", message.ID, classify(err))
	}
	message.ProviderSID = &sid
	return nil
}

// DeleteMessage removes a message that was never delivered
func (s *Store) DeleteMessage(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Message{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete message %d: %w", id, classify(result.Error))
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete message %d: %w", id, ErrNotFound)
	}
	return nil
}
