package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/restaurant-assistant-api/metrics"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/sirupsen/logrus"
)

var (
	// ErrCustomerNotFound is returned when no customer has the sender's phone number
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrNoActiveReservation is returned when the customer has no pending or confirmed reservation
	ErrNoActiveReservation = errors.New("no active reservation found for customer")

	// ErrEmptyMessage is returned for a blank message body
	ErrEmptyMessage = errors.New("message body is empty")

	// ErrSMSDisabled is returned when outbound SMS has no provider configured
	ErrSMSDisabled = errors.New("outbound SMS is not configured")
)

// InboundSMS is the payload of the inbound SMS webhook
type InboundSMS struct {
	To   string // number the guest texted; not used for matching
	From string
	Body string
}

// MessageService handles the SMS conversation attached to reservations
type MessageService struct {
	store   *store.Store
	sms     SMSSender
	metrics *metrics.Metrics
	log     *logrus.Logger
}

// NewMessageService creates a MessageService. sms may be nil when outbound SMS is disabled.
func NewMessageService(st *store.Store, sms SMSSender, m *metrics.Metrics, log *logrus.Logger) *MessageService {
	return &MessageService{
		store:   st,
		sms:     sms,
		metrics: m,
		log:     log,
	}
}

// ReceiveInbound records a guest's text against their latest active reservation and flags that reservation for review.
// The lookups, the insert and the status change commit together or not at all.
func (s *MessageService) ReceiveInbound(ctx context.Context, in InboundSMS) (*models.Message, error) {
	entry := s.log.WithFields(logrus.Fields{
		"from": in.From,
		"to":   in.To,
	})

	var message *models.Message
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		customer, err := tx.FindCustomerByPhone(ctx, in.From)
		if errors.Is(err, store.ErrNotFound) {
			return ErrCustomerNotFound
		}
		if err != nil {
			return err
		}

		reservation, err := tx.LatestActiveReservation(ctx, customer.ID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoActiveReservation
		}
		if err != nil {
			return err
		}

		message = &models.Message{
			CustomerID:    customer.ID,
			ReservationID: &reservation.ID,
			Content:       in.Body,
			Direction:     models.DirectionInbound,
		}
		if err := tx.CreateMessage(ctx, message); err != nil {
			return err
		}

		return tx.UpdateReservationStatus(ctx, reservation, string(models.StatusNeedsReview))
	})

	switch {
	case errors.Is(err, ErrCustomerNotFound):
		s.metrics.InboundMessage(metrics.OutcomeCustomerNotFound)
		entry.Info("Inbound message from unknown number")
		return nil, err
	case errors.Is(err, ErrNoActiveReservation):
		s.metrics.InboundMessage(metrics.OutcomeNoActiveReservation)
		entry.Info("Inbound message without an active reservation")
		return nil, err
	case err != nil:
		s.metrics.InboundMessage(metrics.OutcomeError)
		entry.WithError(err).Error("Failed to record inbound message")
		return nil, fmt.Errorf("receive inbound message: %w", err)
	}

	s.metrics.InboundMessage(metrics.OutcomeAccepted)
	entry.WithFields(logrus.Fields{
		"message_id":     message.ID,
		"reservation_id": *message.ReservationID,
	}).Info("Inbound message recorded, reservation flagged for review")
	return message, nil
}

// SendOutbound records the message, texts the reservation's customer and stores the provider's SID.
// The row is committed before the provider is called and deleted again if the send fails.
func (s *MessageService) SendOutbound(ctx context.Context, reservationID uint, body string) (*models.Message, error) {
	if s.sms == nil {
		return nil, ErrSMSDisabled
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}

	entry := s.log.WithField("reservation_id", reservationID)

	var message *models.Message
	var phone string
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		reservation, err := tx.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		customer, err := tx.GetCustomer(ctx, reservation.CustomerID)
		if err != nil {
			return err
		}

		phone = customer.PhoneNumber
		message = &models.Message{
			CustomerID:    customer.ID,
			ReservationID: &reservation.ID,
			Content:       body,
			Direction:     models.DirectionOutbound,
			IsRead:        true,
		}
		return tx.CreateMessage(ctx, message)
	})
	if err != nil {
		s.metrics.OutboundMessage(metrics.OutcomeError)
		entry.WithError(err).Error("Failed to record outbound message")
		return nil, err
	}

	sid, err := s.sms.Send(ctx, phone, body)
	if err != nil {
		s.metrics.OutboundMessage(metrics.OutcomeError)
		entry.WithError(err).Error("SMS provider rejected outbound message")
		if delErr := s.store.DeleteMessage(context.WithoutCancel(ctx), message.ID); delErr != nil {
			entry.WithError(delErr).WithField("message_id", message.ID).Error("Failed to remove undelivered message")
		}
		return nil, &ProviderError{Err: err}
	}

	if sid != "" {
		// the text is already out; a missing SID is logged, not returned
		if err := s.store.SetMessageProviderSID(ctx, message, sid); err != nil {
			entry.WithError(err).WithFields(logrus.Fields{
				"message_id":   message.ID,
				"provider_sid": sid,
			}).Warn("Outbound message sent but provider SID was not stored")
		}
	}

	s.metrics.OutboundMessage(metrics.OutcomeSent)
	entry.WithField("message_id", message.ID).Info("Outbound message sent")
	return message, nil
}

// ListForReservation returns the conversation for a reservation, failing with store.ErrNotFound for an unknown id
func (s *MessageService) ListForReservation(ctx context.Context, reservationID uint) ([]models.Message, error) {
	if _, err := s.store.GetReservation(ctx, reservationID); err != nil {
		return nil, err
	}
	return s.store.ListMessagesForReservation(ctx, reservationID)
}

// MarkRead flags a message as read
func (s *MessageService) MarkRead(ctx context.Context, messageID uint) (*models.Message, error) {
	return s.store.MarkMessageRead(ctx, messageID)
}

// ProviderError wraps a failure reported by the SMS provider
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("sms provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
