package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"github.com/sirupsen/logrus"
)

// transcriptURLExpiry is how long a presigned transcript link stays valid
const transcriptURLExpiry = time.Hour

// ErrStorageDisabled is returned when no object storage is configured
var ErrStorageDisabled = errors.New("transcript storage is not configured")

// Transcript describes an archived conversation
type Transcript struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	MessageCount int    `json:"message_count"`
}

// TranscriptService archives reservation conversations to object storage
type TranscriptService struct {
	store   *store.Store
	storage ObjectStorage
	log     *logrus.Logger
	now     func() time.Time
}

// NewTranscriptService creates a TranscriptService. storage may be nil when archiving is disabled.
func NewTranscriptService(st *store.Store, storage ObjectStorage, log *logrus.Logger) *TranscriptService {
	return &TranscriptService{
		store:   st,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Archive renders every message of the reservation as text, uploads it and returns a presigned link
func (s *TranscriptService) Archive(ctx context.Context, reservationID uint) (*Transcript, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	reservation, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	customer, err := s.store.GetCustomer(ctx, reservation.CustomerID)
	if err != nil {
		return nil, err
	}
	messages, err := s.store.ListMessagesForReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	key := fmt.Sprintf("transcripts/reservation-%d/%d.txt", reservation.ID, now.Unix())
	body := RenderTranscript(reservation, customer, messages, now)

	if err := s.storage.PutObject(ctx, key, "text/plain; charset=utf-8", []byte(body)); err != nil {
		return nil, fmt.Errorf("archive transcript: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, key, transcriptURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("archive transcript: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"key":            key,
		"messages":       len(messages),
	}).Info("Archived reservation transcript")

	return &Transcript{Key: key, URL: url, MessageCount: len(messages)}, nil
}

// RenderTranscript formats a reservation conversation as plain text
func RenderTranscript(reservation *models.Reservation, customer *models.Customer, messages []models.Message, generatedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reservation #%d for %s (%s)\n", reservation.ID, customer.Name, customer.PhoneNumber)
	fmt.Fprintf(&b, "Scheduled: %s, party of %d, status %s\n",
		reservation.ReservationDatetime.UTC().Format(time.RFC3339), reservation.PartySize, reservation.Status)
	if reservation.CustomerAllergyNotes != nil {
		fmt.Fprintf(&b, "Allergy notes: %s\n", *reservation.CustomerAllergyNotes)
	}
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	if len(messages) == 0 {
		b.WriteString("(no messages)\n")
		return b.String()
	}

	for _, m := range messages {
		speaker := "Guest"
		if m.Direction == models.DirectionOutbound {
			speaker = "Restaurant"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.CreatedAt.UTC().Format(time.RFC3339), speaker, m.Content)
	}
	return b.String()
}
