package store

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/restaurant-assistant-api/models"
)

// CreateReservation validates and inserts a reservation.
// Before the insert it snapshots the customer's notes into CustomerAllergyNotes when the caller left it unset.
func (s *Store) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	if err := reservation.Validate(); err != nil {
		return err
	}

	return s.Transaction(ctx, func(tx *Store) error {
		customer, err := tx.GetCustomer(ctx, reservation.CustomerID)
		if err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		reservation.SnapshotAllergyNotes(customer)

		if err := tx.db.WithContext(ctx).Omit("Customer").Create(reservation).Error; err != nil {
			return fmt.Errorf("create reservation: %w", classify(err))
		}
		return nil
	})
}

// GetReservation loads a reservation with its dietary restrictions
func (s *Store) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.WithContext(ctx).Preload("DietaryRestrictions").First(&reservation, id).Error; err != nil {
		return nil, fmt.Errorf("get reservation %d: %w", id, classify(err))
	}
	return &reservation, nil
}

// ListReservations returns every reservation in storage order
func (s *Store) ListReservations(ctx context.Context) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := s.db.WithContext(ctx).Preload("DietaryRestrictions").Order("id ASC").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", classify(err))
	}
	return reservations, nil
}

// ListReservationsForCustomer returns a customer's reservations, soonest first
func (s *Store) ListReservationsForCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	if err := s.db.WithContext(ctx).
		Preload("DietaryRestrictions").
		Where("customer_id = ?", customerID).
		Order("reservation_datetime ASC").
		Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("list reservations for customer %d: %w", customerID, classify(err))
	}
	return reservations, nil
}

// LatestActiveReservation picks the customer's pending or confirmed reservation with the latest scheduled time
func (s *Store) LatestActiveReservation(ctx context.Context, customerID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, models.ActiveReservationStatuses).
		Order("reservation_datetime DESC").
		Order("id DESC").
		First(&reservation).Error; err != nil {
		return nil, fmt.Errorf("latest active reservation for customer %d: %w", customerID, classify(err))
	}
	return &reservation, nil
}

// UpdateReservationStatus validates the new status, then persists it.
// On any failure the in-memory status is left as it was.
func (s *Store) UpdateReservationStatus(ctx context.Context, reservation *models.Reservation, status string) error {
	previous := reservation.Status
	if err := reservation.SetStatus(status); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(reservation).Update("status", reservation.Status).Error; err != nil {
		reservation.Status = previous
		return fmt.Errorf("update reservation %d status: %w", reservation.ID, classify(err))
	}
	return nil
}
