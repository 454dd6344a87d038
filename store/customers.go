package store

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/restaurant-assistant-api/models"
)

// CreateCustomer inserts a customer together with any dietary restriction links
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("create customer: %w", classify(err))
	}
	return nil
}

// GetCustomer loads a customer and their dietary restrictions
func (s *Store) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).Preload("DietaryRestrictions").First(&customer, id).Error; err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, classify(err))
	}
	return &customer, nil
}

// ListCustomers returns every customer in storage order
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	if err := s.db.WithContext(ctx).Preload("DietaryRestrictions").Order("id ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", classify(err))
	}
	return customers, nil
}

// FindCustomerByPhone matches the phone number exactly
func (s *Store) FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).Where("phone_number = ?", phone).First(&customer).Error; err != nil {
		return nil, fmt.Errorf("find customer by phone: %w", classify(err))
	}
	return &customer, nil
}

// UpdateCustomer applies column updates in place. Reservations keep the allergy notes they were created with.
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(customer).Updates(updates).Error; err != nil {
		return fmt.Errorf("update customer %d: %w", customer.ID, classify(err))
	}
	return nil
}

// ReplaceCustomerDietaryRestrictions swaps the customer's restriction links for the given set
func (s *Store) ReplaceCustomerDietaryRestrictions(ctx context.Context, customer *models.Customer, restrictions []models.DietaryRestriction) error {
	if err := s.db.WithContext(ctx).Model(customer).Association("DietaryRestrictions").Replace(restrictions); err != nil {
		return fmt.Errorf("replace dietary restrictions for customer %d: %w", customer.ID, classify(err))
	}
	return nil
}
