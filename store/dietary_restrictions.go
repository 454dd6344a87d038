package store

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/restaurant-assistant-api/models"
)

// CreateDietaryRestriction inserts a new restriction; names are unique
func (s *Store) CreateDietaryRestriction(ctx context.Context, restriction *models.DietaryRestriction) error {
	if err := s.db.WithContext(ctx).Create(restriction).Error; err != nil {
		return fmt.Errorf("create dietary restriction: %w", classify(err))
	}
	return nil
}

// ListDietaryRestrictions returns all restrictions ordered by name
func (s *Store) ListDietaryRestrictions(ctx context.Context) ([]models.DietaryRestriction, error) {
	restrictions := []models.DietaryRestriction{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&restrictions).Error; err != nil {
		return nil, fmt.Errorf("list dietary restrictions: %w", classify(err))
	}
	return restrictions, nil
}

// FindDietaryRestrictions loads the restrictions with the given ids.
// It fails with ErrNotFound unless every id exists.
func (s *Store) FindDietaryRestrictions(ctx context.Context, ids []uint) ([]models.DietaryRestriction, error) {
	restrictions := []models.DietaryRestriction{}
	if len(ids) == 0 {
		return restrictions, nil
	}

	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&restrictions).Error; err != nil {
		return nil, fmt.Errorf("find dietary restrictions: %w", classify(err))
	}
	if len(restrictions) != len(unique) {
		return nil, fmt.Errorf("find dietary restrictions: %w", ErrNotFound)
	}
	return restrictions, nil
}

// FindDietaryRestrictionByName looks a restriction up by its unique name
func (s *Store) FindDietaryRestrictionByName(ctx context.Context, name string) (*models.DietaryRestriction, error) {
	var restriction models.DietaryRestriction
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&restriction).Error; err != nil {
		return nil, fmt.Errorf("find dietary restriction %q: %w", name, classify(err))
	}
	return &restriction, nil
}
