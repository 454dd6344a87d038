// Package seed loads YAML fixtures of dietary restrictions, customers and reservations into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/kendall-kelly/restaurant-assistant-api/store"
	"gopkg.in/yaml.v3"
)

// File is the top level of a seed document
type File struct {
	DietaryRestrictions []Restriction `yaml:"dietary_restrictions"`
	Customers           []Customer    `yaml:"customers"`
}

// Restriction describes one dietary restriction
type Restriction struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
}

// Customer describes a customer and the reservations booked for them
type Customer struct {
	Name                string        `yaml:"name"`
	Email               string        `yaml:"email"`
	PhoneNumber         string        `yaml:"phone_number"`
	Notes               *string       `yaml:"notes"`
	DietaryRestrictions []string      `yaml:"dietary_restrictions"`
	Reservations        []Reservation `yaml:"reservations"`
}

// Reservation describes one booking. Restrictions are referenced by name.
type Reservation struct {
	ReservationDatetime  time.Time `yaml:"reservation_datetime"`
	PartySize            int       `yaml:"party_size"`
	Status               string    `yaml:"status"`
	Occasion             *string   `yaml:"occasion"`
	ReservationNotes     *string   `yaml:"reservation_notes"`
	CustomerAllergyNotes *string   `yaml:"customer_allergy_notes"`
	DietaryRestrictions  []string  `yaml:"dietary_restrictions"`
}

// Result counts what Apply wrote
type Result struct {
	Restrictions     int
	Customers        int
	SkippedCustomers int
	Reservations     int
}

// Load reads and parses a seed file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and checks the fields the database would reject
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshalling YAML: %w", err)
	}

	for i, r := range f.DietaryRestrictions {
		if r.Name == "" {
			return nil, fmt.Errorf("dietary_restrictions[%d]: name is required", i)
		}
	}
	for i, c := range f.Customers {
		if c.Name == "" || c.Email == "" || c.PhoneNumber == "" {
			return nil, fmt.Errorf("customers[%d]: name, email and phone_number are required", i)
		}
		for j, r := range c.Reservations {
			if r.ReservationDatetime.IsZero() {
				return nil, fmt.Errorf("customers[%d].reservations[%d]: reservation_datetime is required", i, j)
			}
		}
	}

	return &f, nil
}

// Apply writes the fixture in one transaction. Restrictions that already exist are reused,
// and customers whose phone number is already on file are skipped along with their reservations.
// Reservations go through the store, so allergy notes are snapshotted from the customer.
func Apply(ctx context.Context, st *store.Store, f *File) (*Result, error) {
	result := &Result{}

	err := st.Transaction(ctx, func(tx *store.Store) error {
		restrictions := map[string]models.DietaryRestriction{}
		for _, r := range f.DietaryRestrictions {
			existing, err := tx.FindDietaryRestrictionByName(ctx, r.Name)
			if err == nil {
				restrictions[r.Name] = *existing
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			restriction := &models.DietaryRestriction{Name: r.Name, Description: r.Description}
			if err := tx.CreateDietaryRestriction(ctx, restriction); err != nil {
				return err
			}
			restrictions[r.Name] = *restriction
			result.Restrictions++
		}

		lookup := func(names []string) ([]models.DietaryRestriction, error) {
			var out []models.DietaryRestriction
			for _, name := range names {
				r, ok := restrictions[name]
				if !ok {
					existing, err := tx.FindDietaryRestrictionByName(ctx, name)
					if err != nil {
						return nil, fmt.Errorf("dietary restriction %q: %w", name, err)
					}
					r = *existing
					restrictions[name] = r
				}
				out = append(out, r)
			}
			return out, nil
		}

		for _, c := range f.Customers {
			if _, err := tx.FindCustomerByPhone(ctx, c.PhoneNumber); err == nil {
				result.SkippedCustomers++
				continue
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			linked, err := lookup(c.DietaryRestrictions)
			if err != nil {
				return err
			}
			customer := &models.Customer{
				Name:                c.Name,
				Email:               c.Email,
				PhoneNumber:         c.PhoneNumber,
				Notes:               c.Notes,
				DietaryRestrictions: linked,
			}
			if err := tx.CreateCustomer(ctx, customer); err != nil {
				return fmt.Errorf("customer %s: %w", c.Email, err)
			}
			result.Customers++

			for _, r := range c.Reservations {
				reservation := models.NewReservation(customer.ID, r.ReservationDatetime, r.PartySize)
				if r.Status != "" {
					if err := reservation.SetStatus(r.Status); err != nil {
						return fmt.Errorf("reservation for %s: %w", c.Email, err)
					}
				}
				reservation.Occasion = r.Occasion
				reservation.ReservationNotes = r.ReservationNotes
				reservation.CustomerAllergyNotes = r.CustomerAllergyNotes
				if reservation.DietaryRestrictions, err = lookup(r.DietaryRestrictions); err != nil {
					return err
				}

				if err := tx.CreateReservation(ctx, reservation); err != nil {
					return fmt.Errorf("reservation for %s: %w", c.Email, err)
				}
				result.Reservations++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
