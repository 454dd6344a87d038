package testutil

import (
	"io"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-assistant-api/config"
	"github.com/kendall-kelly/restaurant-assistant-api/middleware"
	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens a migrated in-memory SQLite database that lives for the duration of the test
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := config.PrepareSQLite(db); err != nil {
		t.Fatalf("Failed to prepare test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// NewTestLogger returns a logger that discards output
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}

// MockValidatedClaims creates ValidatedClaims carrying the given space separated scope
func MockValidatedClaims(subject, scope string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  "https://test.auth0.com/",
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: scope,
		},
	}
}

// MockAuthMiddleware sets up the context exactly as EnsureValidToken does after a successful check
func MockAuthMiddleware(subject, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", subject)
		c.Set("validated_claims", MockValidatedClaims(subject, scope))
		c.Next()
	}
}

// CreateCustomer inserts a customer fixture directly
func CreateCustomer(t *testing.T, db *gorm.DB, name, email, phone string, notes *string) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		Name:        name,
		Email:       email,
		PhoneNumber: phone,
		Notes:       notes,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("Failed to create customer fixture: %v", err)
	}
	return customer
}

// CreateReservation inserts a reservation fixture directly, bypassing the allergy-notes snapshot
func CreateReservation(t *testing.T, db *gorm.DB, customerID uint, at time.Time, status models.ReservationStatus) *models.Reservation {
	t.Helper()

	reservation := &models.Reservation{
		CustomerID:          customerID,
		ReservationDatetime: at,
		PartySize:           4,
		Status:              status,
	}
	if err := db.Omit("Customer").Create(reservation).Error; err != nil {
		t.Fatalf("Failed to create reservation fixture: %v", err)
	}
	return reservation
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// CountRows counts the rows of a model's table
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return count
}
