package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/pkg/database"
)

func uintPtr(v uint) *uint { return &v }

func strPtr(s string) *string { return &s }

// setupDB swaps the shared connection for an in-memory SQLite database
// for the duration of one test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection, or each pooled connection sees its own empty :memory: DB.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Staff{}, &models.Admin{},
		&models.Order{}, &models.OrderItem{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	return db
}

func seedStaff(t *testing.T, db *gorm.DB, role string, active bool) models.Staff {
	t.Helper()
	row := models.Staff{
		Username:     role + "-" + randomSuffix(t),
		Email:        role + "-" + randomSuffix(t) + "@orderdesk.io",
		FullName:     "Test " + role,
		Role:         role,
		IsActive:     active,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus, staffID *uint) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber:   "ORD-" + randomSuffix(t),
		Status:        status,
		PaymentStatus: models.PaymentPaid,
		TotalAmount:   100,
		CustomerName:  "Test Customer",
		CustomerEmail: "customer@example.com",
		StaffID:       staffID,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

var suffixCounter int

// randomSuffix keeps unique-indexed columns distinct across seeds.
func randomSuffix(t *testing.T) string {
	t.Helper()
	suffixCounter++
	return fmt.Sprintf("%d", suffixCounter)
}
