package seeders

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("staff", SeedStaff)
	Register("catalog", SeedCatalog)
	Register("orders", SeedOrders)
}

// SeedAdmin creates the initial admin account when none exists.
func SeedAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.Admin{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	return db.Create(&models.Admin{
		Username:     "admin",
		Email:        "admin@orderdesk.io",
		FullName:     "Site Administrator",
		PasswordHash: hash,
	}).Error
}

// SeedStaff creates a demo manager and a couple of staff members.
func SeedStaff(db *gorm.DB) error {
	var count int64
	db.Model(&models.Staff{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	rows := []models.Staff{
		{Username: "meera", Email: "meera@orderdesk.io", FullName: "Meera Joshi", Role: "manager", IsActive: true, PasswordHash: hash},
		{Username: "arjun", Email: "arjun@orderdesk.io", FullName: "Arjun Patel", Role: "staff", IsActive: true, PasswordHash: hash},
		{Username: "sana", Email: "sana@orderdesk.io", FullName: "Sana Khan", Role: "staff", IsActive: true, PasswordHash: hash},
		{Username: "vikram", Email: "vikram@orderdesk.io", FullName: "Vikram Rao", Role: "staff", IsActive: false, PasswordHash: hash},
	}
	return db.Create(&rows).Error
}

// SeedCatalog creates a small demo catalogue.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	sarees := models.Category{Name: "Sarees", Slug: "sarees"}
	jewellery := models.Category{Name: "Jewellery", Slug: "jewellery"}
	if err := db.Create(&sarees).Error; err != nil {
		return err
	}
	if err := db.Create(&jewellery).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "Banarasi Silk Saree", Price: 4999, Stock: 12, SKU: "SAR-001", CategoryID: &sarees.ID},
		{Name: "Kanjivaram Saree", Price: 7499, Stock: 8, SKU: "SAR-002", CategoryID: &sarees.ID},
		{Name: "Kundan Necklace Set", Price: 2999, Stock: 20, SKU: "JWL-001", CategoryID: &jewellery.ID},
	}
	return db.Create(&products).Error
}

// SeedOrders creates demo orders in assorted lifecycle states.
func SeedOrders(db *gorm.DB) error {
	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count > 0 {
		return nil
	}

	var arjun models.Staff
	db.Where("username = ?", "arjun").First(&arjun)

	now := time.Now()
	orders := []models.Order{
		{
			OrderNumber:   "ORD-2026-0001",
			Status:        models.StatusPending,
			PaymentStatus: models.PaymentPaid,
			TotalAmount:   4999,
			CustomerName:  "Priya Sharma",
			CustomerEmail: "priya@example.com",
			Items: []models.OrderItem{
				{ProductID: 1, Name: "Banarasi Silk Saree", Quantity: 1, Price: 4999, Total: 4999},
			},
		},
		{
			OrderNumber:   "ORD-2026-0002",
			Status:        models.StatusProcessing,
			PaymentStatus: models.PaymentPaid,
			TotalAmount:   2999,
			CustomerName:  "Rahul Verma",
			CustomerEmail: "rahul@example.com",
			StaffID:       &arjun.ID,
			Items: []models.OrderItem{
				{ProductID: 3, Name: "Kundan Necklace Set", Quantity: 1, Price: 2999, Total: 2999},
			},
		},
		{
			OrderNumber:   "ORD-2026-0003",
			Status:        models.StatusShipped,
			PaymentStatus: models.PaymentPaid,
			TotalAmount:   7499,
			CustomerName:  "Anita Desai",
			CustomerEmail: "anita@example.com",
			TrackingNo:    "TRK123456789",
			StaffID:       &arjun.ID,
			ShippedAt:     &now,
			Items: []models.OrderItem{
				{ProductID: 2, Name: "Kanjivaram Saree", Quantity: 1, Price: 7499, Total: 7499},
			},
		},
	}

	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			return fmt.Errorf("order %s: %w", orders[i].OrderNumber, err)
		}
	}
	return nil
}
