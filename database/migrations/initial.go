package migrations

import (
	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/pkg/migration"
)

func init() {
	migration.Register("20260115000000_create_staff_table", &CreateStaffTable{})
	migration.Register("20260115000001_create_admins_table", &CreateAdminsTable{})
	migration.Register("20260115000002_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260115000003_create_catalog_tables", &CreateCatalogTables{})
}

// -------- 0000: staff --------

type CreateStaffTable struct{}

func (m *CreateStaffTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Staff{})
}

func (m *CreateStaffTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("staff")
}

// -------- 0001: admins --------

type CreateAdminsTable struct{}

func (m *CreateAdminsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Admin{})
}

func (m *CreateAdminsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("admins")
}

// -------- 0002: orders + order_items --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("order_items"); err != nil {
		return err
	}
	return db.Migrator().DropTable("orders")
}

// -------- 0003: products + categories --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	if err := db.Migrator().DropTable("products"); err != nil {
		return err
	}
	return db.Migrator().DropTable("categories")
}
