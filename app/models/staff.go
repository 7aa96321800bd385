package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff is an operator who works orders. Managers and staff share this
// table and are distinguished only by Role; admins live in their own
// table with a separate identity space.
type Staff struct {
	gorm.Model
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"size:255;not null" json:"full_name"`
	Role         string     `gorm:"size:20;default:staff;index" json:"role"` // "staff" | "manager"
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	LastLogin    *time.Time `json:"last_login"`
	JoinDate     time.Time  `gorm:"autoCreateTime" json:"join_date"`
}

func (Staff) TableName() string { return "staff" }

// Admin is a back-office administrator. Admins authenticate with a
// session cookie, never a JWT, and are not assignable to orders.
type Admin struct {
	gorm.Model
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"size:255" json:"full_name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	LastLogin    *time.Time `json:"last_login"`
}
