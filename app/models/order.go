package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// Terminal reports whether no further transition is defined from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the move s → next is allowed.
// Forward moves follow pending → processing → shipped → delivered;
// cancelled is reachable from any non-terminal state. Re-entering the
// current state is allowed (the write still happens, timestamps are
// preserved one-shot by the transition engine). Terminal states are final.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return !s.Terminal()
	}
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusShipped || next == StatusDelivered
	case StatusProcessing:
		return next == StatusShipped || next == StatusDelivered
	case StatusShipped:
		return next == StatusDelivered
	}
	return false
}

// PaymentStatus is the payment lifecycle state, owned by the (out of
// scope) payment processor; the back office only records it.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s), true
	}
	return "", false
}

// Order is one customer purchase. Orders are created by the storefront
// checkout; the back office only assigns and advances them.
type Order struct {
	gorm.Model
	OrderNumber   string        `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	Status        OrderStatus   `gorm:"size:20;default:pending;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;default:pending" json:"payment_status"`
	TotalAmount   float64       `gorm:"not null;default:0" json:"total_amount"`
	Notes         string        `gorm:"type:text" json:"notes"`
	TrackingNo    string        `gorm:"size:100" json:"tracking_number"`

	// Customer fields are denormalised onto the order at checkout time so
	// the back office never joins against the storefront's customer table.
	CustomerName    string `gorm:"size:255;index" json:"customer_name"`
	CustomerEmail   string `gorm:"size:255" json:"customer_email"`
	CustomerPhone   string `gorm:"size:32" json:"customer_phone"`
	ShippingAddress string `gorm:"type:text" json:"shipping_address"`
	BillingAddress  string `gorm:"type:text" json:"billing_address"`

	// StaffID is the assigned staff member; nil means unassigned. The
	// referenced row must be active at assignment time (enforced by the
	// assignment engine, not re-validated afterwards).
	StaffID *uint  `gorm:"index" json:"staff_id"`
	Staff   *Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	// ShippedAt / DeliveredAt are set exactly once, when the order first
	// enters the corresponding status. Nullable, so pointers.
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

// OrderItem is one line of an order. Immutable once created; rows are
// removed only by the cascade when their order is deleted.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Name      string  `gorm:"size:255" json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"` // unit price at time of purchase
	Total     float64 `gorm:"not null" json:"total"`
}
