package services

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/pkg/orm"
)

// OrderUpdate is the partial-update payload for an order. Pointer and
// RawMessage fields distinguish absent from present-but-empty: only fields
// the client actually sent are written.
type OrderUpdate struct {
	Status          *string         `json:"status"`
	PaymentStatus   *string         `json:"payment_status"`
	Notes           *string         `json:"notes"`
	TrackingNo      *string         `json:"tracking_number"`
	ShippingAddress *string         `json:"shipping_address"`
	BillingAddress  *string         `json:"billing_address"`
	StaffID         json.RawMessage `json:"staff_id"`
}

// OrderService is the read surface over orders plus the partial-update
// composite. Every read is scoped through the visibility policy before it
// touches the store.
type OrderService struct {
	orders      *repositories.OrderRepository
	assignments *AssignmentService
	transitions *TransitionService
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders:      repositories.NewOrderRepository(),
		assignments: NewAssignmentService(),
		transitions: NewTransitionService(),
	}
}

// List returns one page of orders the actor may see. Staff actors are
// hard-scoped to their own assignments regardless of any filter the client
// sends; admins and managers see everything the filter matches.
func (s *OrderService) List(actor policy.Actor, filter repositories.OrderFilter, page, limit int) ([]models.Order, orm.Pagination, error) {
	if scope := policy.ScopeStaffID(actor); scope != nil {
		filter.StaffID = scope
	}
	return s.orders.List(filter, page, limit)
}

// Get fetches one order if the actor may see it. A forbidden order and a
// missing order both come back ErrForbidden/ErrNotFound; the HTTP layer
// collapses the two for staff so existence never leaks.
func (s *OrderService) Get(actor policy.Actor, id uint) (models.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}
	if !policy.CanView(actor, &order) {
		return models.Order{}, ErrForbidden
	}
	return order, nil
}

// Update applies a partial update. Status changes route through the
// transition engine and assignment changes through the assignment engine
// so their rules cannot be bypassed via the generic endpoint; plain fields
// write directly. updated_at bumps whenever anything was sent.
func (s *OrderService) Update(actor policy.Actor, id uint, upd OrderUpdate) (models.Order, error) {
	order, err := s.Get(actor, id)
	if err != nil {
		return models.Order{}, err
	}

	if upd.Status != nil {
		order, err = s.transitions.Transition(actor, id, *upd.Status)
		if err != nil {
			return models.Order{}, err
		}
	}

	if len(upd.StaffID) > 0 {
		staffID, err := ParseStaffID(upd.StaffID)
		if err != nil {
			return models.Order{}, err
		}
		order, err = s.assignments.Assign(actor, id, staffID)
		if err != nil {
			return models.Order{}, err
		}
	}

	fields := map[string]interface{}{}
	if upd.PaymentStatus != nil {
		ps, ok := models.ParsePaymentStatus(*upd.PaymentStatus)
		if !ok {
			return models.Order{}, ErrInvalidStatusInput("payment_status")
		}
		fields["payment_status"] = ps
	}
	if upd.Notes != nil {
		fields["notes"] = *upd.Notes
	}
	if upd.TrackingNo != nil {
		fields["tracking_no"] = *upd.TrackingNo
	}
	if upd.ShippingAddress != nil {
		fields["shipping_address"] = *upd.ShippingAddress
	}
	if upd.BillingAddress != nil {
		fields["billing_address"] = *upd.BillingAddress
	}

	if len(fields) > 0 {
		order, err = s.orders.UpdateFields(id, fields)
		if err != nil {
			return models.Order{}, err
		}
	}

	return order, nil
}
