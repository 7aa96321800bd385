package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/pkg/event"
	"github.com/orderdesk/backoffice/pkg/metrics"
)

// EventOrderAssigned is fired after a successful assignment change.
const EventOrderAssigned = "order.assigned"

// OrderAssignedEvent is the payload for EventOrderAssigned.
type OrderAssignedEvent struct {
	Order     models.Order
	ActorRole policy.Role
	StaffID   *uint // nil on unassignment
}

// AssignmentService validates and executes staff assignment on orders.
type AssignmentService struct {
	orders *repositories.OrderRepository
	staff  *repositories.StaffRepository
}

func NewAssignmentService() *AssignmentService {
	return &AssignmentService{
		orders: repositories.NewOrderRepository(),
		staff:  repositories.NewStaffRepository(),
	}
}

// ParseStaffID normalises the wire form of a staff_id field. null, absent
// (nil raw), and "" all mean unassignment and normalise to nil before any
// lookup happens; numbers and numeric strings parse to an id.
func ParseStaffID(raw json.RawMessage) (*uint, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	s := strings.TrimSpace(string(raw))
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err != nil {
			return nil, ErrInvalidStatusInput("staff_id")
		}
		s = strings.TrimSpace(unquoted)
	}
	if s == "" {
		return nil, nil
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, ErrInvalidStatusInput("staff_id")
	}
	id := uint(n)
	return &id, nil
}

// ErrInvalidStatusInput builds a field-tagged invalid-input error that
// matches ErrInvalidStatus under errors.Is.
func ErrInvalidStatusInput(field string) error {
	return &fieldError{field: field, sentinel: ErrInvalidStatus}
}

type fieldError struct {
	field    string
	sentinel error
}

func (e *fieldError) Error() string { return e.sentinel.Error() + ": " + e.field }
func (e *fieldError) Unwrap() error { return e.sentinel }

// Assign sets or clears the assignee of an order.
//
// Validation order: the order must exist; a non-nil target must resolve to
// an active staff row; the actor must be allowed to pick that target
// (admins: anyone; managers: role "staff" only; staff: nobody). Assignment
// never touches the order status, and re-assigning the same target is a
// fresh write that still bumps updated_at.
func (s *AssignmentService) Assign(actor policy.Actor, orderID uint, staffID *uint) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}

	if staffID == nil {
		if !policy.CanUnassign(actor) {
			return models.Order{}, ErrForbidden
		}
	} else {
		target, err := s.staff.FindActiveByID(*staffID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Order{}, ErrStaffNotFound
			}
			return models.Order{}, err
		}
		if !policy.CanAssign(actor, &target) {
			return models.Order{}, ErrForbidden
		}
	}

	updated, err := s.orders.UpdateFields(order.ID, map[string]interface{}{
		"staff_id": staffID,
	})
	if err != nil {
		return models.Order{}, err
	}

	metrics.OrdersAssigned.WithLabelValues(string(actor.Role)).Inc()
	event.Fire(EventOrderAssigned, OrderAssignedEvent{
		Order:     updated,
		ActorRole: actor.Role,
		StaffID:   staffID,
	})

	return updated, nil
}
