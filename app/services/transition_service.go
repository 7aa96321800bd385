package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/pkg/event"
	"github.com/orderdesk/backoffice/pkg/metrics"
)

// EventOrderStatusChanged is fired after a successful status transition,
// including same-state writes.
const EventOrderStatusChanged = "order.status_changed"

// OrderStatusChangedEvent is the payload for EventOrderStatusChanged.
type OrderStatusChangedEvent struct {
	Order     models.Order
	From      models.OrderStatus
	To        models.OrderStatus
	ActorRole policy.Role
}

// TransitionService runs order status changes through the lifecycle rules.
type TransitionService struct {
	orders *repositories.OrderRepository
}

func NewTransitionService() *TransitionService {
	return &TransitionService{orders: repositories.NewOrderRepository()}
}

// Transition moves an order to the requested status.
//
// The actor must be able to see the order at all (staff only their own
// assignments); the raw status must parse; the move must be legal from the
// current state. shipped_at and delivered_at are stamped exactly once, on
// the first arrival into their state, and never overwritten by a repeated
// same-state write.
func (s *TransitionService) Transition(actor policy.Actor, orderID uint, rawStatus string) (models.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}

	if !policy.CanView(actor, &order) {
		return models.Order{}, ErrForbidden
	}

	next, ok := models.ParseOrderStatus(rawStatus)
	if !ok {
		return models.Order{}, ErrInvalidStatus
	}
	if !order.Status.CanTransitionTo(next) {
		return models.Order{}, ErrInvalidTransition
	}

	fields := map[string]interface{}{"status": next}
	now := time.Now()
	if next == models.StatusShipped && order.ShippedAt == nil {
		fields["shipped_at"] = now
	}
	if next == models.StatusDelivered && order.DeliveredAt == nil {
		fields["delivered_at"] = now
	}

	updated, err := s.orders.UpdateFields(order.ID, fields)
	if err != nil {
		return models.Order{}, err
	}

	metrics.StatusTransitions.WithLabelValues(string(order.Status), string(next)).Inc()
	event.Fire(EventOrderStatusChanged, OrderStatusChangedEvent{
		Order:     updated,
		From:      order.Status,
		To:        next,
		ActorRole: actor.Role,
	})

	return updated, nil
}
