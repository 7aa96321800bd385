package models_test

import (
	"testing"

	"github.com/orderdesk/backoffice/app/models"
)

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		if _, ok := models.ParseOrderStatus(raw); !ok {
			t.Errorf("expected %q to parse", raw)
		}
	}
	for _, raw := range []string{"", "Pending", "canceled", "returned"} {
		if _, ok := models.ParseOrderStatus(raw); ok {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		// Forward chain.
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusShipped, true},
		{models.StatusPending, models.StatusDelivered, true},
		{models.StatusProcessing, models.StatusShipped, true},
		{models.StatusProcessing, models.StatusDelivered, true},
		{models.StatusShipped, models.StatusDelivered, true},

		// No going backwards.
		{models.StatusProcessing, models.StatusPending, false},
		{models.StatusShipped, models.StatusProcessing, false},
		{models.StatusShipped, models.StatusPending, false},

		// Cancel from any non-terminal state.
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusShipped, models.StatusCancelled, true},

		// Terminal states are final, including re-entry.
		{models.StatusDelivered, models.StatusShipped, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusDelivered, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusCancelled, false},

		// Same-state writes on non-terminal states are allowed.
		{models.StatusPending, models.StatusPending, true},
		{models.StatusProcessing, models.StatusProcessing, true},
		{models.StatusShipped, models.StatusShipped, true},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	terminal := map[models.OrderStatus]bool{
		models.StatusPending:    false,
		models.StatusProcessing: false,
		models.StatusShipped:    false,
		models.StatusDelivered:  true,
		models.StatusCancelled:  true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
