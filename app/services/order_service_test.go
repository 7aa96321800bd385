package services_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/app/services"
)

func TestOrderList_Scoping(t *testing.T) {
	db := setupDB(t)
	mine := seedStaff(t, db, "staff", true)
	other := seedStaff(t, db, "staff", true)

	seedOrder(t, db, models.StatusPending, &mine.ID)
	seedOrder(t, db, models.StatusPending, &other.ID)
	seedOrder(t, db, models.StatusPending, nil)

	svc := services.NewOrderService()

	t.Run("admin sees everything", func(t *testing.T) {
		orders, pagination, err := svc.List(policy.Actor{ID: 1, Role: policy.RoleAdmin},
			repositories.OrderFilter{}, 1, 50)
		require.NoError(t, err)
		assert.Len(t, orders, 3)
		assert.EqualValues(t, 3, pagination.Total)
	})

	t.Run("staff see only their own", func(t *testing.T) {
		orders, _, err := svc.List(policy.Actor{ID: mine.ID, Role: policy.RoleStaff},
			repositories.OrderFilter{}, 1, 50)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		require.NotNil(t, orders[0].StaffID)
		assert.Equal(t, mine.ID, *orders[0].StaffID)
	})

	t.Run("staff cannot widen scope via filter", func(t *testing.T) {
		orders, _, err := svc.List(policy.Actor{ID: mine.ID, Role: policy.RoleStaff},
			repositories.OrderFilter{StaffID: &other.ID}, 1, 50)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, mine.ID, *orders[0].StaffID)
	})
}

func TestOrderGet_Visibility(t *testing.T) {
	db := setupDB(t)
	staff := seedStaff(t, db, "staff", true)
	foreign := seedOrder(t, db, models.StatusPending, nil)

	svc := services.NewOrderService()
	actor := policy.Actor{ID: staff.ID, Role: policy.RoleStaff}

	_, err := svc.Get(actor, foreign.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = svc.Get(actor, 12345)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestOrderUpdate(t *testing.T) {
	admin := policy.Actor{ID: 1, Role: policy.RoleAdmin}

	t.Run("plain fields", func(t *testing.T) {
		db := setupDB(t)
		order := seedOrder(t, db, models.StatusPending, nil)

		updated, err := services.NewOrderService().Update(admin, order.ID, services.OrderUpdate{
			Notes:      strPtr("call before delivery"),
			TrackingNo: strPtr("TRK-1"),
		})
		require.NoError(t, err)
		assert.Equal(t, "call before delivery", updated.Notes)
		assert.Equal(t, "TRK-1", updated.TrackingNo)
		assert.Equal(t, models.StatusPending, updated.Status)
	})

	t.Run("status routes through the transition engine", func(t *testing.T) {
		db := setupDB(t)
		order := seedOrder(t, db, models.StatusDelivered, nil)

		_, err := services.NewOrderService().Update(admin, order.ID, services.OrderUpdate{
			Status: strPtr("processing"),
		})
		assert.ErrorIs(t, err, services.ErrInvalidTransition)
	})

	t.Run("staff_id routes through the assignment engine", func(t *testing.T) {
		db := setupDB(t)
		order := seedOrder(t, db, models.StatusPending, nil)

		_, err := services.NewOrderService().Update(admin, order.ID, services.OrderUpdate{
			StaffID: json.RawMessage("999"),
		})
		assert.ErrorIs(t, err, services.ErrStaffNotFound)
	})

	t.Run("combined status and assignment", func(t *testing.T) {
		db := setupDB(t)
		staff := seedStaff(t, db, "staff", true)
		order := seedOrder(t, db, models.StatusPending, nil)

		updated, err := services.NewOrderService().Update(admin, order.ID, services.OrderUpdate{
			Status:  strPtr("processing"),
			StaffID: json.RawMessage(strconv.FormatUint(uint64(staff.ID), 10)),
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusProcessing, updated.Status)
		require.NotNil(t, updated.StaffID)
		assert.Equal(t, staff.ID, *updated.StaffID)
	})

	t.Run("bad payment status", func(t *testing.T) {
		db := setupDB(t)
		order := seedOrder(t, db, models.StatusPending, nil)

		_, err := services.NewOrderService().Update(admin, order.ID, services.OrderUpdate{
			PaymentStatus: strPtr("maybe"),
		})
		assert.ErrorIs(t, err, services.ErrInvalidStatus)
	})
}
