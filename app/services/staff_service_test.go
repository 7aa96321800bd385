package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/services"
)

func TestStaffCreate(t *testing.T) {
	admin := policy.Actor{ID: 1, Role: policy.RoleAdmin}
	manager := policy.Actor{ID: 2, Role: policy.RoleManager}

	t.Run("admin creates a manager", func(t *testing.T) {
		setupDB(t)
		created, err := services.NewStaffService().Create(admin, services.StaffInput{
			Username: "meera",
			Email:    "meera@orderdesk.io",
			FullName: "Meera Joshi",
			Role:     "manager",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.Equal(t, "manager", created.Role)
		assert.True(t, created.IsActive)
		assert.NotEqual(t, "secret123", created.PasswordHash, "password must be hashed")
	})

	t.Run("manager creates plain staff only", func(t *testing.T) {
		setupDB(t)
		svc := services.NewStaffService()

		_, err := svc.Create(manager, services.StaffInput{
			Username: "arjun", Email: "arjun@orderdesk.io", FullName: "Arjun Patel",
			Role: "staff", Password: "secret123",
		})
		require.NoError(t, err)

		_, err = svc.Create(manager, services.StaffInput{
			Username: "rival", Email: "rival@orderdesk.io", FullName: "Rival Manager",
			Role: "manager", Password: "secret123",
		})
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("password required on create", func(t *testing.T) {
		setupDB(t)
		_, err := services.NewStaffService().Create(admin, services.StaffInput{
			Username: "nopass", Email: "nopass@orderdesk.io", FullName: "No Pass",
			Role: "staff",
		})
		assert.ErrorIs(t, err, services.ErrInvalidStatus)
	})
}

func TestStaffUpdate(t *testing.T) {
	admin := policy.Actor{ID: 1, Role: policy.RoleAdmin}
	manager := policy.Actor{ID: 2, Role: policy.RoleManager}

	t.Run("manager cannot promote staff to manager", func(t *testing.T) {
		db := setupDB(t)
		row := seedStaff(t, db, "staff", true)

		_, err := services.NewStaffService().Update(manager, row.ID, services.StaffInput{
			Username: row.Username, Email: row.Email, FullName: row.FullName,
			Role: "manager",
		})
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("manager cannot edit a manager", func(t *testing.T) {
		db := setupDB(t)
		row := seedStaff(t, db, "manager", true)

		_, err := services.NewStaffService().Update(manager, row.ID, services.StaffInput{
			Username: row.Username, Email: row.Email, FullName: row.FullName,
			Role: "staff",
		})
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("admin promotes staff", func(t *testing.T) {
		db := setupDB(t)
		row := seedStaff(t, db, "staff", true)

		updated, err := services.NewStaffService().Update(admin, row.ID, services.StaffInput{
			Username: row.Username, Email: row.Email, FullName: row.FullName,
			Role: "manager",
		})
		require.NoError(t, err)
		assert.Equal(t, "manager", updated.Role)
	})

	t.Run("missing row", func(t *testing.T) {
		setupDB(t)
		_, err := services.NewStaffService().Update(admin, 9999, services.StaffInput{Role: "staff"})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestStaffDeactivate(t *testing.T) {
	admin := policy.Actor{ID: 1, Role: policy.RoleAdmin}

	t.Run("deactivation keeps assignments", func(t *testing.T) {
		db := setupDB(t)
		row := seedStaff(t, db, "staff", true)
		order := seedOrder(t, db, "processing", &row.ID)

		updated, err := services.NewStaffService().Deactivate(admin, row.ID)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)

		// The order stays assigned to the now-inactive account.
		got, err := services.NewOrderService().Get(admin, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got.StaffID)
		assert.Equal(t, row.ID, *got.StaffID)
	})

	t.Run("deactivated accounts leave the assignable list", func(t *testing.T) {
		db := setupDB(t)
		row := seedStaff(t, db, "staff", true)

		svc := services.NewStaffService()
		before, err := svc.Assignable(admin)
		require.NoError(t, err)
		require.Len(t, before, 1)

		_, err = svc.Deactivate(admin, row.ID)
		require.NoError(t, err)

		after, err := svc.Assignable(admin)
		require.NoError(t, err)
		assert.Empty(t, after)
	})
}

func TestStaffList_ManagerScope(t *testing.T) {
	db := setupDB(t)
	seedStaff(t, db, "staff", true)
	seedStaff(t, db, "manager", true)

	svc := services.NewStaffService()

	adminRows, _, err := svc.List(policy.Actor{ID: 1, Role: policy.RoleAdmin}, "", 1, 50)
	require.NoError(t, err)
	assert.Len(t, adminRows, 2)

	managerRows, _, err := svc.List(policy.Actor{ID: 2, Role: policy.RoleManager}, "manager", 1, 50)
	require.NoError(t, err)
	require.Len(t, managerRows, 1, "manager is forced onto the staff filter")
	assert.Equal(t, "staff", managerRows[0].Role)
}
