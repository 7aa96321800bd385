package services_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/services"
)

func TestParseStaffID(t *testing.T) {
	cases := []struct {
		name    string
		raw     string // "" means absent field (nil RawMessage)
		want    *uint
		wantErr bool
	}{
		{name: "absent", raw: "", want: nil},
		{name: "null", raw: "null", want: nil},
		{name: "empty string", raw: `""`, want: nil},
		{name: "blank string", raw: `"  "`, want: nil},
		{name: "number", raw: "42", want: uintPtr(42)},
		{name: "numeric string", raw: `"42"`, want: uintPtr(42)},
		{name: "word", raw: `"abc"`, wantErr: true},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "float", raw: "1.5", wantErr: true},
		{name: "object", raw: `{"id":1}`, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var raw json.RawMessage
			if tc.raw != "" {
				raw = json.RawMessage(tc.raw)
			}

			got, err := services.ParseStaffID(raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, services.ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func TestAssign(t *testing.T) {
	admin := policy.Actor{ID: 1, Role: policy.RoleAdmin}

	t.Run("admin assigns active staff", func(t *testing.T) {
		db := setupDB(t)
		staff := seedStaff(t, db, "staff", true)
		order := seedOrder(t, db, models.StatusPending, nil)

		updated, err := services.NewAssignmentService().Assign(admin, order.ID, &staff.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.StaffID)
		assert.Equal(t, staff.ID, *updated.StaffID)
		// Assignment never touches the status.
		assert.Equal(t, models.StatusPending, updated.Status)
	})

	t.Run("missing order wins over missing staff", func(t *testing.T) {
		setupDB(t)
		bogus := uint(999)

		_, err := services.NewAssignmentService().Assign(admin, 12345, &bogus)
		require.ErrorIs(t, err, services.ErrNotFound)
		assert.NotErrorIs(t, err, services.ErrStaffNotFound)
	})

	t.Run("unknown staff id", func(t *testing.T) {
		db := setupDB(t)
		order := seedOrder(t, db, models.StatusPending, nil)
		bogus := uint(999)

		_, err := services.NewAssignmentService().Assign(admin, order.ID, &bogus)
		assert.ErrorIs(t, err, services.ErrStaffNotFound)
	})

	t.Run("inactive staff reads as missing", func(t *testing.T) {
		db := setupDB(t)
		inactive := seedStaff(t, db, "staff", false)
		order := seedOrder(t, db, models.StatusPending, nil)

		_, err := services.NewAssignmentService().Assign(admin, order.ID, &inactive.ID)
		assert.ErrorIs(t, err, services.ErrStaffNotFound)
	})

	t.Run("manager assigns plain staff only", func(t *testing.T) {
		db := setupDB(t)
		manager := policy.Actor{ID: 1, Role: policy.RoleManager}
		staff := seedStaff(t, db, "staff", true)
		otherManager := seedStaff(t, db, "manager", true)
		order := seedOrder(t, db, models.StatusPending, nil)

		_, err := services.NewAssignmentService().Assign(manager, order.ID, &staff.ID)
		require.NoError(t, err)

		_, err = services.NewAssignmentService().Assign(manager, order.ID, &otherManager.ID)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("staff cannot assign", func(t *testing.T) {
		db := setupDB(t)
		staff := seedStaff(t, db, "staff", true)
		order := seedOrder(t, db, models.StatusPending, &staff.ID)
		actor := policy.Actor{ID: staff.ID, Role: policy.RoleStaff}

		_, err := services.NewAssignmentService().Assign(actor, order.ID, &staff.ID)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("unassign clears the assignee", func(t *testing.T) {
		db := setupDB(t)
		staff := seedStaff(t, db, "staff", true)
		order := seedOrder(t, db, models.StatusProcessing, &staff.ID)

		updated, err := services.NewAssignmentService().Assign(admin, order.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, updated.StaffID)
	})

	t.Run("reassigning same target still bumps updated_at", func(t *testing.T) {
		db := setupDB(t)
		staff := seedStaff(t, db, "staff", true)
		order := seedOrder(t, db, models.StatusPending, &staff.ID)

		// Push the stored updated_at into the past so the bump is visible.
		past := time.Now().Add(-time.Hour)
		require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("updated_at", past).Error)

		updated, err := services.NewAssignmentService().Assign(admin, order.ID, &staff.ID)
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(past.Add(time.Minute)),
			"updated_at should bump on a same-target write")
	})
}
