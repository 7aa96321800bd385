package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/services"
	"github.com/orderdesk/backoffice/pkg/auth"
	"github.com/orderdesk/backoffice/pkg/database"
)

func seedLoginStaff(t *testing.T, password string, active bool) models.Staff {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	row := models.Staff{
		Username:     "login-" + randomSuffix(t),
		Email:        "login-" + randomSuffix(t) + "@orderdesk.io",
		FullName:     "Login Test",
		Role:         "staff",
		IsActive:     active,
		PasswordHash: hash,
	}
	require.NoError(t, database.DB.Create(&row).Error)
	return row
}

func TestStaffLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		setupDB(t)
		row := seedLoginStaff(t, "secret123", true)

		staff, pair, err := services.NewAuthService().StaffLogin(row.Username, "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotNil(t, staff.LastLogin, "login should stamp last_login")

		claims, err := auth.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, row.ID, claims.UserID)
		assert.Equal(t, "staff", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		setupDB(t)
		row := seedLoginStaff(t, "secret123", true)

		_, _, err := services.NewAuthService().StaffLogin(row.Username, "nope")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown username matches wrong password", func(t *testing.T) {
		setupDB(t)
		_, _, err := services.NewAuthService().StaffLogin("ghost", "whatever")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		setupDB(t)
		row := seedLoginStaff(t, "secret123", false)

		_, _, err := services.NewAuthService().StaffLogin(row.Username, "secret123")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("valid refresh token", func(t *testing.T) {
		setupDB(t)
		row := seedLoginStaff(t, "secret123", true)
		_, pair, err := services.NewAuthService().StaffLogin(row.Username, "secret123")
		require.NoError(t, err)

		_, fresh, err := services.NewAuthService().Refresh(pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
	})

	t.Run("deactivation revokes refresh", func(t *testing.T) {
		db := setupDB(t)
		row := seedLoginStaff(t, "secret123", true)
		_, pair, err := services.NewAuthService().StaffLogin(row.Username, "secret123")
		require.NoError(t, err)

		require.NoError(t, db.Model(&models.Staff{}).Where("id = ?", row.ID).
			Update("is_active", false).Error)

		_, _, err = services.NewAuthService().Refresh(pair.RefreshToken)
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})

	t.Run("garbage token", func(t *testing.T) {
		setupDB(t)
		_, _, err := services.NewAuthService().Refresh("not-a-token")
		assert.ErrorIs(t, err, services.ErrUnauthenticated)
	})
}

func TestAdminLogin(t *testing.T) {
	setupDB(t)
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&models.Admin{
		Username:     "admin",
		Email:        "admin@orderdesk.io",
		PasswordHash: hash,
	}).Error)

	admin, err := services.NewAuthService().AdminLogin("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.NotNil(t, admin.LastLogin)

	_, err = services.NewAuthService().AdminLogin("admin", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
