package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/orderdesk/backoffice/app/models"
	"github.com/orderdesk/backoffice/app/routes"
	"github.com/orderdesk/backoffice/pkg/auth"
	"github.com/orderdesk/backoffice/pkg/database"
	"github.com/orderdesk/backoffice/pkg/middleware"
	"github.com/orderdesk/backoffice/pkg/router"
)

// newAPI wires the full route table over an in-memory database, the same
// stack a request sees in production minus sessions and rate limiting.
func newAPI(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Staff{}, &models.Admin{},
		&models.Order{}, &models.OrderItem{},
		&models.Category{}, &models.Product{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	r := router.New()
	r.Use(middleware.Authenticate)
	routes.RegisterAPI(r, nil)
	return r.Handler()
}

func bearerFor(t *testing.T, userID uint, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func seedStaffRow(t *testing.T, role string, active bool) models.Staff {
	t.Helper()
	row := models.Staff{
		Username:     fmt.Sprintf("%s-%d", role, seq()),
		Email:        fmt.Sprintf("%s-%d@orderdesk.io", role, seq()),
		FullName:     "Test " + role,
		Role:         role,
		IsActive:     active,
		PasswordHash: "x",
	}
	require.NoError(t, database.DB.Create(&row).Error)
	return row
}

func seedOrderRow(t *testing.T, status models.OrderStatus, staffID *uint) models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber:   fmt.Sprintf("ORD-%d", seq()),
		Status:        status,
		PaymentStatus: models.PaymentPaid,
		CustomerName:  "Test Customer",
	}
	order.StaffID = staffID
	require.NoError(t, database.DB.Create(&order).Error)
	return order
}

var seqCounter int

func seq() int {
	seqCounter++
	return seqCounter
}

func TestOrdersRequireAuth(t *testing.T) {
	h := newAPI(t)
	rec := doJSON(t, h, http.MethodGet, "/api/orders", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffVisibilityMasking(t *testing.T) {
	h := newAPI(t)
	me := seedStaffRow(t, "staff", true)
	other := seedStaffRow(t, "staff", true)

	mine := seedOrderRow(t, models.StatusPending, &me.ID)
	foreign := seedOrderRow(t, models.StatusPending, &other.ID)

	token := bearerFor(t, me.ID, "staff")

	t.Run("own order is visible", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/orders/%d", mine.ID), token, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign order masks as 404", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/orders/%d", foreign.ID), token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not assigned to you")
	})

	t.Run("missing order is the same 404", func(t *testing.T) {
		recMissing := doJSON(t, h, http.MethodGet, "/api/orders/999999", token, "")
		recForeign := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/orders/%d", foreign.ID), token, "")
		assert.Equal(t, recMissing.Code, recForeign.Code)
		assert.JSONEq(t, recMissing.Body.String(), recForeign.Body.String(),
			"foreign and missing orders must be indistinguishable to staff")
	})

	t.Run("manager sees a plain 404 for missing orders", func(t *testing.T) {
		manager := seedStaffRow(t, "manager", true)
		rec := doJSON(t, h, http.MethodGet, "/api/orders/999999", bearerFor(t, manager.ID, "manager"), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.NotContains(t, rec.Body.String(), "not assigned to you")
	})

	t.Run("list only returns own assignments", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/orders", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data struct {
				Orders []models.Order `json:"orders"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data.Orders, 1)
		assert.Equal(t, mine.ID, body.Data.Orders[0].ID)
	})
}

func TestTransitionEndpoint(t *testing.T) {
	h := newAPI(t)
	staff := seedStaffRow(t, "staff", true)
	order := seedOrderRow(t, models.StatusPending, &staff.ID)
	token := bearerFor(t, staff.ID, "staff")
	path := fmt.Sprintf("/api/orders/%d/status", order.ID)

	t.Run("staff advance their own order", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, path, token, `{"status":"processing"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown status is 422", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, path, token, `{"status":"returned"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("illegal move is 409", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, path, token, `{"status":"pending"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAssignEndpoint(t *testing.T) {
	h := newAPI(t)
	manager := seedStaffRow(t, "manager", true)
	staff := seedStaffRow(t, "staff", true)
	order := seedOrderRow(t, models.StatusPending, nil)
	token := bearerFor(t, manager.ID, "manager")
	path := fmt.Sprintf("/api/orders/%d/assign", order.ID)

	t.Run("assign by number", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, path, token, fmt.Sprintf(`{"staff_id":%d}`, staff.ID))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("assign by numeric string", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, path, token, fmt.Sprintf(`{"staff_id":"%d"}`, staff.ID))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("null unassigns", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, path, token, `{"staff_id":null}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data struct {
				Order models.Order `json:"order"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body.Data.Order.StaffID)
	})

	t.Run("garbage staff_id is 422", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, path, token, `{"staff_id":"abc"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown staff is 404 without masking", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, path, token, `{"staff_id":999999}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Staff member not found")
	})

	t.Run("staff role cannot reach assign", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPut, path, bearerFor(t, staff.ID, "staff"), `{"staff_id":null}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

// The feed hub broadcasts every order event to every connected client, so
// a staff subscriber would learn about orders outside their assignment
// scope. The route must reject staff before the websocket handshake.
func TestOrderFeedRoleGate(t *testing.T) {
	h := newAPI(t)
	staff := seedStaffRow(t, "staff", true)
	manager := seedStaffRow(t, "manager", true)

	t.Run("staff token is rejected", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/api/ws/orders", bearerFor(t, staff.ID, "staff"), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("manager token passes the role gate", func(t *testing.T) {
		// Without handshake headers the upgrade itself fails, but a
		// manager must get past the role check.
		rec := doJSON(t, h, http.MethodGet, "/api/ws/orders", bearerFor(t, manager.ID, "manager"), "")
		assert.NotEqual(t, http.StatusForbidden, rec.Code)
		assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
	})
}
