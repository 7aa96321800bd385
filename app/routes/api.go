// Package routes mounts the HTTP surface onto the router.
package routes

import (
	"net/http"

	"github.com/orderdesk/backoffice/app/controllers"
	"github.com/orderdesk/backoffice/app/graph"
	"github.com/orderdesk/backoffice/pkg/logger"
	"github.com/orderdesk/backoffice/pkg/metrics"
	"github.com/orderdesk/backoffice/pkg/middleware"
	"github.com/orderdesk/backoffice/pkg/ratelimit"
	"github.com/orderdesk/backoffice/pkg/rbac"
	"github.com/orderdesk/backoffice/pkg/response"
	"github.com/orderdesk/backoffice/pkg/router"
	"github.com/orderdesk/backoffice/pkg/ws"
)

// OrderFeed is the websocket hub carrying live order updates. The event
// listeners in the server bootstrap broadcast into it.
var OrderFeed = ws.NewHub()

// RegisterAPI mounts every route. loginLimiter throttles the credential
// endpoints; pass nil to disable (tests).
func RegisterAPI(r *router.Router, loginLimiter ratelimit.Limiter) {
	authController := controllers.NewAuthController()
	orderController := controllers.NewOrderController()
	staffController := controllers.NewStaffController()
	catalogController := controllers.NewCatalogController()

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")

	// Credential endpoints: guests only, throttled.
	authGroup := api.Group("/auth", rbac.Guest)
	if loginLimiter != nil {
		authGroup = api.Group("/auth", rbac.Guest, ratelimit.Middleware(loginLimiter, nil))
	}
	authGroup.Post("/login", "auth.login", authController.StaffLogin)
	authGroup.Post("/refresh", "auth.refresh", authController.Refresh)
	authGroup.Post("/admin/login", "auth.admin.login", authController.AdminLogin)

	// Everything below requires an authenticated actor.
	protected := api.Group("", middleware.RequireAuth)

	protected.Get("/auth/me", "auth.me", authController.Me)
	protected.Post("/auth/admin/logout", "auth.admin.logout", authController.AdminLogout,
		rbac.HasRole("admin"))

	// Orders: all three roles may list and read (staff see only their
	// own assignments, enforced in the service layer).
	protected.Get("/orders", "orders.list", orderController.List)
	protected.Get("/orders/{id}", "orders.show", orderController.Show)
	protected.Post("/orders/{id}/status", "orders.status", orderController.Transition)
	protected.Put("/orders/{id}", "orders.update", orderController.Update,
		rbac.HasRole("admin", "manager"))
	protected.Put("/orders/{id}/assign", "orders.assign", orderController.Assign,
		rbac.HasRole("admin", "manager"))

	// Staff management: admins and managers only.
	staffGroup := protected.Group("/staff", rbac.HasRole("admin", "manager"))
	staffGroup.Get("", "staff.list", staffController.List)
	staffGroup.Get("/assignable", "staff.assignable", staffController.Assignable)
	staffGroup.Post("", "staff.create", staffController.Create)
	staffGroup.Put("/{id}", "staff.update", staffController.Update)
	staffGroup.Delete("/{id}", "staff.deactivate", staffController.Deactivate)

	// Catalogue: reads for everyone authenticated, writes for admin and
	// manager.
	protected.Get("/products", "products.list", catalogController.ListProducts)
	protected.Get("/products/{id}", "products.show", catalogController.ShowProduct)
	protected.Get("/categories", "categories.list", catalogController.ListCategories)

	catalogWrite := protected.Group("", rbac.HasRole("admin", "manager"))
	catalogWrite.Post("/products", "products.create", catalogController.CreateProduct)
	catalogWrite.Put("/products/{id}", "products.update", catalogController.UpdateProduct)
	catalogWrite.Delete("/products/{id}", "products.delete", catalogController.DeleteProduct)
	catalogWrite.Post("/products/{id}/image", "products.image", catalogController.UploadImage)
	catalogWrite.Post("/categories", "categories.create", catalogController.CreateCategory)

	// Live order feed for the back-office dashboard. The hub broadcasts
	// every order event to every client, so the route carries the same
	// admin+manager gate as the other global-visibility surfaces; a staff
	// subscriber would otherwise see events about orders outside their
	// assignment scope.
	protected.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, OrderFeed)
	}, rbac.HasRole("admin", "manager"))

	// Read-only GraphQL surface for dashboard widgets.
	schema, err := graph.NewSchema()
	if err != nil {
		logger.Error("graphql schema", "error", err)
		return
	}
	protected.Post("/graphql", "graphql", graph.Handler(schema),
		rbac.HasRole("admin", "manager"))
}
