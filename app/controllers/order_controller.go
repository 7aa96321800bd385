package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/app/repositories"
	"github.com/orderdesk/backoffice/app/services"
	"github.com/orderdesk/backoffice/pkg/bind"
	"github.com/orderdesk/backoffice/pkg/logger"
	"github.com/orderdesk/backoffice/pkg/middleware"
	"github.com/orderdesk/backoffice/pkg/response"
)

type OrderController struct {
	orders      *services.OrderService
	assignments *services.AssignmentService
	transitions *services.TransitionService
}

func NewOrderController() *OrderController {
	return &OrderController{
		orders:      services.NewOrderService(),
		assignments: services.NewAssignmentService(),
		transitions: services.NewTransitionService(),
	}
}

// List serves GET /api/orders with status, search, and date filters.
// Staff only ever see their own assignments regardless of filters.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)

	q := r.URL.Query()
	filter := repositories.OrderFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}
	if from, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		filter.To = &to
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	orders, pagination, err := c.orders.List(actor, filter, page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Paginated(w, "orders", orders, pagination)
}

// Show serves GET /api/orders/{id}.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	order, err := c.orders.Get(actor, id)
	if err != nil {
		c.respondErr(w, r, actor, err)
		return
	}

	response.Success(w, map[string]interface{}{"order": order})
}

// Update serves PUT /api/orders/{id}: a partial update where status and
// staff_id changes run through the same engines as the dedicated
// endpoints.
func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var upd services.OrderUpdate
	if errs, err := bind.JSON(r, &upd); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Update(actor, id, upd)
	if err != nil {
		c.respondErr(w, r, actor, err)
		return
	}

	response.Success(w, map[string]interface{}{"order": order})
}

type transitionInput struct {
	Status string `json:"status" validate:"required"`
}

// Transition serves POST /api/orders/{id}/status.
func (c *OrderController) Transition(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in transitionInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.transitions.Transition(actor, id, in.Status)
	if err != nil {
		c.respondErr(w, r, actor, err)
		return
	}

	response.Success(w, map[string]interface{}{"order": order})
}

type assignInput struct {
	StaffID json.RawMessage `json:"staff_id"`
}

// Assign serves PUT /api/orders/{id}/assign. staff_id null, "", or absent
// unassigns; a number or numeric string assigns.
func (c *OrderController) Assign(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in assignInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	staffID, err := services.ParseStaffID(in.StaffID)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, "staff_id must be a number, numeric string, or null")
		return
	}

	order, err := c.assignments.Assign(actor, id, staffID)
	if err != nil {
		c.respondErr(w, r, actor, err)
		return
	}

	response.Success(w, map[string]interface{}{"order": order})
}

// respondErr maps engine errors onto HTTP. Staff actors get a masked 404
// instead of a 403 so order existence never leaks outside their scope.
func (c *OrderController) respondErr(w http.ResponseWriter, r *http.Request, actor policy.Actor, err error) {
	switch {
	case errors.Is(err, services.ErrStaffNotFound):
		response.Error(w, http.StatusNotFound, "Staff member not found or inactive")
	case errors.Is(err, services.ErrNotFound):
		if actor.Role == policy.RoleStaff {
			response.NotFoundMasked(w)
			return
		}
		response.NotFound(w)
	case errors.Is(err, services.ErrForbidden):
		if actor.Role == policy.RoleStaff {
			response.NotFoundMasked(w)
			return
		}
		response.Forbidden(w)
	case errors.Is(err, services.ErrInvalidStatus):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		response.Error(w, http.StatusConflict, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("order operation", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// paramID parses the {id} route parameter.
func paramID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
