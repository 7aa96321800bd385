package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/orderdesk/backoffice/app/services"
	"github.com/orderdesk/backoffice/pkg/bind"
	"github.com/orderdesk/backoffice/pkg/logger"
	"github.com/orderdesk/backoffice/pkg/middleware"
	"github.com/orderdesk/backoffice/pkg/response"
)

type StaffController struct {
	service *services.StaffService
}

func NewStaffController() *StaffController {
	return &StaffController{service: services.NewStaffService()}
}

// List serves GET /api/staff. Managers only see staff-role accounts.
func (c *StaffController) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	staff, pagination, err := c.service.List(actor, q.Get("role"), page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("staff list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Paginated(w, "staff", staff, pagination)
}

// Assignable serves GET /api/staff/assignable, the assignee picker data.
func (c *StaffController) Assignable(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)

	staff, err := c.service.Assignable(actor)
	if err != nil {
		logger.WithCtx(r.Context()).Error("assignable staff", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{"staff": staff})
}

// Create serves POST /api/staff.
func (c *StaffController) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)

	var in services.StaffInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	staff, err := c.service.Create(actor, in)
	if err != nil {
		c.respondErr(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{"staff": staff})
}

// Update serves PUT /api/staff/{id}.
func (c *StaffController) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.StaffInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	staff, err := c.service.Update(actor, id, in)
	if err != nil {
		c.respondErr(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{"staff": staff})
}

// Deactivate serves DELETE /api/staff/{id}. Accounts are never hard
// deleted; existing assignments keep pointing at the deactivated row.
func (c *StaffController) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromCtx(r)
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	staff, err := c.service.Deactivate(actor, id)
	if err != nil {
		c.respondErr(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{"staff": staff})
}

func (c *StaffController) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	case errors.Is(err, services.ErrInvalidStatus):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("staff operation", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
