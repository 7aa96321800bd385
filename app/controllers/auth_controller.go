package controllers

import (
	"errors"
	"net/http"

	"github.com/orderdesk/backoffice/app/services"
	"github.com/orderdesk/backoffice/pkg/bind"
	"github.com/orderdesk/backoffice/pkg/logger"
	"github.com/orderdesk/backoffice/pkg/middleware"
	"github.com/orderdesk/backoffice/pkg/response"
	"github.com/orderdesk/backoffice/pkg/session"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

type loginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// StaffLogin authenticates a staff or manager account and returns a JWT
// pair.
func (c *AuthController) StaffLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	staff, pair, err := c.service.StaffLogin(in.Username, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logger.WithCtx(r.Context()).Error("staff login", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{
		"staff":  staff,
		"tokens": pair,
	})
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a fresh pair.
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	staff, pair, err := c.service.Refresh(in.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			response.Unauthorized(w)
			return
		}
		logger.WithCtx(r.Context()).Error("token refresh", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{
		"staff":  staff,
		"tokens": pair,
	})
}

// AdminLogin authenticates an admin and opens a server-side session.
func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	admin, err := c.service.AdminLogin(in.Username, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logger.WithCtx(r.Context()).Error("admin login", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	sess := session.FromCtx(r)
	sess.Set("admin_id", admin.ID)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Error("session save", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{"admin": admin})
}

// AdminLogout destroys the admin session.
func (c *AuthController) AdminLogout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()
	sess.Save(w) //nolint:errcheck
	response.Success(w, map[string]interface{}{"logged_out": true})
}

// Me returns the authenticated actor's identity.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, map[string]interface{}{
		"id":   actor.ID,
		"role": actor.Role,
	})
}
