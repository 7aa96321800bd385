// Package middleware provides the HTTP middleware chain for the back
// office: actor resolution, CORS, request logging, and panic recovery.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/orderdesk/backoffice/app/policy"
	"github.com/orderdesk/backoffice/pkg/auth"
	"github.com/orderdesk/backoffice/pkg/response"
	"github.com/orderdesk/backoffice/pkg/session"
)

type actorKey struct{}

// Authenticate resolves the request's actor and stores it in the context.
// Admins carry a server-side session cookie; staff and managers carry a
// Bearer JWT. Requests with neither pass through unauthenticated so public
// routes (login, health) still work; RequireAuth gates the protected ones.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := resolveActor(r); ok {
			ctx := context.WithValue(r.Context(), actorKey{}, actor)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func resolveActor(r *http.Request) (policy.Actor, bool) {
	// Admin session takes precedence over any stray bearer token.
	sess := session.FromCtx(r)
	if adminID, ok := sess.GetInt("admin_id"); ok && adminID > 0 {
		return policy.Actor{ID: uint(adminID), Role: policy.RoleAdmin}, true
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return policy.Actor{}, false
	}

	claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return policy.Actor{}, false
	}

	role, ok := policy.ParseRole(claims.Role)
	if !ok || role == policy.RoleAdmin {
		// Tokens never mint admins.
		return policy.Actor{}, false
	}

	return policy.Actor{ID: claims.UserID, Role: role}, true
}

// RequireAuth rejects requests that did not resolve to an actor.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromCtx(r); !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ActorFromCtx returns the authenticated actor for this request.
func ActorFromCtx(r *http.Request) (policy.Actor, bool) {
	actor, ok := r.Context().Value(actorKey{}).(policy.Actor)
	return actor, ok
}

// RoleFromCtx returns the actor's role as a string, for rbac guards.
func RoleFromCtx(r *http.Request) (string, bool) {
	actor, ok := ActorFromCtx(r)
	return string(actor.Role), ok
}

// UserIDFromCtx returns the actor's id.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	actor, ok := ActorFromCtx(r)
	return actor.ID, ok
}
