package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sklad/app/models"
	"github.com/shashiranjanraj/sklad/app/services"
	"github.com/shashiranjanraj/sklad/config"
	"github.com/shashiranjanraj/sklad/pkg/bind"
	"github.com/shashiranjanraj/sklad/pkg/logger"
	"github.com/shashiranjanraj/sklad/pkg/middleware"
	"github.com/shashiranjanraj/sklad/pkg/rbac"
	"github.com/shashiranjanraj/sklad/pkg/response"
	"github.com/shashiranjanraj/sklad/pkg/session"
)

type AuthController struct {
	db      *gorm.DB
	auth    *services.AuthService
	limiter *services.LoginLimiter
	table   rbac.Table
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		db:      db,
		auth:    services.NewAuthService(db),
		limiter: services.NewLoginLimiter(db, config.LoginMaxAttempts(), config.LoginWindowMinutes()),
		table:   rbac.Default(),
	}
}

// SignIn authenticates email/password. The rate limiter runs first and
// records every attempt, successful or not, keyed by client IP.
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	ip := middleware.ClientIP(r)

	verdict, err := c.limiter.CheckAndRecord(r.Context(), ip)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !verdict.Allowed {
		logger.WithCtx(r.Context()).Warn("sign-in throttled", "ip", ip)
		response.TooManyRequests(w, "Too many login attempts", verdict.RetryAfterMinutes)
		return
	}

	var in services.SignInInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.SignIn(r.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	sess := session.FromCtx(r)
	sess.Set("user_id", user.ID)
	sess.Set("role", user.Role)
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}

	response.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// SignOut destroys the session.
func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	sess.Invalidate()
	if err := sess.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save failed", "error", err)
	}
	response.Success(w, map[string]string{"message": "Signed out"})
}

// Me returns the authenticated user.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var user models.User
	if err := c.db.WithContext(r.Context()).First(&user, id).Error; err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.Success(w, user)
}

// Nav returns the dashboard sections visible to the current role. The UI
// builds its navigation from this, so what users see and what the gate
// enforces come from the same table.
func (c *AuthController) Nav(w http.ResponseWriter, r *http.Request) {
	role, ok := middleware.RoleFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	response.Success(w, map[string]interface{}{
		"role":     role,
		"sections": c.table.Sections(rbac.Role(role)),
	})
}
