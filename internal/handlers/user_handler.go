package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/auth"
	"techshop-backend/internal/logging"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
	"techshop-backend/internal/validate"
)

type UserHandler struct {
	users store.Users
}

func NewUserHandler(users store.Users) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"), "User id is not provided")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	u, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified user doesn't exist"))
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateUserRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Image    *string `json:"image"`
}

// Update changes the provided profile fields. Unset fields keep their value.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"), "User id is not provided")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if str(req.Email) == "" && str(req.Username) == "" && str(req.Password) == "" && str(req.Image) == "" {
		apperr.Respond(c, apperr.Validation("Field is empty, couldn't update user"))
		return
	}
	if err := middleware.RequireSelf(c, id.Hex()); err != nil {
		apperr.Respond(c, err)
		return
	}

	v := validate.New()
	patch := models.UserPatch{}
	if s := str(req.Username); s != "" {
		v.MinLength(s, 6, "Username must be at least 6 characters long")
		patch.Username = &s
	}
	if s := str(req.Email); s != "" {
		v.Email(s)
		patch.Email = &s
	}
	if s := str(req.Password); s != "" {
		v.MinLength(s, 6, "Password must be at least 6 characters long")
	}
	if s := str(req.Image); s != "" {
		patch.Image = &s
	}
	if err := v.Err(); err != nil {
		apperr.Respond(c, err)
		return
	}
	if s := str(req.Password); s != "" {
		hashed, err := auth.HashPassword(s)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		patch.Password = &hashed
	}

	if _, err := h.users.Update(c.Request.Context(), id, patch); err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't update user"))
		return
	}
	apperr.OK(c, "User updated successfully")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"), "You didn't provide which user you are trying to delete")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := middleware.RequireSelf(c, id.Hex()); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified user doesn't exist"))
		return
	}
	logging.FromContext(c).Info("user deleted", zap.String("user_id", id.Hex()))
	apperr.OK(c, "User deleted successfully")
}

// AddUser lets an admin create an account with any role. Accounts created
// this way are verified.
func (h *UserHandler) AddUser(c *gin.Context) {
	var req userRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		apperr.Respond(c, apperr.Validation("Role must be USER or ADMIN"))
		return
	}

	u, err := newUser(&req, role, true)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		apperr.Respond(c, err)
		return
	}
	apperr.OK(c, fmt.Sprintf("You created new user %s successfully", u.Username))
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ToggleAdmin flips a user between USER and ADMIN.
func (h *UserHandler) ToggleAdmin(c *gin.Context) {
	id, err := parseID(c.Param("id"), "You didn't provide which user you are trying to set as admin")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	u, err := h.users.FindByID(ctx, id)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified user doesn't exist"))
		return
	}
	role := models.RoleAdmin
	if u.Role == models.RoleAdmin {
		role = models.RoleUser
	}
	updated, err := h.users.Update(ctx, id, models.UserPatch{Role: &role})
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified user doesn't exist"))
		return
	}

	logging.FromContext(c).Info("user role changed",
		zap.String("user_id", id.Hex()),
		zap.String("role", role),
		zap.String("by", middleware.CallerID(c)),
	)
	if role == models.RoleAdmin {
		apperr.OK(c, fmt.Sprintf("User %s has been set as administrator", updated.Username))
		return
	}
	apperr.OK(c, fmt.Sprintf("User %s has been set as regular user", updated.Username))
}
