package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/auth"
	"techshop-backend/internal/logging"
	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
	"techshop-backend/internal/validate"
)

type AuthHandler struct {
	users  store.Users
	tokens *auth.TokenService
}

func NewAuthHandler(users store.Users, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type userRequest struct {
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	PhoneNumber string           `json:"phoneNumber"`
	Password    string           `json:"password"`
	Image       string           `json:"image"`
	Role        string           `json:"role"`
	Location    *models.Location `json:"location"`
}

func (r *userRequest) validate() error {
	var state, city string
	if r.Location != nil {
		state, city = r.Location.State, r.Location.City
	}
	return validate.New().
		Required(r.FirstName, "Firstname is required").
		Required(r.LastName, "Lastname is required").
		Required(r.Username, "Username is required").
		Required(r.Email, "Email is required").
		Required(r.PhoneNumber, "Phone number is required").
		Required(r.Password, "Password is required").
		Check(state != "" && city != "", "Location is required").
		MinLength(r.Username, 6, "Username must be at least 6 characters long").
		MinLength(r.Password, 6, "Password must be at least 6 characters long").
		Email(r.Email).
		Phone(r.PhoneNumber).
		Err()
}

// newUser validates the request and builds a user with a hashed password.
func newUser(r *userRequest, role string, verified bool) (*models.User, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	hashed, err := auth.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}
	image := r.Image
	if image == "" {
		image = models.DefaultAvatar
	}
	return &models.User{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Username:    r.Username,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Password:    hashed,
		Role:        role,
		Image:       image,
		Verified:    verified,
		Location:    *r.Location,
	}, nil
}

// Register creates a USER account. A role in the body is ignored.
func (h *AuthHandler) Register(c *gin.Context) {
	var req userRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	u, err := newUser(&req, models.RoleUser, false)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		apperr.Respond(c, err)
		return
	}

	logging.FromContext(c).Info("user registered", zap.String("user_id", u.ID.Hex()))
	c.JSON(http.StatusOK, u)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	Data  *models.User `json:"data"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := validate.New().
		Required(req.Username, "Username is required").
		Required(req.Password, "Password is required").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	invalid := apperr.Unauthorized("Invalid username or password")
	u, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apperr.Respond(c, invalid)
			return
		}
		apperr.Respond(c, err)
		return
	}
	if !auth.CheckPassword(u.Password, req.Password) {
		apperr.Respond(c, invalid)
		return
	}

	token, err := h.tokens.Issue(u.ID.Hex(), u.Role)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, Data: u})
}
