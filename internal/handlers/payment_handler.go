package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/payment"
	"techshop-backend/internal/store"
	"techshop-backend/internal/validate"
)

type PaymentMethodHandler struct {
	methods store.PaymentMethods
	users   store.Users
}

func NewPaymentMethodHandler(methods store.PaymentMethods, users store.Users) *PaymentMethodHandler {
	return &PaymentMethodHandler{methods: methods, users: users}
}

// ownsEmail checks that the caller's account uses email. Admins may act on
// any method.
func (h *PaymentMethodHandler) ownsEmail(c *gin.Context, email string) error {
	if middleware.IsAdmin(c) {
		return nil
	}
	id, err := store.ParseID(middleware.CallerID(c))
	if err != nil {
		return apperr.Forbidden("You can only manage your own payment methods")
	}
	u, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Forbidden("You can only manage your own payment methods")
		}
		return err
	}
	if u.Email != email {
		return apperr.Forbidden("You can only manage your own payment methods")
	}
	return nil
}

type paymentMethodRequest struct {
	Email      string `json:"email"`
	Country    string `json:"country"`
	CardHolder string `json:"cardHolder"`
	CardInfo   struct {
		CardNumber string `json:"cardNumber"`
		Expiring   string `json:"expiring"`
		CVC        string `json:"cvc"`
	} `json:"cardInfo"`
}

func (h *PaymentMethodHandler) Save(c *gin.Context) {
	var req paymentMethodRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := validate.New().
		Required(req.Email, "Email is required so we can identify you").
		Required(req.Country, "Country is required").
		Required(req.CardHolder, "Card Holder is required").
		Required(req.CardInfo.CardNumber, "Card number is required").
		Required(req.CardInfo.Expiring, "Expiring date is required").
		Required(req.CardInfo.CVC, "Cvc number is required").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.ownsEmail(c, req.Email); err != nil {
		apperr.Respond(c, err)
		return
	}

	m := &models.PaymentMethod{
		Email:      req.Email,
		Country:    req.Country,
		CardHolder: req.CardHolder,
		CardInfo: models.CardInfo{
			CardNumber: req.CardInfo.CardNumber,
			Expiring:   req.CardInfo.Expiring,
			CVC:        req.CardInfo.CVC,
		},
	}
	if err := h.methods.Create(c.Request.Context(), m); err != nil {
		apperr.Respond(c, err)
		return
	}
	apperr.OK(c, "Payment method saved successfully")
}

func (h *PaymentMethodHandler) GetByEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		apperr.Respond(c, apperr.Validation("Email is required so we can identify you"))
		return
	}
	if err := h.ownsEmail(c, email); err != nil {
		apperr.Respond(c, err)
		return
	}
	m, err := h.methods.FindByEmail(c.Request.Context(), email)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Could not find your payment method"))
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"), "You didn't provide which method you are trying to delete")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()
	m, err := h.methods.FindByID(ctx, id)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Could not find your payment method"))
		return
	}
	if err := h.ownsEmail(c, m.Email); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.methods.Delete(ctx, id); err != nil {
		apperr.Respond(c, notFoundAs(err, "Could not find your payment method"))
		return
	}
	apperr.OK(c, "Payment method deleted successfully")
}

type CheckoutHandler struct {
	gateway  payment.Gateway
	currency string
}

func NewCheckoutHandler(gateway payment.Gateway, currency string) *CheckoutHandler {
	return &CheckoutHandler{gateway: gateway, currency: currency}
}

type checkoutRequest struct {
	Products []payment.Item `json:"products"`
}

type checkoutResponse struct {
	ID string `json:"id"`
}

// Pay opens a hosted checkout session and returns its id.
func (h *CheckoutHandler) Pay(c *gin.Context) {
	var req checkoutRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	items, err := payment.BuildLineItems(req.Products, h.currency)
	if err != nil {
		apperr.Respond(c, apperr.Validation("There are no products to buy"))
		return
	}

	id, err := h.gateway.CreateCheckoutSession(c.Request.Context(), items)
	if err != nil {
		msg := "Couldn't make payment, try again"
		var gwErr *payment.GatewayError
		if errors.As(err, &gwErr) && gwErr.Message != "" {
			msg = gwErr.Message
		}
		apperr.Respond(c, apperr.Wrap(apperr.KindUpstream, msg, err))
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{ID: id})
}
