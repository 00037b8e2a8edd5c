package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
	"techshop-backend/internal/validate"
)

type CartHandler struct {
	carts    store.Carts
	products store.Products
	users    store.Users
}

func NewCartHandler(carts store.Carts, products store.Products, users store.Users) *CartHandler {
	return &CartHandler{carts: carts, products: products, users: users}
}

type cartRequest struct {
	Owner    string   `json:"owner"`
	Products []string `json:"products"`
	Name     *string  `json:"name"`
}

func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, "Product id is required")
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (h *CartHandler) Make(c *gin.Context) {
	var req cartRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := validate.New().
		Required(req.Owner, "Couldn't identify you, make sure you are logged in").
		Check(len(req.Products) > 0, "Couldn't make cart with 0 products").
		Required(str(req.Name), "Cart name is required").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	owner, err := parseID(req.Owner, "Couldn't identify you, make sure you are logged in")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	products, err := parseIDs(req.Products)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := middleware.RequireSelf(c, owner.Hex()); err != nil {
		apperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.FindByID(ctx, owner); err != nil {
		apperr.Respond(c, notFoundAs(err, "Provided user doesn't exist"))
		return
	}

	cart := &models.Cart{
		Owner:      owner,
		Products:   products,
		Name:       *req.Name,
		LastEdited: time.Now().UTC(),
	}
	if err := h.carts.Create(ctx, cart); err != nil {
		apperr.Respond(c, err)
		return
	}
	apperr.OK(c, "Cart made successfully")
}

// loadOwned fetches the cart and checks the caller may act on it.
func (h *CartHandler) loadOwned(c *gin.Context, missingMsg string) (*models.Cart, bool) {
	id, err := parseID(c.Param("id"), missingMsg)
	if err != nil {
		apperr.Respond(c, err)
		return nil, false
	}
	cart, err := h.carts.FindByID(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified cart doesn't exist"))
		return nil, false
	}
	if err := middleware.RequireSelf(c, cart.Owner.Hex()); err != nil {
		apperr.Respond(c, err)
		return nil, false
	}
	return cart, true
}

func (h *CartHandler) Update(c *gin.Context) {
	var req cartRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if req.Products == nil && req.Name == nil {
		apperr.Respond(c, apperr.Validation("All fields are empty"))
		return
	}
	if err := validate.New().
		Check(req.Products == nil || len(req.Products) > 0, "Cart must contain at least one product").
		Check(req.Name == nil || *req.Name != "", "Cart name can't be empty").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	patch := models.CartPatch{Name: req.Name}
	if req.Products != nil {
		ids, err := parseIDs(req.Products)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		patch.Products = ids
	}

	cart, ok := h.loadOwned(c, "Couldn't find specified cart")
	if !ok {
		return
	}
	if _, err := h.carts.Update(c.Request.Context(), cart.ID, patch); err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't update this cart"))
		return
	}
	apperr.OK(c, "Cart successfully updated")
}

// ListByOwner returns the carts of a user with the owner resolved.
func (h *CartHandler) ListByOwner(c *gin.Context) {
	owner, err := parseID(c.Param("id"), "You are not logged in")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := middleware.RequireSelf(c, owner.Hex()); err != nil {
		apperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	carts, err := h.carts.FindByOwner(ctx, owner)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	owners, err := usersByID(ctx, h.users, owner)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	out := make([]models.CartWithOwner, len(carts))
	for i, cart := range carts {
		out[i] = models.CartWithOwner{Cart: cart, Owner: userRef(owners, cart.Owner)}
	}
	c.JSON(http.StatusOK, out)
}

// Get returns the cart with its products resolved in cart order. Products
// that no longer exist are left out.
func (h *CartHandler) Get(c *gin.Context) {
	cart, ok := h.loadOwned(c, "You didn't specify which cart you are trying to get")
	if !ok {
		return
	}
	found, err := h.products.FindByIDs(c.Request.Context(), cart.Products)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	products := make([]models.Product, 0, len(cart.Products))
	for _, id := range cart.Products {
		if p, ok := found[id]; ok {
			products = append(products, p)
		}
	}
	c.JSON(http.StatusOK, models.CartWithProducts{Cart: *cart, Products: products})
}

type addProductRequest struct {
	ProductID string `json:"productId"`
}

func (h *CartHandler) AddProduct(c *gin.Context) {
	var req addProductRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	productID, err := parseID(req.ProductID, "You didn't provide what product you are adding to cart")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	cart, ok := h.loadOwned(c, "You didn't provide what cart you are using")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.products.FindByID(ctx, productID); err != nil {
		apperr.Respond(c, notFoundAs(err, "This product doesn't exist"))
		return
	}
	if _, err := h.carts.AddProduct(ctx, cart.ID, productID); err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't add product to this cart"))
		return
	}
	apperr.OK(c, "Product added in cart successfully")
}

func (h *CartHandler) Delete(c *gin.Context) {
	cart, ok := h.loadOwned(c, "You didn't provide which cart you want to delete")
	if !ok {
		return
	}
	if err := h.carts.Delete(c.Request.Context(), cart.ID); err != nil {
		apperr.Respond(c, notFoundAs(err, "Specified cart doesn't exist"))
		return
	}
	apperr.OK(c, "Cart deleted successfully")
}
