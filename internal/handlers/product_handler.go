package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/logging"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
	"techshop-backend/internal/validate"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductHandler struct {
	products store.Products
	users    store.Users
}

func NewProductHandler(products store.Products, users store.Users) *ProductHandler {
	return &ProductHandler{products: products, users: users}
}

func (h *ProductHandler) respondWithOwners(c *gin.Context, q store.ProductQuery) {
	ctx := c.Request.Context()
	found, err := h.products.Find(ctx, q)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	views, err := withOwners(ctx, h.users, found)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func queryInt(c *gin.Context, key string, def int64) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, apperr.Validationf("%s must be a non-negative integer", key)
	}
	return n, nil
}

// List returns one page of products. Paging is driven by the offset and
// limit query parameters.
func (h *ProductHandler) List(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	h.respondWithOwners(c, store.ProductQuery{Offset: offset, Limit: limit})
}

// Sorted returns every product in the given order.
func (h *ProductHandler) Sorted(by store.ProductSort) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.respondWithOwners(c, store.ProductQuery{Sort: by})
	}
}

func parsePrice(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validationf("Price must be a number, got %q", raw)
	}
	return &v, nil
}

// FilterByPrice keeps products strictly between from and to. Either bound
// may be omitted but not both.
func (h *ProductHandler) FilterByPrice(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		apperr.Respond(c, apperr.Validation("Couldn't filter because price fields are both empty"))
		return
	}
	lo, err := parsePrice(from)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	hi, err := parsePrice(to)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	h.respondWithOwners(c, store.ProductQuery{MinPrice: lo, MaxPrice: hi})
}

// FilterByName matches search as a case-insensitive substring of the name.
func (h *ProductHandler) FilterByName(c *gin.Context) {
	found, err := h.products.Find(c.Request.Context(), store.ProductQuery{
		NameContains: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// Get counts a view and returns the product with its owner.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"), "You didn't provide which product you want to visit")
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	p, err := h.products.IncrementViews(ctx, id)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "This product doesn't exist"))
		return
	}
	views, err := withOwners(ctx, h.users, []models.Product{*p})
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views[0])
}

func (h *ProductHandler) ByUser(c *gin.Context) {
	id, err := parseID(c.Param("id"), "You didn't provide for what user you fetching products")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if _, err := h.users.FindByID(c.Request.Context(), id); err != nil {
		apperr.Respond(c, notFoundAs(err, "Provided user doesn't exist"))
		return
	}
	h.respondWithOwners(c, store.ProductQuery{Owner: &id})
}

type paymentMadeRequest struct {
	Products []string `json:"products"`
}

// PaymentMade takes one unit off each listed product in order. It stops at
// the first product that is missing or sold out; earlier decrements stay.
func (h *ProductHandler) PaymentMade(c *gin.Context) {
	var req paymentMadeRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if req.Products == nil {
		apperr.Respond(c, apperr.Validation("Products are required"))
		return
	}

	ctx := c.Request.Context()
	for _, raw := range req.Products {
		id, err := parseID(raw, "Product id is required")
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		err = h.products.DecrementQuantity(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, store.ErrNotFound):
			apperr.Respond(c, apperr.Validationf("Couldn't find product with id: %s", raw))
			return
		case errors.Is(err, store.ErrOutOfStock):
			apperr.Respond(c, apperr.Validationf("Product with id %s is out of stock", raw))
			return
		default:
			apperr.Respond(c, err)
			return
		}
	}
	apperr.OK(c, "Quantity for all products you sent decreased by 1")
}

type productRequest struct {
	Owner          string            `json:"owner"`
	Price          *float64          `json:"price"`
	Image          *string           `json:"image"`
	Name           *string           `json:"name"`
	Specifications map[string]string `json:"specifications"`
	Description    *string           `json:"description"`
	Quantity       *int64            `json:"quantity"`
	Status         *string           `json:"status"`
}

func (h *ProductHandler) Add(c *gin.Context) {
	var req productRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := validate.New().
		Required(req.Owner, "Owner not provided, make sure you are logged in").
		Check(req.Price != nil, "Product price is required").
		Check(req.Price == nil || *req.Price > 0, "Product price must be greater than 0").
		Required(str(req.Image), "Product image is required").
		Required(str(req.Name), "Product name is required").
		Required(str(req.Description), "Product description is required").
		Check(req.Quantity != nil, "Product quantity is required").
		Check(req.Quantity == nil || *req.Quantity > 0, "Product quantity must be greater than 0").
		Check(req.Specifications != nil, "Invalid specifications format").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	owner, err := parseID(req.Owner, "Owner not provided, make sure you are logged in")
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
		apperr.Respond(c, notFoundAs(err, "We couldn't find specified user, try again"))
		return
	}

	p := &models.Product{
		Owner:          owner,
		Price:          *req.Price,
		Image:          *req.Image,
		Name:           *req.Name,
		Specifications: req.Specifications,
		Description:    *req.Description,
		Status:         models.ProductStatusActive,
		CreatedAt:      time.Now().UTC(),
		Quantity:       *req.Quantity,
	}
	if err := h.products.Create(ctx, p); err != nil {
		apperr.Respond(c, err)
		return
	}

	logging.FromContext(c).Info("product created",
		zap.String("product_id", p.ID.Hex()),
		zap.String("owner", owner.Hex()),
	)
	apperr.OK(c, "Product added successfully")
}

// Edit applies the provided fields. Views are not editable.
func (h *ProductHandler) Edit(c *gin.Context) {
	id, err := parseID(c.Param("id"), "You didn't specify which product you are updating")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	var req productRequest
	if err := bindJSON(c, &req); err != nil {
		apperr.Respond(c, err)
		return
	}

	patch := models.ProductPatch{
		Price:          req.Price,
		Image:          req.Image,
		Name:           req.Name,
		Specifications: req.Specifications,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Status:         req.Status,
	}
	if patch.Empty() {
		apperr.Respond(c, apperr.Validation("All fields are empty, fill some field"))
		return
	}
	if err := validate.New().
		Check(req.Price == nil || *req.Price > 0, "Product price must be greater than 0").
		Check(req.Quantity == nil || *req.Quantity >= 0, "Product quantity can't be negative").
		Err(); err != nil {
		apperr.Respond(c, err)
		return
	}

	if err := h.checkOwner(c, id); err != nil {
		apperr.Respond(c, err)
		return
	}
	updated, err := h.products.Update(c.Request.Context(), id, patch)
	if err != nil {
		apperr.Respond(c, notFoundAs(err, "Couldn't update this product"))
		return
	}
	apperr.OK(c, fmt.Sprintf("Product %s updated successfully", updated.Name))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"), "You didn't provide which product you want to delete")
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.checkOwner(c, id); err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, notFoundAs(err, "This product doesn't exist"))
		return
	}
	apperr.OK(c, "Product deleted successfully")
}

func (h *ProductHandler) checkOwner(c *gin.Context, id primitive.ObjectID) error {
	p, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		return notFoundAs(err, "This product doesn't exist")
	}
	return middleware.RequireSelf(c, p.Owner.Hex())
}
