// Package store defines the persistence contract of the marketplace. Each
// entity lives in its own collection; references between collections are
// plain ids with no integrity enforcement.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/models"
)

var (
	ErrNotFound   = errors.New("document not found")
	ErrOutOfStock = errors.New("product is out of stock")
	ErrInvalidID  = errors.New("invalid id")
)

// DuplicateError reports a write rejected by a unique constraint.
type DuplicateError struct {
	Collection string
	Field      string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s in %s", e.Field, e.Collection)
}

// Message is the client facing text for the violated field.
func (e *DuplicateError) Message() string {
	switch e.Field {
	case "username":
		return "Username already exists"
	case "email":
		return "Email already exists"
	case "phoneNumber":
		return "Phone number is already used"
	case "cardInfo.cardNumber":
		return "Card number is already used"
	}
	return "A record with the same " + e.Field + " already exists"
}

type ProductSort int

const (
	SortNone ProductSort = iota
	SortByName
	SortByPrice
	SortByQuantity
	SortByDate
	SortByViews
)

// ProductQuery selects products. Bounds are exclusive; a nil bound is open.
type ProductQuery struct {
	Owner        *primitive.ObjectID
	MinPrice     *float64
	MaxPrice     *float64
	NameContains string
	Sort         ProductSort
	Offset       int64
	Limit        int64
}

type Users interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Products interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	Find(ctx context.Context, q ProductQuery) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error)
	// IncrementViews atomically adds one view and returns the updated product.
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// DecrementQuantity atomically removes one unit. It fails with
	// ErrOutOfStock when the quantity is already zero.
	DecrementQuantity(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Carts interface {
	Create(ctx context.Context, c *models.Cart) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Cart, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Cart, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.CartPatch) (*models.Cart, error)
	AddProduct(ctx context.Context, id, productID primitive.ObjectID) (*models.Cart, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type PaymentMethods interface {
	Create(ctx context.Context, m *models.PaymentMethod) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentMethod, error)
	FindByEmail(ctx context.Context, email string) (*models.PaymentMethod, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Ratings interface {
	Create(ctx context.Context, r *models.StarRating) error
	ExistsFor(ctx context.Context, userID primitive.ObjectID) (bool, error)
	List(ctx context.Context) ([]models.StarRating, error)
}

type Reports interface {
	CreateUserReport(ctx context.Context, r *models.ReportedUser) error
	CreateArticleReport(ctx context.Context, r *models.ReportedArticle) error
	ListUserReports(ctx context.Context) ([]models.ReportedUser, error)
	ListArticleReports(ctx context.Context) ([]models.ReportedArticle, error)
	FindUserReport(ctx context.Context, id primitive.ObjectID) (*models.ReportedUser, error)
	FindArticleReport(ctx context.Context, id primitive.ObjectID) (*models.ReportedArticle, error)
	DeleteUserReport(ctx context.Context, id primitive.ObjectID) error
	DeleteArticleReport(ctx context.Context, id primitive.ObjectID) error
}

// Store bundles the collections behind one handle.
type Store struct {
	Users          Users
	Products       Products
	Carts          Carts
	PaymentMethods PaymentMethods
	Ratings        Ratings
	Reports        Reports

	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

// ParseID converts a hex string to an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
