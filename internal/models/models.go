package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	ProductStatusActive = "ACTIVE"

	DefaultAvatar            = "https://www.pngitem.com/pimgs/m/524-5246388_anonymous-user-hd-png-download.png"
	DefaultAdditionalMessage = "N/A"
)

type Location struct {
	State string `bson:"state" json:"state"`
	City  string `bson:"city" json:"city"`
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Password    string             `bson:"password" json:"-"`
	Role        string             `bson:"role" json:"role"`
	Image       string             `bson:"image" json:"image"`
	Verified    bool               `bson:"verification" json:"verification"`
	Rated       bool               `bson:"rated" json:"rated"`
	Location    Location           `bson:"location" json:"location"`
}

// UserPatch holds the optional fields of a user update. Nil means unchanged.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
	Image    *string
	Role     *string
	Rated    *bool
}

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner          primitive.ObjectID `bson:"owner" json:"owner"`
	Price          float64            `bson:"price" json:"price"`
	Image          string             `bson:"image" json:"image"`
	Name           string             `bson:"name" json:"name"`
	Specifications map[string]string  `bson:"specifications" json:"specifications"`
	Description    string             `bson:"description" json:"description"`
	Status         string             `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	Views          int64              `bson:"views" json:"views"`
	Quantity       int64              `bson:"quantity" json:"quantity"`
}

// ProductPatch holds the optional fields of a product edit. Specifications,
// when set, replace the stored map wholesale.
type ProductPatch struct {
	Price          *float64
	Image          *string
	Name           *string
	Specifications map[string]string
	Description    *string
	Quantity       *int64
	Status         *string
}

func (p ProductPatch) Empty() bool {
	return p.Price == nil && p.Image == nil && p.Name == nil && p.Specifications == nil &&
		p.Description == nil && p.Quantity == nil && p.Status == nil
}

// ProductView is a product with its owner reference resolved. Owner is nil
// when the referenced user no longer exists.
type ProductView struct {
	Product
	Owner *User `json:"owner"`
}

type Cart struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Owner      primitive.ObjectID   `bson:"owner" json:"owner"`
	Products   []primitive.ObjectID `bson:"products" json:"products"`
	Name       string               `bson:"name" json:"name"`
	LastEdited time.Time            `bson:"lastEdited" json:"lastEdited"`
}

type CartPatch struct {
	Products []primitive.ObjectID
	Name     *string
}

// CartWithOwner is returned when listing a user's carts.
type CartWithOwner struct {
	Cart
	Owner *User `json:"owner"`
}

// CartWithProducts is returned for a single cart. Products that no longer
// exist are skipped.
type CartWithProducts struct {
	Cart
	Products []Product `json:"products"`
}

type CardInfo struct {
	CardNumber string `bson:"cardNumber" json:"cardNumber"`
	Expiring   string `bson:"expiring" json:"expiring"`
	CVC        string `bson:"cvc" json:"-"`
}

type PaymentMethod struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	Country    string             `bson:"country" json:"country"`
	CardHolder string             `bson:"cardHolder" json:"cardHolder"`
	CardInfo   CardInfo           `bson:"cardInfo" json:"cardInfo"`
	TimesUsed  int64              `bson:"timesUsed" json:"timesUsed"`
}

type StarRating struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RatedBy primitive.ObjectID `bson:"ratedBy" json:"ratedBy"`
	Stars   int                `bson:"stars" json:"stars"`
	RatedAt time.Time          `bson:"ratedAt" json:"ratedAt"`
}

type RatingView struct {
	StarRating
	RatedBy *User `json:"ratedBy"`
}

type ReportedUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportedBy        primitive.ObjectID `bson:"reportedBy" json:"reportedBy"`
	ReportedUser      primitive.ObjectID `bson:"reportedUser" json:"reportedUser"`
	Reason            string             `bson:"reason" json:"reason"`
	AdditionalMessage string             `bson:"additionalMessage" json:"additionalMessage"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

type ReportedUserView struct {
	ID                primitive.ObjectID `json:"id"`
	ReportedBy        *User              `json:"reportedBy"`
	ReportedUser      *User              `json:"reportedUser"`
	Reason            string             `json:"reason"`
	AdditionalMessage string             `json:"additionalMessage"`
	CreatedAt         time.Time          `json:"createdAt"`
}

type ReportedArticle struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportedBy        primitive.ObjectID `bson:"reportedBy" json:"reportedBy"`
	ReportedArticle   primitive.ObjectID `bson:"reportedArticle" json:"reportedArticle"`
	Reason            string             `bson:"reason" json:"reason"`
	AdditionalMessage string             `bson:"additionalMessage" json:"additionalMessage"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

type ReportedArticleView struct {
	ID                primitive.ObjectID `json:"id"`
	ReportedBy        *User              `json:"reportedBy"`
	ReportedArticle   *Product           `json:"reportedArticle"`
	Reason            string             `json:"reason"`
	AdditionalMessage string             `json:"additionalMessage"`
	CreatedAt         time.Time          `json:"createdAt"`
}
