package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"techshop-backend/internal/models"
)

type carts struct {
	col *mongo.Collection
}

func (s *carts) Create(ctx context.Context, c *models.Cart) error {
	id, err := insert(ctx, s.col, c)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (s *carts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Cart, error) {
	return findOne[models.Cart](ctx, s.col, bson.M{"_id": id})
}

func (s *carts) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Cart, error) {
	return findMany[models.Cart](ctx, s.col, bson.M{"owner": owner})
}

func (s *carts) Update(ctx context.Context, id primitive.ObjectID, patch models.CartPatch) (*models.Cart, error) {
	set := bson.M{"lastEdited": time.Now().UTC()}
	if patch.Products != nil {
		set["products"] = patch.Products
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	return findAndUpdate[models.Cart](ctx, s.col, id, bson.M{"$set": set})
}

func (s *carts) AddProduct(ctx context.Context, id, productID primitive.ObjectID) (*models.Cart, error) {
	return findAndUpdate[models.Cart](ctx, s.col, id, bson.M{
		"$push": bson.M{"products": productID},
		"$set":  bson.M{"lastEdited": time.Now().UTC()},
	})
}

func (s *carts) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}
