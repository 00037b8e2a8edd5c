package mongostore

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
)

type products struct {
	col *mongo.Collection
}

func (s *products) Create(ctx context.Context, p *models.Product) error {
	id, err := insert(ctx, s.col, p)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (s *products) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, s.col, bson.M{"_id": id})
}

func (s *products) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := findMany[models.Product](ctx, s.col, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, p := range found {
		out[p.ID] = p
	}
	return out, nil
}

func (s *products) Find(ctx context.Context, q store.ProductQuery) ([]models.Product, error) {
	filter := bson.M{}
	if q.Owner != nil {
		filter["owner"] = *q.Owner
	}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gt"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lt"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if q.NameContains != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.NameContains), Options: "i"}
	}

	opts := options.Find()
	if sort := sortDoc(q.Sort); sort != nil {
		opts.SetSort(sort)
	}
	if q.Offset > 0 {
		opts.SetSkip(q.Offset)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	return findMany[models.Product](ctx, s.col, filter, opts)
}

func sortDoc(sort store.ProductSort) bson.D {
	switch sort {
	case store.SortByName:
		return bson.D{{Key: "name", Value: 1}}
	case store.SortByPrice:
		return bson.D{{Key: "price", Value: -1}}
	case store.SortByQuantity:
		return bson.D{{Key: "quantity", Value: -1}}
	case store.SortByDate:
		return bson.D{{Key: "createdAt", Value: -1}}
	case store.SortByViews:
		return bson.D{{Key: "views", Value: -1}}
	}
	// Stable order for offset pagination.
	return bson.D{{Key: "_id", Value: 1}}
}

func (s *products) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error) {
	set := bson.M{}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Specifications != nil {
		set["specifications"] = patch.Specifications
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}
	return findAndUpdate[models.Product](ctx, s.col, id, bson.M{"$set": set})
}

func (s *products) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findAndUpdate[models.Product](ctx, s.col, id, bson.M{"$inc": bson.M{"views": 1}})
}

func (s *products) DecrementQuantity(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"quantity": -1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := s.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrOutOfStock
}

func (s *products) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}
