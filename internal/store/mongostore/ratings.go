package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techshop-backend/internal/models"
)

type ratings struct {
	col *mongo.Collection
}

func (s *ratings) Create(ctx context.Context, r *models.StarRating) error {
	id, err := insert(ctx, s.col, r)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *ratings) ExistsFor(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"ratedBy": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *ratings) List(ctx context.Context) ([]models.StarRating, error) {
	return findMany[models.StarRating](ctx, s.col, bson.M{},
		options.Find().SetSort(bson.D{{Key: "ratedAt", Value: -1}}))
}
