package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"techshop-backend/internal/models"
)

type payments struct {
	col *mongo.Collection
}

func (s *payments) Create(ctx context.Context, m *models.PaymentMethod) error {
	id, err := insert(ctx, s.col, m)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (s *payments) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PaymentMethod, error) {
	return findOne[models.PaymentMethod](ctx, s.col, bson.M{"_id": id})
}

func (s *payments) FindByEmail(ctx context.Context, email string) (*models.PaymentMethod, error) {
	return findOne[models.PaymentMethod](ctx, s.col, bson.M{"email": email})
}

func (s *payments) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}
