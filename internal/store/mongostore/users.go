package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"techshop-backend/internal/models"
)

type users struct {
	col *mongo.Collection
}

func (s *users) Create(ctx context.Context, u *models.User) error {
	id, err := insert(ctx, s.col, u)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (s *users) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"_id": id})
}

func (s *users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"username": username})
}

func (s *users) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	found, err := findMany[models.User](ctx, s.col, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, u := range found {
		out[u.ID] = u
	}
	return out, nil
}

func (s *users) List(ctx context.Context) ([]models.User, error) {
	return findMany[models.User](ctx, s.col, bson.M{})
}

func (s *users) Update(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	set := bson.M{}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Rated != nil {
		set["rated"] = *patch.Rated
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}
	return findAndUpdate[models.User](ctx, s.col, id, bson.M{"$set": set})
}

func (s *users) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.col, id)
}
