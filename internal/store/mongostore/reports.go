package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"techshop-backend/internal/models"
)

type reports struct {
	users    *mongo.Collection
	articles *mongo.Collection
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func (s *reports) CreateUserReport(ctx context.Context, r *models.ReportedUser) error {
	id, err := insert(ctx, s.users, r)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *reports) CreateArticleReport(ctx context.Context, r *models.ReportedArticle) error {
	id, err := insert(ctx, s.articles, r)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func (s *reports) ListUserReports(ctx context.Context) ([]models.ReportedUser, error) {
	return findMany[models.ReportedUser](ctx, s.users, bson.M{}, newestFirst)
}

func (s *reports) ListArticleReports(ctx context.Context) ([]models.ReportedArticle, error) {
	return findMany[models.ReportedArticle](ctx, s.articles, bson.M{}, newestFirst)
}

func (s *reports) FindUserReport(ctx context.Context, id primitive.ObjectID) (*models.ReportedUser, error) {
	return findOne[models.ReportedUser](ctx, s.users, bson.M{"_id": id})
}

func (s *reports) FindArticleReport(ctx context.Context, id primitive.ObjectID) (*models.ReportedArticle, error) {
	return findOne[models.ReportedArticle](ctx, s.articles, bson.M{"_id": id})
}

func (s *reports) DeleteUserReport(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.users, id)
}

func (s *reports) DeleteArticleReport(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.articles, id)
}
