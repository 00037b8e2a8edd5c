// Package mongostore implements the store contract on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"techshop-backend/internal/logging"
	"techshop-backend/internal/store"
)

const (
	colUsers          = "users"
	colProducts       = "products"
	colCarts          = "carts"
	colPayments       = "payments"
	colRatings        = "ratings"
	colReportUsers    = "reportusers"
	colReportArticles = "reportarticles"
)

// uniqueIndexes maps index names to the document field they protect. The
// names are matched against duplicate key errors to report the field.
var uniqueIndexes = map[string][]struct{ index, field string }{
	colUsers: {
		{"users_username_unique", "username"},
		{"users_email_unique", "email"},
		{"users_phone_unique", "phoneNumber"},
	},
	colPayments: {
		{"payments_email_unique", "email"},
		{"payments_card_unique", "cardInfo.cardNumber"},
	},
}

// Open connects, verifies the connection and makes sure the unique indexes
// exist before returning the store.
func Open(ctx context.Context, uri, dbName string) (*store.Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	logging.L().Info("mongo connected", zap.String("database", dbName))

	return &store.Store{
		Users:          &users{col: db.Collection(colUsers)},
		Products:       &products{col: db.Collection(colProducts)},
		Carts:          &carts{col: db.Collection(colCarts)},
		PaymentMethods: &payments{col: db.Collection(colPayments)},
		Ratings:        &ratings{col: db.Collection(colRatings)},
		Reports: &reports{
			users:    db.Collection(colReportUsers),
			articles: db.Collection(colReportArticles),
		},
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		Close: client.Disconnect,
	}, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	for col, idx := range uniqueIndexes {
		idxModels := make([]mongo.IndexModel, 0, len(idx))
		for _, i := range idx {
			idxModels = append(idxModels, mongo.IndexModel{
				Keys:    bson.D{{Key: i.field, Value: 1}},
				Options: options.Index().SetUnique(true).SetName(i.index),
			})
		}
		if _, err := db.Collection(col).Indexes().CreateMany(ctx, idxModels); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", col, err)
		}
	}

	secondary := map[string]string{
		colProducts: "owner",
		colCarts:    "owner",
		colRatings:  "ratedBy",
	}
	for col, field := range secondary {
		_, err := db.Collection(col).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("failed to create %s index: %w", col, err)
		}
	}
	return nil
}

// translate maps driver errors onto the store contract.
func translate(col string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		field := "value"
		msg := err.Error()
		for _, i := range uniqueIndexes[col] {
			if strings.Contains(msg, i.index) {
				field = i.field
				break
			}
		}
		return &store.DuplicateError{Collection: col, Field: field}
	}
	return err
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translate(col.Name(), err)
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(col.Name(), err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findAndUpdate[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID, update any) (*T, error) {
	var out T
	err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		return nil, translate(col.Name(), err)
	}
	return &out, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id primitive.ObjectID) error {
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func insert(ctx context.Context, col *mongo.Collection, doc any) (primitive.ObjectID, error) {
	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, translate(col.Name(), err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}
