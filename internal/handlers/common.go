// Package handlers implements the HTTP endpoints. Each handler type serves
// one route family and talks to the store through its narrow interfaces.
package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
)

var errInvalidBody = apperr.New(apperr.KindBadRequest, "Invalid request body")

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Wrap(apperr.KindBadRequest, errInvalidBody.Message, err)
	}
	return nil
}

// parseID reads a hex object id. An empty value fails with missingMsg.
func parseID(raw, missingMsg string) (primitive.ObjectID, error) {
	if strings.TrimSpace(raw) == "" {
		return primitive.NilObjectID, apperr.Validation(missingMsg)
	}
	id, err := store.ParseID(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Validationf("Invalid id: %s", raw)
	}
	return id, nil
}

// notFoundAs swaps a store miss for a resource specific message.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// usersByID resolves a set of user references in one query.
func usersByID(ctx context.Context, users store.Users, ids ...primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	uniq := make([]primitive.ObjectID, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	return users.FindByIDs(ctx, uniq)
}

// userRef returns a pointer to the resolved user, or nil for a dangling
// reference.
func userRef(found map[primitive.ObjectID]models.User, id primitive.ObjectID) *models.User {
	u, ok := found[id]
	if !ok {
		return nil
	}
	return &u
}

func withOwners(ctx context.Context, users store.Users, products []models.Product) ([]models.ProductView, error) {
	ids := make([]primitive.ObjectID, len(products))
	for i, p := range products {
		ids[i] = p.Owner
	}
	owners, err := usersByID(ctx, users, ids...)
	if err != nil {
		return nil, err
	}

	out := make([]models.ProductView, len(products))
	for i, p := range products {
		out[i] = models.ProductView{Product: p, Owner: userRef(owners, p.Owner)}
	}
	return out, nil
}
