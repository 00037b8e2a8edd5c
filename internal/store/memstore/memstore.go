// Package memstore is an in-process implementation of the store contract.
// It enforces the same unique constraints as the Mongo indexes and is used
// by tests and by STORE_DRIVER=memory.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
)

type db struct {
	mu sync.RWMutex

	users          map[primitive.ObjectID]models.User
	products       map[primitive.ObjectID]models.Product
	carts          map[primitive.ObjectID]models.Cart
	payments       map[primitive.ObjectID]models.PaymentMethod
	ratings        map[primitive.ObjectID]models.StarRating
	userReports    map[primitive.ObjectID]models.ReportedUser
	articleReports map[primitive.ObjectID]models.ReportedArticle
}

// New returns an empty store.
func New() *store.Store {
	d := &db{
		users:          map[primitive.ObjectID]models.User{},
		products:       map[primitive.ObjectID]models.Product{},
		carts:          map[primitive.ObjectID]models.Cart{},
		payments:       map[primitive.ObjectID]models.PaymentMethod{},
		ratings:        map[primitive.ObjectID]models.StarRating{},
		userReports:    map[primitive.ObjectID]models.ReportedUser{},
		articleReports: map[primitive.ObjectID]models.ReportedArticle{},
	}
	return &store.Store{
		Users:          (*users)(d),
		Products:       (*products)(d),
		Carts:          (*carts)(d),
		PaymentMethods: (*payments)(d),
		Ratings:        (*ratings)(d),
		Reports:        (*reports)(d),
		Ping:           func(context.Context) error { return nil },
		Close:          func(context.Context) error { return nil },
	}
}

// users

type users db

func (s *users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(primitive.NilObjectID, u.Username, u.Email, u.PhoneNumber); err != nil {
		return err
	}
	u.ID = primitive.NewObjectID()
	s.users[u.ID] = *u
	return nil
}

func (s *users) checkUnique(self primitive.ObjectID, username, email, phone string) error {
	for id, other := range s.users {
		if id == self {
			continue
		}
		switch {
		case username != "" && other.Username == username:
			return &store.DuplicateError{Collection: "users", Field: "username"}
		case email != "" && other.Email == email:
			return &store.DuplicateError{Collection: "users", Field: "email"}
		case phone != "" && other.PhoneNumber == phone:
			return &store.DuplicateError{Collection: "users", Field: "phoneNumber"}
		}
	}
	return nil
}

func (s *users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *users) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *users) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *users) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sortByID(out, func(u models.User) primitive.ObjectID { return u.ID })
	return out, nil
}

func (s *users) Update(_ context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	var username, email string
	if patch.Username != nil {
		username = *patch.Username
	}
	if patch.Email != nil {
		email = *patch.Email
	}
	if err := s.checkUnique(id, username, email, ""); err != nil {
		return nil, err
	}

	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Image != nil {
		u.Image = *patch.Image
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Rated != nil {
		u.Rated = *patch.Rated
	}
	s.users[id] = u
	return &u, nil
}

func (s *users) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// products

type products db

func cloneProduct(p models.Product) models.Product {
	if p.Specifications != nil {
		specs := make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			specs[k] = v
		}
		p.Specifications = specs
	}
	return p
}

func (s *products) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	s.products[p.ID] = cloneProduct(*p)
	return nil
}

func (s *products) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = cloneProduct(p)
	return &p, nil
}

func (s *products) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = cloneProduct(p)
		}
	}
	return out, nil
}

func (s *products) Find(_ context.Context, q store.ProductQuery) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q.NameContains)
	out := []models.Product{}
	for _, p := range s.products {
		if q.Owner != nil && p.Owner != *q.Owner {
			continue
		}
		if q.MinPrice != nil && !(p.Price > *q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && !(p.Price < *q.MaxPrice) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, cloneProduct(p))
	}

	sortByID(out, func(p models.Product) primitive.ObjectID { return p.ID })
	if less := productLess(q.Sort); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}

	if q.Offset > 0 {
		if q.Offset >= int64(len(out)) {
			return []models.Product{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < int64(len(out)) {
		out = out[:q.Limit]
	}
	return out, nil
}

func productLess(by store.ProductSort) func(a, b models.Product) bool {
	switch by {
	case store.SortByName:
		return func(a, b models.Product) bool { return a.Name < b.Name }
	case store.SortByPrice:
		return func(a, b models.Product) bool { return a.Price > b.Price }
	case store.SortByQuantity:
		return func(a, b models.Product) bool { return a.Quantity > b.Quantity }
	case store.SortByDate:
		return func(a, b models.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case store.SortByViews:
		return func(a, b models.Product) bool { return a.Views > b.Views }
	}
	return nil
}

func (s *products) Update(_ context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Specifications != nil {
		p.Specifications = patch.Specifications
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	p = cloneProduct(p)
	s.products[id] = p
	out := cloneProduct(p)
	return &out, nil
}

func (s *products) IncrementViews(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.Views++
	s.products[id] = p
	out := cloneProduct(p)
	return &out, nil
}

func (s *products) DecrementQuantity(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Quantity <= 0 {
		return store.ErrOutOfStock
	}
	p.Quantity--
	s.products[id] = p
	return nil
}

func (s *products) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// carts

type carts db

func cloneCart(c models.Cart) models.Cart {
	c.Products = append([]primitive.ObjectID{}, c.Products...)
	return c
}

func (s *carts) Create(_ context.Context, c *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = primitive.NewObjectID()
	s.carts[c.ID] = cloneCart(*c)
	return nil
}

func (s *carts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c = cloneCart(c)
	return &c, nil
}

func (s *carts) FindByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Cart{}
	for _, c := range s.carts {
		if c.Owner == owner {
			out = append(out, cloneCart(c))
		}
	}
	sortByID(out, func(c models.Cart) primitive.ObjectID { return c.ID })
	return out, nil
}

func (s *carts) Update(_ context.Context, id primitive.ObjectID, patch models.CartPatch) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Products != nil {
		c.Products = patch.Products
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	c.LastEdited = time.Now().UTC()
	c = cloneCart(c)
	s.carts[id] = c
	out := cloneCart(c)
	return &out, nil
}

func (s *carts) AddProduct(_ context.Context, id, productID primitive.ObjectID) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c = cloneCart(c)
	c.Products = append(c.Products, productID)
	c.LastEdited = time.Now().UTC()
	s.carts[id] = c
	out := cloneCart(c)
	return &out, nil
}

func (s *carts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.carts, id)
	return nil
}

// payment methods

type payments db

func (s *payments) Create(_ context.Context, m *models.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.payments {
		if other.Email == m.Email {
			return &store.DuplicateError{Collection: "payments", Field: "email"}
		}
		if other.CardInfo.CardNumber == m.CardInfo.CardNumber {
			return &store.DuplicateError{Collection: "payments", Field: "cardInfo.cardNumber"}
		}
	}
	m.ID = primitive.NewObjectID()
	s.payments[m.ID] = *m
	return nil
}

func (s *payments) FindByID(_ context.Context, id primitive.ObjectID) (*models.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (s *payments) FindByEmail(_ context.Context, email string) (*models.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.payments {
		if m.Email == email {
			return &m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *payments) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.payments, id)
	return nil
}

// ratings

type ratings db

func (s *ratings) Create(_ context.Context, r *models.StarRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = primitive.NewObjectID()
	s.ratings[r.ID] = *r
	return nil
}

func (s *ratings) ExistsFor(_ context.Context, userID primitive.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.ratings {
		if r.RatedBy == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *ratings) List(_ context.Context) ([]models.StarRating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StarRating, 0, len(s.ratings))
	for _, r := range s.ratings {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RatedAt.After(out[j].RatedAt) })
	return out, nil
}

// reports

type reports db

func (s *reports) CreateUserReport(_ context.Context, r *models.ReportedUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = primitive.NewObjectID()
	s.userReports[r.ID] = *r
	return nil
}

func (s *reports) CreateArticleReport(_ context.Context, r *models.ReportedArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = primitive.NewObjectID()
	s.articleReports[r.ID] = *r
	return nil
}

func (s *reports) ListUserReports(_ context.Context) ([]models.ReportedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ReportedUser, 0, len(s.userReports))
	for _, r := range s.userReports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *reports) ListArticleReports(_ context.Context) ([]models.ReportedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ReportedArticle, 0, len(s.articleReports))
	for _, r := range s.articleReports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *reports) FindUserReport(_ context.Context, id primitive.ObjectID) (*models.ReportedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.userReports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *reports) FindArticleReport(_ context.Context, id primitive.ObjectID) (*models.ReportedArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.articleReports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *reports) DeleteUserReport(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.userReports[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.userReports, id)
	return nil
}

func (s *reports) DeleteArticleReport(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articleReports[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.articleReports, id)
	return nil
}

// sortByID orders by insertion, which ObjectIDs encode.
func sortByID[T any](items []T, id func(T) primitive.ObjectID) {
	sort.Slice(items, func(i, j int) bool {
		a, b := id(items[i]), id(items[j])
		return string(a[:]) < string(b[:])
	})
}
