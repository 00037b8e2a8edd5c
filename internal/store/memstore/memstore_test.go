package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/models"
	"techshop-backend/internal/store"
)

func TestUsersUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := &models.User{Username: "johnny", Email: "john@mail.com", PhoneNumber: "+38761"}
	if err := s.Users.Create(ctx, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first.ID.IsZero() {
		t.Fatal("Create() did not assign an id")
	}

	tests := []struct {
		name  string
		user  models.User
		field string
	}{
		{"username", models.User{Username: "johnny", Email: "other@mail.com", PhoneNumber: "+1"}, "username"},
		{"email", models.User{Username: "another", Email: "john@mail.com", PhoneNumber: "+2"}, "email"},
		{"phone", models.User{Username: "another", Email: "other@mail.com", PhoneNumber: "+38761"}, "phoneNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := s.Users.Create(ctx, &u)
			var dup *store.DuplicateError
			if !errors.As(err, &dup) {
				t.Fatalf("Create() error = %v; want DuplicateError", err)
			}
			if dup.Field != tt.field {
				t.Errorf("Field = %q; want %q", dup.Field, tt.field)
			}
		})
	}

	all, _ := s.Users.List(ctx)
	if len(all) != 1 {
		t.Errorf("List() len = %d; want 1", len(all))
	}
}

func TestUsersUpdateKeepsUnsetFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Username: "johnny", Email: "john@mail.com", Image: "a.png", Role: models.RoleUser}
	_ = s.Users.Create(ctx, u)

	email := "new@mail.com"
	got, err := s.Users.Update(ctx, u.ID, models.UserPatch{Email: &email})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Email != email || got.Username != "johnny" || got.Image != "a.png" {
		t.Errorf("Update() = %+v", got)
	}

	if _, err := s.Users.Update(ctx, primitive.NewObjectID(), models.UserPatch{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update(missing) error = %v; want ErrNotFound", err)
	}
}

func seedProducts(t *testing.T, s *store.Store) []models.Product {
	t.Helper()
	owner := primitive.NewObjectID()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []models.Product{
		{Owner: owner, Name: "Laptop", Price: 1200, Quantity: 3, Views: 10, CreatedAt: base},
		{Owner: owner, Name: "mouse", Price: 25, Quantity: 50, Views: 2, CreatedAt: base.Add(time.Hour)},
		{Name: "Gaming Laptop", Price: 2500, Quantity: 1, Views: 40, CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range in {
		if err := s.Products.Create(context.Background(), &in[i]); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	return in
}

func names(ps []models.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProductsFind(t *testing.T) {
	s := New()
	seeded := seedProducts(t, s)
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		q    store.ProductQuery
		want []string
	}{
		{"all", store.ProductQuery{}, []string{"Laptop", "mouse", "Gaming Laptop"}},
		{"by name", store.ProductQuery{Sort: store.SortByName}, []string{"Gaming Laptop", "Laptop", "mouse"}},
		{"by price", store.ProductQuery{Sort: store.SortByPrice}, []string{"Gaming Laptop", "Laptop", "mouse"}},
		{"by quantity", store.ProductQuery{Sort: store.SortByQuantity}, []string{"mouse", "Laptop", "Gaming Laptop"}},
		{"by date", store.ProductQuery{Sort: store.SortByDate}, []string{"Gaming Laptop", "mouse", "Laptop"}},
		{"by views", store.ProductQuery{Sort: store.SortByViews}, []string{"Gaming Laptop", "Laptop", "mouse"}},
		{"price range exclusive", store.ProductQuery{MinPrice: f(25), MaxPrice: f(2500)}, []string{"Laptop"}},
		{"inverted range", store.ProductQuery{MinPrice: f(3000), MaxPrice: f(10)}, []string{}},
		{"name case insensitive", store.ProductQuery{NameContains: "LAPTOP"}, []string{"Laptop", "Gaming Laptop"}},
		{"owner", store.ProductQuery{Owner: &seeded[0].Owner}, []string{"Laptop", "mouse"}},
		{"offset and limit", store.ProductQuery{Sort: store.SortByPrice, Offset: 1, Limit: 1}, []string{"Laptop"}},
		{"offset past end", store.ProductQuery{Offset: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Products.Find(context.Background(), tt.q)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if got == nil {
				t.Fatal("Find() returned nil slice")
			}
			if !equal(names(got), tt.want) {
				t.Errorf("Find() = %v; want %v", names(got), tt.want)
			}
		})
	}
}

func TestProductsDecrementQuantity(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Product{Name: "Cable", Quantity: 1}
	_ = s.Products.Create(ctx, p)

	if err := s.Products.DecrementQuantity(ctx, p.ID); err != nil {
		t.Fatalf("DecrementQuantity() error = %v", err)
	}
	if err := s.Products.DecrementQuantity(ctx, p.ID); !errors.Is(err, store.ErrOutOfStock) {
		t.Errorf("DecrementQuantity(empty) error = %v; want ErrOutOfStock", err)
	}
	if err := s.Products.DecrementQuantity(ctx, primitive.NewObjectID()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DecrementQuantity(missing) error = %v; want ErrNotFound", err)
	}

	got, _ := s.Products.FindByID(ctx, p.ID)
	if got.Quantity != 0 {
		t.Errorf("Quantity = %d; want 0", got.Quantity)
	}
}

func TestProductsIncrementViews(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Product{Name: "Cable"}
	_ = s.Products.Create(ctx, p)

	for i := int64(1); i <= 2; i++ {
		got, err := s.Products.IncrementViews(ctx, p.ID)
		if err != nil {
			t.Fatalf("IncrementViews() error = %v", err)
		}
		if got.Views != i {
			t.Errorf("Views = %d; want %d", got.Views, i)
		}
	}
}

func TestProductsUpdateReplacesSpecifications(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &models.Product{Name: "Phone", Specifications: map[string]string{"ram": "8GB", "cpu": "A15"}}
	_ = s.Products.Create(ctx, p)

	got, err := s.Products.Update(ctx, p.ID, models.ProductPatch{Specifications: map[string]string{"ram": "12GB"}})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(got.Specifications) != 1 || got.Specifications["ram"] != "12GB" {
		t.Errorf("Specifications = %v; want map[ram:12GB]", got.Specifications)
	}
	if got.Name != "Phone" {
		t.Errorf("Name = %q; want %q", got.Name, "Phone")
	}
}

func TestCartsAddProduct(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := &models.Cart{Owner: primitive.NewObjectID(), Name: "wishlist", Products: []primitive.ObjectID{}}
	_ = s.Carts.Create(ctx, c)

	pid := primitive.NewObjectID()
	got, err := s.Carts.AddProduct(ctx, c.ID, pid)
	if err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}
	if len(got.Products) != 1 || got.Products[0] != pid {
		t.Errorf("Products = %v; want [%v]", got.Products, pid)
	}
	if got.LastEdited.IsZero() {
		t.Error("LastEdited not set")
	}

	if _, err := s.Carts.AddProduct(ctx, primitive.NewObjectID(), pid); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("AddProduct(missing) error = %v; want ErrNotFound", err)
	}
}

func TestPaymentsUnique(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := &models.PaymentMethod{Email: "a@mail.com", CardInfo: models.CardInfo{CardNumber: "4242"}}
	if err := s.PaymentMethods.Create(ctx, m); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := s.PaymentMethods.Create(ctx, &models.PaymentMethod{Email: "b@mail.com", CardInfo: models.CardInfo{CardNumber: "4242"}})
	var dup *store.DuplicateError
	if !errors.As(err, &dup) || dup.Message() != "Card number is already used" {
		t.Errorf("Create(dup card) error = %v", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	id := primitive.NewObjectID()

	checks := map[string]func() error{
		"user":           func() error { return s.Users.Delete(ctx, id) },
		"product":        func() error { return s.Products.Delete(ctx, id) },
		"cart":           func() error { return s.Carts.Delete(ctx, id) },
		"payment":        func() error { return s.PaymentMethods.Delete(ctx, id) },
		"user report":    func() error { return s.Reports.DeleteUserReport(ctx, id) },
		"article report": func() error { return s.Reports.DeleteArticleReport(ctx, id) },
	}
	for name, del := range checks {
		if err := del(); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("%s: Delete() error = %v; want ErrNotFound", name, err)
		}
	}
}
