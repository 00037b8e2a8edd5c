package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/auth"
	"techshop-backend/internal/models"
	"techshop-backend/internal/payment"
	"techshop-backend/internal/store"
	"techshop-backend/internal/store/memstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGateway struct {
	id    string
	err   error
	calls [][]payment.LineItem
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, items []payment.LineItem) (string, error) {
	g.calls = append(g.calls, items)
	return g.id, g.err
}

type testEnv struct {
	router  *gin.Engine
	store   *store.Store
	tokens  *auth.TokenService
	gateway *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   memstore.New(),
		tokens:  auth.NewTokenService("test-secret", time.Hour),
		gateway: &fakeGateway{id: "cs_test_123"},
	}
	env.router = NewRouter(Deps{
		Store:         env.store,
		Tokens:        env.tokens,
		Gateway:       env.gateway,
		Currency:      "USD",
		Service:       "techshop-test",
		CORSOrigins:   "*",
		AuthRateLimit: 1000,
	})
	return env
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// seedUser stores a user directly and returns it with a token for its role.
func (e *testEnv) seedUser(t *testing.T, username, role string) (*models.User, string) {
	t.Helper()
	hashed, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{
		FirstName:   "Test",
		LastName:    "User",
		Username:    username,
		Email:       username + "@mail.com",
		PhoneNumber: "+38761" + username,
		Password:    hashed,
		Role:        role,
		Location:    models.Location{State: "BiH", City: "Sarajevo"},
	}
	if err := e.store.Users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	tok, err := e.tokens.Issue(u.ID.Hex(), role)
	if err != nil {
		t.Fatal(err)
	}
	return u, tok
}

func (e *testEnv) seedProduct(t *testing.T, owner primitive.ObjectID, name string, price float64, qty int64) *models.Product {
	t.Helper()
	p := &models.Product{
		Owner:          owner,
		Name:           name,
		Price:          price,
		Quantity:       qty,
		Image:          "img.png",
		Description:    "desc",
		Specifications: map[string]string{"ram": "16GB"},
		Status:         models.ProductStatusActive,
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.store.Products.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code apperr.Kind) apperr.ErrorResponse {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	resp := decode[apperr.ErrorResponse](t, w)
	if !resp.Error || resp.Code != code {
		t.Fatalf("body = %+v, want code %s", resp, code)
	}
	return resp
}

func registerBody(username string) map[string]any {
	return map[string]any{
		"firstName":   "Amar",
		"lastName":    "Hodzic",
		"username":    username,
		"email":       username + "@gmail.com",
		"phoneNumber": "+38761000111",
		"password":    "secret123",
		"role":        "ADMIN",
		"location":    map[string]string{"state": "BiH", "city": "Mostar"},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/register", "", registerBody("amarhodzic"))
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("register response leaks password: %s", w.Body.String())
	}
	created := decode[models.User](t, w)
	if created.Role != models.RoleUser {
		t.Errorf("role = %q, want USER", created.Role)
	}
	if created.Image != models.DefaultAvatar {
		t.Errorf("image = %q, want default avatar", created.Image)
	}

	stored, err := env.store.Users.FindByUsername(context.Background(), "amarhodzic")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Password == "secret123" || !auth.CheckPassword(stored.Password, "secret123") {
		t.Error("password is not stored as a bcrypt hash")
	}

	t.Run("duplicate username", func(t *testing.T) {
		body := registerBody("amarhodzic")
		body["email"] = "other@gmail.com"
		body["phoneNumber"] = "+38761999999"
		w := env.do(http.MethodPost, "/register", "", body)
		expectError(t, w, http.StatusBadRequest, apperr.KindConflict)

		all, _ := env.store.Users.List(context.Background())
		if len(all) != 1 {
			t.Errorf("users = %d, want 1", len(all))
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		body := registerBody("someoneelse")
		body["email"] = "not-an-email"
		w := env.do(http.MethodPost, "/register", "", body)
		resp := expectError(t, w, http.StatusBadRequest, apperr.KindValidation)
		if !strings.HasPrefix(resp.Message, "Email is not valid") {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("login", func(t *testing.T) {
		w := env.do(http.MethodPost, "/login/user", "", map[string]string{
			"username": "amarhodzic", "password": "secret123",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		resp := decode[struct {
			Token string      `json:"token"`
			Data  models.User `json:"data"`
		}](t, w)
		claims, err := env.tokens.Parse(resp.Token)
		if err != nil {
			t.Fatalf("token does not parse: %v", err)
		}
		if claims.Subject != resp.Data.ID.Hex() || claims.Role != models.RoleUser {
			t.Errorf("claims = %+v", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := env.do(http.MethodPost, "/login/user", "", map[string]string{
			"username": "amarhodzic", "password": "wrongpass",
		})
		resp := expectError(t, w, http.StatusUnauthorized, apperr.KindUnauthorized)
		if resp.Message != "Invalid username or password" {
			t.Errorf("message = %q", resp.Message)
		}
	})
}

func TestRoleGuards(t *testing.T) {
	env := newTestEnv(t)
	user, userTok := env.seedUser(t, "regular1", models.RoleUser)
	_, adminTok := env.seedUser(t, "admin01", models.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"user on admin route", http.MethodGet, "/admin/allUsers", userTok, http.StatusForbidden},
		{"admin on admin route", http.MethodGet, "/admin/allUsers", adminTok, http.StatusOK},
		{"admin on user route", http.MethodGet, "/user/" + user.ID.Hex(), adminTok, http.StatusOK},
		{"user on own profile", http.MethodGet, "/user/" + user.ID.Hex(), userTok, http.StatusOK},
		{"no token", http.MethodGet, "/user/" + user.ID.Hex(), "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.token, nil)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestProductViews(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedUser(t, "seller1", models.RoleUser)
	p := env.seedProduct(t, owner.ID, "Laptop", 999, 3)

	var last models.ProductView
	for i := 0; i < 2; i++ {
		w := env.do(http.MethodGet, "/products/"+p.ID.Hex(), "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		last = decode[models.ProductView](t, w)
	}
	if last.Views != 2 {
		t.Errorf("views = %d, want 2", last.Views)
	}
	if last.Owner == nil || last.Owner.ID != owner.ID {
		t.Errorf("owner not resolved: %+v", last.Owner)
	}

	w := env.do(http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), "", nil)
	expectError(t, w, http.StatusNotFound, apperr.KindNotFound)
}

func TestProductOwnerDeletedRendersNull(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedUser(t, "seller2", models.RoleUser)
	env.seedProduct(t, owner.ID, "Phone", 500, 1)
	if err := env.store.Users.Delete(context.Background(), owner.ID); err != nil {
		t.Fatal(err)
	}

	w := env.do(http.MethodGet, "/products/all", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var raw []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != 1 {
		t.Fatalf("products = %d, want 1", len(raw))
	}
	if v, ok := raw[0]["owner"]; !ok || v != nil {
		t.Errorf("owner = %v, want null", v)
	}
}

func TestFilterByPrice(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedUser(t, "seller3", models.RoleUser)
	env.seedProduct(t, owner.ID, "Mouse", 20, 5)
	env.seedProduct(t, owner.ID, "Monitor", 300, 5)

	tests := []struct {
		name   string
		query  string
		status int
		count  int
	}{
		{"range", "?from=10&to=100", http.StatusOK, 1},
		{"lower bound only", "?from=100", http.StatusOK, 1},
		{"upper bound only", "?to=1000", http.StatusOK, 2},
		{"inverted range", "?from=500&to=10", http.StatusOK, 0},
		{"bounds are exclusive", "?from=20&to=300", http.StatusOK, 0},
		{"no bounds", "", http.StatusBadRequest, 0},
		{"not a number", "?from=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/products/filter/price"+tt.query, "", nil)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			if body := strings.TrimSpace(w.Body.String()); tt.count == 0 && body != "[]" {
				t.Errorf("body = %s, want []", body)
			}
			got := decode[[]models.ProductView](t, w)
			if len(got) != tt.count {
				t.Errorf("count = %d, want %d", len(got), tt.count)
			}
		})
	}
}

func TestPaymentMadeStopsAtFirstFailure(t *testing.T) {
	env := newTestEnv(t)
	owner, tok := env.seedUser(t, "buyer01", models.RoleUser)
	a := env.seedProduct(t, owner.ID, "Keyboard", 50, 2)
	c := env.seedProduct(t, owner.ID, "Headset", 80, 2)
	missing := primitive.NewObjectID().Hex()

	w := env.do(http.MethodPatch, "/products/paymentMade", tok, map[string]any{
		"products": []string{a.ID.Hex(), missing, c.ID.Hex()},
	})
	resp := expectError(t, w, http.StatusBadRequest, apperr.KindValidation)
	if resp.Message != "Couldn't find product with id: "+missing {
		t.Errorf("message = %q", resp.Message)
	}

	ctx := context.Background()
	gotA, _ := env.store.Products.FindByID(ctx, a.ID)
	gotC, _ := env.store.Products.FindByID(ctx, c.ID)
	if gotA.Quantity != 1 {
		t.Errorf("first product quantity = %d, want 1", gotA.Quantity)
	}
	if gotC.Quantity != 2 {
		t.Errorf("product after the failure quantity = %d, want 2", gotC.Quantity)
	}

	t.Run("out of stock", func(t *testing.T) {
		empty := env.seedProduct(t, owner.ID, "Cable", 5, 0)
		w := env.do(http.MethodPatch, "/products/paymentMade", tok, map[string]any{
			"products": []string{empty.ID.Hex()},
		})
		expectError(t, w, http.StatusBadRequest, apperr.KindValidation)
		got, _ := env.store.Products.FindByID(ctx, empty.ID)
		if got.Quantity != 0 {
			t.Errorf("quantity = %d, want 0", got.Quantity)
		}
	})
}

func TestProductOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerTok := env.seedUser(t, "owner01", models.RoleUser)
	_, otherTok := env.seedUser(t, "other01", models.RoleUser)
	_, adminTok := env.seedUser(t, "admin02", models.RoleAdmin)
	p := env.seedProduct(t, owner.ID, "Tablet", 400, 1)

	edit := map[string]any{"name": "Tablet Pro"}
	w := env.do(http.MethodPatch, "/products/edit/"+p.ID.Hex(), otherTok, edit)
	expectError(t, w, http.StatusForbidden, apperr.KindForbidden)

	w = env.do(http.MethodPatch, "/products/edit/"+p.ID.Hex(), ownerTok, map[string]any{})
	expectError(t, w, http.StatusBadRequest, apperr.KindValidation)

	w = env.do(http.MethodPatch, "/products/edit/"+p.ID.Hex(), ownerTok, edit)
	if w.Code != http.StatusOK {
		t.Fatalf("owner edit status = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodDelete, "/products/"+p.ID.Hex(), otherTok, nil)
	expectError(t, w, http.StatusForbidden, apperr.KindForbidden)

	w = env.do(http.MethodDelete, "/products/"+p.ID.Hex(), adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin delete status = %d, body %s", w.Code, w.Body.String())
	}
	if _, err := env.store.Products.FindByID(context.Background(), p.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("product still present: %v", err)
	}
}

func TestCartLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner, tok := env.seedUser(t, "shopper1", models.RoleUser)
	_, otherTok := env.seedUser(t, "shopper2", models.RoleUser)
	a := env.seedProduct(t, owner.ID, "SSD", 120, 4)
	b := env.seedProduct(t, owner.ID, "RAM", 90, 4)

	w := env.do(http.MethodPost, "/cart/make", tok, map[string]any{
		"owner": owner.ID.Hex(), "products": []string{a.ID.Hex()}, "name": "Build",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("make status = %d, body %s", w.Code, w.Body.String())
	}

	carts, _ := env.store.Carts.FindByOwner(context.Background(), owner.ID)
	if len(carts) != 1 {
		t.Fatalf("carts = %d, want 1", len(carts))
	}
	cartID := carts[0].ID.Hex()

	w = env.do(http.MethodPut, "/cart/"+cartID+"/addProduct", tok, map[string]string{"productId": b.ID.Hex()})
	if w.Code != http.StatusOK {
		t.Fatalf("addProduct status = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodPut, "/cart/"+cartID+"/addProduct", tok, map[string]string{"productId": primitive.NewObjectID().Hex()})
	expectError(t, w, http.StatusNotFound, apperr.KindNotFound)

	w = env.do(http.MethodGet, "/cart/"+cartID, otherTok, nil)
	expectError(t, w, http.StatusForbidden, apperr.KindForbidden)

	// A deleted product disappears from the resolved cart.
	if err := env.store.Products.Delete(context.Background(), a.ID); err != nil {
		t.Fatal(err)
	}
	w = env.do(http.MethodGet, "/cart/"+cartID, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := decode[models.CartWithProducts](t, w)
	if len(got.Products) != 1 || got.Products[0].ID != b.ID {
		t.Errorf("products = %+v, want only %s", got.Products, b.ID.Hex())
	}

	w = env.do(http.MethodDelete, "/cart/"+cartID, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)
	_, tok := env.seedUser(t, "payer01", models.RoleUser)
	items := []map[string]any{{"name": "Laptop", "image": "l.png", "price": 99900, "quantity": 2}}

	t.Run("no products", func(t *testing.T) {
		w := env.do(http.MethodPost, "/purchase/pay", tok, map[string]any{"products": []any{}})
		resp := expectError(t, w, http.StatusBadRequest, apperr.KindValidation)
		if resp.Message != "There are no products to buy" {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("success", func(t *testing.T) {
		w := env.do(http.MethodPost, "/purchase/pay", tok, map[string]any{"products": items})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if got := decode[map[string]string](t, w)["id"]; got != "cs_test_123" {
			t.Errorf("id = %q", got)
		}
		last := env.gateway.calls[len(env.gateway.calls)-1]
		if len(last) != 1 || last[0].Currency != "usd" || last[0].Quantity != 2 {
			t.Errorf("line items = %+v", last)
		}
	})

	t.Run("gateway failure", func(t *testing.T) {
		env.gateway.err = &payment.GatewayError{Message: "Your card was declined."}
		defer func() { env.gateway.err = nil }()

		w := env.do(http.MethodPost, "/purchase/pay", tok, map[string]any{"products": items})
		resp := expectError(t, w, http.StatusBadGateway, apperr.KindUpstream)
		if resp.Message != "Your card was declined." {
			t.Errorf("message = %q", resp.Message)
		}
	})
}

func TestReportsDefaultMessage(t *testing.T) {
	env := newTestEnv(t)
	reporter, tok := env.seedUser(t, "reporter", models.RoleUser)
	target, _ := env.seedUser(t, "target01", models.RoleUser)
	_, adminTok := env.seedUser(t, "admin03", models.RoleAdmin)

	w := env.do(http.MethodPost, "/reports/user", tok, map[string]string{
		"reportedBy": reporter.ID.Hex(), "reportedUser": target.ID.Hex(), "reason": "spam",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("report status = %d, body %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/admin/reports/user", adminTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	got := decode[[]models.ReportedUserView](t, w)
	if len(got) != 1 {
		t.Fatalf("reports = %d, want 1", len(got))
	}
	if got[0].AdditionalMessage != models.DefaultAdditionalMessage {
		t.Errorf("additionalMessage = %q, want N/A", got[0].AdditionalMessage)
	}
	if got[0].ReportedUser == nil || got[0].ReportedUser.ID != target.ID {
		t.Errorf("reported user not resolved: %+v", got[0].ReportedUser)
	}

	w = env.do(http.MethodPost, "/reports/user", tok, map[string]string{
		"reportedBy": target.ID.Hex(), "reportedUser": reporter.ID.Hex(), "reason": "spam",
	})
	expectError(t, w, http.StatusForbidden, apperr.KindForbidden)
}

func TestToggleAdmin(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.seedUser(t, "promote1", models.RoleUser)
	_, adminTok := env.seedUser(t, "admin04", models.RoleAdmin)
	ctx := context.Background()

	for _, want := range []string{models.RoleAdmin, models.RoleUser} {
		w := env.do(http.MethodPatch, "/admin/setAsAdmin/"+u.ID.Hex(), adminTok, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		got, _ := env.store.Users.FindByID(ctx, u.ID)
		if got.Role != want {
			t.Errorf("role = %q, want %q", got.Role, want)
		}
	}
}

func TestRateApp(t *testing.T) {
	env := newTestEnv(t)
	u, tok := env.seedUser(t, "rater001", models.RoleUser)

	w := env.do(http.MethodPatch, "/ratedBy/"+u.ID.Hex(), tok, nil)
	resp := expectError(t, w, http.StatusBadRequest, apperr.KindValidation)
	if resp.Message != "You still didn't rate application" {
		t.Errorf("message = %q", resp.Message)
	}

	w = env.do(http.MethodPost, "/rate/app", tok, map[string]any{"ratedBy": u.ID.Hex(), "stars": 6})
	expectError(t, w, http.StatusBadRequest, apperr.KindValidation)

	w = env.do(http.MethodPost, "/rate/app", tok, map[string]any{"ratedBy": u.ID.Hex(), "stars": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("rate status = %d, body %s", w.Code, w.Body.String())
	}
	got, _ := env.store.Users.FindByID(context.Background(), u.ID)
	if !got.Rated {
		t.Error("user not flagged as rated")
	}

	w = env.do(http.MethodPatch, "/ratedBy/"+u.ID.Hex(), tok, nil)
	if w.Code != http.StatusOK {
		t.Errorf("ratedBy status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestPaymentMethodOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner, tok := env.seedUser(t, "cardowner", models.RoleUser)
	_, otherTok := env.seedUser(t, "stranger", models.RoleUser)

	body := map[string]any{
		"email":      owner.Email,
		"country":    "BiH",
		"cardHolder": "Card Owner",
		"cardInfo":   map[string]string{"cardNumber": "4242424242424242", "expiring": "12/30", "cvc": "123"},
	}
	w := env.do(http.MethodPost, "/payment/method", otherTok, body)
	expectError(t, w, http.StatusForbidden, apperr.KindForbidden)

	w = env.do(http.MethodPost, "/payment/method", tok, body)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", w.Code, w.Body.String())
	}
	w = env.do(http.MethodPost, "/payment/method", tok, body)
	expectError(t, w, http.StatusBadRequest, apperr.KindConflict)

	w = env.do(http.MethodGet, "/payment/method/"+owner.Email, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := decode[map[string]any](t, w)
	card, _ := got["cardInfo"].(map[string]any)
	if _, ok := card["cvc"]; ok {
		t.Errorf("cvc exposed: %s", w.Body.String())
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if got := decode[map[string]string](t, w)["status"]; got != "ok" {
		t.Errorf("status = %q", got)
	}

	env.store.Ping = func(context.Context) error { return errors.New("connection refused") }
	env.router = NewRouter(Deps{
		Store:         env.store,
		Tokens:        env.tokens,
		Gateway:       env.gateway,
		Service:       "techshop-test",
		CORSOrigins:   "*",
		AuthRateLimit: 10,
	})
	w = env.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("degraded health status = %d, want 503", w.Code)
	}

	w = env.do(http.MethodGet, "/nope", "", nil)
	expectError(t, w, http.StatusNotFound, apperr.KindNotFound)

	if w := env.do(http.MethodGet, "/health", "", nil); w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
