package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"techshop-backend/internal/apperr"
	"techshop-backend/internal/auth"
	"techshop-backend/internal/handlers"
	"techshop-backend/internal/logging"
	"techshop-backend/internal/metrics"
	"techshop-backend/internal/middleware"
	"techshop-backend/internal/models"
	"techshop-backend/internal/payment"
	"techshop-backend/internal/store"
)

type Deps struct {
	Store    *store.Store
	Tokens   *auth.TokenService
	Gateway  payment.Gateway
	Currency string

	Service       string
	CORSOrigins   string
	AuthRateLimit int
}

// NewRouter builds the engine with the global middleware chain and every
// route. extra runs right after panic recovery.
func NewRouter(d Deps, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(extra...)
	r.Use(middleware.RequestID())
	r.Use(logging.Middleware())

	m := metrics.New(d.Service, prometheus.NewRegistry())
	r.Use(m.Middleware())
	r.Use(middleware.CORS(d.CORSOrigins))
	r.GET("/metrics", m.Handler())
	r.NoRoute(func(c *gin.Context) {
		apperr.Respond(c, apperr.NotFound("Route not found"))
	})

	Setup(r, d)
	return r
}

func Setup(r *gin.Engine, d Deps) {
	s := d.Store

	authHandler := handlers.NewAuthHandler(s.Users, d.Tokens)
	productHandler := handlers.NewProductHandler(s.Products, s.Users)
	cartHandler := handlers.NewCartHandler(s.Carts, s.Products, s.Users)
	methodHandler := handlers.NewPaymentMethodHandler(s.PaymentMethods, s.Users)
	checkoutHandler := handlers.NewCheckoutHandler(d.Gateway, d.Currency)
	ratingHandler := handlers.NewRatingHandler(s.Ratings, s.Users)
	reportHandler := handlers.NewReportHandler(s.Reports, s.Users, s.Products)
	userHandler := handlers.NewUserHandler(s.Users)
	healthHandler := handlers.NewHealthHandler(s.Ping)

	r.GET("/health", healthHandler.Check)

	// Guest auth, rate limited per IP
	limiter := middleware.NewIPRateLimiter(d.AuthRateLimit, 10*time.Minute)
	r.POST("/register", limiter.Middleware(), authHandler.Register)
	r.POST("/login/user", limiter.Middleware(), authHandler.Login)

	// Public catalogue
	products := r.Group("/products")
	products.GET("/all", productHandler.List)
	products.GET("/sort/byName", productHandler.Sorted(store.SortByName))
	products.GET("/sort/byPrice", productHandler.Sorted(store.SortByPrice))
	products.GET("/sort/byQuantity", productHandler.Sorted(store.SortByQuantity))
	products.GET("/sort/byDate", productHandler.Sorted(store.SortByDate))
	products.GET("/sort/byViews", productHandler.Sorted(store.SortByViews))
	products.GET("/filter/price", productHandler.FilterByPrice)
	products.GET("/filter/byName", productHandler.FilterByName)
	products.GET("/:id", productHandler.Get)
	products.GET("/user/:id", productHandler.ByUser)

	authn := middleware.Authenticate(d.Tokens)
	asUser := middleware.RequireRole(models.RoleUser)
	asAdmin := middleware.RequireRole(models.RoleAdmin)

	products.PATCH("/paymentMade", authn, asUser, productHandler.PaymentMade)
	products.POST("/add", authn, asUser, productHandler.Add)
	products.PATCH("/edit/:id", authn, asUser, productHandler.Edit)
	products.DELETE("/:id", authn, asUser, productHandler.Delete)

	user := r.Group("", authn, asUser)
	user.POST("/purchase/pay", checkoutHandler.Pay)
	user.PATCH("/ratedBy/:id", ratingHandler.MarkRated)
	user.POST("/rate/app", ratingHandler.Rate)

	user.POST("/payment/method", methodHandler.Save)
	user.GET("/payment/method/:email", methodHandler.GetByEmail)
	user.DELETE("/payment/:id", methodHandler.Delete)

	user.GET("/user/:id", userHandler.Get)
	user.PATCH("/user/:id", userHandler.Update)
	user.DELETE("/user/:id", userHandler.Delete)

	user.POST("/cart/make", cartHandler.Make)
	user.PATCH("/cart/:id", cartHandler.Update)
	user.GET("/cart/all/:id", cartHandler.ListByOwner)
	user.GET("/cart/:id", cartHandler.Get)
	user.PUT("/cart/:id/addProduct", cartHandler.AddProduct)
	user.DELETE("/cart/:id", cartHandler.Delete)

	user.POST("/reports/user", reportHandler.ReportUser)
	user.POST("/reports/article", reportHandler.ReportArticle)

	admin := r.Group("/admin", authn, asAdmin)
	admin.POST("/addUser", userHandler.AddUser)
	admin.GET("/allUsers", userHandler.List)
	admin.PATCH("/setAsAdmin/:id", userHandler.ToggleAdmin)
	admin.GET("/allRatings", ratingHandler.List)
	admin.GET("/reports/user", reportHandler.ListUserReports)
	admin.GET("/reports/article", reportHandler.ListArticleReports)
	admin.GET("/report/user/:id", reportHandler.GetUserReport)
	admin.GET("/report/article/:id", reportHandler.GetArticleReport)
	admin.DELETE("/delete/userRep/:id", reportHandler.DeleteUserReport)
	admin.DELETE("/delete/articleRep/:id", reportHandler.DeleteArticleReport)
}
