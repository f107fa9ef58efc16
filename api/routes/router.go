package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukkanhq/dukkan-backend/api/controllers"
	"github.com/dukkanhq/dukkan-backend/api/middleware"
	"github.com/dukkanhq/dukkan-backend/internal/analytics"
	"github.com/dukkanhq/dukkan-backend/internal/auth"
	"github.com/dukkanhq/dukkan-backend/internal/cart"
	"github.com/dukkanhq/dukkan-backend/internal/catalog"
	"github.com/dukkanhq/dukkan-backend/internal/coupons"
	"github.com/dukkanhq/dukkan-backend/internal/orders"
	"github.com/dukkanhq/dukkan-backend/internal/products"
	"github.com/dukkanhq/dukkan-backend/pkg/auth/session"
	"github.com/dukkanhq/dukkan-backend/pkg/config"
	"github.com/dukkanhq/dukkan-backend/pkg/db"
	"github.com/dukkanhq/dukkan-backend/pkg/enums"
	"github.com/dukkanhq/dukkan-backend/pkg/logger"
	"github.com/dukkanhq/dukkan-backend/pkg/metrics"
	"github.com/dukkanhq/dukkan-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	Sessions       session.AccessSessionChecker
	Metrics        *metrics.HTTPMetrics
	PromRegistry   *prometheus.Registry
	AuthService    *auth.Service
	CartService    *cart.Service
	ProductService *products.Service
	CatalogService *catalog.Service
	CouponService  *coupons.Service
	OrderService   *orders.Service
	Analytics      *analytics.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Get("/settings", controllers.StoreSettings(cfg.Store))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg)).Post("/register", controllers.AuthRegister(d.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))
	})

	// Storefront surface. Cart endpoints accept both guests and signed-in
	// shoppers, so auth is optional and the guest session header fills in.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/home", controllers.HomeFeed(d.CatalogService, logg))
		r.Get("/categories", controllers.CategoryList(d.CatalogService, logg))
		r.Get("/products", controllers.ProductList(d.ProductService, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(d.ProductService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Use(middleware.OptionalAuth(cfg.JWT, d.Sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.CartService, logg))
				r.Delete("/", controllers.CartClear(d.CartService, logg))
				r.Post("/items", controllers.CartAddItem(d.CartService, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(d.CartService, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(d.CartService, logg))
				r.Post("/coupon", controllers.CartApplyCoupon(d.CartService, logg))
				r.Delete("/coupon", controllers.CartRemoveCoupon(d.CartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(d.OrderService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

			r.Get("/ping", controllers.PrivatePing())
			r.Get("/me", controllers.AuthMe(d.AuthService, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.MyOrders(d.OrderService, logg))
				r.Get("/{orderId}", controllers.MyOrderDetail(d.OrderService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(adminOnly)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(d.ProductService, logg))
			r.Post("/", controllers.AdminProductCreate(d.ProductService, logg))
			r.Get("/{productId}", controllers.AdminProductDetail(d.ProductService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(d.ProductService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(d.ProductService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoryList(d.CatalogService, logg))
			r.Post("/", controllers.AdminCategoryCreate(d.CatalogService, logg))
			r.Patch("/{categoryId}", controllers.AdminCategoryUpdate(d.CatalogService, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(d.CatalogService, logg))
		})

		r.Route("/sections", func(r chi.Router) {
			r.Get("/", controllers.AdminSectionList(d.CatalogService, logg))
			r.Post("/", controllers.AdminSectionCreate(d.CatalogService, logg))
			r.Patch("/{sectionId}", controllers.AdminSectionUpdate(d.CatalogService, logg))
			r.Delete("/{sectionId}", controllers.AdminSectionDelete(d.CatalogService, logg))
		})

		r.Route("/sliders", func(r chi.Router) {
			r.Get("/", controllers.AdminSliderList(d.CatalogService, logg))
			r.Post("/", controllers.AdminSliderCreate(d.CatalogService, logg))
			r.Patch("/{sliderId}", controllers.AdminSliderUpdate(d.CatalogService, logg))
			r.Delete("/{sliderId}", controllers.AdminSliderDelete(d.CatalogService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminCouponList(d.CouponService, logg))
			r.Post("/", controllers.AdminCouponCreate(d.CouponService, logg))
			r.Get("/{couponId}", controllers.AdminCouponDetail(d.CouponService, logg))
			r.Patch("/{couponId}", controllers.AdminCouponUpdate(d.CouponService, logg))
			r.Delete("/{couponId}", controllers.AdminCouponDelete(d.CouponService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(d.OrderService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.OrderService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderStatus(d.OrderService, logg))
		})

		r.Get("/analytics/summary", controllers.AdminAnalyticsSummary(d.Analytics, logg))
	})

	return r
}
