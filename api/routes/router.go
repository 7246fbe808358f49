package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zora-fashion/storefront/api/controllers"
	"github.com/zora-fashion/storefront/api/middleware"
	"github.com/zora-fashion/storefront/internal/cart"
	"github.com/zora-fashion/storefront/internal/catalog"
	"github.com/zora-fashion/storefront/internal/checkout"
	"github.com/zora-fashion/storefront/internal/inquiries"
	"github.com/zora-fashion/storefront/internal/search"
	"github.com/zora-fashion/storefront/pkg/config"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/storage"
)

type requestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

type emailFingerprinter interface {
	Email(email string) string
}

// Dependencies carries everything the storefront routes are served from.
type Dependencies struct {
	Storage      storage.Store
	Catalog      catalog.Service
	Cart         cart.Service
	Search       search.Service
	Checkout     checkout.Service
	Inquiries    inquiries.Service
	Fingerprints emailFingerprinter
	Metrics      requestObserver
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	contactPolicy := middleware.NewRateLimitPolicy(
		"contact",
		cfg.Inquiries.Window,
		cfg.Inquiries.IPLimit,
		cfg.Inquiries.EmailLimit,
	)
	newsletterPolicy := middleware.NewRateLimitPolicy(
		"newsletter",
		cfg.Inquiries.Window,
		cfg.Inquiries.IPLimit,
		cfg.Inquiries.EmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Storage))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(middleware.SessionOptions{
			CookieMaxAge: cfg.Storage.SessionTTL,
			SecureCookie: cfg.App.IsProd(),
		}, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/filters", controllers.ProductFilters(deps.Catalog, logg))
			r.Get("/suggestions", controllers.ProductSuggestions(deps.Catalog, logg))
			r.Get("/new-arrivals", controllers.ProductNewArrivals(deps.Catalog, logg))
			r.Get("/featured", controllers.ProductFeatured(deps.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
		})
		r.Get("/collections", controllers.CollectionsList(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{productId}/{size}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Post("/panel", controllers.CartPanel(deps.Cart, logg))
		})

		r.Post("/search", controllers.SearchSubmit(deps.Search, logg))
		r.Get("/search/history", controllers.SearchHistory(deps.Search, logg))
		r.Delete("/search/history", controllers.SearchHistoryClear(deps.Search, logg))

		r.With(middleware.Idempotency(deps.Storage, cfg.Checkout.IdempotencyTTL, logg)).
			Post("/checkout", controllers.Checkout(deps.Checkout, logg))

		r.With(middleware.RateLimit(contactPolicy, deps.Storage, deps.Fingerprints, logg)).
			Post("/contact", controllers.Contact(deps.Inquiries, logg))
		r.With(middleware.RateLimit(newsletterPolicy, deps.Storage, deps.Fingerprints, logg)).
			Post("/newsletter", controllers.Newsletter(deps.Inquiries, logg))
	})

	return r
}
