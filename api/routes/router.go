package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scentkart/scentkart-backend/api/controllers"
	"github.com/scentkart/scentkart-backend/api/middleware"
	"github.com/scentkart/scentkart-backend/internal/address"
	"github.com/scentkart/scentkart-backend/internal/cart"
	"github.com/scentkart/scentkart-backend/internal/catalog"
	"github.com/scentkart/scentkart-backend/internal/inventory"
	"github.com/scentkart/scentkart-backend/internal/offers"
	"github.com/scentkart/scentkart-backend/internal/orders"
	"github.com/scentkart/scentkart-backend/pkg/config"
	"github.com/scentkart/scentkart-backend/pkg/logger"
	"github.com/scentkart/scentkart-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Redis may be nil in tests;
// the idempotency and rate-limit layers are then skipped.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	Catalog   catalog.Service
	Inventory inventory.Service
	Offers    offers.Service
	Cart      cart.Service
	Addresses address.Service
	Orders    orders.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": d.DB,
			"redis":    redisPinger(d.Redis),
		}))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Storefront surface: no credentials needed to browse.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(d.Catalog, logg))
		r.Get("/slug/{slug}", controllers.ProductBySlug(d.Catalog, logg))
		r.Get("/{productId}", controllers.ProductDetail(d.Catalog, logg))
		r.Get("/{productId}/stock-status", controllers.ProductStockStatus(d.Inventory, logg))
		r.Get("/{productId}/offers", controllers.ProductOffers(d.Offers, logg))
		r.Get("/{productId}/offers/active", controllers.ProductActiveOffer(d.Offers, logg))
	})

	// Shopper surface: authenticated, idempotency-keyed, rate limited.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		if d.Redis != nil {
			r.Use(middleware.Idempotency(d.Redis, logg))
			r.Use(middleware.RateLimit(d.Redis, logg))
		}

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.Cart, logg))
			r.Post("/", controllers.CartAdd(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
			r.Delete("/{itemId}", controllers.CartRemoveItem(d.Cart, logg))
		})

		r.Route("/buy-now", func(r chi.Router) {
			r.Post("/", controllers.BuyNowStart(d.Cart, logg))
			r.Get("/", controllers.BuyNowFetch(d.Cart, logg))
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(d.Addresses, logg))
			r.Post("/", controllers.AddressCreate(d.Addresses, logg))
			r.Get("/{addressId}", controllers.AddressDetail(d.Addresses, logg))
			r.Patch("/{addressId}", controllers.AddressUpdate(d.Addresses, logg))
			r.Delete("/{addressId}", controllers.AddressDelete(d.Addresses, logg))
			r.Post("/{addressId}/default", controllers.AddressSetDefault(d.Addresses, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(d.Orders, d.Cart, logg))
			r.Get("/", controllers.OrderList(d.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
			r.Put("/{orderId}/cancel", controllers.OrderCancel(d.Orders, logg))
		})
	})

	// Back office: admin role on top of the shopper stack.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		if d.Redis != nil {
			r.Use(middleware.Idempotency(d.Redis, logg))
			r.Use(middleware.RateLimit(d.Redis, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(d.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(d.Catalog, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", controllers.InventoryCreate(d.Inventory, logg))
			r.Get("/", controllers.InventoryList(d.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(d.Inventory, logg))
			r.Put("/bulk-add-stock", controllers.InventoryBulkAddStock(d.Inventory, logg))
			r.Get("/{recordId}", controllers.InventoryDetail(d.Inventory, logg))
			r.Get("/{recordId}/history", controllers.InventoryHistory(d.Inventory, logg))
			r.Put("/{recordId}/add-stock", controllers.InventoryAddStock(d.Inventory, logg))
			r.Put("/{recordId}/deduct-stock", controllers.InventoryDeductStock(d.Inventory, logg))
			r.Put("/{recordId}/set-stock", controllers.InventorySetStock(d.Inventory, logg))
		})

		r.Route("/offers", func(r chi.Router) {
			r.Post("/", controllers.AdminOfferCreate(d.Offers, logg))
			r.Delete("/{offerId}", controllers.AdminOfferDeactivate(d.Offers, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.Orders, logg))
			r.Put("/{orderId}/status", controllers.AdminOrderStatusUpdate(d.Orders, logg))
		})
	})

	return r
}

// redisPinger keeps the readiness map free of typed-nil surprises when redis
// is not wired.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
