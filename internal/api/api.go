// Package api wires the HTTP surface: routing, request binding and the
// translation of service errors into JSON responses.
package api

import (
	"go.uber.org/zap"

	"bazaarwale-backend/internal/config"
	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/service"
	"bazaarwale-backend/internal/upload"
)

type API struct {
	cfg *config.Config
	log *zap.Logger

	auth       *service.AuthService
	products   *service.ProductService
	categories *service.CategoryService
	carts      *service.CartService
	orders     *service.OrderService
	reviews    *service.ReviewService
	payouts    *service.PayoutService
	settings   *service.SettingsService
	blogs      *service.BlogService
	vendors    *service.VendorService
	contacts   *service.ContactService
	addresses  *service.AddressService

	uploads *upload.Store
	limiter *middleware.RateLimiter
}

type Deps struct {
	Config *config.Config
	Log    *zap.Logger

	Auth       *service.AuthService
	Products   *service.ProductService
	Categories *service.CategoryService
	Carts      *service.CartService
	Orders     *service.OrderService
	Reviews    *service.ReviewService
	Payouts    *service.PayoutService
	Settings   *service.SettingsService
	Blogs      *service.BlogService
	Vendors    *service.VendorService
	Contacts   *service.ContactService
	Addresses  *service.AddressService

	Uploads *upload.Store
}

func New(deps Deps) *API {
	return &API{
		cfg:        deps.Config,
		log:        deps.Log,
		auth:       deps.Auth,
		products:   deps.Products,
		categories: deps.Categories,
		carts:      deps.Carts,
		orders:     deps.Orders,
		reviews:    deps.Reviews,
		payouts:    deps.Payouts,
		settings:   deps.Settings,
		blogs:      deps.Blogs,
		vendors:    deps.Vendors,
		contacts:   deps.Contacts,
		addresses:  deps.Addresses,
		uploads:    deps.Uploads,
		limiter:    middleware.NewRateLimiter(deps.Config.Rate.RPS, deps.Config.Rate.Burst),
	}
}
