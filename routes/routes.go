package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"shoestore/auth"
	"shoestore/carousel"
	"shoestore/cart"
	"shoestore/categories"
	"shoestore/checkout"
	"shoestore/contact"
	"shoestore/content"
	"shoestore/customers"
	"shoestore/dashboard"
	"shoestore/favorites"
	"shoestore/idempotency"
	"shoestore/live"
	"shoestore/middleware"
	"shoestore/orders"
	"shoestore/products"
	"shoestore/ratelim"
	"shoestore/settings"
)

// Deps holds every handler the router needs.
type Deps struct {
	Products   *products.Handler
	Categories *categories.Handler
	Cart       *cart.Handler
	Checkout   *checkout.Handler
	Orders     *orders.Handler
	Customers  *customers.Handler
	Carousel   *carousel.Handler
	Settings   *settings.Handler
	Content    *content.Handler
	Favorites  *favorites.Handler
	Contact    *contact.Handler
	Auth       *auth.Handler
	Dashboard  *dashboard.Handler
	Hub        *live.Hub

	Idempotency idempotency.Store
	RateLimiter *ratelim.RateLimiter
	JwtSecret   []byte
	UploadDir   string
}

func Health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func New(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Health)
	if d.UploadDir != "" {
		router.ServeFiles("/static/uploads/*filepath", http.Dir(d.UploadDir))
	}

	AddCatalogRoutes(router, d)
	AddCartRoutes(router, d)
	AddOrderRoutes(router, d)
	AddContentRoutes(router, d)
	AddAuthRoutes(router, d)
	AddDashboardRoutes(router, d)
	return router
}

func AddCatalogRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/products", d.Products.List)
	router.GET("/api/products/:id", d.Products.Get)
	router.GET("/api/categories", d.Categories.List)
	router.GET("/api/carousel", d.Carousel.List)
}

func AddCartRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/cart", d.Cart.GetCart)
	router.POST("/api/cart/items", d.Cart.AddItem)
	router.PATCH("/api/cart/items", d.Cart.UpdateItem)
	router.DELETE("/api/cart/items", d.Cart.RemoveItem)
	router.DELETE("/api/cart", d.Cart.ClearCart)

	router.GET("/api/favorites", d.Favorites.List)
	router.GET("/api/favorites/:productId", d.Favorites.Check)
	router.PUT("/api/favorites/:productId", d.Favorites.Add)
	router.DELETE("/api/favorites/:productId", d.Favorites.Remove)
}

func AddOrderRoutes(router *httprouter.Router, d Deps) {
	idem := idempotency.Middleware(d.Idempotency)
	router.POST("/api/checkout", d.RateLimiter.Limit(idem(d.Checkout.PlaceOrder)))
	router.GET("/api/orders/:id", d.Orders.Get)
	router.GET("/api/orders/:id/receipt", d.Orders.Receipt)
}

func AddContentRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/settings", d.Settings.Get)
	router.GET("/api/pages/:slug", d.Content.GetPage)
	router.GET("/api/about", d.Content.GetAbout)
	router.POST("/api/contact", d.RateLimiter.Limit(d.Contact.Submit))
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/login", d.RateLimiter.Limit(d.Auth.Login))
	router.POST("/api/auth/logout", d.Auth.Logout)
	router.GET("/api/auth/session", d.Auth.Session)
}

func AddDashboardRoutes(router *httprouter.Router, d Deps) {
	admin := middleware.RequireAdmin(d.JwtSecret)
	idem := idempotency.Middleware(d.Idempotency)
	const p = "/api/dashboard"

	router.GET(p+"/stats", admin(d.Dashboard.Get))
	router.GET(p+"/live", admin(live.Handler(d.Hub)))

	router.GET(p+"/products", admin(d.Products.AdminList))
	router.POST(p+"/products", admin(d.Products.Create))
	router.GET(p+"/products/options", admin(d.Products.Options))
	router.PUT(p+"/products/:id", admin(d.Products.Update))
	router.DELETE(p+"/products/:id", admin(d.Products.Delete))
	router.PATCH(p+"/products/:id/status", admin(d.Products.ToggleStatus))

	router.GET(p+"/categories", admin(d.Categories.AdminList))
	router.POST(p+"/categories", admin(d.Categories.Create))
	router.PUT(p+"/categories/:id", admin(d.Categories.Update))
	router.DELETE(p+"/categories/:id", admin(d.Categories.Delete))
	router.PATCH(p+"/categories/:id/status", admin(d.Categories.ToggleStatus))

	router.GET(p+"/orders", admin(d.Orders.List))
	router.POST(p+"/orders", admin(idem(d.Checkout.CreateManual)))
	router.GET(p+"/orders/:id", admin(d.Orders.Detail))
	router.PATCH(p+"/orders/:id/status", admin(d.Orders.UpdateStatus))

	router.GET(p+"/customers", admin(d.Customers.List))
	router.POST(p+"/customers", admin(d.Customers.Create))
	router.PUT(p+"/customers/:id", admin(d.Customers.Update))
	router.DELETE(p+"/customers/:id", admin(d.Customers.Delete))
	router.PATCH(p+"/customers/:id/status", admin(d.Customers.ToggleStatus))

	router.GET(p+"/carousel", admin(d.Carousel.AdminList))
	router.POST(p+"/carousel", admin(d.Carousel.Create))
	router.DELETE(p+"/carousel/:id", admin(d.Carousel.Delete))
	router.PATCH(p+"/carousel/:id/status", admin(d.Carousel.ToggleActive))

	router.PUT(p+"/settings", admin(d.Settings.Update))
	router.PUT(p+"/pages/:slug", admin(d.Content.UpdatePage))
	router.PUT(p+"/about", admin(d.Content.UpdateAbout))
}
