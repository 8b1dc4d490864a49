package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"shoestore/auth"
	"shoestore/carousel"
	"shoestore/cart"
	"shoestore/categories"
	"shoestore/checkout"
	"shoestore/config"
	"shoestore/contact"
	"shoestore/content"
	"shoestore/customers"
	"shoestore/dashboard"
	"shoestore/db"
	"shoestore/favorites"
	"shoestore/filemgr"
	"shoestore/idempotency"
	"shoestore/live"
	"shoestore/middleware"
	"shoestore/mq"
	"shoestore/orders"
	"shoestore/products"
	"shoestore/ratelim"
	"shoestore/rdx"
	"shoestore/routes"
	"shoestore/settings"
)

const (
	cartTTL  = 30 * 24 * time.Hour
	cacheTTL = 10 * time.Minute
)

func newLogger(cfg *config.Config) *zap.Logger {
	build := zap.NewProduction
	if cfg.Development() {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		panic(err)
	}
	return logger
}

func newImageStorage(ctx context.Context, cfg *config.Config) filemgr.Storage {
	if cfg.S3Bucket != "" {
		s3, err := filemgr.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			zap.L().Fatal("❌ S3 storage", zap.Error(err))
		}
		zap.L().Info("images stored in S3", zap.String("bucket", cfg.S3Bucket))
		return s3
	}
	return filemgr.NewLocalStorage(cfg.UploadDir, "/static/uploads")
}

func newMailer(cfg *config.Config) contact.Mailer {
	if cfg.SMTPHost == "" {
		return contact.LogMailer{}
	}
	return &contact.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := cfg.Validate(); err != nil {
		zap.L().Fatal("❌ config", zap.Error(err))
	}
	if string(cfg.JwtSecret) == config.DefaultJWTSecret {
		zap.L().Warn("using the default JWT secret; set JWT_SECRET before deploying")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		zap.L().Fatal("❌ MongoDB", zap.Error(err))
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		zap.L().Fatal("❌ indexes", zap.Error(err))
	}

	hub := live.NewHub()
	go hub.Run()

	var (
		rdb       *redis.Client
		cartStore cart.Store
		favStore  favorites.Store
		events    mq.Publisher
	)
	if cfg.RedisAddr != "" {
		rdb, err = rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			zap.L().Fatal("❌ Redis", zap.Error(err))
		}
		cartStore = cart.NewRedisStore(rdb, cartTTL)
		favStore = favorites.NewRedisStore(rdb, cartTTL)
		bus := mq.NewRedisBus(rdb)
		go bus.Run(ctx, hub.Deliver)
		events = bus
	} else {
		zap.L().Warn("REDIS_ADDR not set; carts and favorites are kept in memory")
		cartStore = cart.NewMemoryStore()
		favStore = favorites.NewMemoryStore()
		events = mq.NewLocalBus(hub.Deliver)
	}

	images := newImageStorage(ctx, cfg)

	productRepo := products.NewRepository(database.Products)
	orderRepo := orders.NewRepository(database.Orders)
	customerRepo := customers.NewRepository(database.Customers)
	carouselRepo := carousel.NewRepository(database.Carousel)
	adminRepo := auth.NewRepository(database.Admins)

	if err := carouselRepo.Seed(ctx, time.Now()); err != nil {
		zap.L().Warn("seed carousel", zap.Error(err))
	}
	if err := auth.SeedAdmin(ctx, adminRepo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		zap.L().Warn("seed admin", zap.Error(err))
	}

	secure := !cfg.Development()
	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rateLimiter.Run(ctx.Done())

	checkoutSvc := checkout.NewService(cartStore, productRepo, orderRepo, customerRepo, events)

	router := routes.New(routes.Deps{
		Products:   products.NewHandler(productRepo, rdx.NewCache(rdb, "product", cacheTTL), images),
		Categories: categories.NewHandler(categories.NewRepository(database.Categories)),
		Cart:       cart.NewHandler(cartStore, productRepo),
		Checkout:   checkout.NewHandler(checkoutSvc, productRepo),
		Orders:     orders.NewHandler(orderRepo, events, orders.NewReceiptRenderer(cfg.PublicURL, cfg.InvoiceFont)),
		Customers:  customers.NewHandler(customerRepo),
		Carousel:   carousel.NewHandler(carouselRepo, images),
		Settings:   settings.NewHandler(settings.NewRepository(database.Settings), rdx.NewCache(rdb, "settings", cacheTTL)),
		Content:    content.NewHandler(content.NewRepository(database.Pages, database.About), images),
		Favorites:  favorites.NewHandler(favStore, productRepo),
		Contact:    contact.NewHandler(newMailer(cfg), cfg.ContactEmail, settings.Defaults().SiteName),
		Auth:       auth.NewHandler(adminRepo, cfg.JwtSecret, secure),
		Dashboard:  dashboard.NewHandler(orderRepo, customerRepo, productRepo),
		Hub:        hub,

		Idempotency: idempotency.NewMongoStore(database.Idempotency),
		RateLimiter: rateLimiter,
		JwtSecret:   cfg.JwtSecret,
		UploadDir:   cfg.UploadDir,
	})

	// CORS → security headers → access log → session → dashboard gate → router
	var handler http.Handler = router
	handler = middleware.DashboardGate(cfg.JwtSecret, cfg.DashboardDir)(handler)
	handler = middleware.Session(secure)(handler)
	handler = middleware.AccessLog(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", idempotency.Header},
		AllowCredentials: true,
	}).Handler(handler)

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	server.RegisterOnShutdown(func() {
		zap.L().Info("🛑 stopping live hub")
		hub.Stop()
	})

	go func() {
		zap.L().Info("🚀 server listening", zap.String("addr", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("❌ ListenAndServe", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("🛑 shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		zap.L().Warn("disconnect mongo", zap.Error(err))
	}
	zap.L().Info("✅ server stopped cleanly")
}
