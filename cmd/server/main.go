package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thehungrydrop/hungrydrop/internal/checkout"
	"github.com/thehungrydrop/hungrydrop/internal/config"
	"github.com/thehungrydrop/hungrydrop/internal/events"
	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/handlers"
	"github.com/thehungrydrop/hungrydrop/internal/middleware"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/repository"
	"github.com/thehungrydrop/hungrydrop/internal/service"
	"github.com/thehungrydrop/hungrydrop/internal/session"
	"github.com/thehungrydrop/hungrydrop/internal/state"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
	"github.com/thehungrydrop/hungrydrop/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting hungrydrop storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"storage_backend", cfg.Storage.Backend,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// Durable key-value storage for the state snapshot and sessions
	store, err := newStore(cfg)
	if err != nil {
		log.Error("failed to open durable storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Remote data gateway
	gw, closeGateway, err := newGateway(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to remote backend", "error", err)
		os.Exit(1)
	}
	defer closeGateway()

	// Order event publisher
	publisher, err := newPublisher(cfg, log)
	if err != nil {
		log.Error("failed to connect to event broker", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// Application state container: created once, restored from its snapshot,
	// handed to the HTTP layer by reference
	container := state.NewContainer(store, log)
	container.Restore(ctx)
	applySettingsOverrides(ctx, container, cfg)

	// Session stores restore their saved identities at construction
	customerSessions := session.NewCustomerStore(ctx, gw, store, log)
	adminSessions := session.NewAdminStore(ctx, cfg.Admin.Username, cfg.Admin.PasswordHash, store, log)

	// Menu repository with YAML seed
	menuRepo := repository.NewInMemoryMenuRepository()
	if err := menuRepo.LoadSeedFile(cfg.Storefront.MenuSeedFile); err != nil {
		log.Error("failed to load menu seed", "file", cfg.Storefront.MenuSeedFile, "error", err)
		os.Exit(1)
	}
	menuService := service.NewMenuService(menuRepo, container)
	if err := menuService.SyncState(ctx); err != nil {
		log.Error("failed to sync menu into state", "error", err)
		os.Exit(1)
	}

	checkoutService := checkout.NewService(container, gw, customerSessions, publisher, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	menuHandler := handlers.NewMenuHandler(menuService, log)
	cartHandler := handlers.NewCartHandler(container, menuService, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, log)
	ordersHandler := handlers.NewOrdersHandler(container, log)
	authHandler := handlers.NewAuthHandler(customerSessions, gw, log)
	notificationHandler := handlers.NewNotificationHandler(container, log)
	adminHandler := handlers.NewAdminHandler(adminSessions, menuService, gw, container, publisher, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", menuHandler.ListMenu)
		r.Get("/menu/{itemId}", menuHandler.GetMenuItem)

		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart/items", cartHandler.AddItem)
		r.Put("/cart/items/{itemId}", cartHandler.SetQuantity)
		r.Delete("/cart/items/{itemId}", cartHandler.RemoveItem)
		r.Delete("/cart", cartHandler.ClearCart)

		r.Post("/checkout", checkoutHandler.Submit)

		r.Get("/orders", ordersHandler.ListOrders)
		r.Get("/orders/{orderId}", ordersHandler.GetOrder)

		r.Get("/notifications", notificationHandler.ListNotifications)
		r.Delete("/notifications/{id}", notificationHandler.RemoveNotification)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Get("/orders", authHandler.ListRemoteOrders)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Put("/password", authHandler.ChangePassword)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(adminSessions))
				r.Post("/logout", adminHandler.Logout)
				r.Get("/menu", adminHandler.ListMenu)
				r.Post("/menu", adminHandler.CreateMenuItem)
				r.Put("/menu/{itemId}", adminHandler.UpdateMenuItem)
				r.Delete("/menu/{itemId}", adminHandler.DeleteMenuItem)
				r.Get("/orders", adminHandler.ListOrders)
				r.Put("/orders/{orderId}/status", adminHandler.UpdateOrderStatus)
				r.Put("/password", adminHandler.ChangePassword)
			})
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// newStore selects the durable key-value backend.
func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		return storage.NewRedisStore(cfg.Storage.RedisURL, "hungrydrop")
	case config.StorageMemory:
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewFileStore(cfg.Storage.Dir)
	}
}

// newGateway connects to Postgres when DATABASE_URL is set; otherwise the
// in-memory gateway backs a local development run.
func newGateway(ctx context.Context, cfg *config.Config, log *slog.Logger) (gateway.Gateway, func(), error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, using in-memory gateway")
		return gateway.NewInMemory(), func() {}, nil
	}

	pg, err := gateway.NewPostgres(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.InitSchema(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

// newPublisher connects to the broker when AMQP_URL is set; otherwise order
// events are dropped.
func newPublisher(cfg *config.Config, log *slog.Logger) (events.Publisher, error) {
	if cfg.Broker.AMQPURL == "" {
		log.Warn("AMQP_URL not set, order events disabled")
		return events.Nop{}, nil
	}
	return events.NewAMQPPublisher(cfg.Broker.AMQPURL)
}

// applySettingsOverrides pushes configured storefront parameters into state
// when they differ from what the snapshot restored.
func applySettingsOverrides(ctx context.Context, container *state.Container, cfg *config.Config) {
	settings := container.Settings()
	settings.DeliveryFee = cfg.Storefront.DeliveryFee
	settings.MinimumOrder = cfg.Storefront.MinimumOrder
	container.BulkLoad(ctx, snapshotWithSettings(settings))
}

func snapshotWithSettings(settings models.Settings) models.Snapshot {
	return models.Snapshot{Version: models.SnapshotVersion, Settings: &settings}
}
