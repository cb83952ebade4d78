package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resort-backend/config"
	"resort-backend/gateways"
	"resort-backend/logger"
	"resort-backend/middleware"
	"resort-backend/routes"
	"resort-backend/services"
	"resort-backend/tracing"
)

func main() {
	cfg, envLoaded, err := config.Load()
	if err != nil {
		logger.New(logger.DefaultConfig()).Fatal("❌ invalid configuration", "error", err)
	}

	log := logger.New(cfg.Logger())
	defer log.Close()
	if !envLoaded {
		log.Warn("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if shutdown := tracing.Init("resort-backend", cfg.OTLPEndpoint); shutdown != nil {
		defer shutdown()
		log.Info("📡 tracing enabled", "endpoint", cfg.OTLPEndpoint)
	}

	// ---------------- Storage ----------------
	store, closeStore, err := config.OpenStore(cfg, log)
	if err != nil {
		log.Fatal("❌ database connect failed", "driver", cfg.DBDriver, "error", err)
	}
	defer closeStore()
	log.Info("✅ database ready", "driver", cfg.DBDriver)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.SeedDatabase(seedCtx, store, cfg.SeedDemoData, log); err != nil {
		log.Fatal("❌ seeding failed", "error", err)
	}
	cancelSeed()

	// ---------------- Gateways ----------------
	var locker services.RoomLocker = gateways.NewLockMemory()
	var idem services.IdempotencyStore = gateways.NewIdempotencyMemory()
	var guestLimiter middleware.HitCounter = gateways.NewRateMemory()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatal("❌ invalid REDIS_URL", "error", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn("⚠️  redis unreachable, using in-process locks", "error", err)
		} else {
			locker = gateways.NewLockRedis(client)
			idem = gateways.NewIdempotencyRedis(client)
			guestLimiter = gateways.NewRateRedis(client)
			log.Info("✅ redis connected")
		}
		cancel()
	}

	var kitchen services.KitchenPublisher = gateways.NewKitchenLog(log)
	if len(cfg.KafkaBrokers) > 0 {
		k := gateways.NewKitchenKafka(cfg.KafkaBrokers, cfg.KafkaKitchenTopic)
		defer k.Close()
		kitchen = k
		log.Info("✅ kitchen orders routed to kafka", "topic", cfg.KafkaKitchenTopic)
	}

	mailer := gateways.NewSMTPMailer(gateways.SMTPSettings{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		FromName: cfg.SMTP.FromName,
	}, log.WithComponent("mailer"))

	// ---------------- Services ----------------
	consumption := services.NewConsumptionService(store, kitchen, log)
	svc := routes.Services{
		Auth:         services.NewAuthService(store, cfg.JWTSecret, cfg.JWTTTL),
		Admins:       services.NewAdminService(store),
		Rooms:        services.NewRoomService(store),
		Availability: services.NewAvailabilityService(store, cfg.CleaningBuffer),
		Reservations: services.NewReservationService(services.ReservationDeps{
			Store:       store,
			Locker:      locker,
			Idempotency: idem,
			Mailer:      mailer,
			Log:         log,
			Buffer:      cfg.CleaningBuffer,
		}),
		Consumption: consumption,
		Products:    services.NewProductService(store),
		Finance:     services.NewFinanceService(store),
		Events:      services.NewEventService(store),
		Customers:   services.NewCustomerService(store),
		Settings:    services.NewSettingsService(store),
		Guests:      services.NewGuestService(store),
		Audit:       services.NewAuditService(store),
	}

	ping := func(ctx context.Context) error {
		return config.Ping(ctx, store)
	}
	router := routes.SetupRouter(svc, routes.Options{
		CORSOrigins:  cfg.CORSOrigins,
		GuestLimiter: guestLimiter,
		GuestLimit:   cfg.GuestRateLimit,
		GuestWindow:  cfg.GuestRateWindow,
		Ping:         ping,
	}, log)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("🚀 server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ ListenAndServe failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("⚠️  shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("❌ server forced to shutdown", "error", err)
		return
	}
	log.Info("✅ server stopped gracefully")
}
