package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resort-backend/controllers"
	"resort-backend/gateways"
	"resort-backend/logger"
	"resort-backend/metrics"
	"resort-backend/middleware"
	"resort-backend/services"
	"resort-backend/tracing"
)

// Services is everything the HTTP layer needs, built once in main.
type Services struct {
	Auth         *services.AuthService
	Admins       *services.AdminService
	Rooms        *services.RoomService
	Availability *services.AvailabilityService
	Reservations *services.ReservationService
	Consumption  *services.ConsumptionService
	Products     *services.ProductService
	Finance      *services.FinanceService
	Events       *services.EventService
	Customers    *services.CustomerService
	Settings     *services.SettingsService
	Guests       *services.GuestService
	Audit        *services.AuditService
}

type Options struct {
	CORSOrigins []string
	// GuestLimiter counts guest portal attempts; nil uses an in-process counter.
	GuestLimiter middleware.HitCounter
	// GuestLimit requests per GuestWindow and client IP; zero means 20 per minute.
	GuestLimit  int64
	GuestWindow time.Duration
	// Ping reports store health for /health; nil means always healthy.
	Ping func(ctx context.Context) error
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Idempotency-Key", middleware.RequestIDHeader, controllers.AccessCodeHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

func guestRateLimit(opts Options, log *logger.Logger) gin.HandlerFunc {
	counter := opts.GuestLimiter
	if counter == nil {
		counter = gateways.NewRateMemory()
	}
	limit, window := opts.GuestLimit, opts.GuestWindow
	if limit <= 0 {
		limit = 20
	}
	if window <= 0 {
		window = time.Minute
	}
	return middleware.RateLimit(counter, "guest", limit, window, log.WithComponent("ratelimit"))
}

// SetupRouter wires controllers to routes. Staff routes require a JWT and
// the permission named next to them.
func SetupRouter(svc Services, opts Options, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(tracing.Middleware())
	r.Use(metrics.Middleware)
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	authCtrl := controllers.NewAuthController(svc.Auth, log)
	adminCtrl := controllers.NewAdminController(svc.Admins, log)
	roomCtrl := controllers.NewRoomController(svc.Rooms, log)
	availCtrl := controllers.NewAvailabilityController(svc.Availability, log)
	resCtrl := controllers.NewReservationController(svc.Reservations, log)
	itemCtrl := controllers.NewConsumptionController(svc.Consumption, log)
	productCtrl := controllers.NewProductController(svc.Products, log)
	financeCtrl := controllers.NewFinanceController(svc.Finance, log)
	eventCtrl := controllers.NewEventController(svc.Events, log)
	customerCtrl := controllers.NewCustomerController(svc.Customers, log)
	settingsCtrl := controllers.NewSettingsController(svc.Settings, log)
	roleCtrl := controllers.NewRoleController(svc.Settings, log)
	guestCtrl := controllers.NewGuestController(svc.Guests, svc.Consumption, log)
	auditCtrl := controllers.NewAuditController(svc.Audit, log)

	r.GET("/health", func(c *gin.Context) {
		if opts.Ping != nil {
			if err := opts.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// ---------------- Public ----------------
		api.POST("/auth/login", authCtrl.Login)
		api.GET("/products", productCtrl.List)
		api.POST("/availability/search", availCtrl.Search)

		guest := api.Group("/guest")
		guest.Use(guestRateLimit(opts, log))
		{
			guest.POST("/login", guestCtrl.Login)
			guest.GET("/bill", guestCtrl.Bill)
			guest.POST("/orders", guestCtrl.Order)
		}

		// ---------------- Staff ----------------
		staff := api.Group("")
		staff.Use(middleware.RequireStaff(svc.Auth))
		can := middleware.RequirePermission

		staff.GET("/auth/me", authCtrl.Me)
		staff.POST("/admins", can(services.PermRolesEdit), adminCtrl.Create)

		rooms := staff.Group("/rooms")
		{
			rooms.GET("", can(services.PermRoomView), roomCtrl.List)
			rooms.GET("/:id", can(services.PermRoomView), roomCtrl.Get)
			rooms.POST("", can(services.PermRoomCreate), roomCtrl.Create)
			rooms.PUT("/:id", can(services.PermRoomEdit), roomCtrl.Update)
			rooms.PATCH("/:id/status", can(services.PermRoomEditStatus), roomCtrl.UpdateStatus)
			rooms.DELETE("/:id", can(services.PermRoomDelete), roomCtrl.Delete)
		}

		reservations := staff.Group("/reservations")
		{
			reservations.GET("", can(services.PermReservationView), resCtrl.List)
			reservations.POST("", can(services.PermReservationCreate), resCtrl.Create)
			reservations.GET("/:id", can(services.PermReservationView), resCtrl.Get)
			reservations.GET("/:id/bill", can(services.PermReservationView), resCtrl.Bill)
			reservations.POST("/:id/confirm", can(services.PermReservationEdit), resCtrl.Confirm)
			reservations.POST("/:id/check-in", can(services.PermReservationEdit), resCtrl.CheckIn)
			reservations.POST("/:id/check-out", can(services.PermReservationEdit), resCtrl.CheckOut)
			reservations.POST("/:id/cancel", can(services.PermReservationCancel), resCtrl.Cancel)

			reservations.GET("/:id/items", can(services.PermPOSView), itemCtrl.List)
			reservations.POST("/:id/items", can(services.PermPOSCreate), itemCtrl.Add)
		}

		items := staff.Group("/items")
		{
			items.POST("/:id/advance", can(services.PermKitchenAdvance), itemCtrl.Advance)
			items.DELETE("/:id", can(services.PermPOSCancel), itemCtrl.Cancel)
		}
		staff.GET("/kitchen/queue", can(services.PermKitchenView), itemCtrl.KitchenQueue)

		staff.POST("/products", can(services.PermProductCreate), productCtrl.Create)
		staff.PATCH("/products/:id/active", can(services.PermProductEdit), productCtrl.SetActive)

		transactions := staff.Group("/transactions")
		{
			transactions.GET("", can(services.PermFinanceView), financeCtrl.List)
			transactions.POST("", can(services.PermFinanceCreate), financeCtrl.Create)
			transactions.POST("/:id/pay", can(services.PermFinanceEdit), financeCtrl.MarkPaid)
		}
		staff.GET("/finance/summary", can(services.PermFinanceView), financeCtrl.Summary)

		events := staff.Group("/events")
		{
			events.GET("", can(services.PermEventView), eventCtrl.List)
			events.POST("", can(services.PermEventCreate), eventCtrl.Create)
			events.GET("/:id", can(services.PermEventView), eventCtrl.Get)
			events.POST("/:id/confirm-deposit", can(services.PermEventEdit), eventCtrl.ConfirmDeposit)
			events.POST("/:id/complete", can(services.PermEventEdit), eventCtrl.Complete)
			events.POST("/:id/cancel", can(services.PermEventEdit), eventCtrl.Cancel)
		}

		customers := staff.Group("/customers")
		{
			customers.GET("", can(services.PermCustomerView), customerCtrl.List)
			customers.POST("", can(services.PermCustomerCreate), customerCtrl.CreateCustomer)
			customers.GET("/:id", can(services.PermCustomerView), customerCtrl.Get)
		}

		settings := staff.Group("/settings")
		{
			settings.GET("/hotel", can(services.PermSettingsView), settingsCtrl.GetHotel)
			settings.PUT("/hotel", can(services.PermSettingsEdit), settingsCtrl.SaveHotel)
		}

		roles := staff.Group("/roles")
		{
			roles.GET("", can(services.PermRolesView), roleCtrl.List)
			roles.PUT("/:id/permissions", can(services.PermRolesEdit), roleCtrl.SetPermissions)
		}

		staff.GET("/audit", can(services.PermAuditView), auditCtrl.List)
	}

	return r
}
