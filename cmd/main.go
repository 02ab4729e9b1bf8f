package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"bookslot/internal/caching"
	"bookslot/internal/handlers"
	"bookslot/internal/jobs/background"
	"bookslot/internal/locking"
	"bookslot/internal/middleware"
	"bookslot/internal/repositories"
	"bookslot/internal/services"
	"bookslot/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret; tokens will not survive a restart")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Create repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	serviceRepo := repositories.NewServiceRepo(pool)
	availabilityRepo := repositories.NewAvailabilityRepo(pool)
	appointmentRepo := repositories.NewAppointmentRepo(pool)

	// Create cache service and per-tenant lock
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	tenantLock := locking.NewTenantLock()

	// Create services
	tenantSvc := services.NewTenantService(tenantRepo)
	catalogSvc := services.NewCatalogService(serviceRepo, tenantRepo)
	availabilitySvc := services.NewAvailabilityService(availabilityRepo, tenantRepo)
	slotSvc := services.NewSlotService(availabilityRepo, appointmentRepo)
	quotaSvc := services.NewQuotaService(tenantRepo, cacheSvc, tenantLock)
	lifecycleSvc := services.NewLifecycleService(tenantRepo, quotaSvc, cacheSvc)
	bookingSvc := services.NewBookingService(tenantRepo, serviceRepo, appointmentRepo, slotSvc, quotaSvc, lifecycleSvc, tenantLock)

	// Background lifecycle jobs
	jobScheduler, err := background.NewJobScheduler(lifecycleSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	jobScheduler.Start()
	defer func() {
		if err := jobScheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Create handlers
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, jwtSecret)
	serviceHandlers := handlers.NewServiceHandlers(catalogSvc)
	availabilityHandlers := handlers.NewAvailabilityHandlers(availabilitySvc)
	slotHandlers := handlers.NewSlotHandlers(tenantSvc, catalogSvc, slotSvc)
	bookingHandlers := handlers.NewBookingHandlers(tenantSvc, bookingSvc)
	planHandlers := handlers.NewPlanHandlers(quotaSvc, lifecycleSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, jobScheduler)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.Health)
	e.GET("/health/ready", healthHandlers.Ready)

	v1 := e.Group("/v1")

	// Authentication routes
	v1.POST("/auth/signup", tenantHandlers.Signup)

	// Public booking-page routes, keyed by subdomain
	book := v1.Group("/book/:subdomain")
	book.GET("/slots", slotHandlers.GetSlots)
	book.GET("/check", slotHandlers.CheckSlot)
	book.GET("/next-date", slotHandlers.NextAvailableDate)
	book.POST("/appointments", bookingHandlers.CreateBooking)

	// Protected provider routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))
	protected.Use(middleware.TenantContext())

	protected.GET("/me", tenantHandlers.Me)

	protected.GET("/services", serviceHandlers.ListServices)
	protected.POST("/services", serviceHandlers.CreateService)
	protected.PUT("/services/:id", serviceHandlers.UpdateService)

	protected.GET("/availability", availabilityHandlers.GetSchedule)
	protected.PUT("/availability", availabilityHandlers.SetWindow)

	protected.GET("/appointments", bookingHandlers.ListAppointments)
	protected.PATCH("/appointments/:id/status", bookingHandlers.SetStatus)

	protected.GET("/plan", planHandlers.GetPlan)
	protected.POST("/plan/upgrade", planHandlers.Upgrade)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	go func() {
		log.Printf("Bookslot server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
