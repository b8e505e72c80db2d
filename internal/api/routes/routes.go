package routes

import (
	"rental-ops-backend/internal/api/handlers"
	"rental-ops-backend/internal/api/middleware"
	"rental-ops-backend/internal/config"
	"rental-ops-backend/internal/realtime"
	"rental-ops-backend/internal/repository"
	"rental-ops-backend/internal/services"
	"rental-ops-backend/internal/snapshot"
	"rental-ops-backend/pkg/ratelimit"
	"rental-ops-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps carries the long-lived pieces main wires up before serving.
type Deps struct {
	DB          *mongo.Database
	RedisClient *redis.Client
	Snapshot    *snapshot.Store
	Manager     *realtime.Manager
	Repos       *repository.Set
	Config      *config.Config
	DefaultCity int64
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	repos := deps.Repos

	// Services
	bookingService := services.NewBookingService(repos.Bookings, repos.Vehicles, repos.Batteries, deps.Snapshot)
	maintenanceService := services.NewMaintenanceService(repos.Jobs, repos.Spares, repos.Vehicles, deps.Snapshot)
	fleetService := services.NewFleetService(
		repos.Vehicles, repos.Batteries, repos.Customers, repos.Cities,
		repos.Rates, repos.Users, repos.Refunds, repos.Logs, deps.Snapshot,
	)
	importService := services.NewImportService(repos.Bookings, repos.Vehicles, repos.Batteries, repos.Customers, deps.Snapshot)

	// Handlers
	authHandler := handlers.NewAuthHandler(deps.Config.AdminPasswordHash)
	bookingHandler := handlers.NewBookingHandler(bookingService, deps.Snapshot)
	fleetHandler := handlers.NewFleetHandler(fleetService, deps.Snapshot)
	adminHandler := handlers.NewAdminHandler(fleetService, deps.Snapshot)
	maintenanceHandler := handlers.NewMaintenanceHandler(maintenanceService, deps.Snapshot)
	legacyHandler := handlers.NewLegacyHandler(importService, deps.Snapshot, deps.DefaultCity)
	realtimeHandler := handlers.NewRealtimeHandler(deps.Manager)
	snapshotHandler := handlers.NewSnapshotHandler(deps.Snapshot)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.RedisClient, deps.Manager)

	// Rate limiting applies to everything under /api/v1, auth included.
	limiter := ratelimit.NewRedisRateLimiter(deps.RedisClient.GetClient(), ratelimit.DefaultConfig())

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(limiter))

	api.GET("/health", healthHandler.HealthCheck)

	// Browsers cannot attach an Authorization header to a websocket upgrade,
	// so the change feed sits outside the auth group. Origin checking on the
	// upgrader gates it instead.
	api.GET("/ws", realtimeHandler.HandleWebSocket)

	auth := api.Group("/auth")
	{
		auth.POST("/session", authHandler.CreateSession)
		auth.POST("/refresh", authHandler.RefreshSession)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/snapshot", snapshotHandler.GetSnapshot)
		protected.POST("/snapshot/refresh", snapshotHandler.RefreshSnapshot)
		protected.PUT("/snapshot/city", snapshotHandler.SelectCity)

		bookings := protected.Group("/bookings")
		{
			bookings.GET("", bookingHandler.GetBookings)
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.PATCH("/:id", bookingHandler.UpdateBooking)
			bookings.DELETE("/:id", bookingHandler.DeleteBooking)
			bookings.PATCH("/:id/status", bookingHandler.UpdateBookingStatus)
			bookings.POST("/:id/pause", bookingHandler.PauseBooking)
			bookings.POST("/:id/resume", bookingHandler.ResumeBooking)
			bookings.POST("/:id/battery", bookingHandler.ChangeBattery)
			bookings.POST("/:id/vehicle", bookingHandler.SwapVehicle)
			bookings.POST("/:id/extend", bookingHandler.ExtendBooking)
			bookings.POST("/:id/settle", bookingHandler.SettleDue)
		}

		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", fleetHandler.GetVehicles)
			vehicles.POST("", fleetHandler.CreateVehicle)
			vehicles.GET("/:id", fleetHandler.GetVehicle)
			vehicles.PATCH("/:id", fleetHandler.UpdateVehicle)
			vehicles.DELETE("/:id", fleetHandler.DeleteVehicle)
			vehicles.PATCH("/:id/status", fleetHandler.UpdateVehicleStatus)
		}

		batteries := protected.Group("/batteries")
		{
			batteries.GET("", fleetHandler.GetBatteries)
			batteries.POST("", fleetHandler.CreateBattery)
			batteries.PATCH("/:id", fleetHandler.UpdateBattery)
			batteries.DELETE("/:id", fleetHandler.DeleteBattery)
			batteries.PATCH("/:id/status", fleetHandler.UpdateBatteryStatus)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", adminHandler.GetCustomers)
			customers.POST("", adminHandler.CreateCustomer)
			customers.PATCH("/:id", adminHandler.UpdateCustomer)
			customers.DELETE("/:id", adminHandler.DeleteCustomer)
		}

		cities := protected.Group("/cities")
		{
			cities.GET("", adminHandler.GetCities)
			cities.POST("", adminHandler.CreateCity)
			cities.PATCH("/:id", adminHandler.UpdateCity)
		}

		rates := protected.Group("/rates")
		{
			rates.GET("", adminHandler.GetRates)
			rates.POST("", adminHandler.CreateRate)
			rates.PATCH("/:id", adminHandler.UpdateRate)
			rates.DELETE("/:id", adminHandler.DeleteRate)
		}

		users := protected.Group("/users")
		{
			users.GET("", adminHandler.GetUsers)
			users.POST("", adminHandler.CreateUser)
			users.DELETE("/:id", adminHandler.DeleteUser)
		}

		refunds := protected.Group("/refunds")
		{
			refunds.GET("", adminHandler.GetRefundRequests)
			refunds.POST("", adminHandler.CreateRefundRequest)
			refunds.PATCH("/:id/process", adminHandler.MarkRefundProcessed)
		}

		protected.GET("/vehicle-logs", adminHandler.GetVehicleLogs)

		maintenance := protected.Group("/maintenance")
		{
			maintenance.GET("/jobs", maintenanceHandler.GetJobs)
			maintenance.POST("/jobs", maintenanceHandler.CreateJob)
			maintenance.PATCH("/jobs/:id/status", maintenanceHandler.UpdateJobStatus)
			maintenance.DELETE("/jobs/:id", maintenanceHandler.DeleteJob)

			maintenance.GET("/parts", maintenanceHandler.GetParts)
			maintenance.POST("/parts", maintenanceHandler.CreatePart)
			maintenance.PATCH("/parts/:id", maintenanceHandler.UpdatePart)
			maintenance.DELETE("/parts/:id", maintenanceHandler.DeletePart)

			maintenance.GET("/stock", maintenanceHandler.GetStock)
			maintenance.GET("/stock/low", maintenanceHandler.GetLowStock)
			maintenance.POST("/stock", maintenanceHandler.CreateStock)
			maintenance.PATCH("/stock/:id", maintenanceHandler.AdjustStock)
			maintenance.DELETE("/stock/:id", maintenanceHandler.DeleteStock)
		}

		legacy := protected.Group("/legacy")
		{
			legacy.POST("/import", legacyHandler.ImportBookings)
			legacy.GET("/export", legacyHandler.ExportTable)
		}
	}
}
