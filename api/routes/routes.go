package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/rifas-el-negro/raffle-backend/internal/config"
	"github.com/rifas-el-negro/raffle-backend/internal/handlers"
	"github.com/rifas-el-negro/raffle-backend/internal/middleware"
)

// HandlerDependencies carries the handlers wired in cmd/api/main.go
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	RaffleHandler  *handlers.RaffleHandler
	NumberHandler  *handlers.NumberHandler
	PaymentHandler *handlers.PaymentHandler
	AdminHandler   *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		public.GET("/raffles/active", deps.RaffleHandler.ListActive)
		public.GET("/raffles/:id/numbers", deps.NumberHandler.ListByRaffle)
		public.GET("/payment-methods", deps.PaymentHandler.ListMethods)
	}

	// Authenticated routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		numbers := protected.Group("/numbers")
		{
			numbers.POST("/:id/reserve", deps.NumberHandler.Reserve)
			numbers.GET("/:id", deps.NumberHandler.GetDetails)
		}

		me := protected.Group("/me")
		{
			me.GET("/numbers", deps.NumberHandler.GetMyNumbers)
			me.GET("/payments", deps.PaymentHandler.GetMyPayments)
		}

		protected.POST("/payments", deps.PaymentHandler.Submit)
	}

	// Staff routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg))
	admin.Use(middleware.RequireStaff())
	{
		admin.GET("/dashboard", deps.AdminHandler.GetDashboard)

		payments := admin.Group("/payments")
		{
			payments.GET("", deps.AdminHandler.ListPayments)
			payments.POST("/:id/validate", deps.AdminHandler.ValidatePayment)
			payments.POST("/:id/reject", deps.AdminHandler.RejectPayment)
		}

		admin.POST("/reserve", deps.AdminHandler.ReserveForUser)

		raffles := admin.Group("/raffles")
		{
			raffles.GET("", deps.RaffleHandler.ListAll)
			raffles.POST("", deps.RaffleHandler.Create)
		}
	}

	return router
}
