package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rifas-el-negro/raffle-backend/api/routes"
	"github.com/rifas-el-negro/raffle-backend/internal/config"
	"github.com/rifas-el-negro/raffle-backend/internal/handlers"
	"github.com/rifas-el-negro/raffle-backend/internal/repositories"
	mongorepo "github.com/rifas-el-negro/raffle-backend/internal/repositories/mongodb"
	"github.com/rifas-el-negro/raffle-backend/internal/services"
	mongodb "github.com/rifas-el-negro/raffle-backend/pkg/mongodb"
)

func main() {
	// Load .env if present; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var raffleRepo repositories.RaffleRepository = mongorepo.NewRaffleRepository(db)
	var numberRepo repositories.RaffleNumberRepository = mongorepo.NewRaffleNumberRepository(db)
	var paymentRepo repositories.PaymentRepository = mongorepo.NewPaymentRepository(db)
	var txRunner repositories.TxRunner = mongorepo.NewTxRunner(mongoClient.Raw())

	// Services
	authService := services.NewAuthService(userRepo, cfg)
	raffleService := services.NewRaffleService(raffleRepo, numberRepo)
	ledgerService := services.NewLedgerService(numberRepo, raffleRepo, userRepo, paymentRepo, cfg.Reservation)
	paymentService := services.NewPaymentService(paymentRepo, numberRepo, raffleRepo, userRepo, cfg.PaymentMethods)
	validationService := services.NewValidationService(paymentRepo, numberRepo, txRunner)
	dashboardService := services.NewDashboardService(numberRepo, paymentRepo, raffleRepo, userRepo, paymentService)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		RaffleHandler:  handlers.NewRaffleHandler(raffleService),
		NumberHandler:  handlers.NewNumberHandler(ledgerService),
		PaymentHandler: handlers.NewPaymentHandler(paymentService),
		AdminHandler:   handlers.NewAdminHandler(paymentService, validationService, ledgerService, dashboardService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	log.Printf("Server starting on port %s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
