package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/rifas-el-negro/raffle-backend/internal/config"
	"github.com/rifas-el-negro/raffle-backend/internal/models"
	mongorepo "github.com/rifas-el-negro/raffle-backend/internal/repositories/mongodb"
	"github.com/rifas-el-negro/raffle-backend/internal/services"
	mongodb "github.com/rifas-el-negro/raffle-backend/pkg/mongodb"
)

// Creates a raffle and bulk-generates its numbers 000-999. Run once
// per raffle before opening sales:
//
//	go run ./cmd/scripts -name "Rifa Diciembre" -price 400 -draw 2026-12-24
func main() {
	name := flag.String("name", "", "raffle name (required)")
	description := flag.String("description", "", "raffle description")
	price := flag.Float64("price", 0, "ticket price (required)")
	drawDate := flag.String("draw", "", "draw date, YYYY-MM-DD (required)")
	firstPrize := flag.String("first-prize", "", "first prize")
	secondPrize := flag.String("second-prize", "", "second prize")
	thirdPrize := flag.String("third-prize", "", "third prize")
	flag.Parse()

	if *name == "" || *price <= 0 || *drawDate == "" {
		flag.Usage()
		log.Fatal("name, price and draw date are required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.MongoDB.Database)
	raffleService := services.NewRaffleService(
		mongorepo.NewRaffleRepository(db),
		mongorepo.NewRaffleNumberRepository(db),
	)

	// The script runs with operator credentials, outside the HTTP
	// auth path.
	operator := models.Identity{Role: models.RoleAdmin}

	raffle, err := raffleService.Create(context.Background(), operator, &models.CreateRaffleRequest{
		Name:        *name,
		Description: *description,
		TicketPrice: *price,
		DrawDate:    *drawDate,
		FirstPrize:  *firstPrize,
		SecondPrize: *secondPrize,
		ThirdPrize:  *thirdPrize,
	})
	if err != nil {
		log.Fatalf("Failed to create raffle: %v", err)
	}

	log.Printf("Raffle %s created with %d numbers", raffle.ID.Hex(), models.TotalNumbers)
}
