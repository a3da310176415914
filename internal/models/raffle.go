package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleStatus represents the status of a raffle
type RaffleStatus string

const (
	RaffleStatusActive    RaffleStatus = "active"
	RaffleStatusFinished  RaffleStatus = "finished"
	RaffleStatusCancelled RaffleStatus = "cancelled"
)

// TotalNumbers is the fixed ticket count of every raffle ("000".."999").
const TotalNumbers = 1000

// Raffle represents a raffle instance. Its numbers are bulk-created
// when the raffle is created and live in their own collection.
type Raffle struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	TicketPrice float64            `bson:"ticketPrice" json:"ticketPrice"`
	DrawDate    time.Time          `bson:"drawDate" json:"drawDate"`
	FirstPrize  string             `bson:"firstPrize,omitempty" json:"firstPrize,omitempty"`
	SecondPrize string             `bson:"secondPrize,omitempty" json:"secondPrize,omitempty"`
	ThirdPrize  string             `bson:"thirdPrize,omitempty" json:"thirdPrize,omitempty"`
	Status      RaffleStatus       `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateRaffleRequest is the body of POST /admin/raffles
type CreateRaffleRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	TicketPrice float64 `json:"ticket_price" binding:"required,gt=0"`
	DrawDate    string  `json:"draw_date" binding:"required"` // YYYY-MM-DD
	FirstPrize  string  `json:"first_prize"`
	SecondPrize string  `json:"second_prize"`
	ThirdPrize  string  `json:"third_prize"`
}

// RaffleSummary is a raffle with its sold-number count, for the admin
// raffle listing.
type RaffleSummary struct {
	Raffle
	SoldNumbers int64 `json:"soldNumbers"`
}
