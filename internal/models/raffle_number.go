package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NumberStatus represents the lifecycle state of a raffle number
type NumberStatus string

const (
	NumberStatusAvailable NumberStatus = "available"
	NumberStatusReserved  NumberStatus = "reserved"
	NumberStatusSold      NumberStatus = "sold"
)

// RaffleNumber represents one of the 1000 ticket slots of a raffle.
// HolderID is set iff the number is reserved or sold; ReservedAt and
// ExpiresAt are set iff reserved; SoldAt is set iff sold.
type RaffleNumber struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleID   primitive.ObjectID  `bson:"raffleId" json:"raffleId"`
	Number     string              `bson:"number" json:"number"` // zero-padded, "000".."999"
	Value      int                 `bson:"value" json:"-"`       // numeric value of Number, used for ordering
	Status     NumberStatus        `bson:"status" json:"status"`
	HolderID   *primitive.ObjectID `bson:"holderId,omitempty" json:"holderId,omitempty"`
	ReservedAt *time.Time          `bson:"reservedAt,omitempty" json:"reservedAt,omitempty"`
	ExpiresAt  *time.Time          `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	SoldAt     *time.Time          `bson:"soldAt,omitempty" json:"soldAt,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Expired reports whether a reserved number's hold deadline has passed.
// Numbers that are not reserved never expire.
func (n *RaffleNumber) Expired(now time.Time) bool {
	return n.Status == NumberStatusReserved && n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// NumberDetails is the owner-facing view of a held number, joined with
// its raffle for the payment page.
type NumberDetails struct {
	ID          primitive.ObjectID `json:"id"`
	Number      string             `json:"number"`
	Status      NumberStatus       `json:"status"`
	ReservedAt  *time.Time         `json:"reservedAt,omitempty"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty"`
	RaffleName  string             `json:"raffleName"`
	DrawDate    time.Time          `json:"drawDate"`
	TicketPrice float64            `json:"ticketPrice"`
}

// UserNumber is a user's number with its raffle and latest payment
// status attached, for the my-numbers view.
type UserNumber struct {
	RaffleNumber
	RaffleName    string        `json:"raffleName"`
	DrawDate      time.Time     `json:"drawDate"`
	TicketPrice   float64       `json:"ticketPrice"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
}
