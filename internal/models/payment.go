package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus represents the validation state of a payment record
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusValidated PaymentStatus = "validated"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// Payment represents a user-submitted claim of payment against exactly
// one reserved raffle number. Records are never deleted; once resolved
// they are immutable apart from the staff note written at decision time.
type Payment struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	RaffleNumberID primitive.ObjectID  `bson:"raffleNumberId" json:"raffleNumberId"`
	UserID         primitive.ObjectID  `bson:"userId" json:"userId"`
	Method         PaymentMethodName   `bson:"method" json:"method"`
	Amount         float64             `bson:"amount" json:"amount"`
	Reference      string              `bson:"reference" json:"reference"`
	ProofURI       string              `bson:"proofUri,omitempty" json:"proofUri,omitempty"` // opaque, not interpreted
	Status         PaymentStatus       `bson:"status" json:"status"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	ValidatedBy    *primitive.ObjectID `bson:"validatedBy,omitempty" json:"validatedBy,omitempty"`
	ValidatedAt    *time.Time          `bson:"validatedAt,omitempty" json:"validatedAt,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PaymentFilter narrows staff payment listings. Zero values mean "any".
type PaymentFilter struct {
	Status PaymentStatus
	Method PaymentMethodName
}

// SubmitPaymentRequest is the body of POST /payments
type SubmitPaymentRequest struct {
	RaffleNumberID string  `json:"raffle_number_id" binding:"required"`
	Method         string  `json:"payment_method" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Reference      string  `json:"reference_number" binding:"required"`
	ProofURI       string  `json:"payment_proof,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// ResolvePaymentRequest is the body of validate/reject calls
type ResolvePaymentRequest struct {
	Notes string `json:"notes,omitempty"`
}

// PaymentView is the staff-facing projection of a payment joined with
// its number, raffle and submitting user.
type PaymentView struct {
	Payment
	Number     string `json:"number"`
	RaffleName string `json:"raffleName"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
	UserPhone  string `json:"userPhone,omitempty"`
}
