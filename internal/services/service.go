package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rifas-el-negro/raffle-backend/internal/models"
)

// LedgerService owns the authoritative state of every raffle number.
// All status transitions go through it; reads sweep expired holds
// first, so observed status is never stale beyond sweep granularity.
type LedgerService interface {
	Reserve(ctx context.Context, caller models.Identity, numberID primitive.ObjectID) (*models.RaffleNumber, error)
	ReserveForUser(ctx context.Context, caller models.Identity, raffleID primitive.ObjectID, number string, userID primitive.ObjectID) (*models.RaffleNumber, error)
	ListByRaffle(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleNumber, error)
	GetDetails(ctx context.Context, caller models.Identity, numberID primitive.ObjectID) (*models.NumberDetails, error)
	GetUserNumbers(ctx context.Context, caller models.Identity) ([]*models.UserNumber, error)
}

// PaymentService owns payment records and their audit trail. Submit is
// the only write; resolution belongs to the ValidationService.
type PaymentService interface {
	Submit(ctx context.Context, caller models.Identity, req *models.SubmitPaymentRequest) (*models.Payment, error)
	Get(ctx context.Context, caller models.Identity, id primitive.ObjectID) (*models.Payment, error)
	ListAll(ctx context.Context, caller models.Identity, filter models.PaymentFilter) ([]*models.PaymentView, error)
	ListByUser(ctx context.Context, caller models.Identity) ([]*models.Payment, error)
	ListMethods(ctx context.Context) []models.PaymentMethod
}

// ValidationService is the staff decision that resolves a pending
// payment and, in the same transaction, drives the matching ledger
// transition: validate sells the number, reject returns it to the pool.
type ValidationService interface {
	Validate(ctx context.Context, caller models.Identity, paymentID primitive.ObjectID, notes string) (*models.Payment, error)
	Reject(ctx context.Context, caller models.Identity, paymentID primitive.ObjectID, notes string) (*models.Payment, error)
}

// RaffleService owns the raffle catalog: creating a raffle bulk-creates
// its 1000 numbers.
type RaffleService interface {
	Create(ctx context.Context, caller models.Identity, req *models.CreateRaffleRequest) (*models.Raffle, error)
	ListActive(ctx context.Context) ([]*models.Raffle, error)
	ListAll(ctx context.Context, caller models.Identity) ([]*models.RaffleSummary, error)
}

// DashboardService produces the staff dashboard aggregates
type DashboardService interface {
	GetStats(ctx context.Context, caller models.Identity) (*models.DashboardStats, error)
}

// AuthService is the identity provider boundary: it registers users and
// exchanges credentials for signed tokens carrying identity and role.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
}
