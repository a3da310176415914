package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rifas-el-negro/raffle-backend/internal/models"
)

// RaffleNumberRepository defines the interface for ticket-ledger data
// operations. The conditional mutations (Reserve, Release, MarkSold)
// are compare-and-set: the status precondition is part of the update
// filter, so exactly one of any set of racing callers observes a
// transition. They report whether the document transitioned; a false
// return with nil error means the precondition did not hold.
type RaffleNumberRepository interface {
	BulkCreate(ctx context.Context, numbers []*models.RaffleNumber) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.RaffleNumber, error)
	FindByRaffleAndNumber(ctx context.Context, raffleID primitive.ObjectID, number string) (*models.RaffleNumber, error)
	FindByRaffle(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleNumber, error)
	FindByHolder(ctx context.Context, holderID primitive.ObjectID) ([]*models.RaffleNumber, error)
	Reserve(ctx context.Context, id, holderID primitive.ObjectID, reservedAt, expiresAt time.Time) (bool, error)
	Release(ctx context.Context, id primitive.ObjectID) error
	ReleaseExpired(ctx context.Context, raffleID primitive.ObjectID, now time.Time) (int64, error)
	MarkSold(ctx context.Context, id, holderID primitive.ObjectID, soldAt time.Time) (bool, error)
	CountByStatus(ctx context.Context, status models.NumberStatus) (int64, error)
	CountByRaffleAndStatus(ctx context.Context, raffleID primitive.ObjectID, status models.NumberStatus) (int64, error)
}

// PaymentRepository defines the interface for payment-record data
// operations. Resolve is the only mutation after Create and is
// compare-and-set out of the pending status.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	HasPendingForNumber(ctx context.Context, numberID, userID primitive.ObjectID) (bool, error)
	FindAll(ctx context.Context, filter models.PaymentFilter) ([]*models.Payment, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Payment, error)
	FindRecent(ctx context.Context, limit int) ([]*models.Payment, error)
	Resolve(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus, staffID primitive.ObjectID, at time.Time, notes string) (bool, error)
	SumValidatedAmount(ctx context.Context) (float64, error)
	CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error)
}

// RaffleRepository defines the interface for raffle catalog operations
type RaffleRepository interface {
	Create(ctx context.Context, raffle *models.Raffle) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Raffle, error)
	FindActive(ctx context.Context) ([]*models.Raffle, error)
	FindAll(ctx context.Context) ([]*models.Raffle, error)
	CountByStatus(ctx context.Context, status models.RaffleStatus) (int64, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// TxRunner runs a function inside a single unit of work. Writes issued
// through repository methods with the callback's context either all
// commit or all roll back. The validation workflow is the only caller
// that needs this: it couples a payment resolution to a ledger
// transition and must never expose one without the other.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
