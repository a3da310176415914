package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"

	"github.com/rifas-el-negro/raffle-backend/internal/apperrors"
	"github.com/rifas-el-negro/raffle-backend/internal/config"
	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/repositories"
	"github.com/rifas-el-negro/raffle-backend/internal/utils"
)

// Compile-time check to ensure LedgerServiceImpl implements LedgerService
var _ LedgerService = (*LedgerServiceImpl)(nil)

type LedgerServiceImpl struct {
	numberRepo  repositories.RaffleNumberRepository
	raffleRepo  repositories.RaffleRepository
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	reservation config.ReservationConfig
}

func NewLedgerService(numberRepo repositories.RaffleNumberRepository, raffleRepo repositories.RaffleRepository, userRepo repositories.UserRepository, paymentRepo repositories.PaymentRepository, reservation config.ReservationConfig) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		numberRepo:  numberRepo,
		raffleRepo:  raffleRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		reservation: reservation,
	}
}

// Reserve attempts the available -> reserved transition for the caller.
// The underlying update is conditional on the current status, so of N
// racing callers exactly one succeeds; the rest get ErrConflict.
func (s *LedgerServiceImpl) Reserve(ctx context.Context, caller models.Identity, numberID primitive.ObjectID) (*models.RaffleNumber, error) {
	holderID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid caller id: %w", err)
	}
	return s.reserve(ctx, numberID, holderID, s.reservation.TTL())
}

// ReserveForUser is the staff path: it reserves a number of a raffle on
// behalf of an existing user, with the longer staff TTL.
func (s *LedgerServiceImpl) ReserveForUser(ctx context.Context, caller models.Identity, raffleID primitive.ObjectID, number string, userID primitive.ObjectID) (*models.RaffleNumber, error) {
	if !caller.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	value, err := utils.ParseNumber(number)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNotFound, err)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	n, err := s.numberRepo.FindByRaffleAndNumber(ctx, raffleID, utils.FormatNumber(value))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("number %s: %w", number, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up number: %w", err)
	}

	return s.reserve(ctx, n.ID, userID, s.reservation.StaffTTL())
}

func (s *LedgerServiceImpl) reserve(ctx context.Context, numberID, holderID primitive.ObjectID, ttl time.Duration) (*models.RaffleNumber, error) {
	n, err := s.numberRepo.FindByID(ctx, numberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("number %s: %w", numberID.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up number: %w", err)
	}

	now := time.Now()

	// A lapsed hold does not block a new buyer even if no sweep has run
	// since it expired.
	if n.Expired(now) {
		if err := s.numberRepo.Release(ctx, n.ID); err != nil {
			return nil, fmt.Errorf("failed to release expired hold: %w", err)
		}
	} else if n.Status != models.NumberStatusAvailable {
		return nil, fmt.Errorf("number %s is %s: %w", n.Number, n.Status, apperrors.ErrConflict)
	}

	ok, err := s.numberRepo.Reserve(ctx, n.ID, holderID, now, now.Add(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to reserve number: %w", err)
	}
	if !ok {
		// Lost the race between our read and the conditional update.
		return nil, fmt.Errorf("number %s was taken: %w", n.Number, apperrors.ErrConflict)
	}

	slog.Info("number reserved", "number", n.Number, "raffleId", n.RaffleID.Hex(), "holderId", holderID.Hex(), "ttl", ttl)

	reserved, err := s.numberRepo.FindByID(ctx, n.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload number: %w", err)
	}
	return reserved, nil
}

// ListByRaffle returns a raffle's numbers in numeric order, sweeping
// expired holds first. A sweep failure degrades to best-effort data
// rather than failing the read.
func (s *LedgerServiceImpl) ListByRaffle(ctx context.Context, raffleID primitive.ObjectID) ([]*models.RaffleNumber, error) {
	if _, err := s.raffleRepo.FindByID(ctx, raffleID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("raffle %s: %w", raffleID.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up raffle: %w", err)
	}

	if released, err := s.numberRepo.ReleaseExpired(ctx, raffleID, time.Now()); err != nil {
		slog.Error("expiry sweep failed, returning best-effort data", "raffleId", raffleID.Hex(), "error", err)
	} else if released > 0 {
		slog.Info("expired reservations reclaimed", "raffleId", raffleID.Hex(), "count", released)
	}

	numbers, err := s.numberRepo.FindByRaffle(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list numbers: %w", err)
	}
	return numbers, nil
}

// GetDetails returns the owner's view of a held number. If the hold has
// expired the number is released and the caller gets ErrGone: they must
// learn their hold evaporated, not see fresh "available" data.
func (s *LedgerServiceImpl) GetDetails(ctx context.Context, caller models.Identity, numberID primitive.ObjectID) (*models.NumberDetails, error) {
	callerID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid caller id: %w", err)
	}

	n, err := s.numberRepo.FindByID(ctx, numberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("number %s: %w", numberID.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up number: %w", err)
	}

	if n.HolderID == nil || *n.HolderID != callerID {
		return nil, apperrors.ErrForbidden
	}

	if n.Expired(time.Now()) {
		if err := s.numberRepo.Release(ctx, n.ID); err != nil {
			slog.Error("failed to release expired hold", "numberId", n.ID.Hex(), "error", err)
		}
		return nil, fmt.Errorf("hold on number %s: %w", n.Number, apperrors.ErrGone)
	}

	raffle, err := s.raffleRepo.FindByID(ctx, n.RaffleID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up raffle: %w", err)
	}

	return &models.NumberDetails{
		ID:          n.ID,
		Number:      n.Number,
		Status:      n.Status,
		ReservedAt:  n.ReservedAt,
		ExpiresAt:   n.ExpiresAt,
		RaffleName:  raffle.Name,
		DrawDate:    raffle.DrawDate,
		TicketPrice: raffle.TicketPrice,
	}, nil
}

// GetUserNumbers returns the caller's numbers with raffle data and the
// latest payment status attached.
func (s *LedgerServiceImpl) GetUserNumbers(ctx context.Context, caller models.Identity) ([]*models.UserNumber, error) {
	callerID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid caller id: %w", err)
	}

	numbers, err := s.numberRepo.FindByHolder(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holder numbers: %w", err)
	}

	payments, err := s.paymentRepo.FindByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	// FindByUser is newest-first, so the first payment seen per number
	// is the latest.
	latest := make(map[primitive.ObjectID]models.PaymentStatus)
	for _, p := range payments {
		if _, ok := latest[p.RaffleNumberID]; !ok {
			latest[p.RaffleNumberID] = p.Status
		}
	}

	raffles := make(map[primitive.ObjectID]*models.Raffle)
	result := make([]*models.UserNumber, 0, len(numbers))
	for _, n := range numbers {
		raffle, ok := raffles[n.RaffleID]
		if !ok {
			raffle, err = s.raffleRepo.FindByID(ctx, n.RaffleID)
			if err != nil {
				return nil, fmt.Errorf("failed to look up raffle: %w", err)
			}
			raffles[n.RaffleID] = raffle
		}
		result = append(result, &models.UserNumber{
			RaffleNumber:  *n,
			RaffleName:    raffle.Name,
			DrawDate:      raffle.DrawDate,
			TicketPrice:   raffle.TicketPrice,
			PaymentStatus: latest[n.ID],
		})
	}
	return result, nil
}
