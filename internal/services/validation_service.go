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
	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/repositories"
)

// Compile-time check to ensure ValidationServiceImpl implements ValidationService
var _ ValidationService = (*ValidationServiceImpl)(nil)

// ValidationServiceImpl is the only component that writes to both the
// payment store and the ticket ledger. The two writes of each decision
// run inside one transaction: a crash between them must never leave a
// validated payment next to an unsold number, or a sold number next to
// a pending payment.
type ValidationServiceImpl struct {
	paymentRepo repositories.PaymentRepository
	numberRepo  repositories.RaffleNumberRepository
	tx          repositories.TxRunner
}

func NewValidationService(paymentRepo repositories.PaymentRepository, numberRepo repositories.RaffleNumberRepository, tx repositories.TxRunner) *ValidationServiceImpl {
	return &ValidationServiceImpl{
		paymentRepo: paymentRepo,
		numberRepo:  numberRepo,
		tx:          tx,
	}
}

// Validate accepts a pending payment and marks its number sold.
func (s *ValidationServiceImpl) Validate(ctx context.Context, caller models.Identity, paymentID primitive.ObjectID, notes string) (*models.Payment, error) {
	return s.resolve(ctx, caller, paymentID, models.PaymentStatusValidated, notes)
}

// Reject declines a pending payment and returns its number to the
// pool, where anyone, including a different user, may reserve it.
func (s *ValidationServiceImpl) Reject(ctx context.Context, caller models.Identity, paymentID primitive.ObjectID, notes string) (*models.Payment, error) {
	return s.resolve(ctx, caller, paymentID, models.PaymentStatusRejected, notes)
}

func (s *ValidationServiceImpl) resolve(ctx context.Context, caller models.Identity, paymentID primitive.ObjectID, target models.PaymentStatus, notes string) (*models.Payment, error) {
	if !caller.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	staffID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid staff id: %w", err)
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		payment, err := s.paymentRepo.FindByID(txCtx, paymentID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("payment %s: %w", paymentID.Hex(), apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to look up payment: %w", err)
		}

		if payment.Status != models.PaymentStatusPending {
			return fmt.Errorf("payment is %s: %w", payment.Status, apperrors.ErrAlreadyResolved)
		}

		now := time.Now()

		// Compare-and-set out of pending: when two staff race, only
		// one of them matches the document.
		ok, err := s.paymentRepo.Resolve(txCtx, paymentID, target, staffID, now, notes)
		if err != nil {
			return fmt.Errorf("failed to resolve payment: %w", err)
		}
		if !ok {
			return fmt.Errorf("payment %s: %w", paymentID.Hex(), apperrors.ErrAlreadyResolved)
		}

		// The decision only binds if the payer still holds the number.
		// After a lapsed hold is swept and re-reserved by someone else,
		// the payment is orphaned: it must never sell or release the new
		// holder's reservation.
		n, err := s.numberRepo.FindByID(txCtx, payment.RaffleNumberID)
		if err != nil {
			return fmt.Errorf("failed to look up number: %w", err)
		}
		heldByPayer := n.Status == models.NumberStatusReserved && n.HolderID != nil && *n.HolderID == payment.UserID

		switch target {
		case models.PaymentStatusValidated:
			if !heldByPayer {
				// Aborting rolls the payment back to pending for staff
				// to reject instead.
				return fmt.Errorf("number %s is no longer held by the payer: %w", n.Number, apperrors.ErrInvalidState)
			}
			sold, err := s.numberRepo.MarkSold(txCtx, payment.RaffleNumberID, payment.UserID, now)
			if err != nil {
				return fmt.Errorf("failed to mark number sold: %w", err)
			}
			if !sold {
				return fmt.Errorf("number %s is no longer reserved: %w", n.Number, apperrors.ErrInvalidState)
			}
		case models.PaymentStatusRejected:
			if heldByPayer {
				if err := s.numberRepo.Release(txCtx, payment.RaffleNumberID); err != nil {
					return fmt.Errorf("failed to release number: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("payment resolved", "paymentId", paymentID.Hex(), "status", target, "staffId", caller.UserID)

	resolved, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload payment: %w", err)
	}
	return resolved, nil
}
