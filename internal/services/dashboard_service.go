package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"github.com/rifas-el-negro/raffle-backend/internal/apperrors"
	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/repositories"
)

const recentPaymentsLimit = 10

// Compile-time check to ensure DashboardServiceImpl implements DashboardService
var _ DashboardService = (*DashboardServiceImpl)(nil)

type DashboardServiceImpl struct {
	numberRepo  repositories.RaffleNumberRepository
	paymentRepo repositories.PaymentRepository
	raffleRepo  repositories.RaffleRepository
	userRepo    repositories.UserRepository
	payments    *PaymentServiceImpl
}

func NewDashboardService(numberRepo repositories.RaffleNumberRepository, paymentRepo repositories.PaymentRepository, raffleRepo repositories.RaffleRepository, userRepo repositories.UserRepository, payments *PaymentServiceImpl) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		numberRepo:  numberRepo,
		paymentRepo: paymentRepo,
		raffleRepo:  raffleRepo,
		userRepo:    userRepo,
		payments:    payments,
	}
}

// GetStats returns the staff dashboard aggregates: pure read
// projections over the ledger and payment store. Active raffles are
// swept first so the reserved count never includes lapsed holds.
func (s *DashboardServiceImpl) GetStats(ctx context.Context, caller models.Identity) (*models.DashboardStats, error) {
	if !caller.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	active, err := s.raffleRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active raffles: %w", err)
	}
	now := time.Now()
	for _, raffle := range active {
		if _, err := s.numberRepo.ReleaseExpired(ctx, raffle.ID, now); err != nil {
			slog.Error("expiry sweep failed, counts may include stale holds", "raffleId", raffle.ID.Hex(), "error", err)
		}
	}

	stats := &models.DashboardStats{ActiveRaffles: int64(len(active))}

	if stats.TotalUsers, err = s.userRepo.CountByRole(ctx, models.RoleUser); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if stats.NumbersSold, err = s.numberRepo.CountByStatus(ctx, models.NumberStatusSold); err != nil {
		return nil, fmt.Errorf("failed to count sold numbers: %w", err)
	}
	if stats.NumbersReserved, err = s.numberRepo.CountByStatus(ctx, models.NumberStatusReserved); err != nil {
		return nil, fmt.Errorf("failed to count reserved numbers: %w", err)
	}
	if stats.TotalRevenue, err = s.paymentRepo.SumValidatedAmount(ctx); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if stats.PendingPayments, err = s.paymentRepo.CountByStatus(ctx, models.PaymentStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending payments: %w", err)
	}

	recent, err := s.paymentRepo.FindRecent(ctx, recentPaymentsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	views, err := s.payments.buildViews(ctx, recent)
	if err != nil {
		return nil, err
	}
	stats.RecentPayments = views

	return stats, nil
}
