package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"github.com/rifas-el-negro/raffle-backend/internal/apperrors"
	"github.com/rifas-el-negro/raffle-backend/internal/models"
	"github.com/rifas-el-negro/raffle-backend/internal/repositories"
	"github.com/rifas-el-negro/raffle-backend/internal/utils"
)

// Compile-time check to ensure RaffleServiceImpl implements RaffleService
var _ RaffleService = (*RaffleServiceImpl)(nil)

type RaffleServiceImpl struct {
	raffleRepo repositories.RaffleRepository
	numberRepo repositories.RaffleNumberRepository
}

func NewRaffleService(raffleRepo repositories.RaffleRepository, numberRepo repositories.RaffleNumberRepository) *RaffleServiceImpl {
	return &RaffleServiceImpl{
		raffleRepo: raffleRepo,
		numberRepo: numberRepo,
	}
}

// Create creates a raffle and bulk-creates its numbers 000-999, all
// available with no holder. The numbers exist for the raffle's whole
// lifetime; every later mutation goes through the ledger.
func (s *RaffleServiceImpl) Create(ctx context.Context, caller models.Identity, req *models.CreateRaffleRequest) (*models.Raffle, error) {
	if !caller.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	drawDate, err := time.Parse("2006-01-02", req.DrawDate)
	if err != nil {
		return nil, fmt.Errorf("invalid draw date %q: %w", req.DrawDate, err)
	}

	raffle := &models.Raffle{
		Name:        req.Name,
		Description: req.Description,
		TicketPrice: req.TicketPrice,
		DrawDate:    drawDate,
		FirstPrize:  req.FirstPrize,
		SecondPrize: req.SecondPrize,
		ThirdPrize:  req.ThirdPrize,
		Status:      models.RaffleStatusActive,
	}
	if err := s.raffleRepo.Create(ctx, raffle); err != nil {
		return nil, fmt.Errorf("failed to create raffle: %w", err)
	}

	numbers := make([]*models.RaffleNumber, 0, models.TotalNumbers)
	for i := 0; i < models.TotalNumbers; i++ {
		numbers = append(numbers, &models.RaffleNumber{
			RaffleID: raffle.ID,
			Number:   utils.FormatNumber(i),
			Value:    i,
			Status:   models.NumberStatusAvailable,
		})
	}
	if err := s.numberRepo.BulkCreate(ctx, numbers); err != nil {
		return nil, fmt.Errorf("failed to create raffle numbers: %w", err)
	}

	slog.Info("raffle created", "raffleId", raffle.ID.Hex(), "name", raffle.Name, "numbers", len(numbers))
	return raffle, nil
}

// ListActive returns the raffles open for number selection
func (s *RaffleServiceImpl) ListActive(ctx context.Context) ([]*models.Raffle, error) {
	raffles, err := s.raffleRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}
	return raffles, nil
}

// ListAll is the staff raffle listing with per-raffle sold counts
func (s *RaffleServiceImpl) ListAll(ctx context.Context, caller models.Identity) ([]*models.RaffleSummary, error) {
	if !caller.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	raffles, err := s.raffleRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list raffles: %w", err)
	}

	summaries := make([]*models.RaffleSummary, 0, len(raffles))
	for _, raffle := range raffles {
		sold, err := s.numberRepo.CountByRaffleAndStatus(ctx, raffle.ID, models.NumberStatusSold)
		if err != nil {
			return nil, fmt.Errorf("failed to count sold numbers: %w", err)
		}
		summaries = append(summaries, &models.RaffleSummary{
			Raffle:      *raffle,
			SoldNumbers: sold,
		})
	}
	return summaries, nil
}
