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
)

// Compile-time check to ensure PaymentServiceImpl implements PaymentService
var _ PaymentService = (*PaymentServiceImpl)(nil)

type PaymentServiceImpl struct {
	paymentRepo repositories.PaymentRepository
	numberRepo  repositories.RaffleNumberRepository
	raffleRepo  repositories.RaffleRepository
	userRepo    repositories.UserRepository
	methods     config.PaymentMethodsConfig
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, numberRepo repositories.RaffleNumberRepository, raffleRepo repositories.RaffleRepository, userRepo repositories.UserRepository, methods config.PaymentMethodsConfig) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo: paymentRepo,
		numberRepo:  numberRepo,
		raffleRepo:  raffleRepo,
		userRepo:    userRepo,
		methods:     methods,
	}
}

// Submit files a pending payment claim against a number the caller
// currently holds as reserved. It never touches ledger state.
func (s *PaymentServiceImpl) Submit(ctx context.Context, caller models.Identity, req *models.SubmitPaymentRequest) (*models.Payment, error) {
	callerID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid caller id: %w", err)
	}

	method := models.PaymentMethodName(req.Method)
	if !method.Valid() {
		return nil, fmt.Errorf("unknown payment method %q: %w", req.Method, apperrors.ErrInvalidState)
	}

	numberID, err := primitive.ObjectIDFromHex(req.RaffleNumberID)
	if err != nil {
		return nil, fmt.Errorf("invalid number id %q: %w", req.RaffleNumberID, apperrors.ErrNotFound)
	}

	n, err := s.numberRepo.FindByID(ctx, numberID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("number %s: %w", req.RaffleNumberID, apperrors.ErrNotFound)
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

	if n.Status != models.NumberStatusReserved {
		return nil, fmt.Errorf("number %s is %s, not reserved: %w", n.Number, n.Status, apperrors.ErrInvalidState)
	}

	pending, err := s.paymentRepo.HasPendingForNumber(ctx, n.ID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending payments: %w", err)
	}
	if pending {
		return nil, fmt.Errorf("number %s already has a pending payment: %w", n.Number, apperrors.ErrConflict)
	}

	payment := &models.Payment{
		RaffleNumberID: n.ID,
		UserID:         callerID,
		Method:         method,
		Amount:         req.Amount,
		Reference:      req.Reference,
		ProofURI:       req.ProofURI,
		Status:         models.PaymentStatusPending,
		Notes:          req.Notes,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	slog.Info("payment submitted", "paymentId", payment.ID.Hex(), "number", n.Number, "method", method, "amount", req.Amount)
	return payment, nil
}

// Get returns a payment to its submitter or to staff
func (s *PaymentServiceImpl) Get(ctx context.Context, caller models.Identity, id primitive.ObjectID) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("payment %s: %w", id.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	if !caller.IsStaff() && payment.UserID.Hex() != caller.UserID {
		return nil, apperrors.ErrForbidden
	}
	return payment, nil
}

// ListAll is the staff payment queue, joined with number, raffle and
// user data and optionally filtered by status and method.
func (s *PaymentServiceImpl) ListAll(ctx context.Context, caller models.Identity, filter models.PaymentFilter) ([]*models.PaymentView, error) {
	if !caller.IsStaff() {
		return nil, apperrors.ErrForbidden
	}

	payments, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return s.buildViews(ctx, payments)
}

// ListByUser returns the caller's own payment history
func (s *PaymentServiceImpl) ListByUser(ctx context.Context, caller models.Identity) ([]*models.Payment, error) {
	callerID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid caller id: %w", err)
	}

	payments, err := s.paymentRepo.FindByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// ListMethods returns the payment method catalog shown on the payment form
func (s *PaymentServiceImpl) ListMethods(ctx context.Context) []models.PaymentMethod {
	return MethodCatalog(s.methods)
}

func (s *PaymentServiceImpl) buildViews(ctx context.Context, payments []*models.Payment) ([]*models.PaymentView, error) {
	numbers := make(map[primitive.ObjectID]*models.RaffleNumber)
	raffles := make(map[primitive.ObjectID]*models.Raffle)
	users := make(map[primitive.ObjectID]*models.User)

	views := make([]*models.PaymentView, 0, len(payments))
	for _, p := range payments {
		view := &models.PaymentView{Payment: *p}

		n, ok := numbers[p.RaffleNumberID]
		if !ok {
			var err error
			n, err = s.numberRepo.FindByID(ctx, p.RaffleNumberID)
			if err != nil {
				return nil, fmt.Errorf("failed to look up number: %w", err)
			}
			numbers[p.RaffleNumberID] = n
		}
		view.Number = n.Number

		raffle, ok := raffles[n.RaffleID]
		if !ok {
			var err error
			raffle, err = s.raffleRepo.FindByID(ctx, n.RaffleID)
			if err != nil {
				return nil, fmt.Errorf("failed to look up raffle: %w", err)
			}
			raffles[n.RaffleID] = raffle
		}
		view.RaffleName = raffle.Name

		user, ok := users[p.UserID]
		if !ok {
			var err error
			user, err = s.userRepo.FindByID(ctx, p.UserID)
			if err != nil {
				return nil, fmt.Errorf("failed to look up user: %w", err)
			}
			users[p.UserID] = user
		}
		view.UserName = user.FullName
		view.UserEmail = user.Email
		view.UserPhone = user.Phone

		views = append(views, view)
	}
	return views, nil
}
