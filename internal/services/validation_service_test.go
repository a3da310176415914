package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rifas-el-negro/raffle-backend/internal/apperrors"
	"github.com/rifas-el-negro/raffle-backend/internal/models"
)

func newValidation(s *fakeStore) *ValidationServiceImpl {
	return NewValidationService(&fakePaymentRepo{s}, &fakeNumberRepo{s}, &fakeTxRunner{s})
}

// pendingPayment reserves the number for the holder and files a pending
// payment against it.
func pendingPayment(t *testing.T, s *fakeStore, number *models.RaffleNumber, holder *models.User) *models.Payment {
	t.Helper()
	s.reserveNumber(number, holder.ID, 15*time.Minute)
	payment := &models.Payment{
		RaffleNumberID: number.ID,
		UserID:         holder.ID,
		Method:         models.MethodPagoMovil,
		Amount:         400,
		Reference:      "REF123",
		Status:         models.PaymentStatusPending,
	}
	repo := &fakePaymentRepo{s}
	if err := repo.Create(context.Background(), payment); err != nil {
		t.Fatalf("seed payment failed: %v", err)
	}
	return payment
}

func TestValidateMarksNumberSold(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	raffle := store.addRaffle("test")
	number := store.addNumber(raffle.ID, 42, models.NumberStatusAvailable)
	holder := store.addUser(models.RoleUser)
	payment := pendingPayment(t, store, number, holder)
	staff := store.addUser(models.RoleAdmin)

	resolved, err := validation.Validate(context.Background(), userIdentity(staff), payment.ID, "matches bank statement")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if resolved.Status != models.PaymentStatusValidated {
		t.Errorf("expected validated payment, got %s", resolved.Status)
	}
	if resolved.ValidatedBy == nil || *resolved.ValidatedBy != staff.ID {
		t.Error("expected the validating staff recorded on the payment")
	}
	if resolved.ValidatedAt == nil {
		t.Error("expected a validation timestamp")
	}
	if resolved.Notes != "matches bank statement" {
		t.Errorf("expected notes kept, got %q", resolved.Notes)
	}

	got := store.number(number.ID)
	if got.Status != models.NumberStatusSold {
		t.Errorf("expected number sold, got %s", got.Status)
	}
	if got.SoldAt == nil {
		t.Error("expected a sale timestamp on the number")
	}
	if got.HolderID == nil || *got.HolderID != holder.ID {
		t.Error("expected the holder to keep the sold number")
	}
}

func TestRejectReturnsNumberToPool(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	ledger := newLedger(store)
	raffle := store.addRaffle("test")
	number := store.addNumber(raffle.ID, 42, models.NumberStatusAvailable)
	holder := store.addUser(models.RoleUser)
	payment := pendingPayment(t, store, number, holder)
	staff := store.addUser(models.RoleAdmin)

	resolved, err := validation.Reject(context.Background(), userIdentity(staff), payment.ID, "reference not found")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if resolved.Status != models.PaymentStatusRejected {
		t.Errorf("expected rejected payment, got %s", resolved.Status)
	}

	got := store.number(number.ID)
	if got.Status != models.NumberStatusAvailable {
		t.Errorf("expected number back in the pool, got %s", got.Status)
	}
	if got.HolderID != nil {
		t.Error("expected no holder after rejection")
	}

	// A different user can pick the number up again.
	other := userIdentity(store.addUser(models.RoleUser))
	if _, err := ledger.Reserve(context.Background(), other, number.ID); err != nil {
		t.Errorf("expected released number to be reservable, got %v", err)
	}
}

func TestResolveForbiddenForNonStaff(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	raffle := store.addRaffle("test")
	number := store.addNumber(raffle.ID, 42, models.NumberStatusAvailable)
	holder := store.addUser(models.RoleUser)
	payment := pendingPayment(t, store, number, holder)

	_, err := validation.Validate(context.Background(), userIdentity(holder), payment.ID, "")
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if got := store.payment(payment.ID); got.Status != models.PaymentStatusPending {
		t.Errorf("expected payment untouched, got %s", got.Status)
	}
}

func TestResolveUnknownPayment(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	staff := userIdentity(store.addUser(models.RoleAdmin))

	_, err := validation.Validate(context.Background(), staff, primitive.NewObjectID(), "")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveTwiceAlreadyResolved(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	raffle := store.addRaffle("test")
	number := store.addNumber(raffle.ID, 42, models.NumberStatusAvailable)
	holder := store.addUser(models.RoleUser)
	payment := pendingPayment(t, store, number, holder)
	staff := userIdentity(store.addUser(models.RoleAdmin))

	if _, err := validation.Validate(context.Background(), staff, payment.ID, ""); err != nil {
		t.Fatalf("first validate failed: %v", err)
	}
	_, err := validation.Reject(context.Background(), staff, payment.ID, "")
	if !errors.Is(err, apperrors.ErrAlreadyResolved) {
		t.Errorf("expected ErrAlreadyResolved, got %v", err)
	}

	// The first decision stands.
	if got := store.payment(payment.ID); got.Status != models.PaymentStatusValidated {
		t.Errorf("expected payment to stay validated, got %s", got.Status)
	}
	if got := store.number(number.ID); got.Status != models.NumberStatusSold {
		t.Errorf("expected number to stay sold, got %s", got.Status)
	}
}

func TestConcurrentResolveSingleWinner(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	raffle := store.addRaffle("test")
	number := store.addNumber(raffle.ID, 42, models.NumberStatusAvailable)
	holder := store.addUser(models.RoleUser)
	payment := pendingPayment(t, store, number, holder)
	staffA := userIdentity(store.addUser(models.RoleAdmin))
	staffB := userIdentity(store.addUser(models.RoleAdmin))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = validation.Validate(context.Background(), staffA, payment.ID, "")
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = validation.Reject(context.Background(), staffB, payment.ID, "")
	}()
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperrors.ErrAlreadyResolved):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected one winner and one ErrAlreadyResolved, got %d wins, %d losses", wins, losses)
	}

	// The ledger matches whichever decision won.
	got := store.number(number.ID)
	switch store.payment(payment.ID).Status {
	case models.PaymentStatusValidated:
		if got.Status != models.NumberStatusSold {
			t.Errorf("validated payment with number %s", got.Status)
		}
	case models.PaymentStatusRejected:
		if got.Status != models.NumberStatusAvailable {
			t.Errorf("rejected payment with number %s", got.Status)
		}
	default:
		t.Errorf("payment left %s", store.payment(payment.ID).Status)
	}
}

func TestResolveStalePaymentAfterReReservation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	raffle := store.addRaffle("test")
	number := store.addNumber(raffle.ID, 42, models.NumberStatusAvailable)
	first := store.addUser(models.RoleUser)
	payment := pendingPayment(t, store, number, first)
	staff := userIdentity(store.addUser(models.RoleAdmin))

	// The first hold lapses, is swept, and a different user picks the
	// number up. The stale payment is now orphaned from the live hold.
	numberRepo := &fakeNumberRepo{store}
	if err := numberRepo.Release(context.Background(), number.ID); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	second := store.addUser(models.RoleUser)
	store.reserveNumber(number, second.ID, 15*time.Minute)

	// Validating the stale payment must never sell the new holder's
	// reservation out from under them.
	_, err := validation.Validate(context.Background(), staff, payment.ID, "")
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if got := store.payment(payment.ID); got.Status != models.PaymentStatusPending {
		t.Errorf("expected payment rolled back to pending, got %s", got.Status)
	}
	got := store.number(number.ID)
	if got.Status != models.NumberStatusReserved {
		t.Errorf("expected the live hold untouched, got %s", got.Status)
	}
	if got.HolderID == nil || *got.HolderID != second.ID {
		t.Error("expected the second user to keep the number")
	}

	// Rejecting the orphan resolves the payment without releasing the
	// live hold.
	resolved, err := validation.Reject(context.Background(), staff, payment.ID, "hold lapsed")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if resolved.Status != models.PaymentStatusRejected {
		t.Errorf("expected rejected payment, got %s", resolved.Status)
	}
	got = store.number(number.ID)
	if got.Status != models.NumberStatusReserved || got.HolderID == nil || *got.HolderID != second.ID {
		t.Error("expected the second user's hold to survive the rejection")
	}
}

func TestValidateAfterHoldLapsedRollsBack(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	validation := newValidation(store)
	raffle := store.addRaffle("test")
	number := store.addNumber(raffle.ID, 42, models.NumberStatusAvailable)
	holder := store.addUser(models.RoleUser)
	payment := pendingPayment(t, store, number, holder)
	staff := userIdentity(store.addUser(models.RoleAdmin))

	// The hold lapses and a sweep releases the number before staff get
	// to the payment.
	numberRepo := &fakeNumberRepo{store}
	if err := numberRepo.Release(context.Background(), number.ID); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	_, err := validation.Validate(context.Background(), staff, payment.ID, "")
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	// The aborted transaction leaves the payment pending so staff can
	// reject it instead.
	if got := store.payment(payment.ID); got.Status != models.PaymentStatusPending {
		t.Errorf("expected payment rolled back to pending, got %s", got.Status)
	}
	if got := store.number(number.ID); got.Status != models.NumberStatusAvailable {
		t.Errorf("expected number to stay available, got %s", got.Status)
	}

	if _, err := validation.Reject(context.Background(), staff, payment.ID, "hold lapsed"); err != nil {
		t.Errorf("expected reject of the rolled-back payment to work, got %v", err)
	}
}
