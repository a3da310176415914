package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rifas-el-negro/raffle-backend/internal/models"
)

// fakeStore is an in-memory stand-in for the mongo collections. The
// conditional updates take the store lock, so the compare-and-set
// contract of the real repositories holds under concurrent tests.
type fakeStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	numbers   map[primitive.ObjectID]*models.RaffleNumber
	payments  map[primitive.ObjectID]*models.Payment
	raffles   map[primitive.ObjectID]*models.Raffle
	users     map[primitive.ObjectID]*models.User
	failSweep bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		numbers:  make(map[primitive.ObjectID]*models.RaffleNumber),
		payments: make(map[primitive.ObjectID]*models.Payment),
		raffles:  make(map[primitive.ObjectID]*models.Raffle),
		users:    make(map[primitive.ObjectID]*models.User),
	}
}

func (s *fakeStore) addRaffle(name string) *models.Raffle {
	s.mu.Lock()
	defer s.mu.Unlock()
	raffle := &models.Raffle{
		ID:          primitive.NewObjectID(),
		Name:        name,
		TicketPrice: 400,
		DrawDate:    time.Now().Add(30 * 24 * time.Hour),
		Status:      models.RaffleStatusActive,
		CreatedAt:   time.Now(),
	}
	s.raffles[raffle.ID] = raffle
	return raffle
}

func (s *fakeStore) addUser(role models.Role) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Email:    primitive.NewObjectID().Hex() + "@example.com",
		FullName: "Test User",
		Role:     role,
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) addNumber(raffleID primitive.ObjectID, value int, status models.NumberStatus) *models.RaffleNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &models.RaffleNumber{
		ID:       primitive.NewObjectID(),
		RaffleID: raffleID,
		Number:   formatValue(value),
		Value:    value,
		Status:   status,
	}
	s.numbers[n.ID] = n
	return n
}

func (s *fakeStore) reserveNumber(n *models.RaffleNumber, holderID primitive.ObjectID, expiresIn time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.numbers[n.ID]
	reservedAt := time.Now().Add(expiresIn).Add(-15 * time.Minute)
	expiresAt := time.Now().Add(expiresIn)
	stored.Status = models.NumberStatusReserved
	stored.HolderID = &holderID
	stored.ReservedAt = &reservedAt
	stored.ExpiresAt = &expiresAt
	*n = *stored
}

func (s *fakeStore) number(id primitive.ObjectID) *models.RaffleNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := *s.numbers[id]
	return &n
}

func (s *fakeStore) payment(id primitive.ObjectID) *models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *s.payments[id]
	return &p
}

func formatValue(value int) string {
	digits := []byte{'0', '0', '0'}
	for i := 2; i >= 0 && value > 0; i-- {
		digits[i] = byte('0' + value%10)
		value /= 10
	}
	return string(digits)
}

// --- RaffleNumberRepository fake ---

type fakeNumberRepo struct {
	s *fakeStore
}

func (r *fakeNumberRepo) BulkCreate(_ context.Context, numbers []*models.RaffleNumber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range numbers {
		n.ID = primitive.NewObjectID()
		stored := *n
		r.s.numbers[n.ID] = &stored
	}
	return nil
}

func (r *fakeNumberRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.RaffleNumber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.numbers[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *n
	return &c, nil
}

func (r *fakeNumberRepo) FindByRaffleAndNumber(_ context.Context, raffleID primitive.ObjectID, number string) (*models.RaffleNumber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.numbers {
		if n.RaffleID == raffleID && n.Number == number {
			c := *n
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeNumberRepo) FindByRaffle(_ context.Context, raffleID primitive.ObjectID) ([]*models.RaffleNumber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*models.RaffleNumber
	for _, n := range r.s.numbers {
		if n.RaffleID == raffleID {
			c := *n
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result, nil
}

func (r *fakeNumberRepo) FindByHolder(_ context.Context, holderID primitive.ObjectID) ([]*models.RaffleNumber, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*models.RaffleNumber
	for _, n := range r.s.numbers {
		if n.HolderID != nil && *n.HolderID == holderID {
			c := *n
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r *fakeNumberRepo) Reserve(_ context.Context, id, holderID primitive.ObjectID, reservedAt, expiresAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.numbers[id]
	if !ok || n.Status != models.NumberStatusAvailable {
		return false, nil
	}
	n.Status = models.NumberStatusReserved
	n.HolderID = &holderID
	n.ReservedAt = &reservedAt
	n.ExpiresAt = &expiresAt
	return true, nil
}

func (r *fakeNumberRepo) Release(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.numbers[id]
	if !ok || n.Status != models.NumberStatusReserved {
		return nil
	}
	n.Status = models.NumberStatusAvailable
	n.HolderID = nil
	n.ReservedAt = nil
	n.ExpiresAt = nil
	return nil
}

func (r *fakeNumberRepo) ReleaseExpired(_ context.Context, raffleID primitive.ObjectID, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSweep {
		return 0, errors.New("sweep unavailable")
	}
	var released int64
	for _, n := range r.s.numbers {
		if n.RaffleID == raffleID && n.Status == models.NumberStatusReserved && n.ExpiresAt != nil && n.ExpiresAt.Before(now) {
			n.Status = models.NumberStatusAvailable
			n.HolderID = nil
			n.ReservedAt = nil
			n.ExpiresAt = nil
			released++
		}
	}
	return released, nil
}

func (r *fakeNumberRepo) MarkSold(_ context.Context, id, holderID primitive.ObjectID, soldAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.numbers[id]
	if !ok || n.Status != models.NumberStatusReserved || n.HolderID == nil || *n.HolderID != holderID {
		return false, nil
	}
	n.Status = models.NumberStatusSold
	n.SoldAt = &soldAt
	n.ReservedAt = nil
	n.ExpiresAt = nil
	return true, nil
}

func (r *fakeNumberRepo) CountByStatus(_ context.Context, status models.NumberStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.numbers {
		if n.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeNumberRepo) CountByRaffleAndStatus(_ context.Context, raffleID primitive.ObjectID, status models.NumberStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, n := range r.s.numbers {
		if n.RaffleID == raffleID && n.Status == status {
			count++
		}
	}
	return count, nil
}

// --- PaymentRepository fake ---

type fakePaymentRepo struct {
	s *fakeStore
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	payment.ID = primitive.NewObjectID()
	payment.CreatedAt = time.Now()
	stored := *payment
	r.s.payments[payment.ID] = &stored
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *p
	return &c, nil
}

func (r *fakePaymentRepo) HasPendingForNumber(_ context.Context, numberID, userID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.RaffleNumberID == numberID && p.UserID == userID && p.Status == models.PaymentStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) FindAll(_ context.Context, filter models.PaymentFilter) ([]*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*models.Payment
	for _, p := range r.s.payments {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		c := *p
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakePaymentRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*models.Payment
	for _, p := range r.s.payments {
		if p.UserID == userID {
			c := *p
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakePaymentRepo) FindRecent(ctx context.Context, limit int) ([]*models.Payment, error) {
	all, err := r.FindAll(ctx, models.PaymentFilter{})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakePaymentRepo) Resolve(_ context.Context, id primitive.ObjectID, status models.PaymentStatus, staffID primitive.ObjectID, at time.Time, notes string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.ValidatedBy = &staffID
	p.ValidatedAt = &at
	if notes != "" {
		p.Notes = notes
	}
	return true, nil
}

func (r *fakePaymentRepo) SumValidatedAmount(_ context.Context) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, p := range r.s.payments {
		if p.Status == models.PaymentStatusValidated {
			total += p.Amount
		}
	}
	return total, nil
}

func (r *fakePaymentRepo) CountByStatus(_ context.Context, status models.PaymentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, p := range r.s.payments {
		if p.Status == status {
			count++
		}
	}
	return count, nil
}

// --- RaffleRepository fake ---

type fakeRaffleRepo struct {
	s *fakeStore
}

func (r *fakeRaffleRepo) Create(_ context.Context, raffle *models.Raffle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	raffle.ID = primitive.NewObjectID()
	raffle.CreatedAt = time.Now()
	stored := *raffle
	r.s.raffles[raffle.ID] = &stored
	return nil
}

func (r *fakeRaffleRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Raffle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	raffle, ok := r.s.raffles[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *raffle
	return &c, nil
}

func (r *fakeRaffleRepo) FindActive(_ context.Context) ([]*models.Raffle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*models.Raffle
	for _, raffle := range r.s.raffles {
		if raffle.Status == models.RaffleStatusActive {
			c := *raffle
			result = append(result, &c)
		}
	}
	return result, nil
}

func (r *fakeRaffleRepo) FindAll(_ context.Context) ([]*models.Raffle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*models.Raffle
	for _, raffle := range r.s.raffles {
		c := *raffle
		result = append(result, &c)
	}
	return result, nil
}

func (r *fakeRaffleRepo) CountByStatus(_ context.Context, status models.RaffleStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, raffle := range r.s.raffles {
		if raffle.Status == status {
			count++
		}
	}
	return count, nil
}

// --- UserRepository fake ---

type fakeUserRepo struct {
	s *fakeStore
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			c := *user
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *user
	return &c, nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role models.Role) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, user := range r.s.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

// --- TxRunner fake ---

// fakeTxRunner snapshots the store before running fn and restores it if
// fn fails, mirroring the rollback of a real transaction. Transactions
// run one at a time under txMu, the way racing mongo transactions
// serialize on write conflicts.
type fakeTxRunner struct {
	s *fakeStore
}

func (t *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.Lock()
	numbers := make(map[primitive.ObjectID]models.RaffleNumber, len(t.s.numbers))
	for id, n := range t.s.numbers {
		numbers[id] = *n
	}
	payments := make(map[primitive.ObjectID]models.Payment, len(t.s.payments))
	for id, p := range t.s.payments {
		payments[id] = *p
	}
	t.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.s.mu.Lock()
		for id := range t.s.numbers {
			if snap, ok := numbers[id]; ok {
				restored := snap
				t.s.numbers[id] = &restored
			}
		}
		for id := range t.s.payments {
			if snap, ok := payments[id]; ok {
				restored := snap
				t.s.payments[id] = &restored
			}
		}
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// --- identity helpers ---

func userIdentity(user *models.User) models.Identity {
	return models.Identity{UserID: user.ID.Hex(), Email: user.Email, Role: user.Role}
}
