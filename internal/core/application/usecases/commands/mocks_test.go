package commands_test

import (
	"context"
	"time"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetDueForAutoConfirmation(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDisputeRepository struct{ mock.Mock }

func (m *MockDisputeRepository) Add(ctx context.Context, d *dispute.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDisputeRepository) Update(ctx context.Context, d *dispute.Dispute) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDisputeRepository) Get(ctx context.Context, id kernel.UUID) (*dispute.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispute.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) HasActive(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

type MockProofRepository struct{ mock.Mock }

func (m *MockProofRepository) Add(ctx context.Context, p *verification.Proof) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProofRepository) Find(ctx context.Context, orderID kernel.UUID, c verification.Checkpoint) (*verification.Proof, error) {
	args := m.Called(ctx, orderID, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*verification.Proof), args.Error(1)
}

type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Add(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindCompleted(
	ctx context.Context,
	orderID kernel.UUID,
	txType ledger.TransactionType,
) (*ledger.Transaction, error) {
	args := m.Called(ctx, orderID, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

type MockMemberDirectory struct{ mock.Mock }

func (m *MockMemberDirectory) Add(ctx context.Context, member *party.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberDirectory) Update(ctx context.Context, member *party.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberDirectory) Get(ctx context.Context, id kernel.UUID) (*party.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Member), args.Error(1)
}

type MockRatingRepository struct{ mock.Mock }

func (m *MockRatingRepository) Add(ctx context.Context, r *party.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) Exists(ctx context.Context, orderID, raterID, ratedUserID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID, raterID, ratedUserID)
	return args.Bool(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DisputeRepository() ports.DisputeRepository {
	args := m.Called()
	return args.Get(0).(ports.DisputeRepository)
}

func (m *MockUoW) ProofRepository() ports.ProofRepository {
	args := m.Called()
	return args.Get(0).(ports.ProofRepository)
}

func (m *MockUoW) TransactionRepository() ports.TransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.TransactionRepository)
}

func (m *MockUoW) MemberDirectory() ports.MemberDirectory {
	args := m.Called()
	return args.Get(0).(ports.MemberDirectory)
}

func (m *MockUoW) RatingRepository() ports.RatingRepository {
	args := m.Called()
	return args.Get(0).(ports.RatingRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

// mockSet wires one MockUoW to a full set of repository mocks. Accessors may
// be called any number of times; expectations go on the repositories.
type mockSet struct {
	factory  *MockUoWFactory
	uow      *MockUoW
	orders   *MockOrderRepository
	disputes *MockDisputeRepository
	proofs   *MockProofRepository
	txs      *MockTransactionRepository
	members  *MockMemberDirectory
	ratings  *MockRatingRepository
}

func newMockSet() *mockSet {
	s := &mockSet{
		factory:  new(MockUoWFactory),
		uow:      new(MockUoW),
		orders:   new(MockOrderRepository),
		disputes: new(MockDisputeRepository),
		proofs:   new(MockProofRepository),
		txs:      new(MockTransactionRepository),
		members:  new(MockMemberDirectory),
		ratings:  new(MockRatingRepository),
	}
	s.factory.On("Create").Return(s.uow)
	s.uow.On("OrderRepository").Return(s.orders).Maybe()
	s.uow.On("DisputeRepository").Return(s.disputes).Maybe()
	s.uow.On("ProofRepository").Return(s.proofs).Maybe()
	s.uow.On("TransactionRepository").Return(s.txs).Maybe()
	s.uow.On("MemberDirectory").Return(s.members).Maybe()
	s.uow.On("RatingRepository").Return(s.ratings).Maybe()
	return s
}

// expectTx expects a transaction that begins and is always rolled back by
// the deferred cleanup; committed says whether Commit must happen first.
func (s *mockSet) expectTx(ctx context.Context, committed bool) {
	s.uow.On("Begin", ctx).Return(nil)
	if committed {
		s.uow.On("Commit", ctx).Return(nil).Once()
	}
	s.uow.On("Rollback", ctx).Return(nil)
}

func (s *mockSet) assertExpectations(t mock.TestingT) {
	s.factory.AssertExpectations(t)
	s.uow.AssertExpectations(t)
	s.orders.AssertExpectations(t)
	s.disputes.AssertExpectations(t)
	s.proofs.AssertExpectations(t)
	s.txs.AssertExpectations(t)
	s.members.AssertExpectations(t)
	s.ratings.AssertExpectations(t)
}

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

var _ ports.Clock = (*fixedClock)(nil)
