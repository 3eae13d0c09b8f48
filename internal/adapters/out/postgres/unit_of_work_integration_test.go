package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	postgres_adapter "escrow/internal/adapters/out/postgres"
	"escrow/internal/adapters/out/postgres/pgtest"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/ddd"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...ddd.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// UnitOfWorkIntegrationTestSuite exercises the unit of work and every
// repository it hands out against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database  *pgtest.Database
	publisher *MockEventPublisher
	factory   ports.UnitOfWorkFactory

	buyer, seller, admin kernel.Actor
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background(), postgres_adapter.Models()...)
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate(
		"order_status_history", "orders", "disputes", "verification_proofs", "transactions", "members", "ratings",
	))
	suite.publisher = new(MockEventPublisher)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.database.DB, suite.publisher, nil)

	suite.buyer = suite.actor(kernel.RoleBuyer)
	suite.seller = suite.actor(kernel.RoleSeller)
	suite.admin = suite.actor(kernel.RoleAdmin)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesIndependentInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.DisputeRepository())
	suite.NotNil(uow1.ProofRepository())
	suite.NotNil(uow1.TransactionRepository())
	suite.NotNil(uow1.MemberDirectory())
	suite.NotNil(uow1.RatingRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().Error(uow.Rollback(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin reuses the open transaction")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PublishesEventsAfterCommit() {
	ctx := suite.T().Context()
	o := suite.newOrder()

	suite.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []ddd.DomainEvent) bool {
		return len(events) == 1 && events[0].EventName() == order.StatusChangedEventName
	})).Run(func(mock.Arguments) {
		// The order must already be visible outside the transaction.
		var count int64
		suite.database.DB.Table("orders").Where("id = ?", o.ID().Bytes()).Count(&count)
		suite.Equal(int64(1), count)
	}).Return(nil).Once()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	suite.publisher.AssertExpectations(suite.T())
	suite.Empty(o.DomainEvents())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsWritesAndEvents() {
	ctx := suite.T().Context()
	o := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PublishFailureKeepsCommittedState() {
	ctx := suite.T().Context()
	o := suite.newOrder()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDisputes_OneActivePerOrder() {
	ctx := suite.T().Context()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	orderID := kernel.NewUUID()

	first := suite.newDispute(orderID)
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.DisputeRepository().Add(ctx, first) })

	second := suite.newDispute(orderID)
	err := suite.inTxErr(func(uow ports.UnitOfWork) error { return uow.DisputeRepository().Add(ctx, second) })
	suite.Require().ErrorIs(err, errs.ErrPreconditionFailed)
	suite.Require().ErrorIs(err, order.ErrOrderNotDisputable)

	repo := suite.factory.Create().DisputeRepository()
	active, err := repo.HasActive(ctx, orderID)
	suite.Require().NoError(err)
	suite.True(active)

	loaded, err := repo.Get(ctx, first.ID())
	suite.Require().NoError(err)
	suite.Equal([]string{"crack.jpg"}, loaded.Evidence())
	stale, err := repo.Get(ctx, first.ID())
	suite.Require().NoError(err)

	penalty, err := dispute.NewPenalty(suite.seller.ID(), dispute.Strike, "damaged goods", t0)
	suite.Require().NoError(err)
	limits := dispute.RefundLimits{Total: kernel.MustMoney("120")}
	refund := kernel.MustMoney("30")
	resolution, err := dispute.NewResolution(dispute.PartialRefund, &refund, limits, &penalty, "split")
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.Resolve(resolution, suite.admin, t0.Add(time.Hour)))
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.DisputeRepository().Update(ctx, loaded) })

	release, err := dispute.NewResolution(dispute.ReleaseSeller, nil, limits, nil, "")
	suite.Require().NoError(err)
	suite.Require().NoError(stale.Resolve(release, suite.admin, t0.Add(time.Hour)))
	err = suite.inTxErr(func(uow ports.UnitOfWork) error { return uow.DisputeRepository().Update(ctx, stale) })
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)

	resolved, err := repo.Get(ctx, first.ID())
	suite.Require().NoError(err)
	suite.Equal(dispute.ResolvedPartial, resolved.Status())
	suite.Require().NotNil(resolved.Resolution())
	suite.Equal("30.00", resolved.Resolution().RefundAmount().String())
	suite.Require().NotNil(resolved.Resolution().Penalty())
	suite.Equal(dispute.Strike, resolved.Resolution().Penalty().Type)
	suite.True(resolved.Resolution().Penalty().UserID.IsEqual(suite.seller.ID()))

	again := suite.newDispute(orderID)
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.DisputeRepository().Add(ctx, again) })
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactions_UniqueReferenceAndCompletedType() {
	ctx := suite.T().Context()
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	orderID := kernel.NewUUID()
	seller := suite.seller.ID()

	payout := suite.completedTx(orderID, ledger.SellerPayout, seller, "TXN-1")
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.TransactionRepository().Add(ctx, payout) })

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	repo := uow.TransactionRepository()

	err := repo.Add(ctx, suite.completedTx(orderID, ledger.Refund, suite.buyer.ID(), "TXN-1"))
	suite.Require().ErrorIs(err, errs.ErrIntegrityViolation)
	suite.Require().ErrorIs(err, ledger.ErrReferenceCollision)

	err = repo.Add(ctx, suite.completedTx(orderID, ledger.SellerPayout, seller, "TXN-2"))
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)

	// The savepoint keeps the surrounding transaction usable.
	commission := suite.completedTx(orderID, ledger.PlatformCommission, kernel.SystemActor().ID(), "TXN-3")
	suite.Require().NoError(repo.Add(ctx, commission))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create().TransactionRepository()
	found, err := reader.FindCompleted(ctx, orderID, ledger.SellerPayout)
	suite.Require().NoError(err)
	suite.Equal("TXN-1", found.Reference())
	suite.Equal("95.00", found.Amount().String())
	suite.Require().NotNil(found.To())
	suite.True(found.To().IsEqual(seller))

	_, err = reader.FindCompleted(ctx, orderID, ledger.Refund)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	taken, err := reader.ReferenceExists(ctx, "TXN-3")
	suite.Require().NoError(err)
	suite.True(taken)
	taken, err = reader.ReferenceExists(ctx, "TXN-2")
	suite.Require().NoError(err)
	suite.False(taken)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestProofs_OnePerCheckpoint() {
	ctx := suite.T().Context()
	orderID := kernel.NewUUID()
	accuracy := 12.5

	proof, err := verification.NewProof(orderID, verification.Pickup, []string{"p1.jpg", "p2.jpg"}, 5.6037, -0.187, &accuracy,
		"123456", kernel.NewUUID(), t0)
	suite.Require().NoError(err)
	suite.Require().NoError(proof.Confirm(mustCode(suite, "123456")))
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.ProofRepository().Add(ctx, proof) })

	dup, err := verification.NewProof(orderID, verification.Pickup, []string{"p3.jpg", "p4.jpg"}, 5.6, -0.18, nil,
		"123456", kernel.NewUUID(), t0)
	suite.Require().NoError(err)
	err = suite.inTxErr(func(uow ports.UnitOfWork) error { return uow.ProofRepository().Add(ctx, dup) })
	suite.Require().ErrorIs(err, verification.ErrAlreadyVerified)

	repo := suite.factory.Create().ProofRepository()
	found, err := repo.Find(ctx, orderID, verification.Pickup)
	suite.Require().NoError(err)
	suite.True(found.IsConfirmed())
	suite.Equal([]string{"p1.jpg", "p2.jpg"}, found.Photos())
	suite.InDelta(5.6037, found.Location().Latitude(), 1e-9)
	suite.Require().NotNil(found.Location().Accuracy())
	suite.InDelta(12.5, *found.Location().Accuracy(), 1e-9)

	_, err = repo.Find(ctx, orderID, verification.Delivery)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMembers_VersionedWrites() {
	ctx := suite.T().Context()
	courier, err := party.NewMember(kernel.NewUUID(), kernel.RoleCourier, party.Available)
	suite.Require().NoError(err)
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.MemberDirectory().Add(ctx, courier) })

	repo := suite.factory.Create().MemberDirectory()
	first, err := repo.Get(ctx, courier.ID())
	suite.Require().NoError(err)
	second, err := repo.Get(ctx, courier.ID())
	suite.Require().NoError(err)
	suite.Equal(courier.Version(), first.Version())

	suite.Require().NoError(first.SetAvailability(party.Busy))
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.MemberDirectory().Update(ctx, first) })

	second.AddStrike()
	err = suite.inTxErr(func(uow ports.UnitOfWork) error { return uow.MemberDirectory().Update(ctx, second) })
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)

	stored, err := repo.Get(ctx, courier.ID())
	suite.Require().NoError(err)
	suite.Equal(party.Busy, stored.Availability())
	suite.Equal(0, stored.Strikes())

	_, err = repo.Get(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRatings_OncePerRaterAndOrder() {
	ctx := suite.T().Context()
	orderID := kernel.NewUUID()
	rating, err := party.NewRating(orderID, suite.buyer.ID(), suite.seller.ID(), 4, "as described", party.BuyerToSeller, t0)
	suite.Require().NoError(err)
	suite.inTx(func(uow ports.UnitOfWork) error { return uow.RatingRepository().Add(ctx, rating) })

	again, err := party.NewRating(orderID, suite.buyer.ID(), suite.seller.ID(), 1, "", party.BuyerToSeller, t0)
	suite.Require().NoError(err)
	err = suite.inTxErr(func(uow ports.UnitOfWork) error { return uow.RatingRepository().Add(ctx, again) })
	suite.Require().ErrorIs(err, party.ErrAlreadyRated)

	repo := suite.factory.Create().RatingRepository()
	exists, err := repo.Exists(ctx, orderID, suite.buyer.ID(), suite.seller.ID())
	suite.Require().NoError(err)
	suite.True(exists)
	exists, err = repo.Exists(ctx, orderID, suite.seller.ID(), suite.buyer.ID())
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *UnitOfWorkIntegrationTestSuite) inTx(fn func(uow ports.UnitOfWork) error) {
	suite.Require().NoError(suite.inTxErr(fn))
}

func (suite *UnitOfWorkIntegrationTestSuite) inTxErr(fn func(uow ports.UnitOfWork) error) error {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (suite *UnitOfWorkIntegrationTestSuite) actor(role kernel.Role) kernel.Actor {
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return a
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *order.Order {
	fees, err := pricing.ComputeFees(kernel.MustMoney("100"), pricing.DefaultDeliveryFee, pricing.DefaultCommissionRate)
	suite.Require().NoError(err)
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.Parties{ListingID: kernel.NewUUID(), BuyerID: suite.buyer.ID(), SellerID: suite.seller.ID()},
		fees, "Osu, Accra", "Tema Community 1", order.MTNMobileMoney,
		mustCode(suite, "111111"), mustCode(suite, "222222"), suite.buyer, t0,
	)
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) newDispute(orderID kernel.UUID) *dispute.Dispute {
	d, err := dispute.NewDispute(orderID, suite.buyer, "damaged", "Screen cracked on arrival", []string{"crack.jpg"}, t0)
	suite.Require().NoError(err)
	return d
}

func (suite *UnitOfWorkIntegrationTestSuite) completedTx(
	orderID kernel.UUID,
	txType ledger.TransactionType,
	to kernel.UUID,
	reference string,
) *ledger.Transaction {
	tx, err := ledger.NewTransaction(orderID, ledger.Entry{
		Type:        txType,
		Amount:      kernel.MustMoney("95"),
		To:          &to,
		Description: txType.String(),
	}, reference, t0)
	suite.Require().NoError(err)
	suite.Require().NoError(tx.Complete(t0))
	return tx
}

func mustCode(suite *UnitOfWorkIntegrationTestSuite, digits string) verification.Code {
	c, err := verification.NewCode(digits)
	suite.Require().NoError(err)
	return c
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
