package commands_test

import (
	"errors"
	"testing"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func notFound(id kernel.UUID) error {
	return errs.NewObjectNotFoundError("id", id)
}

func TestPlaceOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	orderID := kernel.NewUUID()
	fee := kernel.MustMoney("15")
	cmd, err := commands.NewPlaceOrderCommand(
		orderID,
		order.Parties{ListingID: kernel.NewUUID(), BuyerID: p.buyer.ID(), SellerID: p.seller.ID()},
		kernel.MustMoney("99.99"), &fee, order.VodafoneCash, "Osu", "Tema", p.buyer,
	)
	require.NoError(t, err)

	m := newMockSet()
	m.expectTx(ctx, true)
	var placed *order.Order
	mock.InOrder(
		m.members.On("Get", ctx, p.buyer.ID()).Return(nil, notFound(p.buyer.ID())).Once(),
		m.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { placed = args.Get(1).(*order.Order) }).
			Return(nil).Once(),
	)

	handler := commands.NewPlaceOrderCommandHandler(m.factory, &fixedClock{now: t0}, commands.DefaultFeeSettings())
	require.NoError(t, handler.Handle(ctx, cmd))

	m.assertExpectations(t)
	require.NotNil(t, placed)
	assert.Equal(t, orderID, placed.ID())
	assert.Equal(t, order.Pending, placed.Status())
	assert.Equal(t, "5.00", placed.Fees().PlatformCommission().String())
	assert.Equal(t, "94.99", placed.Fees().SellerPayout().String())
	assert.Equal(t, "114.99", placed.Fees().TotalAmount().String())
	require.NoError(t, placed.PickupCode().Validate())
	require.NoError(t, placed.DeliveryCode().Validate())
}

func TestPlaceOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	m := newMockSet()
	handler := commands.NewPlaceOrderCommandHandler(m.factory, &fixedClock{now: t0}, commands.DefaultFeeSettings())

	err := handler.Handle(t.Context(), commands.PlaceOrderCommand{})

	require.ErrorIs(t, err, commands.ErrPlaceOrderCommandIsNotConstructed)
	m.factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_OtherBuyerIsRejected(t *testing.T) {
	p := newParties(t)
	stranger := newActor(t, kernel.RoleBuyer)
	cmd, err := commands.NewPlaceOrderCommand(
		kernel.NewUUID(),
		order.Parties{ListingID: kernel.NewUUID(), BuyerID: p.buyer.ID(), SellerID: p.seller.ID()},
		kernel.MustMoney("10"), nil, order.BankTransfer, "Osu", "Tema", stranger,
	)
	require.NoError(t, err)

	m := newMockSet()
	err = commands.NewPlaceOrderCommandHandler(m.factory, &fixedClock{now: t0}, commands.DefaultFeeSettings()).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, kernel.ErrActorNotPermitted)
	m.factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	cmd, err := commands.NewPlaceOrderCommand(
		kernel.NewUUID(),
		order.Parties{ListingID: kernel.NewUUID(), BuyerID: p.buyer.ID(), SellerID: p.seller.ID()},
		kernel.MustMoney("10"), nil, order.BankTransfer, "Osu", "Tema", p.admin,
	)
	require.NoError(t, err)

	m := newMockSet()
	m.uow.On("Begin", ctx).Return(errors.New("begin error")).Once()

	err = commands.NewPlaceOrderCommandHandler(m.factory, &fixedClock{now: t0}, commands.DefaultFeeSettings()).Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	m.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestConfirmPaymentCommandHandler_Handle_RecordsHold(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	o := orderAt(t, p, order.Pending)
	cmd, err := commands.NewConfirmPaymentCommand(o.ID(), kernel.MustMoney("120"), "MOMO-9", kernel.SystemActor())
	require.NoError(t, err)

	m := newMockSet()
	m.expectTx(ctx, true)
	mock.InOrder(
		m.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		m.txs.On("FindCompleted", ctx, o.ID(), ledger.EscrowHold).Return(nil, notFound(o.ID())).Once(),
		m.txs.On("ReferenceExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once(),
		m.txs.On("Add", ctx, mock.MatchedBy(func(tx *ledger.Transaction) bool {
			return tx.Type() == ledger.EscrowHold && tx.Amount().String() == "120.00"
		})).Return(nil).Once(),
		m.orders.On("Update", ctx, o).Return(nil).Once(),
	)

	handler := commands.NewConfirmPaymentCommandHandler(m.factory, &fixedClock{now: t0}, commands.NewLedgerRecorder())
	require.NoError(t, handler.Handle(ctx, cmd))

	m.assertExpectations(t)
	assert.Equal(t, order.Paid, o.Status())
	assert.Equal(t, order.EscrowHeld, o.EscrowStatus())
}

func TestConfirmPaymentCommandHandler_Handle_UpdateConflictRollsBack(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	o := orderAt(t, p, order.Pending)
	cmd, err := commands.NewConfirmPaymentCommand(o.ID(), kernel.MustMoney("120"), "MOMO-9", kernel.SystemActor())
	require.NoError(t, err)

	m := newMockSet()
	m.expectTx(ctx, false)
	m.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	m.txs.On("FindCompleted", ctx, o.ID(), ledger.EscrowHold).Return(nil, notFound(o.ID())).Once()
	m.txs.On("ReferenceExists", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	m.txs.On("Add", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil).Once()
	m.orders.On("Update", ctx, o).Return(errs.NewConcurrentModificationError("order", o.ID())).Once()

	handler := commands.NewConfirmPaymentCommandHandler(m.factory, &fixedClock{now: t0}, commands.NewLedgerRecorder())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	m.uow.AssertNotCalled(t, "Commit", ctx)
	m.uow.AssertCalled(t, "Rollback", ctx)
}

func TestAssignCourierCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	o := orderAt(t, p, order.Paid)
	courier, err := party.NewMember(p.courier.ID(), kernel.RoleCourier, party.Available)
	require.NoError(t, err)
	cmd, err := commands.NewAssignCourierCommand(o.ID(), p.courier.ID(), p.admin)
	require.NoError(t, err)

	m := newMockSet()
	m.expectTx(ctx, true)
	mock.InOrder(
		m.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		m.members.On("Get", ctx, p.courier.ID()).Return(courier, nil).Once(),
		m.orders.On("Update", ctx, o).Return(nil).Once(),
		m.members.On("Update", ctx, courier).Return(nil).Once(),
	)

	require.NoError(t, commands.NewAssignCourierCommandHandler(m.factory, &fixedClock{now: t0}).Handle(ctx, cmd))

	m.assertExpectations(t)
	assert.Equal(t, order.CourierAssigned, o.Status())
	assert.Equal(t, party.Busy, courier.Availability())
}

func TestAssignCourierCommandHandler_Handle_UnavailableCourier(t *testing.T) {
	for _, availability := range []party.Availability{party.Busy, party.Offline} {
		t.Run(availability.String(), func(t *testing.T) {
			ctx := t.Context()
			p := newParties(t)
			o := orderAt(t, p, order.Paid)
			courier, err := party.NewMember(p.courier.ID(), kernel.RoleCourier, availability)
			require.NoError(t, err)
			cmd, err := commands.NewAssignCourierCommand(o.ID(), p.courier.ID(), p.admin)
			require.NoError(t, err)

			m := newMockSet()
			m.expectTx(ctx, false)
			m.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
			m.members.On("Get", ctx, p.courier.ID()).Return(courier, nil).Once()

			err = commands.NewAssignCourierCommandHandler(m.factory, &fixedClock{now: t0}).Handle(ctx, cmd)

			require.ErrorIs(t, err, errs.ErrPreconditionFailed)
			require.ErrorIs(t, err, party.ErrCourierUnavailable)
			assert.Equal(t, order.Paid, o.Status())
			m.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestAutoConfirmDeliveriesCommandHandler_Handle_SkipsLostRaces(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	won := orderAt(t, p, order.Delivered)
	lost := orderAt(t, p, order.Delivered)
	disputed := orderAt(t, p, order.Delivered)
	require.NoError(t, disputed.RaiseDispute(p.buyer, t0, "late"))

	m := newMockSet()
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback", ctx).Return(nil)
	m.uow.On("Commit", ctx).Return(nil).Once()

	m.orders.On("GetDueForAutoConfirmation", ctx, pastDeadline, 10).Return([]*order.Order{won, lost, disputed}, nil).Once()
	m.orders.On("Get", ctx, won.ID()).Return(won, nil).Once()
	m.orders.On("Get", ctx, lost.ID()).Return(lost, nil).Once()
	m.orders.On("Get", ctx, disputed.ID()).Return(disputed, nil).Once()
	m.txs.On("FindCompleted", ctx, mock.Anything, mock.Anything).Return(nil, notFound(won.ID()))
	m.txs.On("ReferenceExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	m.txs.On("Add", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil)
	m.orders.On("Update", ctx, won).Return(nil).Once()
	m.orders.On("Update", ctx, lost).Return(errs.NewConcurrentModificationError("order", lost.ID())).Once()

	cmd, err := commands.NewAutoConfirmDeliveriesCommand(10)
	require.NoError(t, err)
	handler := commands.NewAutoConfirmDeliveriesCommandHandler(m.factory, &fixedClock{now: pastDeadline}, commands.NewLedgerRecorder(), discardLogger())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.AutoConfirmResult{Due: 3, Completed: 1, Skipped: 2}, result)
	assert.True(t, won.AutoConfirmed())
	assert.Equal(t, order.Disputed, disputed.Status())
	m.orders.AssertExpectations(t)
}

func TestAutoConfirmDeliveriesCommandHandler_Handle_FailingOrderDoesNotBlockBatch(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	broken := orderAt(t, p, order.Delivered)
	next := orderAt(t, p, order.Delivered)

	m := newMockSet()
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback", ctx).Return(nil)
	m.uow.On("Commit", ctx).Return(nil).Once()
	m.orders.On("GetDueForAutoConfirmation", ctx, pastDeadline, commands.DefaultAutoConfirmBatchSize).
		Return([]*order.Order{broken, next}, nil).Once()
	m.orders.On("Get", ctx, broken.ID()).Return(nil, errors.New("connection refused")).Once()
	m.orders.On("Get", ctx, next.ID()).Return(next, nil).Once()
	m.txs.On("FindCompleted", ctx, mock.Anything, mock.Anything).Return(nil, notFound(next.ID()))
	m.txs.On("ReferenceExists", ctx, mock.AnythingOfType("string")).Return(false, nil)
	m.txs.On("Add", ctx, mock.AnythingOfType("*ledger.Transaction")).Return(nil)
	m.orders.On("Update", ctx, next).Return(nil).Once()

	cmd, err := commands.NewAutoConfirmDeliveriesCommand(commands.DefaultAutoConfirmBatchSize)
	require.NoError(t, err)
	handler := commands.NewAutoConfirmDeliveriesCommandHandler(m.factory, &fixedClock{now: pastDeadline}, commands.NewLedgerRecorder(), discardLogger())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.AutoConfirmResult{Due: 2, Completed: 1, Failed: 1}, result)
	assert.Equal(t, order.Delivered, broken.Status())
	assert.Equal(t, order.Completed, next.Status())
	m.orders.AssertExpectations(t)
}

func TestAutoConfirmDeliveriesCommandHandler_Handle_LookupErrorEndsRun(t *testing.T) {
	ctx := t.Context()

	m := newMockSet()
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback", ctx).Return(nil)
	m.orders.On("GetDueForAutoConfirmation", ctx, pastDeadline, commands.DefaultAutoConfirmBatchSize).
		Return(nil, errors.New("connection refused")).Once()

	cmd, err := commands.NewAutoConfirmDeliveriesCommand(commands.DefaultAutoConfirmBatchSize)
	require.NoError(t, err)
	handler := commands.NewAutoConfirmDeliveriesCommandHandler(m.factory, &fixedClock{now: pastDeadline}, commands.NewLedgerRecorder(), discardLogger())
	result, err := handler.Handle(ctx, cmd)

	require.EqualError(t, err, "connection refused")
	assert.Equal(t, commands.AutoConfirmResult{}, result)
	m.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestResolveDisputeCommandHandler_Handle_ResolvedDisputeWritesNothing(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	o := orderAt(t, p, order.Paid)
	d, err := dispute.NewDispute(o.ID(), p.buyer, "not-received", "Nothing arrived", nil, t0)
	require.NoError(t, err)
	resolution, err := dispute.NewResolution(dispute.RefundBuyer, nil, dispute.RefundLimits{Total: o.Fees().TotalAmount()}, nil, "")
	require.NoError(t, err)
	require.NoError(t, d.Resolve(resolution, p.admin, t0))

	cmd, err := commands.NewResolveDisputeCommand(d.ID(), dispute.ReleaseSeller, nil, nil, "", p.admin)
	require.NoError(t, err)

	m := newMockSet()
	m.expectTx(ctx, false)
	m.disputes.On("Get", ctx, d.ID()).Return(d, nil).Once()

	err = commands.NewResolveDisputeCommandHandler(m.factory, &fixedClock{now: t0}, commands.NewLedgerRecorder()).Handle(ctx, cmd)

	require.ErrorIs(t, err, dispute.ErrDisputeAlreadyResolved)
	m.orders.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	m.txs.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestResolveDisputeCommandHandler_Handle_PenaltyForOutsiderIsRejected(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)
	o := orderAt(t, p, order.Paid)
	require.NoError(t, o.RaiseDispute(p.buyer, t0, "late"))
	d, err := dispute.NewDispute(o.ID(), p.buyer, "late", "Still waiting", nil, t0)
	require.NoError(t, err)

	penalty := &commands.PenaltyRequest{UserID: kernel.NewUUID(), Type: dispute.Warning, Reason: "x"}
	cmd, err := commands.NewResolveDisputeCommand(d.ID(), dispute.RefundBuyer, nil, penalty, "", p.admin)
	require.NoError(t, err)

	m := newMockSet()
	m.expectTx(ctx, false)
	m.disputes.On("Get", ctx, d.ID()).Return(d, nil).Once()
	m.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

	err = commands.NewResolveDisputeCommandHandler(m.factory, &fixedClock{now: t0}, commands.NewLedgerRecorder()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, order.Disputed, o.Status())
	assert.True(t, d.IsActive())
}

func TestUpsertMemberCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	p := newParties(t)

	t.Run("admin registers a courier", func(t *testing.T) {
		cmd, err := commands.NewUpsertMemberCommand(p.courier.ID(), kernel.RoleCourier, party.Available, p.admin)
		require.NoError(t, err)

		m := newMockSet()
		m.expectTx(ctx, true)
		m.members.On("Get", ctx, p.courier.ID()).Return(nil, notFound(p.courier.ID())).Once()
		m.members.On("Add", ctx, mock.MatchedBy(func(member *party.Member) bool {
			return member.IsAvailableCourier()
		})).Return(nil).Once()

		require.NoError(t, commands.NewUpsertMemberCommandHandler(m.factory).Handle(ctx, cmd))
		m.assertExpectations(t)
	})

	t.Run("courier goes offline", func(t *testing.T) {
		existing, err := party.NewMember(p.courier.ID(), kernel.RoleCourier, party.Available)
		require.NoError(t, err)
		cmd, err := commands.NewUpsertMemberCommand(p.courier.ID(), kernel.RoleCourier, party.Offline, p.courier)
		require.NoError(t, err)

		m := newMockSet()
		m.expectTx(ctx, true)
		m.members.On("Get", ctx, p.courier.ID()).Return(existing, nil).Once()
		m.members.On("Update", ctx, existing).Return(nil).Once()

		require.NoError(t, commands.NewUpsertMemberCommandHandler(m.factory).Handle(ctx, cmd))
		assert.Equal(t, party.Offline, existing.Availability())
	})

	t.Run("role cannot change", func(t *testing.T) {
		existing, err := party.NewMember(p.seller.ID(), kernel.RoleSeller, party.Offline)
		require.NoError(t, err)
		cmd, err := commands.NewUpsertMemberCommand(p.seller.ID(), kernel.RoleCourier, party.Available, p.admin)
		require.NoError(t, err)

		m := newMockSet()
		m.expectTx(ctx, false)
		m.members.On("Get", ctx, p.seller.ID()).Return(existing, nil).Once()

		err = commands.NewUpsertMemberCommandHandler(m.factory).Handle(ctx, cmd)
		require.ErrorIs(t, err, commands.ErrRoleChange)
	})

	t.Run("members only update themselves", func(t *testing.T) {
		cmd, err := commands.NewUpsertMemberCommand(p.courier.ID(), kernel.RoleCourier, party.Available, p.seller)
		require.NoError(t, err)

		m := newMockSet()
		err = commands.NewUpsertMemberCommandHandler(m.factory).Handle(ctx, cmd)

		require.ErrorIs(t, err, kernel.ErrActorNotPermitted)
		m.factory.AssertNotCalled(t, "Create")
	})
}
