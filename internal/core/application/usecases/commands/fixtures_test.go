package commands_test

import (
	"testing"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/core/domain/model/verification"

	"github.com/stretchr/testify/require"
)

type parties struct {
	buyer, seller, courier, admin kernel.Actor
}

func newParties(t *testing.T) parties {
	t.Helper()
	return parties{
		buyer:   newActor(t, kernel.RoleBuyer),
		seller:  newActor(t, kernel.RoleSeller),
		courier: newActor(t, kernel.RoleCourier),
		admin:   newActor(t, kernel.RoleAdmin),
	}
}

// orderAt builds an order for p and walks it along the happy path until it
// reaches status, then marks it persisted as if just loaded.
func orderAt(t *testing.T, p parties, status order.Status) *order.Order {
	t.Helper()
	fees, err := pricing.ComputeFees(kernel.MustMoney("100"), kernel.MustMoney("20"), pricing.DefaultCommissionRate)
	require.NoError(t, err)
	pickup, _ := verification.NewCode("111111")
	delivery, _ := verification.NewCode("222222")

	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.Parties{ListingID: kernel.NewUUID(), BuyerID: p.buyer.ID(), SellerID: p.seller.ID()},
		fees, "Makola Market, Accra", "East Legon, Accra", order.MTNMobileMoney,
		pickup, delivery, p.buyer, t0,
	)
	require.NoError(t, err)

	proof := func(c verification.Checkpoint, code string) *verification.Proof {
		pr, err := verification.NewProof(o.ID(), c, twoPhotos, 5.6, -0.18, nil, code, p.courier.ID(), t0)
		require.NoError(t, err)
		return pr
	}
	steps := []func() error{
		func() error { return o.ConfirmPayment(kernel.MustMoney("120"), "MOMO-1", kernel.SystemActor(), t0) },
		func() error { return o.AssignCourier(p.courier.ID(), p.admin, t0) },
		func() error {
			return o.VerifyCheckpoint(proof(verification.Pickup, "111111"), p.courier, t0, order.DefaultConfirmationWindow)
		},
		func() error { return o.MarkInTransit(p.courier, t0) },
		func() error {
			return o.VerifyCheckpoint(proof(verification.Delivery, "222222"), p.courier, t0, order.DefaultConfirmationWindow)
		},
	}
	for _, step := range steps {
		if o.Status() == status {
			break
		}
		require.NoError(t, step())
	}
	require.Equal(t, status, o.Status())

	restored, err := order.Restore(o.Snapshot())
	require.NoError(t, err)
	return restored
}

// pastDeadline is a moment after any order built by orderAt may auto-confirm.
var pastDeadline = t0.Add(order.DefaultConfirmationWindow + time.Minute)
