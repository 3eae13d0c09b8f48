// Package queries contains the read side. Handlers read straight from the
// database with SQL and return flat read models; they never load aggregates.
package queries

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderParties is what read authorization needs to know about an order.
type orderParties struct {
	buyerID   kernel.UUID
	sellerID  kernel.UUID
	courierID *kernel.UUID
}

func (p orderParties) includes(actor kernel.Actor) bool {
	switch actor.Role() {
	case kernel.RoleBuyer:
		return actor.ID().IsEqual(p.buyerID)
	case kernel.RoleSeller:
		return actor.ID().IsEqual(p.sellerID)
	case kernel.RoleCourier:
		return p.courierID != nil && actor.ID().IsEqual(*p.courierID)
	default:
		return actor.IsPrivileged()
	}
}

// authorizeOrderRead returns ObjectNotFound for unknown orders and a
// precondition error when actor is neither a party nor privileged.
func authorizeOrderRead(ctx context.Context, db *gorm.DB, orderID kernel.UUID, actor kernel.Actor) (orderParties, error) {
	var buyerID, sellerID uuid.UUID
	var courierID uuid.NullUUID

	row := db.WithContext(ctx).Raw(`
		SELECT buyer_id, seller_id, courier_id
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()
	if err := row.Scan(&buyerID, &sellerID, &courierID); err != nil {
		if isNoRows(err) {
			return orderParties{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return orderParties{}, err
	}

	parties := orderParties{
		buyerID:   kernel.UUIDFromGoogle(buyerID),
		sellerID:  kernel.UUIDFromGoogle(sellerID),
		courierID: nullableID(courierID),
	}
	if !parties.includes(actor) {
		return orderParties{}, kernel.NotPermitted(actor, "read order "+orderID.String())
	}
	return parties, nil
}

func nullableID(id uuid.NullUUID) *kernel.UUID {
	if !id.Valid {
		return nil
	}
	k := kernel.UUIDFromGoogle(id.UUID)
	return &k
}
