package ports

import (
	"context"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/party"
)

// MemberDirectory is the engine's window onto the external user catalog. It
// reads roles and courier availability and writes back strikes, bans and
// rating aggregates.
type MemberDirectory interface {
	Add(ctx context.Context, member *party.Member) error

	// Update is conditional on the member's version.
	Update(ctx context.Context, member *party.Member) error

	// Get returns errs.ErrObjectNotFound for unknown members.
	Get(ctx context.Context, id kernel.UUID) (*party.Member, error)
}

type RatingRepository interface {
	Add(ctx context.Context, rating *party.Rating) error

	// Exists reports whether rater already rated ratedUser for this order.
	Exists(ctx context.Context, orderID, raterID, ratedUserID kernel.UUID) (bool, error)
}
