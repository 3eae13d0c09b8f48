package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction. Repositories it hands out share
// that transaction; domain events raised by the aggregates they persist are
// published only after Commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	DisputeRepository() DisputeRepository
	ProofRepository() ProofRepository
	TransactionRepository() TransactionRepository
	MemberDirectory() MemberDirectory
	RatingRepository() RatingRepository
}
