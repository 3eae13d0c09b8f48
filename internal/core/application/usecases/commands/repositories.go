// Package commands contains the operations that change the state of orders,
// disputes, the ledger and the member directory. Every handler validates its
// command, runs inside one unit of work and commits only when every side
// effect of the operation succeeded.
package commands

import (
	"context"

	"escrow/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DisputeRepoFactory interface {
		DisputeRepository() ports.DisputeRepository
	}

	ProofRepoFactory interface {
		ProofRepository() ports.ProofRepository
	}

	TransactionRepoFactory interface {
		TransactionRepository() ports.TransactionRepository
	}

	MemberDirectoryFactory interface {
		MemberDirectory() ports.MemberDirectory
	}

	RatingRepoFactory interface {
		RatingRepository() ports.RatingRepository
	}

	// UoW spans every repository a command may touch.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   // ... transition, record ledger entries
	//
	//   return uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		DisputeRepoFactory
		ProofRepoFactory
		TransactionRepoFactory
		MemberDirectoryFactory
		RatingRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
