// Package postgres provides the GORM-based Unit of Work shared by every
// command handler.
//
// A unit of work owns one database transaction. Repositories handed out after
// Begin run inside it, and aggregates they persist are tracked so their domain
// events can be published once Commit succeeds. Events of a rolled back unit
// of work are dropped.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.TransactionRepository().Add(ctx, tx); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is single-goroutine; concurrent operations use
// separate instances.
package postgres

import (
	"context"
	"log/slog"

	"escrow/internal/adapters/out/postgres/disputerepo"
	"escrow/internal/adapters/out/postgres/memberrepo"
	"escrow/internal/adapters/out/postgres/orderrepo"
	"escrow/internal/adapters/out/postgres/proofrepo"
	"escrow/internal/adapters/out/postgres/transactionrepo"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/ddd"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate ddd.AggregateRoot
}

type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates units of work over db. publisher may be nil,
// in which case committed events are discarded.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{db: db, publisher: publisher, logger: logger}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and then publishes the tracked events. A
// publishing failure is logged; the committed state stands.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishTracked(ctx)
	return nil
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DisputeRepository() ports.DisputeRepository {
	return disputerepo.NewGormDisputeRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) ProofRepository() ports.ProofRepository {
	return proofrepo.NewGormProofRepository(uow.conn())
}

func (uow *GormUnitOfWork) TransactionRepository() ports.TransactionRepository {
	return transactionrepo.NewGormTransactionRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) MemberDirectory() ports.MemberDirectory {
	return memberrepo.NewGormMemberDirectory(uow.conn())
}

func (uow *GormUnitOfWork) RatingRepository() ports.RatingRepository {
	return memberrepo.NewGormRatingRepository(uow.conn())
}

func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate ddd.AggregateRoot) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// publishTracked drains events in tracking order. An aggregate tracked twice
// contributes its events once.
func (uow *GormUnitOfWork) publishTracked(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	seen := make(map[ddd.AggregateRoot]struct{}, len(tracked))
	var events []ddd.DomainEvent
	for _, t := range tracked {
		if _, ok := seen[t.Aggregate]; ok {
			continue
		}
		seen[t.Aggregate] = struct{}{}
		events = append(events, t.Aggregate.DomainEvents()...)
		t.Aggregate.ClearDomainEvents()
	}

	if len(events) == 0 || uow.publisher == nil {
		return
	}
	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.ErrorContext(ctx, "failed to publish domain events",
			"count", len(events),
			"error", err,
		)
	}
}
