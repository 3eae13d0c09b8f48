package cmd

import (
	"log/slog"

	httpin "escrow/internal/adapters/in/http"
	"escrow/internal/adapters/out/clock"
	"escrow/internal/adapters/out/postgres"
	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/core/ports"
	"escrow/internal/jobs"
	"escrow/internal/metrics"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clock      ports.Clock
	recorder   commands.LedgerRecorder
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewCompositionRoot wires the application core. publisher may be nil, in
// which case committed events are dropped.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) CompositionRoot {
	if publisher != nil {
		publisher = metrics.NewInstrumentedPublisher(publisher, m)
	}
	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		clock:      clock.NewSystemClock(),
		recorder:   commands.NewLedgerRecorder(),
		metrics:    m,
		logger:     logger,
	}
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.uow(), c.clock, commands.FeeSettings{
		CommissionRate:     c.configs.CommissionRate,
		DefaultDeliveryFee: c.configs.DefaultDeliveryFee,
	})
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(c.uow(), c.clock, c.recorder)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateSubmitProofCommandHandler() commands.SubmitProofCommandHandler {
	return commands.NewSubmitProofCommandHandler(c.uow(), c.clock, c.configs.ConfirmationWindow, c.logger)
}

func (c *CompositionRoot) CreateMarkInTransitCommandHandler() commands.MarkInTransitCommandHandler {
	return commands.NewMarkInTransitCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.uow(), c.clock, c.recorder)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.clock, c.recorder)
}

func (c *CompositionRoot) CreateRaiseDisputeCommandHandler() commands.RaiseDisputeCommandHandler {
	return commands.NewRaiseDisputeCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateReviewDisputeCommandHandler() commands.ReviewDisputeCommandHandler {
	return commands.NewReviewDisputeCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateResolveDisputeCommandHandler() commands.ResolveDisputeCommandHandler {
	return commands.NewResolveDisputeCommandHandler(c.uow(), c.clock, c.recorder)
}

func (c *CompositionRoot) CreateRateCounterpartyCommandHandler() commands.RateCounterpartyCommandHandler {
	return commands.NewRateCounterpartyCommandHandler(c.uow(), c.clock)
}

func (c *CompositionRoot) CreateUpsertMemberCommandHandler() commands.UpsertMemberCommandHandler {
	return commands.NewUpsertMemberCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateAutoConfirmDeliveriesCommandHandler() commands.AutoConfirmDeliveriesCommandHandler {
	return commands.NewAutoConfirmDeliveriesCommandHandler(c.uow(), c.clock, c.recorder, c.logger)
}

func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		PlaceOrder:       c.CreatePlaceOrderCommandHandler(),
		ConfirmPayment:   c.CreateConfirmPaymentCommandHandler(),
		AssignCourier:    c.CreateAssignCourierCommandHandler(),
		SubmitProof:      c.CreateSubmitProofCommandHandler(),
		MarkInTransit:    c.CreateMarkInTransitCommandHandler(),
		ConfirmDelivery:  c.CreateConfirmDeliveryCommandHandler(),
		CancelOrder:      c.CreateCancelOrderCommandHandler(),
		RaiseDispute:     c.CreateRaiseDisputeCommandHandler(),
		ReviewDispute:    c.CreateReviewDisputeCommandHandler(),
		ResolveDispute:   c.CreateResolveDisputeCommandHandler(),
		RateCounterparty: c.CreateRateCounterpartyCommandHandler(),
		UpsertMember:     c.CreateUpsertMemberCommandHandler(),

		GetOrder:             queries.NewGetOrderQueryHandler(c.gormDB),
		GetStatusHistory:     queries.NewGetStatusHistoryQueryHandler(c.gormDB),
		GetOrderTransactions: queries.NewGetOrderTransactionsQueryHandler(c.gormDB),
		GetOrderProofs:       queries.NewGetOrderProofsQueryHandler(c.gormDB),
		GetOrderDisputes:     queries.NewGetOrderDisputesQueryHandler(c.gormDB),
		GetDispute:           queries.NewGetDisputeQueryHandler(c.gormDB),
	}
}

// CreateJobManager builds the background jobs. lease may be nil.
func (c *CompositionRoot) CreateJobManager(lease ports.JobLease) *jobs.JobManager {
	autoConfirm := jobs.NewAutoConfirmationJob(
		c.CreateAutoConfirmDeliveriesCommandHandler(),
		lease,
		c.metrics,
		jobs.AutoConfirmationSettings{
			Schedule:  c.configs.AutoConfirmSchedule,
			BatchSize: c.configs.AutoConfirmBatchSize,
			LeaseTTL:  c.configs.AutoConfirmLeaseTTL,
		},
		c.logger,
	)
	return jobs.NewJobManager(autoConfirm)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
