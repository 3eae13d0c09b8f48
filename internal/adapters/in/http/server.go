package http

import (
	"context"
	"log/slog"
	"net/http"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/application/usecases/queries"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/core/domain/model/verification"
	"escrow/internal/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// CommandHandler is satisfied by every command handler without a result.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// ResultHandler is satisfied by query handlers and commands that return a value.
type ResultHandler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers lists the use cases the REST surface exposes.
type Handlers struct {
	PlaceOrder       CommandHandler[commands.PlaceOrderCommand]
	ConfirmPayment   CommandHandler[commands.ConfirmPaymentCommand]
	AssignCourier    CommandHandler[commands.AssignCourierCommand]
	SubmitProof      CommandHandler[commands.SubmitProofCommand]
	MarkInTransit    CommandHandler[commands.MarkInTransitCommand]
	ConfirmDelivery  CommandHandler[commands.ConfirmDeliveryCommand]
	CancelOrder      CommandHandler[commands.CancelOrderCommand]
	RaiseDispute     ResultHandler[commands.RaiseDisputeCommand, kernel.UUID]
	ReviewDispute    CommandHandler[commands.ReviewDisputeCommand]
	ResolveDispute   CommandHandler[commands.ResolveDisputeCommand]
	RateCounterparty CommandHandler[commands.RateCounterpartyCommand]
	UpsertMember     CommandHandler[commands.UpsertMemberCommand]

	GetOrder             ResultHandler[queries.GetOrderQuery, queries.GetOrderQueryResponse]
	GetStatusHistory     ResultHandler[queries.GetStatusHistoryQuery, []queries.GetStatusHistoryQueryResponse]
	GetOrderTransactions ResultHandler[queries.GetOrderTransactionsQuery, []queries.GetOrderTransactionsQueryResponse]
	GetOrderProofs       ResultHandler[queries.GetOrderProofsQuery, []queries.GetOrderProofsQueryResponse]
	GetOrderDisputes     ResultHandler[queries.GetOrderDisputesQuery, []queries.GetOrderDisputesQueryResponse]
	GetDispute           ResultHandler[queries.GetDisputeQuery, queries.GetDisputeQueryResponse]
}

// Server adapts HTTP requests to commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		h:      h,
		logger: logger.With("component", "http"),
	}
}

// NewEcho builds the echo instance with health, metrics, the API description
// and the v1 API.
func NewEcho(s *Server, m *metrics.Metrics, gatherer prometheus.Gatherer, doc *openapi3.T) (*echo.Echo, error) {
	if err := registerSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(requestLogger(s.logger))
	e.Use(instrument(m))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSON(http.StatusOK, doc)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	s.RegisterRoutes(e.Group("/api/v1", requireActor))
	return e, nil
}

func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/orders", s.PlaceOrder)
	g.GET("/orders/:id", s.GetOrder)
	g.GET("/orders/:id/history", s.GetStatusHistory)
	g.GET("/orders/:id/transactions", s.GetOrderTransactions)
	g.GET("/orders/:id/proofs", s.GetOrderProofs)
	g.GET("/orders/:id/disputes", s.GetOrderDisputes)
	g.POST("/orders/:id/payment", s.ConfirmPayment)
	g.POST("/orders/:id/courier", s.AssignCourier)
	g.POST("/orders/:id/proofs", s.SubmitProof)
	g.POST("/orders/:id/in-transit", s.MarkInTransit)
	g.POST("/orders/:id/confirm", s.ConfirmDelivery)
	g.POST("/orders/:id/cancel", s.CancelOrder)
	g.POST("/orders/:id/disputes", s.RaiseDispute)
	g.POST("/orders/:id/ratings", s.RateCounterparty)

	g.GET("/disputes/:id", s.GetDispute)
	g.POST("/disputes/:id/review", s.ReviewDispute)
	g.POST("/disputes/:id/resolve", s.ResolveDispute)

	g.PUT("/members/:id", s.UpsertMember)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func pathID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

// PlaceOrder handles POST /api/v1/orders. A buyer places for themself; an
// admin may name the buyer.
func (s *Server) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	actor := actorFrom(c)

	listingID, err := kernel.UUIDFromString(req.ListingID)
	if err != nil {
		return s.fail(c, err)
	}
	sellerID, err := kernel.UUIDFromString(req.SellerID)
	if err != nil {
		return s.fail(c, err)
	}
	buyerID := actor.ID()
	if req.BuyerID != "" {
		if buyerID, err = kernel.UUIDFromString(req.BuyerID); err != nil {
			return s.fail(c, err)
		}
	}
	itemPrice, err := kernel.NewMoney(req.ItemPrice)
	if err != nil {
		return s.fail(c, err)
	}
	var deliveryFee *kernel.Money
	if req.DeliveryFee != nil {
		fee, err := kernel.NewMoney(*req.DeliveryFee)
		if err != nil {
			return s.fail(c, err)
		}
		deliveryFee = &fee
	}
	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return s.fail(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(
		orderID,
		order.Parties{ListingID: listingID, BuyerID: buyerID, SellerID: sellerID},
		itemPrice, deliveryFee, method, req.PickupAddress, req.DeliveryAddress, actor,
	)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.PlaceOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// ConfirmPayment handles POST /api/v1/orders/{id}/payment.
func (s *Server) ConfirmPayment(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req ConfirmPaymentRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	amount, err := kernel.NewExactMoney(req.Amount)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewConfirmPaymentCommand(orderID, amount, req.Reference, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.ConfirmPayment.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignCourier handles POST /api/v1/orders/{id}/courier.
func (s *Server) AssignCourier(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req AssignCourierRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewAssignCourierCommand(orderID, courierID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.AssignCourier.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitProof handles POST /api/v1/orders/{id}/proofs.
func (s *Server) SubmitProof(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req SubmitProofRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	checkpoint, err := verification.ParseCheckpoint(req.Checkpoint)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSubmitProofCommand(orderID, checkpoint, req.Photos,
		*req.Latitude, *req.Longitude, req.Accuracy, req.Code, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.SubmitProof.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// MarkInTransit handles POST /api/v1/orders/{id}/in-transit.
func (s *Server) MarkInTransit(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewMarkInTransitCommand(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.MarkInTransit.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/orders/{id}/confirm.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewConfirmDeliveryCommand(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.ConfirmDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req CancelOrderRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCancelOrderCommand(orderID, actorFrom(c), req.Reason)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RaiseDispute handles POST /api/v1/orders/{id}/disputes.
func (s *Server) RaiseDispute(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req RaiseDisputeRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewRaiseDisputeCommand(orderID, actorFrom(c), req.Reason, req.Description, req.Evidence)
	if err != nil {
		return s.fail(c, err)
	}
	disputeID, err := s.h.RaiseDispute.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, CreatedResponse{ID: disputeID.String()})
}

// RateCounterparty handles POST /api/v1/orders/{id}/ratings.
func (s *Server) RateCounterparty(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req RateCounterpartyRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	ratedID, err := kernel.UUIDFromString(req.RatedUserID)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewRateCounterpartyCommand(orderID, actorFrom(c), ratedID, party.Score(req.Score), req.Review)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.RateCounterparty.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// ReviewDispute handles POST /api/v1/disputes/{id}/review.
func (s *Server) ReviewDispute(c echo.Context) error {
	disputeID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req ReviewDisputeRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewReviewDisputeCommand(disputeID, actorFrom(c), req.Notes)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.ReviewDispute.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ResolveDispute handles POST /api/v1/disputes/{id}/resolve.
func (s *Server) ResolveDispute(c echo.Context) error {
	disputeID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req ResolveDisputeRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	decision, err := dispute.ParseDecision(req.Decision)
	if err != nil {
		return s.fail(c, err)
	}
	var refund *kernel.Money
	if req.RefundAmount != nil {
		amount, err := kernel.NewExactMoney(*req.RefundAmount)
		if err != nil {
			return s.fail(c, err)
		}
		refund = &amount
	}
	var penalty *commands.PenaltyRequest
	if req.Penalty != nil {
		userID, err := kernel.UUIDFromString(req.Penalty.UserID)
		if err != nil {
			return s.fail(c, err)
		}
		penaltyType, err := dispute.ParsePenaltyType(req.Penalty.Type)
		if err != nil {
			return s.fail(c, err)
		}
		penalty = &commands.PenaltyRequest{UserID: userID, Type: penaltyType, Reason: req.Penalty.Reason}
	}

	cmd, err := commands.NewResolveDisputeCommand(disputeID, decision, refund, penalty, req.Notes, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.ResolveDispute.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpsertMember handles PUT /api/v1/members/{id}.
func (s *Server) UpsertMember(c echo.Context) error {
	memberID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req UpsertMemberRequest
	if err = bindAndValidate(c, &req); err != nil {
		return s.fail(c, err)
	}
	role, err := kernel.ParseRole(req.Role)
	if err != nil {
		return s.fail(c, err)
	}
	availability, err := party.ParseAvailability(req.Availability)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewUpsertMemberCommand(memberID, role, availability, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.h.UpsertMember.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderQuery(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	o, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// GetStatusHistory handles GET /api/v1/orders/{id}/history.
func (s *Server) GetStatusHistory(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetStatusHistoryQuery(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	history, err := s.h.GetStatusHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toHistoryResponse(history))
}

// GetOrderTransactions handles GET /api/v1/orders/{id}/transactions.
func (s *Server) GetOrderTransactions(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderTransactionsQuery(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	txs, err := s.h.GetOrderTransactions.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toTransactionsResponse(txs))
}

// GetOrderProofs handles GET /api/v1/orders/{id}/proofs.
func (s *Server) GetOrderProofs(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderProofsQuery(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	proofs, err := s.h.GetOrderProofs.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toProofsResponse(proofs))
}

// GetOrderDisputes handles GET /api/v1/orders/{id}/disputes.
func (s *Server) GetOrderDisputes(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderDisputesQuery(orderID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	disputes, err := s.h.GetOrderDisputes.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toDisputeSummariesResponse(disputes))
}

// GetDispute handles GET /api/v1/disputes/{id}.
func (s *Server) GetDispute(c echo.Context) error {
	disputeID, err := pathID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetDisputeQuery(disputeID, actorFrom(c))
	if err != nil {
		return s.fail(c, err)
	}
	d, err := s.h.GetDispute.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toDisputeResponse(d))
}
