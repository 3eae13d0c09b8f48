// Package kafka consumes payment gateway notifications and feeds them to the
// ConfirmPayment command.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"escrow/internal/core/application/usecases/commands"
	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/metrics"
	"escrow/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	defaultAttempts  = 3
	defaultRetryWait = 200 * time.Millisecond
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type paymentConfirmer interface {
	Handle(ctx context.Context, cmd commands.ConfirmPaymentCommand) error
}

// PaymentConfirmed is the gateway's message body.
type PaymentConfirmed struct {
	OrderID   string          `json:"order_id" validate:"required,uuid"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" validate:"required,max=128"`
}

// PaymentConfirmedConsumer commits a message once its payment was applied or
// rejected for good. Conflicts and infrastructure errors are retried; when
// retries run out Run returns without committing so the message is read again.
type PaymentConfirmedConsumer struct {
	reader    MessageReader
	handler   paymentConfirmer
	validate  *validator.Validate
	metrics   *metrics.Metrics
	logger    *slog.Logger
	attempts  int
	retryWait time.Duration
}

func NewPaymentConfirmedConsumer(
	reader MessageReader,
	handler paymentConfirmer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *PaymentConfirmedConsumer {
	return &PaymentConfirmedConsumer{
		reader:    reader,
		handler:   handler,
		validate:  validator.New(),
		metrics:   m,
		logger:    logger.With("component", "payment_confirmed_consumer"),
		attempts:  defaultAttempts,
		retryWait: defaultRetryWait,
	}
}

// NewReader builds the consumer-group reader for topic.
func NewReader(brokers []string, groupID, topic string) (*kafkago.Reader, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka consumer requires at least one broker")
	}
	if groupID == "" {
		return nil, errors.New("kafka consumer requires group id")
	}
	if topic == "" {
		return nil, errors.New("kafka consumer requires a topic")
	}
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	}), nil
}

// WithRetry overrides how often and how patiently a message is retried.
func (c *PaymentConfirmedConsumer) WithRetry(attempts int, wait time.Duration) *PaymentConfirmedConsumer {
	if attempts > 0 {
		c.attempts = attempts
	}
	c.retryWait = wait
	return c
}

// Run consumes until ctx is cancelled.
func (c *PaymentConfirmedConsumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "Payment consumer started")
	defer c.logger.InfoContext(context.Background(), "Payment consumer stopped")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch payment message: %w", err)
		}

		if err = c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit payment message: %w", err)
		}
	}
}

// process returns an error only when the message must be read again.
func (c *PaymentConfirmedConsumer) process(ctx context.Context, msg kafkago.Message) error {
	log := c.logger.With("partition", msg.Partition, "offset", msg.Offset)

	cmd, err := c.decode(msg.Value)
	if err != nil {
		c.metrics.PaymentsConsumed.WithLabelValues("malformed").Inc()
		log.WarnContext(ctx, "Dropping malformed payment message", "error", err)
		return nil
	}
	log = log.With("order_id", cmd.OrderID().String(), "reference", cmd.Reference())

	for attempt := 1; ; attempt++ {
		err = c.handler.Handle(ctx, cmd)
		switch {
		case err == nil:
			c.metrics.PaymentsConsumed.WithLabelValues("applied").Inc()
			log.InfoContext(ctx, "Payment applied")
			return nil
		case isPermanent(err):
			c.metrics.PaymentsConsumed.WithLabelValues("rejected").Inc()
			log.WarnContext(ctx, "Payment rejected", "error", err)
			return nil
		case attempt >= c.attempts:
			c.metrics.PaymentsConsumed.WithLabelValues("failed").Inc()
			log.ErrorContext(ctx, "Payment failed after retries", "attempts", attempt, "error", err)
			return fmt.Errorf("confirm payment for order %s: %w", cmd.OrderID(), err)
		}

		log.WarnContext(ctx, "Retrying payment", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryWait):
		}
	}
}

func (c *PaymentConfirmedConsumer) decode(body []byte) (commands.ConfirmPaymentCommand, error) {
	var payload PaymentConfirmed
	if err := json.Unmarshal(body, &payload); err != nil {
		return commands.ConfirmPaymentCommand{}, err
	}
	if err := c.validate.Struct(payload); err != nil {
		return commands.ConfirmPaymentCommand{}, err
	}

	orderID, err := kernel.UUIDFromString(payload.OrderID)
	if err != nil {
		return commands.ConfirmPaymentCommand{}, err
	}
	amount, err := kernel.NewExactMoney(payload.Amount)
	if err != nil {
		return commands.ConfirmPaymentCommand{}, err
	}
	return commands.NewConfirmPaymentCommand(orderID, amount, payload.Reference, kernel.SystemActor())
}

// isPermanent reports errors that retrying the same message cannot fix.
func isPermanent(err error) bool {
	for _, kind := range []error{
		errs.ErrValueIsInvalid,
		errs.ErrValueIsRequired,
		errs.ErrValueIsOutOfRange,
		errs.ErrObjectNotFound,
		errs.ErrPreconditionFailed,
		errs.ErrIntegrityViolation,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
