package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/ddd"
	"escrow/internal/pkg/errs"
)

const RecordedEventName = "ledger.transaction-recorded"

var (
	ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction constructor")
	ErrTransactionNotPending       = errors.New("transaction is not pending")
)

// Entry is a planned money movement before a reference is assigned.
type Entry struct {
	Type        TransactionType
	Amount      kernel.Money
	From        *kernel.UUID
	To          *kernel.UUID
	Description string
}

// Transaction is one immutable ledger row.
type Transaction struct {
	ddd.BaseAggregate

	id          kernel.UUID
	orderID     kernel.UUID
	txType      TransactionType
	amount      kernel.Money
	from        *kernel.UUID
	to          *kernel.UUID
	status      TransactionStatus
	reference   string
	description string
	createdAt   time.Time
	completedAt *time.Time

	isConstructed bool
}

// Recorded is raised when a transaction completes.
type Recorded struct {
	ddd.BaseEvent
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Reference     string `json:"reference"`
}

func NewTransaction(orderID kernel.UUID, entry Entry, reference string, now time.Time) (*Transaction, error) {
	tx := &Transaction{
		id:            kernel.NewUUID(),
		status:        Pending,
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		tx.setOrderID(orderID),
		tx.setType(entry.Type),
		tx.setReference(reference),
		tx.setDescription(entry.Description),
		tx.setParties(entry.From, entry.To),
	); err != nil {
		return nil, err
	}
	tx.amount = entry.Amount
	return tx, nil
}

func RestoreTransaction(
	id, orderID kernel.UUID,
	txType TransactionType,
	amount kernel.Money,
	from, to *kernel.UUID,
	status TransactionStatus,
	reference, description string,
	createdAt time.Time,
	completedAt *time.Time,
) *Transaction {
	tx := &Transaction{
		id:            id,
		orderID:       orderID,
		txType:        txType,
		amount:        amount,
		status:        status,
		reference:     reference,
		description:   description,
		createdAt:     createdAt,
		isConstructed: true,
	}
	_ = tx.setParties(from, to)
	if completedAt != nil {
		c := *completedAt
		tx.completedAt = &c
	}
	return tx
}

func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

func (t *Transaction) ID() kernel.UUID           { return t.id }
func (t *Transaction) OrderID() kernel.UUID      { return t.orderID }
func (t *Transaction) Type() TransactionType     { return t.txType }
func (t *Transaction) Amount() kernel.Money      { return t.amount }
func (t *Transaction) Status() TransactionStatus { return t.status }
func (t *Transaction) Reference() string         { return t.reference }
func (t *Transaction) Description() string       { return t.description }
func (t *Transaction) CreatedAt() time.Time      { return t.createdAt }
func (t *Transaction) IsCompleted() bool         { return t.status == Completed }
func (t *Transaction) From() *kernel.UUID        { return copyID(t.from) }
func (t *Transaction) To() *kernel.UUID          { return copyID(t.to) }

func (t *Transaction) CompletedAt() *time.Time {
	if t.completedAt == nil {
		return nil
	}
	c := *t.completedAt
	return &c
}

func (t *Transaction) Complete(now time.Time) error {
	if t.status != Pending {
		return errs.NewPreconditionFailedError(ErrTransactionNotPending, t.status.String())
	}
	at := now.UTC()
	t.status = Completed
	t.completedAt = &at
	t.RaiseDomainEvent(Recorded{
		BaseEvent:     ddd.NewBaseEvent(RecordedEventName, t.orderID.String(), at),
		TransactionID: t.id.String(),
		OrderID:       t.orderID.String(),
		Type:          t.txType.String(),
		Amount:        t.amount.String(),
		Reference:     t.reference,
	})
	return nil
}

func (t *Transaction) Fail() error {
	if t.status != Pending {
		return errs.NewPreconditionFailedError(ErrTransactionNotPending, t.status.String())
	}
	t.status = Failed
	return nil
}

// WithReference returns a fresh pending copy under another reference, used
// when the generated one collides.
func (t *Transaction) WithReference(reference string) (*Transaction, error) {
	if t.status != Pending {
		return nil, errs.NewPreconditionFailedError(ErrTransactionNotPending, t.status.String())
	}
	return NewTransaction(t.orderID, Entry{
		Type:        t.txType,
		Amount:      t.amount,
		From:        t.from,
		To:          t.to,
		Description: t.description,
	}, reference, t.createdAt)
}

func (t *Transaction) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.orderID = id
	return nil
}

func (t *Transaction) setType(txType TransactionType) error {
	if err := txType.Validate(); err != nil {
		return err
	}
	t.txType = txType
	return nil
}

func (t *Transaction) setReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}
	t.reference = reference
	return nil
}

func (t *Transaction) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.NewValueIsRequiredError("description")
	}
	t.description = description
	return nil
}

func (t *Transaction) setParties(from, to *kernel.UUID) error {
	if from != nil && to != nil && from.IsEqual(*to) {
		return errs.NewValueIsInvalidErrorWithCause("to", fmt.Errorf("sender and receiver are both %s", from))
	}
	t.from, t.to = copyID(from), copyID(to)
	return nil
}

func copyID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
