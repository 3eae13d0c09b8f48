// Package transactionrepo is the append-only ledger store. References are
// unique, and an order holds at most one completed transaction per type.
package transactionrepo

import (
	"errors"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:ux_transactions_completed_type,priority:1,where:status = 'completed'"`
	Type        string          `gorm:"type:varchar(32);not null;uniqueIndex:ux_transactions_completed_type,priority:2"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	FromUserID  *uuid.UUID      `gorm:"type:uuid"`
	ToUserID    *uuid.UUID      `gorm:"type:uuid"`
	Status      string          `gorm:"type:varchar(16);not null"`
	Reference   string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime:false"`
	CompletedAt *time.Time
}

func (TransactionDTO) TableName() string {
	return "transactions"
}

func fromDomain(tx *ledger.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          tx.ID().Bytes(),
		OrderID:     tx.OrderID().Bytes(),
		Type:        tx.Type().String(),
		Amount:      tx.Amount().Amount(),
		FromUserID:  rawID(tx.From()),
		ToUserID:    rawID(tx.To()),
		Status:      tx.Status().String(),
		Reference:   tx.Reference(),
		Description: tx.Description(),
		CreatedAt:   tx.CreatedAt(),
		CompletedAt: tx.CompletedAt(),
	}
}

func toDomain(dto TransactionDTO) (*ledger.Transaction, error) {
	txType, typeErr := ledger.ParseTransactionType(dto.Type)
	status, statusErr := ledger.ParseTransactionStatus(dto.Status)
	amount, amountErr := kernel.NewMoney(dto.Amount)
	if err := errors.Join(typeErr, statusErr, amountErr); err != nil {
		return nil, err
	}

	return ledger.RestoreTransaction(
		kernel.UUIDFromGoogle(dto.ID),
		kernel.UUIDFromGoogle(dto.OrderID),
		txType,
		amount,
		domainID(dto.FromUserID),
		domainID(dto.ToUserID),
		status,
		dto.Reference,
		dto.Description,
		dto.CreatedAt,
		dto.CompletedAt,
	), nil
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(id *uuid.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	k := kernel.UUIDFromGoogle(*id)
	return &k
}
