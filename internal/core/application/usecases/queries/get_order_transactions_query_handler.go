package queries

import (
	"context"
	"database/sql"

	"escrow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderTransactionsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderTransactionsQueryHandler(db *gorm.DB) GetOrderTransactionsQueryHandler {
	return GetOrderTransactionsQueryHandler{db: db}
}

func (h GetOrderTransactionsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTransactionsQuery,
) ([]GetOrderTransactionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if _, err := authorizeOrderRead(ctx, h.db, query.OrderID(), query.Actor()); err != nil {
		return nil, err
	}

	transactions := make([]GetOrderTransactionsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			amount,
			from_user_id,
			to_user_id,
			status,
			reference,
			description,
			created_at,
			completed_at
		FROM transactions
		WHERE order_id = ?
		ORDER BY created_at, reference
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var tx GetOrderTransactionsQueryResponse
		var id uuid.UUID
		var from, to uuid.NullUUID
		var amount decimal.Decimal
		var completedAt sql.NullTime

		err = rows.Scan(
			&id,
			&tx.Type,
			&amount,
			&from,
			&to,
			&tx.Status,
			&tx.Reference,
			&tx.Description,
			&tx.CreatedAt,
			&completedAt,
		)
		if err != nil {
			return nil, err
		}

		money, moneyErr := kernel.NewMoney(amount)
		if moneyErr != nil {
			return nil, moneyErr
		}
		tx.ID = kernel.UUIDFromGoogle(id)
		tx.Amount = money
		tx.FromUserID = nullableID(from)
		tx.ToUserID = nullableID(to)
		tx.CreatedAt = tx.CreatedAt.UTC()
		tx.CompletedAt = nullableTime(completedAt)
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}
