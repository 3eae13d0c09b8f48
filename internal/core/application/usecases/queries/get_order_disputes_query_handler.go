package queries

import (
	"context"
	"database/sql"

	"escrow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderDisputesQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderDisputesQueryHandler(db *gorm.DB) GetOrderDisputesQueryHandler {
	return GetOrderDisputesQueryHandler{db: db}
}

func (h GetOrderDisputesQueryHandler) Handle(
	ctx context.Context,
	query GetOrderDisputesQuery,
) ([]GetOrderDisputesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if _, err := authorizeOrderRead(ctx, h.db, query.OrderID(), query.Actor()); err != nil {
		return nil, err
	}

	disputes := make([]GetOrderDisputesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			raised_by,
			reason,
			status,
			COALESCE(decision, ''),
			created_at,
			resolved_at
		FROM disputes
		WHERE order_id = ?
		ORDER BY created_at DESC, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d GetOrderDisputesQueryResponse
		var id, raisedBy uuid.UUID
		var resolvedAt sql.NullTime

		err = rows.Scan(
			&id,
			&raisedBy,
			&d.Reason,
			&d.Status,
			&d.Decision,
			&d.CreatedAt,
			&resolvedAt,
		)
		if err != nil {
			return nil, err
		}

		d.ID = kernel.UUIDFromGoogle(id)
		d.RaisedBy = kernel.UUIDFromGoogle(raisedBy)
		d.CreatedAt = d.CreatedAt.UTC()
		d.ResolvedAt = nullableTime(resolvedAt)
		disputes = append(disputes, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return disputes, nil
}
