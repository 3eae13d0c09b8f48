package queries

import (
	"context"

	"escrow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetStatusHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetStatusHistoryQueryHandler(db *gorm.DB) GetStatusHistoryQueryHandler {
	return GetStatusHistoryQueryHandler{db: db}
}

func (h GetStatusHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetStatusHistoryQuery,
) ([]GetStatusHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if _, err := authorizeOrderRead(ctx, h.db, query.OrderID(), query.Actor()); err != nil {
		return nil, err
	}

	entries := make([]GetStatusHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			seq,
			status,
			at,
			actor_id,
			actor_role,
			note
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY seq
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetStatusHistoryQueryResponse
		var actorID uuid.UUID

		err = rows.Scan(
			&entry.Seq,
			&entry.Status,
			&entry.At,
			&actorID,
			&entry.ActorRole,
			&entry.Note,
		)
		if err != nil {
			return nil, err
		}

		entry.At = entry.At.UTC()
		entry.ActorID = kernel.UUIDFromGoogle(actorID)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
