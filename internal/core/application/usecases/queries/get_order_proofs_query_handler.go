package queries

import (
	"context"
	"database/sql"
	"encoding/json"

	"escrow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderProofsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderProofsQueryHandler(db *gorm.DB) GetOrderProofsQueryHandler {
	return GetOrderProofsQueryHandler{db: db}
}

func (h GetOrderProofsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderProofsQuery,
) ([]GetOrderProofsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if _, err := authorizeOrderRead(ctx, h.db, query.OrderID(), query.Actor()); err != nil {
		return nil, err
	}

	proofs := make([]GetOrderProofsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			checkpoint,
			photos,
			latitude,
			longitude,
			accuracy,
			submitted_at,
			verified_by,
			confirmed
		FROM verification_proofs
		WHERE order_id = ?
		ORDER BY submitted_at, checkpoint
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p GetOrderProofsQueryResponse
		var id, verifiedBy uuid.UUID
		var photos []byte
		var accuracy sql.NullFloat64

		err = rows.Scan(
			&id,
			&p.Checkpoint,
			&photos,
			&p.Latitude,
			&p.Longitude,
			&accuracy,
			&p.SubmittedAt,
			&verifiedBy,
			&p.Confirmed,
		)
		if err != nil {
			return nil, err
		}

		if err = json.Unmarshal(photos, &p.Photos); err != nil {
			return nil, err
		}
		if accuracy.Valid {
			a := accuracy.Float64
			p.Accuracy = &a
		}
		p.ID = kernel.UUIDFromGoogle(id)
		p.VerifiedBy = kernel.UUIDFromGoogle(verifiedBy)
		p.SubmittedAt = p.SubmittedAt.UTC()
		proofs = append(proofs, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return proofs, nil
}
