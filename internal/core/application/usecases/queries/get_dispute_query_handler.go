package queries

import (
	"context"
	"database/sql"
	"encoding/json"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetDisputeQueryHandler struct {
	db *gorm.DB
}

func NewGetDisputeQueryHandler(db *gorm.DB) GetDisputeQueryHandler {
	return GetDisputeQueryHandler{db: db}
}

func (h GetDisputeQueryHandler) Handle(ctx context.Context, query GetDisputeQuery) (GetDisputeQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDisputeQueryResponse{}, err
	}

	var (
		resp                        GetDisputeQueryResponse
		id, orderID, raisedBy       uuid.UUID
		resolvedBy, penaltyUserID   uuid.NullUUID
		evidence                    []byte
		resolvedAt                  sql.NullTime
		decision, penaltyType       sql.NullString
		refund                      decimal.NullDecimal
		resolutionNotes, penaltyWhy string
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			raised_by,
			raised_by_role,
			reason,
			description,
			evidence,
			status,
			admin_notes,
			created_at,
			resolved_at,
			resolved_by,
			decision,
			refund_amount,
			resolution_notes,
			penalty_user_id,
			penalty_type,
			penalty_reason
		FROM disputes
		WHERE id = ?
	`, query.DisputeID().Bytes()).Row()

	err := row.Scan(
		&id,
		&orderID,
		&raisedBy,
		&resp.RaisedByRole,
		&resp.Reason,
		&resp.Description,
		&evidence,
		&resp.Status,
		&resp.AdminNotes,
		&resp.CreatedAt,
		&resolvedAt,
		&resolvedBy,
		&decision,
		&refund,
		&resolutionNotes,
		&penaltyUserID,
		&penaltyType,
		&penaltyWhy,
	)
	if err != nil {
		if isNoRows(err) {
			return GetDisputeQueryResponse{}, errs.NewObjectNotFoundError("dispute", query.DisputeID().String())
		}
		return GetDisputeQueryResponse{}, err
	}

	resp.OrderID = kernel.UUIDFromGoogle(orderID)
	if _, err := authorizeOrderRead(ctx, h.db, resp.OrderID, query.Actor()); err != nil {
		return GetDisputeQueryResponse{}, err
	}

	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &resp.Evidence); err != nil {
			return GetDisputeQueryResponse{}, err
		}
	}
	resp.ID = kernel.UUIDFromGoogle(id)
	resp.RaisedBy = kernel.UUIDFromGoogle(raisedBy)
	resp.CreatedAt = resp.CreatedAt.UTC()
	resp.ResolvedAt = nullableTime(resolvedAt)
	resp.ResolvedBy = nullableID(resolvedBy)

	if decision.Valid {
		view := DisputeResolutionView{
			Decision:      decision.String,
			RefundAmount:  kernel.ZeroMoney(),
			Notes:         resolutionNotes,
			PenaltyUserID: nullableID(penaltyUserID),
			PenaltyType:   penaltyType.String,
			PenaltyReason: penaltyWhy,
		}
		if refund.Valid {
			if view.RefundAmount, err = kernel.NewMoney(refund.Decimal); err != nil {
				return GetDisputeQueryResponse{}, err
			}
		}
		resp.Resolution = &view
	}

	return resp, nil
}
