// Package orderrepo persists order aggregates and their status history.
package orderrepo

import (
	"errors"
	"fmt"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/core/domain/model/verification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ListingID                    uuid.UUID       `gorm:"type:uuid;not null"`
	BuyerID                      uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID                     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourierID                    *uuid.UUID      `gorm:"type:uuid;index"`
	ItemPrice                    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DeliveryFee                  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CommissionRate               decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	PlatformCommission           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SellerPayout                 decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount                  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	EscrowAmount                 decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	EscrowStatus                 string          `gorm:"type:varchar(16);not null"`
	PickupAddress                string          `gorm:"type:text;not null"`
	DeliveryAddress              string          `gorm:"type:text;not null"`
	PickupCode                   string          `gorm:"type:char(6);not null"`
	DeliveryCode                 string          `gorm:"type:char(6);not null"`
	PaymentMethod                string          `gorm:"type:varchar(32);not null"`
	PaymentReference             string          `gorm:"type:varchar(128)"`
	Status                       string          `gorm:"type:varchar(32);not null;index:idx_orders_due,priority:1"`
	DeliveryConfirmationDeadline *time.Time      `gorm:"index:idx_orders_due,priority:2"`
	AutoConfirmed                bool            `gorm:"not null;default:false"`
	Version                      int64           `gorm:"not null"`
	CreatedAt                    time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt                    time.Time       `gorm:"not null;autoUpdateTime:false"`
	History                      []HistoryDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// HistoryDTO is one row of an order's append-only status history. Seq starts
// at zero with the "pending" entry written at placement.
type HistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int64     `gorm:"primaryKey;autoIncrement:false"`
	Status    string    `gorm:"type:varchar(32);not null"`
	At        time.Time `gorm:"not null"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole string    `gorm:"type:varchar(16);not null"`
	Note      string    `gorm:"type:text"`
}

func (HistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	fees := s.Fees

	var courierID *uuid.UUID
	if s.CourierID != nil {
		raw := s.CourierID.Bytes()
		courierID = &raw
	}

	return OrderDTO{
		ID:                           s.ID.Bytes(),
		ListingID:                    s.Parties.ListingID.Bytes(),
		BuyerID:                      s.Parties.BuyerID.Bytes(),
		SellerID:                     s.Parties.SellerID.Bytes(),
		CourierID:                    courierID,
		ItemPrice:                    fees.ItemPrice().Amount(),
		DeliveryFee:                  fees.DeliveryFee().Amount(),
		CommissionRate:               fees.CommissionRate(),
		PlatformCommission:           fees.PlatformCommission().Amount(),
		SellerPayout:                 fees.SellerPayout().Amount(),
		TotalAmount:                  fees.TotalAmount().Amount(),
		EscrowAmount:                 s.EscrowAmount.Amount(),
		EscrowStatus:                 s.EscrowStatus.String(),
		PickupAddress:                s.PickupAddress,
		DeliveryAddress:              s.DeliveryAddress,
		PickupCode:                   s.PickupCode.String(),
		DeliveryCode:                 s.DeliveryCode.String(),
		PaymentMethod:                s.PaymentMethod.String(),
		PaymentReference:             s.PaymentReference,
		Status:                       s.Status.String(),
		DeliveryConfirmationDeadline: s.DeliveryConfirmationDeadline,
		AutoConfirmed:                s.AutoConfirmed,
		Version:                      s.Version,
		CreatedAt:                    s.CreatedAt,
		UpdatedAt:                    s.UpdatedAt,
		History:                      historyFromDomain(s.ID, s.History, 0),
	}
}

// historyFromDomain maps entries starting at sequence number from.
func historyFromDomain(orderID kernel.UUID, entries []order.HistoryEntry, from int64) []HistoryDTO {
	out := make([]HistoryDTO, 0, len(entries))
	for i, e := range entries {
		out = append(out, HistoryDTO{
			OrderID:   orderID.Bytes(),
			Seq:       from + int64(i),
			Status:    e.Status.String(),
			At:        e.At,
			ActorID:   e.ActorID.Bytes(),
			ActorRole: e.ActorRole.String(),
			Note:      e.Note,
		})
	}
	return out
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	fees, err := restoreFees(dto)
	if err != nil {
		return nil, err
	}
	escrow, err := kernel.NewMoney(dto.EscrowAmount)
	if err != nil {
		return nil, err
	}
	pickup, err := verification.NewCode(dto.PickupCode)
	if err != nil {
		return nil, err
	}
	delivery, err := verification.NewCode(dto.DeliveryCode)
	if err != nil {
		return nil, err
	}

	status, statusErr := order.ParseStatus(dto.Status)
	escrowStatus, escrowErr := order.ParseEscrowStatus(dto.EscrowStatus)
	method, methodErr := order.ParsePaymentMethod(dto.PaymentMethod)
	if err := errors.Join(statusErr, escrowErr, methodErr); err != nil {
		return nil, err
	}

	history := make([]order.HistoryEntry, 0, len(dto.History))
	for _, h := range dto.History {
		entry, err := historyToDomain(h)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", h.Seq, err)
		}
		history = append(history, entry)
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		id := kernel.UUIDFromGoogle(*dto.CourierID)
		courierID = &id
	}

	return order.Restore(order.Snapshot{
		ID: kernel.UUIDFromGoogle(dto.ID),
		Parties: order.Parties{
			ListingID: kernel.UUIDFromGoogle(dto.ListingID),
			BuyerID:   kernel.UUIDFromGoogle(dto.BuyerID),
			SellerID:  kernel.UUIDFromGoogle(dto.SellerID),
		},
		CourierID:                    courierID,
		Fees:                         fees,
		EscrowAmount:                 escrow,
		EscrowStatus:                 escrowStatus,
		PickupAddress:                dto.PickupAddress,
		DeliveryAddress:              dto.DeliveryAddress,
		PickupCode:                   pickup,
		DeliveryCode:                 delivery,
		PaymentMethod:                method,
		PaymentReference:             dto.PaymentReference,
		Status:                       status,
		History:                      history,
		DeliveryConfirmationDeadline: dto.DeliveryConfirmationDeadline,
		AutoConfirmed:                dto.AutoConfirmed,
		Version:                      dto.Version,
		CreatedAt:                    dto.CreatedAt,
		UpdatedAt:                    dto.UpdatedAt,
	})
}

func restoreFees(dto OrderDTO) (pricing.Breakdown, error) {
	amounts := make([]kernel.Money, 0, 5)
	for _, d := range []decimal.Decimal{dto.ItemPrice, dto.DeliveryFee, dto.PlatformCommission, dto.SellerPayout, dto.TotalAmount} {
		m, err := kernel.NewMoney(d)
		if err != nil {
			return pricing.Breakdown{}, err
		}
		amounts = append(amounts, m)
	}
	return pricing.RestoreBreakdown(amounts[0], amounts[1], amounts[2], amounts[3], amounts[4], dto.CommissionRate)
}

func historyToDomain(h HistoryDTO) (order.HistoryEntry, error) {
	status, err := order.ParseStatus(h.Status)
	if err != nil {
		return order.HistoryEntry{}, err
	}
	role, err := kernel.ParseRole(h.ActorRole)
	if err != nil {
		return order.HistoryEntry{}, err
	}
	return order.HistoryEntry{
		Status:    status,
		At:        h.At,
		ActorID:   kernel.UUIDFromGoogle(h.ActorID),
		ActorRole: role,
		Note:      h.Note,
	}, nil
}
