package dispute

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/ddd"
	"escrow/internal/pkg/errs"
)

const MaxDescriptionLength = 1000

var (
	ErrDisputeIsNotConstructed = errors.New("Dispute must be created via NewDispute constructor")
	ErrDisputeAlreadyResolved  = errors.New("dispute already resolved")
	ErrDisputeNotOpen          = errors.New("dispute is not open")
)

// Dispute is raised by the buyer or seller against one order. It owns no
// money; its resolution tells the ledger what to record.
type Dispute struct {
	ddd.BaseAggregate

	id           kernel.UUID
	orderID      kernel.UUID
	raisedBy     kernel.UUID
	raisedByRole kernel.Role
	reason       string
	description  string
	evidence     []string
	status       Status
	adminNotes   string
	resolution   *Resolution
	createdAt    time.Time
	resolvedAt   *time.Time
	resolvedBy   *kernel.UUID

	loadedStatus Status

	isConstructed bool
}

func NewDispute(orderID kernel.UUID, raisedBy kernel.Actor, reason, description string, evidence []string, now time.Time) (*Dispute, error) {
	d := &Dispute{
		id:            kernel.NewUUID(),
		raisedBy:      raisedBy.ID(),
		raisedByRole:  raisedBy.Role(),
		status:        Open,
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		d.setOrderID(orderID),
		d.setRaisedBy(raisedBy),
		d.setReason(reason),
		d.setDescription(description),
		d.setEvidence(evidence),
	); err != nil {
		return nil, err
	}

	d.RaiseDomainEvent(Raised{
		BaseEvent: ddd.NewBaseEvent(RaisedEventName, d.id.String(), now),
		DisputeID: d.id.String(),
		OrderID:   d.orderID.String(),
		RaisedBy:  d.raisedBy.String(),
		Reason:    d.reason,
	})
	return d, nil
}

func (d *Dispute) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDisputeIsNotConstructed
	}
	return nil
}

func (d *Dispute) ID() kernel.UUID           { return d.id }
func (d *Dispute) OrderID() kernel.UUID      { return d.orderID }
func (d *Dispute) RaisedBy() kernel.UUID     { return d.raisedBy }
func (d *Dispute) RaisedByRole() kernel.Role { return d.raisedByRole }
func (d *Dispute) Reason() string            { return d.reason }
func (d *Dispute) Description() string       { return d.description }
func (d *Dispute) Evidence() []string        { return append([]string(nil), d.evidence...) }
func (d *Dispute) Status() Status            { return d.status }
func (d *Dispute) AdminNotes() string        { return d.adminNotes }
func (d *Dispute) CreatedAt() time.Time      { return d.createdAt }
func (d *Dispute) LoadedStatus() Status      { return d.loadedStatus }
func (d *Dispute) IsActive() bool            { return d.status.IsActive() }
func (d *Dispute) IsNew() bool               { return d.loadedStatus == StatusUnknown }

func (d *Dispute) Resolution() *Resolution {
	if d.resolution == nil {
		return nil
	}
	r := *d.resolution
	return &r
}

func (d *Dispute) ResolvedAt() *time.Time {
	if d.resolvedAt == nil {
		return nil
	}
	t := *d.resolvedAt
	return &t
}

func (d *Dispute) ResolvedBy() *kernel.UUID {
	if d.resolvedBy == nil {
		return nil
	}
	id := *d.resolvedBy
	return &id
}

func (d *Dispute) MarkPersisted() {
	d.loadedStatus = d.status
}

// StartReview moves an open dispute under admin review.
func (d *Dispute) StartReview(admin kernel.Actor, notes string) error {
	if !admin.Is(kernel.RoleAdmin) {
		return kernel.NotPermitted(admin, "review disputes")
	}
	if d.status.IsResolved() {
		return errs.NewPreconditionFailedError(ErrDisputeAlreadyResolved, d.status.String())
	}
	if d.status != Open {
		return errs.NewPreconditionFailedError(ErrDisputeNotOpen, d.status.String())
	}
	d.status = UnderReview
	d.appendNotes(notes)
	return nil
}

// Resolve applies the ruling. A dispute is resolved at most once.
func (d *Dispute) Resolve(resolution Resolution, admin kernel.Actor, now time.Time) error {
	if !admin.Is(kernel.RoleAdmin) {
		return kernel.NotPermitted(admin, "resolve disputes")
	}
	if !d.status.IsActive() {
		return errs.NewPreconditionFailedError(ErrDisputeAlreadyResolved, d.status.String())
	}
	if err := resolution.Decision().Validate(); err != nil {
		return err
	}

	at := now.UTC()
	by := admin.ID()
	d.status = resolution.Decision().resolvedStatus()
	d.resolution = &resolution
	d.resolvedAt = &at
	d.resolvedBy = &by

	event := Resolved{
		BaseEvent:    ddd.NewBaseEvent(ResolvedEventName, d.id.String(), at),
		DisputeID:    d.id.String(),
		OrderID:      d.orderID.String(),
		Decision:     resolution.Decision().String(),
		RefundAmount: resolution.RefundAmount().String(),
		ResolvedBy:   by.String(),
	}
	if p := resolution.Penalty(); p != nil {
		event.Penalty = p.Type.String()
	}
	d.RaiseDomainEvent(event)
	return nil
}

func (d *Dispute) appendNotes(notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	if d.adminNotes == "" {
		d.adminNotes = notes
		return
	}
	d.adminNotes = d.adminNotes + "\n" + notes
}

func (d *Dispute) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.orderID = id
	return nil
}

func (d *Dispute) setRaisedBy(actor kernel.Actor) error {
	if !actor.Is(kernel.RoleBuyer) && !actor.Is(kernel.RoleSeller) {
		return kernel.NotPermitted(actor, "raise disputes")
	}
	return actor.Validate()
}

func (d *Dispute) setReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	d.reason = reason
	return nil
}

func (d *Dispute) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.NewValueIsRequiredError("description")
	}
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return errs.NewValueIsOutOfRangeErrorWithCause("description", n, 1, MaxDescriptionLength,
			fmt.Errorf("description has %d characters", n))
	}
	d.description = description
	return nil
}

func (d *Dispute) setEvidence(photos []string) error {
	kept := make([]string, 0, len(photos))
	for _, ref := range photos {
		if ref = strings.TrimSpace(ref); ref != "" {
			kept = append(kept, ref)
		}
	}
	d.evidence = kept
	return nil
}
