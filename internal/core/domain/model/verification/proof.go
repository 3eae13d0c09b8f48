package verification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
)

// MinPhotos is the evidence required at each checkpoint.
const MinPhotos = 2

var (
	ErrInsufficientEvidence = errors.New("insufficient evidence")
	ErrInvalidCoordinates   = errors.New("invalid coordinates")
	ErrCodeMismatch         = errors.New("code mismatch")
	ErrAlreadyVerified      = errors.New("checkpoint already verified")

	ErrProofIsNotConstructed = errors.New("Proof must be created via NewProof constructor")
)

// Proof is the evidence a courier submits at a checkpoint. A proof is stored
// only once confirmed and never changes afterwards.
type Proof struct {
	id            kernel.UUID
	orderID       kernel.UUID
	checkpoint    Checkpoint
	photos        []string
	location      kernel.Coordinates
	submittedAt   time.Time
	verifiedBy    kernel.UUID
	presentedCode string
	confirmed     bool

	isConstructed bool
}

// NewProof validates the shape of the evidence. Coordinates are taken raw so
// that out-of-range values surface as ErrInvalidCoordinates.
func NewProof(
	orderID kernel.UUID,
	checkpoint Checkpoint,
	photos []string,
	latitude, longitude float64,
	accuracy *float64,
	presentedCode string,
	verifiedBy kernel.UUID,
	now time.Time,
) (*Proof, error) {
	p := &Proof{
		id:            kernel.NewUUID(),
		submittedAt:   now.UTC(),
		presentedCode: presentedCode,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setOrderID(orderID),
		p.setCheckpoint(checkpoint),
		p.setPhotos(photos),
		p.setLocation(latitude, longitude, accuracy),
		p.setVerifiedBy(verifiedBy),
	); err != nil {
		return nil, err
	}
	return p, nil
}

// RestoreProof rebuilds a stored proof without re-running evidence rules.
func RestoreProof(
	id, orderID kernel.UUID,
	checkpoint Checkpoint,
	photos []string,
	location kernel.Coordinates,
	submittedAt time.Time,
	verifiedBy kernel.UUID,
	presentedCode string,
	confirmed bool,
) *Proof {
	return &Proof{
		id:            id,
		orderID:       orderID,
		checkpoint:    checkpoint,
		photos:        append([]string(nil), photos...),
		location:      location,
		submittedAt:   submittedAt,
		verifiedBy:    verifiedBy,
		presentedCode: presentedCode,
		confirmed:     confirmed,
		isConstructed: true,
	}
}

func (p *Proof) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProofIsNotConstructed
	}
	return nil
}

// Confirm checks the presented code against the one issued for this
// checkpoint. The pickup code presented at delivery (or the reverse) is a
// mismatch like any other wrong code.
func (p *Proof) Confirm(expected Code) error {
	if p.confirmed {
		return errs.NewPreconditionFailedError(ErrAlreadyVerified, p.checkpoint.String())
	}
	if err := expected.Validate(); err != nil {
		return err
	}
	if !expected.Matches(p.presentedCode) {
		return errs.NewPreconditionFailedError(ErrCodeMismatch, p.checkpoint.String())
	}
	p.confirmed = true
	return nil
}

func (p *Proof) ID() kernel.UUID              { return p.id }
func (p *Proof) OrderID() kernel.UUID         { return p.orderID }
func (p *Proof) Checkpoint() Checkpoint       { return p.checkpoint }
func (p *Proof) Photos() []string             { return append([]string(nil), p.photos...) }
func (p *Proof) Location() kernel.Coordinates { return p.location }
func (p *Proof) SubmittedAt() time.Time       { return p.submittedAt }
func (p *Proof) VerifiedBy() kernel.UUID      { return p.verifiedBy }
func (p *Proof) PresentedCode() string        { return p.presentedCode }
func (p *Proof) IsConfirmed() bool            { return p.confirmed }

func (p *Proof) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.orderID = id
	return nil
}

func (p *Proof) setCheckpoint(c Checkpoint) error {
	if err := c.Validate(); err != nil {
		return err
	}
	p.checkpoint = c
	return nil
}

func (p *Proof) setPhotos(photos []string) error {
	kept := make([]string, 0, len(photos))
	for _, ref := range photos {
		if ref = strings.TrimSpace(ref); ref != "" {
			kept = append(kept, ref)
		}
	}
	if len(kept) < MinPhotos {
		return errs.NewValueIsInvalidErrorWithCause("photos", fmt.Errorf("%w: %d of %d photos", ErrInsufficientEvidence, len(kept), MinPhotos))
	}
	p.photos = kept
	return nil
}

func (p *Proof) setLocation(latitude, longitude float64, accuracy *float64) error {
	location, err := kernel.NewCoordinates(latitude, longitude, accuracy)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("gps", errors.Join(ErrInvalidCoordinates, err))
	}
	p.location = location
	return nil
}

func (p *Proof) setVerifiedBy(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.verifiedBy = id
	return nil
}
