package party

import (
	"errors"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/pkg/errs"
	"escrow/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// StrikesBeforeBan is the strike count at which a member is banned outright.
const StrikesBeforeBan = 3

var (
	ErrMemberIsNotConstructed = errors.New("Member must be created via NewMember constructor")
	// ErrCourierUnavailable is the reason a courier cannot take an order.
	ErrCourierUnavailable = errors.New("courier unavailable")
	ErrMemberBanned       = errors.New("member is banned")
)

// Member is a participant known to the engine.
//
// Business rules:
//   - a member has exactly one role; the engine never changes it
//   - only couriers carry a meaningful availability
//   - a banned member stays banned; strikes only ever grow
//   - rating is the arithmetic mean of every score received, two decimals
//
// Example usage:
//
//	m, err := party.NewMember(id, kernel.RoleCourier, party.Available)
//	if err := m.EnsureCanCarry(); err != nil {
//	    // courier busy, offline or banned
//	}
type Member struct {
	id           kernel.UUID
	role         kernel.Role
	availability Availability
	strikes      int
	banned       bool
	rating       decimal.Decimal
	totalRatings int
	version      int64

	guard guard.ConstructorGuard
}

// NewMember creates a member with a clean record.
//
// Returns a joined validation error when the id, role or availability is
// invalid. Non-couriers are stored as offline whatever availability is given.
func NewMember(id kernel.UUID, role kernel.Role, availability Availability) (*Member, error) {
	m := &Member{
		guard:  guard.NewConstructorGuard(),
		rating: decimal.Zero,
	}

	if err := errors.Join(
		m.setID(id),
		m.setRole(role),
		m.SetAvailability(availability),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// RestoreMember rebuilds a member from storage.
func RestoreMember(
	id kernel.UUID,
	role kernel.Role,
	availability Availability,
	strikes int,
	banned bool,
	rating decimal.Decimal,
	totalRatings int,
	version int64,
) (*Member, error) {
	m, err := NewMember(id, role, availability)
	if err != nil {
		return nil, err
	}
	if strikes < 0 {
		return nil, errs.NewValueIsOutOfRangeError("strikes", strikes, 0, nil)
	}
	if totalRatings < 0 {
		return nil, errs.NewValueIsOutOfRangeError("totalRatings", totalRatings, 0, nil)
	}
	m.strikes = strikes
	m.banned = banned
	m.rating = rating.Round(2)
	m.totalRatings = totalRatings
	m.version = version
	return m, nil
}

func (m *Member) Validate() error {
	if m == nil {
		return ErrMemberIsNotConstructed
	}
	return m.guard.Validate(ErrMemberIsNotConstructed)
}

func (m *Member) ID() kernel.UUID            { return m.id }
func (m *Member) Role() kernel.Role          { return m.role }
func (m *Member) Availability() Availability { return m.availability }
func (m *Member) Strikes() int               { return m.strikes }
func (m *Member) IsBanned() bool             { return m.banned }
func (m *Member) Rating() decimal.Decimal    { return m.rating }
func (m *Member) TotalRatings() int          { return m.totalRatings }
func (m *Member) Version() int64             { return m.version }
func (m *Member) IsEqual(other *Member) bool { return other != nil && m.id.IsEqual(other.id) }
func (m *Member) IsCourier() bool            { return m.role == kernel.RoleCourier }
func (m *Member) IsAvailableCourier() bool   { return m.EnsureCanCarry() == nil }

// EnsureCanCarry reports why this member cannot be assigned an order, if at all.
func (m *Member) EnsureCanCarry() error {
	switch {
	case !m.IsCourier():
		return errs.NewPreconditionFailedError(ErrCourierUnavailable, m.id.String()+" is not a courier")
	case m.banned:
		return errs.NewPreconditionFailedError(ErrCourierUnavailable, m.id.String()+" is banned")
	case m.availability != Available:
		return errs.NewPreconditionFailedError(ErrCourierUnavailable, m.id.String()+" is "+m.availability.String())
	}
	return nil
}

func (m *Member) SetAvailability(a Availability) error {
	if m.role != kernel.RoleCourier {
		m.availability = Offline
		return nil
	}
	if err := a.Validate(); err != nil {
		return err
	}
	m.availability = a
	return nil
}

// AddStrike increments the counter and reports whether it reached the ban threshold.
func (m *Member) AddStrike() (reachedBan bool) {
	m.strikes++
	return m.strikes >= StrikesBeforeBan
}

// Ban is idempotent. A banned courier is taken offline.
func (m *Member) Ban() {
	m.banned = true
	if m.IsCourier() {
		m.availability = Offline
	}
}

// RecordRating folds one score into the running average.
func (m *Member) RecordRating(score Score) error {
	if err := score.Validate(); err != nil {
		return err
	}
	n := decimal.NewFromInt(int64(m.totalRatings))
	sum := m.rating.Mul(n).Add(decimal.NewFromInt(int64(score)))
	m.totalRatings++
	m.rating = sum.Div(decimal.NewFromInt(int64(m.totalRatings))).Round(2)
	return nil
}

// MarkPersisted advances the optimistic-concurrency token after a write.
func (m *Member) MarkPersisted() { m.version++ }

func (m *Member) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	m.id = id
	return nil
}

func (m *Member) setRole(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if role == kernel.RoleSystem {
		return errs.NewValueIsInvalidErrorWithCause("role", errors.New("system is not a member role"))
	}
	m.role = role
	return nil
}
