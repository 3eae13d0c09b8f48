package kernel

import (
	"errors"
	"fmt"

	"escrow/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrActorNotPermitted is the reason carried by a precondition error when the
// caller's role or identity may not perform an operation.
var ErrActorNotPermitted = errors.New("actor not permitted")

// Role is the already-authenticated role of the caller.
type Role int

const (
	RoleUnknown Role = iota
	RoleBuyer
	RoleSeller
	RoleCourier
	RoleAdmin
	RoleSystem
)

var roleNames = map[Role]string{
	RoleUnknown: "unknown",
	RoleBuyer:   "buyer",
	RoleSeller:  "seller",
	RoleCourier: "courier",
	RoleAdmin:   "admin",
	RoleSystem:  "system",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return roleNames[RoleUnknown]
}

func (r Role) Validate() error {
	if r <= RoleUnknown || r > RoleSystem {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if r != RoleUnknown && name == s {
			return r, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// systemActorID identifies the engine itself (timers, inbound payment events).
var systemActorID = UUIDFromGoogle(uuid.MustParse("00000000-0000-0000-0000-000000000001"))

// Actor is the identity on whose behalf an operation runs.
type Actor struct {
	id   UUID
	role Role
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role}, nil
}

func SystemActor() Actor {
	return Actor{id: systemActorID, role: RoleSystem}
}

func (a Actor) ID() UUID   { return a.id }
func (a Actor) Role() Role { return a.role }

func (a Actor) Is(role Role) bool {
	return a.role == role
}

func (a Actor) IsPrivileged() bool {
	return a.role == RoleAdmin || a.role == RoleSystem
}

func (a Actor) Validate() error {
	return errors.Join(a.id.Validate(), a.role.Validate())
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.role, a.id)
}

// NotPermitted builds the precondition error for a rejected actor.
func NotPermitted(actor Actor, action string) error {
	return errs.NewPreconditionFailedError(ErrActorNotPermitted, fmt.Sprintf("%s may not %s", actor, action))
}
