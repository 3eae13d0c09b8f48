package services

import (
	"fmt"

	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/party"
	"escrow/internal/pkg/errs"
)

// PenaltyPolicy applies dispute penalties to members: a warning is only
// recorded, a strike increments the counter and bans on the third, a ban
// bans outright.
type PenaltyPolicy struct{}

func NewPenaltyPolicy() PenaltyPolicy {
	return PenaltyPolicy{}
}

// Apply mutates member and reports whether the member is banned afterwards.
func (p PenaltyPolicy) Apply(member *party.Member, penalty dispute.Penalty) (banned bool, err error) {
	if err := member.Validate(); err != nil {
		return false, err
	}
	if !member.ID().IsEqual(penalty.UserID) {
		return false, errs.NewValueIsInvalidErrorWithCause("penalty",
			fmt.Errorf("penalty for %s applied to %s", penalty.UserID, member.ID()))
	}

	switch penalty.Type {
	case dispute.Warning:
	case dispute.Strike:
		if member.AddStrike() {
			member.Ban()
		}
	case dispute.Ban:
		member.Ban()
	default:
		return false, penalty.Type.Validate()
	}
	return member.IsBanned(), nil
}
