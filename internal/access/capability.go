// Package access maps resident roles to the actions they may take.
package access

import (
	"fmt"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
)

type Capability string

const (
	ProposeTask Capability = "propose_task"
	ApproveTask Capability = "approve_task"
	RejectTask  Capability = "reject_task"
	PlaceBid    Capability = "place_bid"
	VerifyWork  Capability = "verify_work"
	RateTask    Capability = "rate_task"
	Administer  Capability = "administer"
)

var grants = map[constants.Role][]Capability{
	constants.RoleOwner:   {ProposeTask, ApproveTask, PlaceBid, RateTask},
	constants.RoleCouncil: {ProposeTask, ApproveTask, RejectTask, PlaceBid, VerifyWork, RateTask},
	constants.RoleAdmin:   {ProposeTask, ApproveTask, RejectTask, PlaceBid, VerifyWork, RateTask, Administer},
}

func Allows(r *model.Resident, c Capability) bool {
	if r == nil || !r.Active {
		return false
	}
	for _, granted := range grants[r.Role] {
		if granted == c {
			return true
		}
	}
	return false
}

// Require returns nil when r may use c.
func Require(r *model.Resident, c Capability) error {
	if r == nil {
		return apperrors.ErrResidentNotFound
	}
	if !r.Active {
		return fmt.Errorf("%w: %s", apperrors.ErrResidentInactive, r.ID)
	}
	if !Allows(r, c) {
		return fmt.Errorf("%w: %s cannot %s", apperrors.ErrNotPermitted, r.Role, c)
	}
	return nil
}

// Elevated reports council or admin standing.
func Elevated(r *model.Resident) bool {
	return Allows(r, VerifyWork)
}

// ElevatedRoles lists the roles notified about governance events.
func ElevatedRoles() []constants.Role {
	return []constants.Role{constants.RoleCouncil, constants.RoleAdmin}
}
