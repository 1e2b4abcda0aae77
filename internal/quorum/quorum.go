// Package quorum records council votes on a pending task and decides when
// enough of them have been cast to open it for bidding.
package quorum

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"repair-pool.com/repair-pool/internal/constants"
	apperrors "repair-pool.com/repair-pool/internal/errors"
	model "repair-pool.com/repair-pool/internal/models"
)

const DefaultMinApprovals = 2

type Policy struct {
	MinApprovals int
}

func NewPolicy(minApprovals int) Policy {
	if minApprovals <= 0 {
		minApprovals = DefaultMinApprovals
	}
	return Policy{MinApprovals: minApprovals}
}

// Reached is true once MinApprovals distinct residents approved, or as soon
// as any admin approved.
func (p Policy) Reached(t *model.Task) bool {
	approvals := t.Approvals()
	for _, v := range approvals {
		if v.VoterRole == constants.RoleAdmin {
			return true
		}
	}
	return len(approvals) >= p.MinApprovals
}

func RecordApproval(t *model.Task, voter *model.Resident, at time.Time) (*model.Vote, error) {
	return record(t, voter, constants.VoteApprove, at)
}

func RecordRejection(t *model.Task, voter *model.Resident, at time.Time) (*model.Vote, error) {
	return record(t, voter, constants.VoteReject, at)
}

func record(t *model.Task, voter *model.Resident, decision constants.VoteDecision, at time.Time) (*model.Vote, error) {
	if prior, ok := t.VoteBy(voter.ID); ok {
		return nil, fmt.Errorf("%w: %s already voted %s", apperrors.ErrDuplicateVote, voter.ID, prior.Decision)
	}

	vote := model.Vote{
		ID:        uuid.NewString(),
		TaskID:    t.ID,
		VoterID:   voter.ID,
		VoterRole: voter.Role,
		Decision:  decision,
		At:        at,
	}
	t.Votes = append(t.Votes, vote)

	return &vote, nil
}
