package model

import (
	"time"

	"repair-pool.com/repair-pool/internal/constants"
)

// Vote is an approval or a rejection. The unique (task, voter) index keeps a
// resident from holding both.
type Vote struct {
	ID        string                 `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string                 `gorm:"size:36;not null;uniqueIndex:idx_votes_task_voter" json:"task_id"`
	VoterID   string                 `gorm:"size:64;not null;uniqueIndex:idx_votes_task_voter" json:"voter_id"`
	VoterRole constants.Role         `gorm:"type:varchar(20);not null" json:"voter_role"`
	Decision  constants.VoteDecision `gorm:"type:varchar(10);not null" json:"decision"`
	At        time.Time              `gorm:"not null" json:"at"`
}
