package model

import (
	"time"

	"repair-pool.com/repair-pool/internal/constants"
)

type Task struct {
	ID               string               `gorm:"primaryKey;size:36" json:"id"`
	Title            string               `gorm:"not null" json:"title"`
	Category         constants.Category   `gorm:"type:varchar(20);not null" json:"category"`
	Scope            constants.Scope      `gorm:"type:varchar(20);not null" json:"scope"`
	Location         string               `json:"location"`
	Details          string               `json:"details"`
	PhotoRef         *string              `json:"photo_ref,omitempty"`
	StartingPrice    int64                `gorm:"not null" json:"starting_price"`
	WarrantyDays     int                  `gorm:"not null;default:0" json:"warranty_days"`
	Status           constants.TaskStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Version          uint                 `gorm:"not null;default:1" json:"version"`
	CreatedBy        string               `gorm:"size:64;not null;index" json:"created_by"`
	CreatedAt        time.Time            `json:"created_at"`
	BiddingStartedAt *time.Time           `json:"bidding_started_at,omitempty"`
	AwardedTo        *string              `gorm:"size:64" json:"awarded_to,omitempty"`
	AwardedAmount    *int64               `json:"awarded_amount,omitempty"`
	CompletionAt     *time.Time           `json:"completion_at,omitempty"`
	ValidatedBy      *string              `gorm:"size:64" json:"validated_by,omitempty"`

	Bids           []Bid           `gorm:"foreignKey:TaskID" json:"bids"`
	Votes          []Vote          `gorm:"foreignKey:TaskID" json:"votes"`
	Ratings        []Rating        `gorm:"foreignKey:TaskID" json:"ratings"`
	DeletedRatings []DeletedRating `gorm:"foreignKey:TaskID" json:"deleted_ratings,omitempty"`
}

func (t *Task) Approvals() []Vote {
	return t.votesWith(constants.VoteApprove)
}

func (t *Task) Rejections() []Vote {
	return t.votesWith(constants.VoteReject)
}

// VoteBy returns the vote cast by voterID, if any.
func (t *Task) VoteBy(voterID string) (*Vote, bool) {
	for i := range t.Votes {
		if t.Votes[i].VoterID == voterID {
			return &t.Votes[i], true
		}
	}
	return nil, false
}

func (t *Task) IsAssignee(residentID string) bool {
	return t.AwardedTo != nil && *t.AwardedTo == residentID
}

func (t *Task) votesWith(decision constants.VoteDecision) []Vote {
	var out []Vote
	for _, v := range t.Votes {
		if v.Decision == decision {
			out = append(out, v)
		}
	}
	return out
}
