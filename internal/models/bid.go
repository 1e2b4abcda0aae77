package model

import "time"

// Bid is immutable once stored. Seq orders bids that share a timestamp.
type Bid struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID   string    `gorm:"size:36;not null;uniqueIndex:idx_bids_task_seq" json:"task_id"`
	Seq      int       `gorm:"not null;uniqueIndex:idx_bids_task_seq" json:"seq"`
	BidderID string    `gorm:"size:64;not null" json:"bidder_id"`
	Amount   int64     `gorm:"not null" json:"amount"`
	Note     string    `json:"note,omitempty"`
	At       time.Time `gorm:"not null" json:"at"`
}
