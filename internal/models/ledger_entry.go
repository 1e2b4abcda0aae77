package model

import (
	"time"

	"repair-pool.com/repair-pool/internal/constants"
)

// LedgerEntry references its task by id only; it outlives task deletion.
// A nil Payer means the building collective pays.
type LedgerEntry struct {
	ID     string                    `gorm:"primaryKey;size:36" json:"id"`
	TaskID string                    `gorm:"size:36;not null;uniqueIndex" json:"task_id"`
	Type   constants.LedgerEntryType `gorm:"type:varchar(32);not null" json:"type"`
	Payer  *string                   `gorm:"size:64" json:"payer"`
	Payee  string                    `gorm:"size:64;not null" json:"payee"`
	Amount int64                     `gorm:"not null" json:"amount"`
	At     time.Time                 `gorm:"not null" json:"at"`
}
