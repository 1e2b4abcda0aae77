package model

import (
	"time"

	"repair-pool.com/repair-pool/internal/constants"
)

type Resident struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Role      constants.Role `gorm:"type:varchar(20);not null;index" json:"role"`
	Active    bool           `gorm:"not null" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
}
