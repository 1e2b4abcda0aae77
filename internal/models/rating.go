package model

import "time"

type Rating struct {
	ID       string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID   string    `gorm:"size:36;not null;index" json:"task_id"`
	AuthorID string    `gorm:"size:64;not null" json:"author_id"`
	Stars    int       `gorm:"not null" json:"stars"`
	Comment  string    `json:"comment"`
	At       time.Time `gorm:"not null" json:"at"`
}

// DeletedRating keeps a removed rating for audit. ID is the original rating id.
type DeletedRating struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"task_id"`
	AuthorID  string    `gorm:"size:64;not null" json:"author_id"`
	Stars     int       `gorm:"not null" json:"stars"`
	Comment   string    `json:"comment"`
	At        time.Time `gorm:"not null" json:"at"`
	DeletedBy string    `gorm:"size:64;not null" json:"deleted_by"`
	DeletedAt time.Time `gorm:"not null" json:"deleted_at"`
}
