package models

import "time"

// BotCursor persists the poller's update offset. A single row keyed by ID 1
// records the last update id that was fully processed, so a restarted poller
// resumes without dropping updates.
type BotCursor struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	LastUpdateID int64     `gorm:"not null;default:0" json:"last_update_id"`
	UpdatedAt    time.Time `json:"updated_at"`
}
