package models

import "time"

type GoalComment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	GoalID    uint64    `gorm:"not null;index" json:"goal"`
	UserID    uint64    `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	// Relations
	Goal Goal `gorm:"foreignKey:GoalID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
