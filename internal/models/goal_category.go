package models

import "time"

type GoalCategory struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	BoardID   uint64    `gorm:"not null;index" json:"board"`
	UserID    uint64    `gorm:"not null;index" json:"-"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`

	// Relations
	Board Board  `gorm:"foreignKey:BoardID" json:"-"`
	User  User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Goals []Goal `gorm:"foreignKey:CategoryID" json:"-"`
}
