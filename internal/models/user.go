package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string    `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150)" json:"last_name"`
	Email        string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Participations []BoardParticipant `gorm:"foreignKey:UserID" json:"-"`
	Categories     []GoalCategory     `gorm:"foreignKey:UserID" json:"-"`
	Goals          []Goal             `gorm:"foreignKey:UserID" json:"-"`
}
