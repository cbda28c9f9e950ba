package models

import "time"

// GoalStatus values match the original numeric choices so stored rows stay
// comparable across clients.
type GoalStatus int

const (
	StatusToDo       GoalStatus = 1
	StatusInProgress GoalStatus = 2
	StatusDone       GoalStatus = 3
	StatusArchived   GoalStatus = 4
)

type GoalPriority int

const (
	PriorityLow      GoalPriority = 1
	PriorityMedium   GoalPriority = 2
	PriorityHigh     GoalPriority = 3
	PriorityCritical GoalPriority = 4
)

type Goal struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	Status      GoalStatus   `gorm:"not null;default:1;index" json:"status"`
	Priority    GoalPriority `gorm:"not null;default:2" json:"priority"`
	CategoryID  uint64       `gorm:"not null;index" json:"category"`
	UserID      uint64       `gorm:"not null;index" json:"-"`
	CreatedAt   time.Time    `json:"created"`
	UpdatedAt   time.Time    `json:"updated"`

	// Relations
	Category GoalCategory  `gorm:"foreignKey:CategoryID" json:"-"`
	User     User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments []GoalComment `gorm:"foreignKey:GoalID" json:"-"`
}
