package models

import "time"

// TgUser links a telegram chat to an account. A row starts unlinked with a
// fresh verification code and becomes linked once a user submits that code
// through the API.
type TgUser struct {
	ID               uint64    `gorm:"primarykey" json:"-"`
	ChatID           int64     `gorm:"uniqueIndex;not null" json:"tg_id"`
	TgUsername       string    `gorm:"type:varchar(255)" json:"-"`
	VerificationCode string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"verification_code"`
	UserID           *uint64   `gorm:"index" json:"user_id"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// Linked reports whether the chat has been attached to an account.
func (t *TgUser) Linked() bool {
	return t.UserID != nil
}
