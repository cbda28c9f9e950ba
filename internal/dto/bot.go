package dto

import (
	"github.com/ezubkova/todolist-api/internal/models"
)

// TgUserDTO represents a bot link in API responses
type TgUserDTO struct {
	TgID             int64   `json:"tg_id"`
	VerificationCode string  `json:"verification_code"`
	UserID           *uint64 `json:"user_id"`
}

// ToTgUserDTO converts a TgUser model to TgUserDTO
func ToTgUserDTO(tgUser models.TgUser) TgUserDTO {
	return TgUserDTO{
		TgID:             tgUser.ChatID,
		VerificationCode: tgUser.VerificationCode,
		UserID:           tgUser.UserID,
	}
}
