package repository

import (
	"errors"

	"github.com/ezubkova/todolist-api/internal/models"
	"gorm.io/gorm"
)

// botCursorID keys the single poller cursor row.
const botCursorID = 1

// GormTgUserRepository is a GORM implementation of TgUserRepository
type GormTgUserRepository struct {
	db *gorm.DB
}

// NewTgUserRepository creates a new TgUserRepository
func NewTgUserRepository(db *gorm.DB) TgUserRepository {
	return &GormTgUserRepository{db: db}
}

// Create creates a new bot link row
func (r *GormTgUserRepository) Create(tgUser *models.TgUser) error {
	return r.db.Create(tgUser).Error
}

// FindByChatID finds a bot link row by telegram chat ID
func (r *GormTgUserRepository) FindByChatID(chatID int64) (*models.TgUser, error) {
	var tgUser models.TgUser
	if err := r.db.Where("chat_id = ?", chatID).First(&tgUser).Error; err != nil {
		return nil, err
	}
	return &tgUser, nil
}

// FindByVerificationCode finds a bot link row by its verification code
func (r *GormTgUserRepository) FindByVerificationCode(code string) (*models.TgUser, error) {
	var tgUser models.TgUser
	if err := r.db.Where("verification_code = ?", code).First(&tgUser).Error; err != nil {
		return nil, err
	}
	return &tgUser, nil
}

// Update persists bot link field changes
func (r *GormTgUserRepository) Update(tgUser *models.TgUser) error {
	return r.db.Save(tgUser).Error
}

// GetCursor returns the persisted poller offset, zero when absent
func (r *GormTgUserRepository) GetCursor() (int64, error) {
	var cursor models.BotCursor
	if err := r.db.First(&cursor, botCursorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return cursor.LastUpdateID, nil
}

// SetCursor persists the poller offset
func (r *GormTgUserRepository) SetCursor(lastUpdateID int64) error {
	cursor := models.BotCursor{ID: botCursorID, LastUpdateID: lastUpdateID}
	return r.db.Save(&cursor).Error
}
