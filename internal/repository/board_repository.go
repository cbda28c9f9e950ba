package repository

import (
	"errors"
	"fmt"

	"github.com/ezubkova/todolist-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateBoard is returned when creating a board fails inside the create transaction.
	ErrCreateBoard = errors.New("board repository: create board failed")
	// ErrCreateParticipant is returned when creating the owner participant fails inside the create transaction.
	ErrCreateParticipant = errors.New("board repository: create participant failed")
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// CreateWithOwner creates a board and its owner participant atomically.
// Every board has an owner from the moment it exists.
func (r *GormBoardRepository) CreateWithOwner(board *models.Board, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateBoard, err)
		}

		participant := models.BoardParticipant{
			BoardID: board.ID,
			UserID:  ownerID,
			Role:    models.RoleOwner,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateParticipant, err)
		}

		return nil
	})
}

// FindByID finds a non-deleted board by ID
func (r *GormBoardRepository) FindByID(id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.Where("is_deleted = ?", false).First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListByParticipant lists non-deleted boards the user participates in, ordered by title
func (r *GormBoardRepository) ListByParticipant(userID uint64) ([]models.Board, error) {
	var boards []models.Board
	err := r.db.
		Joins("JOIN board_participants ON board_participants.board_id = boards.id").
		Where("board_participants.user_id = ?", userID).
		Where("boards.is_deleted = ?", false).
		Order("boards.title").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// UpdateWithParticipants saves the board's fields and swaps its non-owner
// participants for the given set inside a single transaction: a failed insert
// loses the rename too, never half the edit. The owner row is never touched,
// so a board cannot end up ownerless.
func (r *GormBoardRepository) UpdateWithParticipants(board *models.Board, ownerID uint64, participants []models.BoardParticipant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(board).Error; err != nil {
			return err
		}

		if err := tx.
			Where("board_id = ? AND user_id <> ?", board.ID, ownerID).
			Delete(&models.BoardParticipant{}).Error; err != nil {
			return err
		}

		for i := range participants {
			participants[i].BoardID = board.ID
		}

		if len(participants) > 0 {
			if err := tx.Create(&participants).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SoftDelete marks the board deleted, marks its categories deleted and
// archives every goal under them, all inside one transaction so a partial
// cascade is never visible.
func (r *GormBoardRepository) SoftDelete(boardID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Board{}).
			Where("id = ?", boardID).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.GoalCategory{}).
			Where("board_id = ?", boardID).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		categoryIDs := tx.Model(&models.GoalCategory{}).
			Select("id").
			Where("board_id = ?", boardID)

		if err := tx.Model(&models.Goal{}).
			Where("category_id IN (?)", categoryIDs).
			Update("status", models.StatusArchived).Error; err != nil {
			return err
		}

		return nil
	})
}

// FindParticipant finds the user's participant row for a board
func (r *GormBoardRepository) FindParticipant(boardID, userID uint64) (*models.BoardParticipant, error) {
	var participant models.BoardParticipant
	if err := r.db.Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&participant).Error; err != nil {
		return nil, err
	}
	return &participant, nil
}

// ListParticipants lists all participants of a board with users preloaded
func (r *GormBoardRepository) ListParticipants(boardID uint64) ([]models.BoardParticipant, error) {
	var participants []models.BoardParticipant
	if err := r.db.Preload("User").
		Where("board_id = ?", boardID).
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}
