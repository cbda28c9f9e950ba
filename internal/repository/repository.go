package repository

import (
	"time"

	"github.com/ezubkova/todolist-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// Update persists changed user fields
	Update(user *models.User) error
}

// BoardRepository defines the interface for board and participant data access
type BoardRepository interface {
	// CreateWithOwner creates a board and its owner participant atomically
	CreateWithOwner(board *models.Board, ownerID uint64) error

	// FindByID finds a non-deleted board by ID
	FindByID(id uint64) (*models.Board, error)

	// ListByParticipant lists non-deleted boards the user participates in,
	// ordered by title
	ListByParticipant(userID uint64) ([]models.Board, error)

	// UpdateWithParticipants saves the board's fields and swaps its non-owner
	// participants for the given set inside a single transaction
	UpdateWithParticipants(board *models.Board, ownerID uint64, participants []models.BoardParticipant) error

	// SoftDelete marks the board deleted and cascades to categories and goals
	// atomically
	SoftDelete(boardID uint64) error

	// FindParticipant finds the user's participant row for a board
	FindParticipant(boardID, userID uint64) (*models.BoardParticipant, error)

	// ListParticipants lists all participants of a board with users preloaded
	ListParticipants(boardID uint64) ([]models.BoardParticipant, error)
}

// GoalFilter holds filtering options for listing goals
type GoalFilter struct {
	UserID      uint64
	CategoryID  *uint64
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Search      string
	OrderBy     string
	Limit       int
	Offset      int
}

// CategoryFilter holds filtering options for listing categories
type CategoryFilter struct {
	UserID  uint64
	BoardID *uint64
	Search  string
	OrderBy string
}

// GoalRepository defines the interface for category, goal and comment data access
type GoalRepository interface {
	// CreateCategory creates a new category
	CreateCategory(category *models.GoalCategory) error

	// FindCategoryByID finds a non-deleted category by ID
	FindCategoryByID(id uint64) (*models.GoalCategory, error)

	// ListCategories lists the user's non-deleted categories
	ListCategories(filter CategoryFilter) ([]models.GoalCategory, error)

	// UpdateCategory persists category field changes
	UpdateCategory(category *models.GoalCategory) error

	// SoftDeleteCategory marks the category deleted and archives its goals
	// atomically
	SoftDeleteCategory(categoryID uint64) error

	// CreateGoal creates a new goal
	CreateGoal(goal *models.Goal) error

	// FindGoalByID finds an active goal by ID with its category preloaded
	FindGoalByID(id uint64) (*models.Goal, error)

	// ListGoals lists active goals on boards the user participates in
	ListGoals(filter GoalFilter) ([]models.Goal, int64, error)

	// UpdateGoal persists goal field changes
	UpdateGoal(goal *models.Goal) error

	// ArchiveGoal sets the goal status to archived
	ArchiveGoal(goalID uint64) error

	// CreateComment creates a new comment
	CreateComment(comment *models.GoalComment) error

	// FindCommentByID finds a comment by ID with its author preloaded
	FindCommentByID(id uint64) (*models.GoalComment, error)

	// ListComments lists comments on the goal, newest first
	ListComments(goalID uint64, limit, offset int) ([]models.GoalComment, int64, error)

	// UpdateComment persists comment field changes
	UpdateComment(comment *models.GoalComment) error

	// DeleteComment removes a comment
	DeleteComment(commentID uint64) error
}

// TgUserRepository defines the interface for bot link data access
type TgUserRepository interface {
	// Create creates a new bot link row
	Create(tgUser *models.TgUser) error

	// FindByChatID finds a bot link row by telegram chat ID
	FindByChatID(chatID int64) (*models.TgUser, error)

	// FindByVerificationCode finds a bot link row by its verification code
	FindByVerificationCode(code string) (*models.TgUser, error)

	// Update persists bot link field changes
	Update(tgUser *models.TgUser) error

	// GetCursor returns the persisted poller offset, zero when absent
	GetCursor() (int64, error)

	// SetCursor persists the poller offset
	SetCursor(lastUpdateID int64) error
}
