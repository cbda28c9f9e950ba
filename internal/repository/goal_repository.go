package repository

import (
	"github.com/ezubkova/todolist-api/internal/database"
	"github.com/ezubkova/todolist-api/internal/models"
	"gorm.io/gorm"
)

// GormGoalRepository is a GORM implementation of GoalRepository
type GormGoalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &GormGoalRepository{db: db}
}

// CreateCategory creates a new category
func (r *GormGoalRepository) CreateCategory(category *models.GoalCategory) error {
	return r.db.Create(category).Error
}

// FindCategoryByID finds a non-deleted category by ID
func (r *GormGoalRepository) FindCategoryByID(id uint64) (*models.GoalCategory, error) {
	var category models.GoalCategory
	if err := r.db.Preload("User").
		Where("is_deleted = ?", false).
		First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories lists the user's non-deleted categories
func (r *GormGoalRepository) ListCategories(filter CategoryFilter) ([]models.GoalCategory, error) {
	query := r.db.Preload("User").
		Where("goal_categories.user_id = ?", filter.UserID).
		Where("goal_categories.is_deleted = ?", false)

	if filter.BoardID != nil {
		query = query.Where("goal_categories.board_id = ?", *filter.BoardID)
	}
	if filter.Search != "" {
		query = query.Where("goal_categories.title LIKE ?", "%"+filter.Search+"%")
	}

	switch filter.OrderBy {
	case "created":
		query = query.Order("goal_categories.created_at")
	case "-created":
		query = query.Order("goal_categories.created_at DESC")
	default:
		query = query.Order("goal_categories.title")
	}

	var categories []models.GoalCategory
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory persists category field changes
func (r *GormGoalRepository) UpdateCategory(category *models.GoalCategory) error {
	return r.db.Save(category).Error
}

// SoftDeleteCategory marks the category deleted and archives its goals
// atomically
func (r *GormGoalRepository) SoftDeleteCategory(categoryID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GoalCategory{}).
			Where("id = ?", categoryID).
			Update("is_deleted", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.Goal{}).
			Where("category_id = ?", categoryID).
			Update("status", models.StatusArchived).Error
	})
}

// CreateGoal creates a new goal
func (r *GormGoalRepository) CreateGoal(goal *models.Goal) error {
	return r.db.Create(goal).Error
}

// FindGoalByID finds an active goal by ID with its category preloaded.
// Archived goals and goals in deleted categories do not resolve.
func (r *GormGoalRepository) FindGoalByID(id uint64) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.Preload("Category").Preload("User").
		Joins("JOIN goal_categories ON goal_categories.id = goals.category_id").
		Where("goals.status <> ?", models.StatusArchived).
		Where("goal_categories.is_deleted = ?", false).
		First(&goal, "goals.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListGoals lists active goals on boards the user participates in
func (r *GormGoalRepository) ListGoals(filter GoalFilter) ([]models.Goal, int64, error) {
	query := r.db.Model(&models.Goal{}).
		Joins("JOIN goal_categories ON goal_categories.id = goals.category_id").
		Joins("JOIN board_participants ON board_participants.board_id = goal_categories.board_id").
		Where("board_participants.user_id = ?", filter.UserID).
		Where("goal_categories.is_deleted = ?", false).
		Where("goals.status <> ?", models.StatusArchived)

	if filter.CategoryID != nil {
		query = query.Where("goals.category_id = ?", *filter.CategoryID)
	}
	if filter.DueDateFrom != nil {
		query = query.Where("goals.due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		query = query.Where("goals.due_date <= ?", *filter.DueDateTo)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("goals.title LIKE ? OR goals.description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.OrderBy {
	case "created":
		query = query.Order("goals.created_at")
	case "-created":
		query = query.Order("goals.created_at DESC")
	case "due_date":
		query = query.Order("goals.due_date")
	default:
		query = query.Order("goals.title")
	}

	query = query.Scopes(database.Paginate(filter.Limit, filter.Offset))

	var goals []models.Goal
	if err := query.Preload("User").Find(&goals).Error; err != nil {
		return nil, 0, err
	}

	return goals, total, nil
}

// UpdateGoal persists goal field changes
func (r *GormGoalRepository) UpdateGoal(goal *models.Goal) error {
	return r.db.Save(goal).Error
}

// ArchiveGoal sets the goal status to archived
func (r *GormGoalRepository) ArchiveGoal(goalID uint64) error {
	return r.db.Model(&models.Goal{}).
		Where("id = ?", goalID).
		Update("status", models.StatusArchived).Error
}

// CreateComment creates a new comment
func (r *GormGoalRepository) CreateComment(comment *models.GoalComment) error {
	return r.db.Create(comment).Error
}

// FindCommentByID finds a comment by ID with its author preloaded
func (r *GormGoalRepository) FindCommentByID(id uint64) (*models.GoalComment, error) {
	var comment models.GoalComment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments lists comments on the goal, newest first
func (r *GormGoalRepository) ListComments(goalID uint64, limit, offset int) ([]models.GoalComment, int64, error) {
	query := r.db.Model(&models.GoalComment{}).Where("goal_id = ?", goalID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(database.Paginate(limit, offset))

	var comments []models.GoalComment
	if err := query.Preload("User").
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// UpdateComment persists comment field changes
func (r *GormGoalRepository) UpdateComment(comment *models.GoalComment) error {
	return r.db.Save(comment).Error
}

// DeleteComment removes a comment
func (r *GormGoalRepository) DeleteComment(commentID uint64) error {
	return r.db.Delete(&models.GoalComment{}, commentID).Error
}
