package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotBoardWriter   = errors.New("you must be owner or writer")
	ErrNotCommentAuthor = errors.New("only the author can edit this comment")
	ErrInvalidTitle     = errors.New("title cannot be empty")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrEmptyCommentText = errors.New("comment text cannot be empty")
)

// GoalService provides business logic for categories, goals and comments.
type GoalService struct {
	goalRepo  repository.GoalRepository
	boardRepo repository.BoardRepository
}

// NewGoalService creates a new GoalService.
func NewGoalService(goalRepo repository.GoalRepository, boardRepo repository.BoardRepository) *GoalService {
	return &GoalService{
		goalRepo:  goalRepo,
		boardRepo: boardRepo,
	}
}

// requireWriter checks that the user holds at least the writer role on the
// board. A missing participant row or a reader role both fail the check.
func (s *GoalService) requireWriter(boardID, userID uint64) error {
	participant, err := s.boardRepo.FindParticipant(boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotBoardWriter
		}
		return fmt.Errorf("failed to check board role: %w", err)
	}
	if !participant.Role.AtLeast(models.RoleWriter) {
		return ErrNotBoardWriter
	}
	return nil
}

// CreateCategoryInput holds the fields to create a category.
type CreateCategoryInput struct {
	Title   string
	BoardID uint64
}

// CreateCategory creates a category on a live board. The creator must hold
// owner or writer on that board.
func (s *GoalService) CreateCategory(userID uint64, input CreateCategoryInput) (*models.GoalCategory, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidTitle
	}

	if _, err := s.boardRepo.FindByID(input.BoardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	if err := s.requireWriter(input.BoardID, userID); err != nil {
		return nil, err
	}

	category := &models.GoalCategory{
		Title:   input.Title,
		BoardID: input.BoardID,
		UserID:  userID,
	}
	if err := s.goalRepo.CreateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ListCategories lists the user's categories with optional board filter and search.
func (s *GoalService) ListCategories(filter repository.CategoryFilter) ([]models.GoalCategory, error) {
	categories, err := s.goalRepo.ListCategories(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory renames the category. The board reference is immutable.
func (s *GoalService) UpdateCategory(category *models.GoalCategory, title string) (*models.GoalCategory, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}

	category.Title = title
	if err := s.goalRepo.UpdateCategory(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory soft-deletes the category and archives its goals atomically.
func (s *GoalService) DeleteCategory(categoryID uint64) error {
	if err := s.goalRepo.SoftDeleteCategory(categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// resolveCategoryForGoal loads the target category for a goal create or move
// and enforces the writer check on its board.
func (s *GoalService) resolveCategoryForGoal(categoryID, userID uint64) (*models.GoalCategory, error) {
	category, err := s.goalRepo.FindCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if err := s.requireWriter(category.BoardID, userID); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateGoalInput holds the fields to create a goal.
type CreateGoalInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	CategoryID  uint64
	Priority    models.GoalPriority
}

// CreateGoal creates a goal in a live category. The creator must hold owner
// or writer on the category's board.
func (s *GoalService) CreateGoal(userID uint64, input CreateGoalInput) (*models.Goal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidTitle
	}

	if _, err := s.resolveCategoryForGoal(input.CategoryID, userID); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}
	if priority < models.PriorityLow || priority > models.PriorityCritical {
		return nil, ErrInvalidPriority
	}

	goal := &models.Goal{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      models.StatusToDo,
		Priority:    priority,
		CategoryID:  input.CategoryID,
		UserID:      userID,
	}
	if err := s.goalRepo.CreateGoal(goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// ListGoals lists active goals visible to the user.
func (s *GoalService) ListGoals(filter repository.GoalFilter) ([]models.Goal, int64, error) {
	goals, total, err := s.goalRepo.ListGoals(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, total, nil
}

// UpdateGoalInput holds the editable goal fields. Nil means "leave unchanged";
// DueDateSet distinguishes clearing the due date from leaving it alone.
type UpdateGoalInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	DueDateSet  bool
	Status      *models.GoalStatus
	Priority    *models.GoalPriority
	CategoryID  *uint64
}

// UpdateGoal applies the provided fields. Moving the goal to another category
// revalidates that category like a create would.
func (s *GoalService) UpdateGoal(userID uint64, goal *models.Goal, input UpdateGoalInput) (*models.Goal, error) {
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrInvalidTitle
		}
		goal.Title = *input.Title
	}
	if input.Description != nil {
		goal.Description = *input.Description
	}
	if input.DueDateSet {
		goal.DueDate = input.DueDate
	}
	if input.Status != nil {
		if *input.Status < models.StatusToDo || *input.Status > models.StatusArchived {
			return nil, ErrInvalidStatus
		}
		goal.Status = *input.Status
	}
	if input.Priority != nil {
		if *input.Priority < models.PriorityLow || *input.Priority > models.PriorityCritical {
			return nil, ErrInvalidPriority
		}
		goal.Priority = *input.Priority
	}
	if input.CategoryID != nil && *input.CategoryID != goal.CategoryID {
		if _, err := s.resolveCategoryForGoal(*input.CategoryID, userID); err != nil {
			return nil, err
		}
		goal.CategoryID = *input.CategoryID
	}

	if err := s.goalRepo.UpdateGoal(goal); err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// ArchiveGoal archives the goal. Archiving is the delete path for goals.
func (s *GoalService) ArchiveGoal(goalID uint64) error {
	if err := s.goalRepo.ArchiveGoal(goalID); err != nil {
		return fmt.Errorf("failed to archive goal: %w", err)
	}
	return nil
}

// VisibleGoal resolves an active goal for a read path. A missing participant
// row hides the goal entirely: callers outside the board get not-found, never
// forbidden.
func (s *GoalService) VisibleGoal(userID, goalID uint64) (*models.Goal, error) {
	goal, err := s.goalRepo.FindGoalByID(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}

	if _, err := s.boardRepo.FindParticipant(goal.Category.BoardID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to check board role: %w", err)
	}
	return goal, nil
}

// CreateComment adds a comment to an active goal. The author must hold owner
// or writer on the goal's board.
func (s *GoalService) CreateComment(userID, goalID uint64, text string) (*models.GoalComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyCommentText
	}

	goal, err := s.goalRepo.FindGoalByID(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}

	if err := s.requireWriter(goal.Category.BoardID, userID); err != nil {
		return nil, err
	}

	comment := &models.GoalComment{
		Text:   text,
		GoalID: goalID,
		UserID: userID,
	}
	if err := s.goalRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments lists comments on the goal, newest first.
func (s *GoalService) ListComments(goalID uint64, limit, offset int) ([]models.GoalComment, int64, error) {
	comments, total, err := s.goalRepo.ListComments(goalID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// UpdateComment edits the comment text. Only the author may edit.
func (s *GoalService) UpdateComment(userID uint64, comment *models.GoalComment, text string) (*models.GoalComment, error) {
	if comment.UserID != userID {
		return nil, ErrNotCommentAuthor
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyCommentText
	}

	comment.Text = text
	if err := s.goalRepo.UpdateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes the comment. Only the author may delete.
func (s *GoalService) DeleteComment(userID uint64, comment *models.GoalComment) error {
	if comment.UserID != userID {
		return ErrNotCommentAuthor
	}
	if err := s.goalRepo.DeleteComment(comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
