package dto

import (
	"time"

	"github.com/ezubkova/todolist-api/internal/models"
)

// CategoryDTO represents a goal category in API responses
type CategoryDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	BoardID   uint64    `json:"board"`
	IsDeleted bool      `json:"is_deleted"`
	User      *UserDTO  `json:"user,omitempty"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// GoalDTO represents a goal in API responses
type GoalDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Status      models.GoalStatus   `json:"status"`
	Priority    models.GoalPriority `json:"priority"`
	CategoryID  uint64              `json:"category"`
	User        *UserDTO            `json:"user,omitempty"`
	CreatedAt   time.Time           `json:"created"`
	UpdatedAt   time.Time           `json:"updated"`
}

// CommentDTO represents a goal comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	GoalID    uint64    `json:"goal"`
	User      *UserDTO  `json:"user,omitempty"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// GoalListResponse represents a paginated list of goals
type GoalListResponse struct {
	Goals      []GoalDTO `json:"goals"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalCount int64     `json:"total_count"`
}

// CommentListResponse represents a paginated list of comments
type CommentListResponse struct {
	Comments   []CommentDTO `json:"comments"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalCount int64        `json:"total_count"`
}

// ToCategoryDTO converts a GoalCategory model to CategoryDTO
func ToCategoryDTO(category models.GoalCategory) CategoryDTO {
	dto := CategoryDTO{
		ID:        category.ID,
		Title:     category.Title,
		BoardID:   category.BoardID,
		IsDeleted: category.IsDeleted,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}

	// Include creator if preloaded
	if category.User.ID != 0 {
		user := ToUserDTO(category.User)
		dto.User = &user
	}

	return dto
}

// ToGoalDTO converts a Goal model to GoalDTO
func ToGoalDTO(goal models.Goal) GoalDTO {
	dto := GoalDTO{
		ID:          goal.ID,
		Title:       goal.Title,
		Description: goal.Description,
		DueDate:     goal.DueDate,
		Status:      goal.Status,
		Priority:    goal.Priority,
		CategoryID:  goal.CategoryID,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}

	if goal.User.ID != 0 {
		user := ToUserDTO(goal.User)
		dto.User = &user
	}

	return dto
}

// ToCommentDTO converts a GoalComment model to CommentDTO
func ToCommentDTO(comment models.GoalComment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Text:      comment.Text,
		GoalID:    comment.GoalID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	if comment.User.ID != 0 {
		user := ToUserDTO(comment.User)
		dto.User = &user
	}

	return dto
}

// ToGoalListResponse converts a slice of goals to GoalListResponse
func ToGoalListResponse(goals []models.Goal, page, limit int, total int64) GoalListResponse {
	items := make([]GoalDTO, len(goals))
	for i, goal := range goals {
		items[i] = ToGoalDTO(goal)
	}

	return GoalListResponse{
		Goals:      items,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
	}
}

// ToCommentListResponse converts a slice of comments to CommentListResponse
func ToCommentListResponse(comments []models.GoalComment, page, limit int, total int64) CommentListResponse {
	items := make([]CommentDTO, len(comments))
	for i, comment := range comments {
		items[i] = ToCommentDTO(comment)
	}

	return CommentListResponse{
		Comments:   items,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
	}
}
