package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ezubkova/todolist-api/internal/dto"
	apierrors "github.com/ezubkova/todolist-api/internal/errors"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/repository"
	"github.com/ezubkova/todolist-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CategoryHandler coordinates goal category HTTP handlers.
type CategoryHandler struct {
	goalService *services.GoalService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(goalService *services.GoalService) *CategoryHandler {
	return &CategoryHandler{
		goalService: goalService,
	}
}

// CreateCategory creates a category on a board the caller can write to.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	type CreateCategoryRequest struct {
		Title   string `json:"title" binding:"required"`
		BoardID uint64 `json:"board" binding:"required"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.goalService.CreateCategory(userID, services.CreateCategoryInput{
		Title:   req.Title,
		BoardID: req.BoardID,
	})
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// ListCategories returns the caller's categories, with optional board filter
// and title search.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	filter := repository.CategoryFilter{
		UserID:  userID,
		Search:  c.Query("search"),
		OrderBy: c.Query("ordering"),
	}
	if boardIDStr := c.Query("board"); boardIDStr != "" {
		boardID, err := strconv.ParseUint(boardIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid board filter")
			return
		}
		filter.BoardID = &boardID
	}

	categories, err := h.goalService.ListCategories(filter)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	categoryDTOs := make([]dto.CategoryDTO, len(categories))
	for i, category := range categories {
		categoryDTOs[i] = dto.ToCategoryDTO(category)
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categoryDTOs,
	})
}

// GetCategory returns a category. Access is checked by RequireCategoryAccess.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, ok := categoryFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(category))
}

// UpdateCategory renames a category. Requires owner or writer.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	category, ok := categoryFromContext(c)
	if !ok {
		return
	}

	type UpdateCategoryRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.goalService.UpdateCategory(&category, req.Title)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*updated))
}

// DeleteCategory soft-deletes a category and archives its goals.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	category, ok := categoryFromContext(c)
	if !ok {
		return
	}

	if err := h.goalService.DeleteCategory(category.ID); err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

func categoryFromContext(c *gin.Context) (models.GoalCategory, bool) {
	categoryInterface, exists := c.Get("category")
	if !exists {
		apierrors.InternalError(c, "Category not found in context")
		return models.GoalCategory{}, false
	}
	category, ok := categoryInterface.(models.GoalCategory)
	if !ok {
		apierrors.InternalError(c, "Invalid category data")
		return models.GoalCategory{}, false
	}
	return category, true
}

func respondGoalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTitle),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrEmptyCommentText):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotBoardWriter),
		errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrGoalNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
