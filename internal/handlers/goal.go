package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ezubkova/todolist-api/internal/dto"
	apierrors "github.com/ezubkova/todolist-api/internal/errors"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/repository"
	"github.com/ezubkova/todolist-api/internal/services"
	"github.com/ezubkova/todolist-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// GoalHandler coordinates goal HTTP handlers.
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// CreateGoal creates a goal in a category the caller can write to.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	type CreateGoalRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		DueDate     *time.Time          `json:"due_date"`
		CategoryID  uint64              `json:"category" binding:"required"`
		Priority    models.GoalPriority `json:"priority"`
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	goal, err := h.goalService.CreateGoal(userID, services.CreateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
		Priority:    req.Priority,
	})
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGoalDTO(*goal))
}

// ListGoals returns active goals on the caller's boards. Supports a due-date
// range, search over title and description, ordering and pagination.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	params := utils.GetPaginationParams(c)

	filter := repository.GoalFilter{
		UserID:  userID,
		Search:  c.Query("search"),
		OrderBy: c.Query("ordering"),
		Limit:   params.Limit,
		Offset:  params.Offset,
	}

	if categoryStr := c.Query("category"); categoryStr != "" {
		categoryID, err := strconv.ParseUint(categoryStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid category filter")
			return
		}
		filter.CategoryID = &categoryID
	}
	if fromStr := c.Query("due_date__gte"); fromStr != "" {
		from, err := parseDateParam(fromStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date__gte")
			return
		}
		filter.DueDateFrom = &from
	}
	if toStr := c.Query("due_date__lte"); toStr != "" {
		to, err := parseDateParam(toStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date__lte")
			return
		}
		filter.DueDateTo = &to
	}

	goals, total, err := h.goalService.ListGoals(filter)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalListResponse(goals, params.Page, params.Limit, total))
}

// GetGoal returns a goal. Access is checked by RequireGoalAccess.
func (h *GoalHandler) GetGoal(c *gin.Context) {
	goal, ok := goalFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(goal))
}

// UpdateGoal edits a goal. Requires owner or writer; moving the goal to
// another category revalidates that category.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	goal, ok := goalFromContext(c)
	if !ok {
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateGoalInput{}
	if title, ok := rawReq["title"].(string); ok {
		input.Title = &title
	}
	if description, ok := rawReq["description"].(string); ok {
		input.Description = &description
	}
	if _, ok := rawReq["due_date"]; ok {
		// due_date was provided (might be null)
		input.DueDateSet = true
		if dueDateStr, ok := rawReq["due_date"].(string); ok {
			parsed, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return
			}
			input.DueDate = &parsed
		}
	}
	if status, ok := rawReq["status"].(float64); ok {
		s := models.GoalStatus(status)
		input.Status = &s
	}
	if priority, ok := rawReq["priority"].(float64); ok {
		p := models.GoalPriority(priority)
		input.Priority = &p
	}
	if category, ok := rawReq["category"].(float64); ok {
		id := uint64(category)
		input.CategoryID = &id
	}

	updated, err := h.goalService.UpdateGoal(userID, &goal, input)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGoalDTO(*updated))
}

// DeleteGoal archives a goal. Archiving is the delete path.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	goal, ok := goalFromContext(c)
	if !ok {
		return
	}

	if err := h.goalService.ArchiveGoal(goal.ID); err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goal archived successfully",
	})
}

func goalFromContext(c *gin.Context) (models.Goal, bool) {
	goalInterface, exists := c.Get("goal")
	if !exists {
		apierrors.InternalError(c, "Goal not found in context")
		return models.Goal{}, false
	}
	goal, ok := goalInterface.(models.Goal)
	if !ok {
		apierrors.InternalError(c, "Invalid goal data")
		return models.Goal{}, false
	}
	return goal, true
}

// parseDateParam accepts a date or a full timestamp.
func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
