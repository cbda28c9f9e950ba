package handlers

import (
	"net/http"
	"strconv"

	"github.com/ezubkova/todolist-api/internal/dto"
	apierrors "github.com/ezubkova/todolist-api/internal/errors"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/services"
	"github.com/ezubkova/todolist-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// CommentHandler coordinates goal comment HTTP handlers.
type CommentHandler struct {
	goalService *services.GoalService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(goalService *services.GoalService) *CommentHandler {
	return &CommentHandler{
		goalService: goalService,
	}
}

// CreateComment adds a comment to an active goal the caller can write to.
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	type CreateCommentRequest struct {
		Text   string `json:"text" binding:"required"`
		GoalID uint64 `json:"goal" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.goalService.CreateComment(userID, req.GoalID, req.Text)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ListComments returns the goal's comments, newest first. The goal query
// parameter is required; visibility of the goal itself is checked against the
// caller's board membership.
func (h *CommentHandler) ListComments(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	goalIDStr := c.Query("goal")
	if goalIDStr == "" {
		apierrors.BadRequest(c, "goal query parameter is required")
		return
	}
	goalID, err := strconv.ParseUint(goalIDStr, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid goal filter")
		return
	}

	// Resolving the goal through the service applies the same visibility
	// rules as every other read: missing membership means not found.
	if _, err := h.goalService.VisibleGoal(userID, goalID); err != nil {
		respondGoalError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	comments, total, err := h.goalService.ListComments(goalID, params.Limit, params.Offset)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentListResponse(comments, params.Page, params.Limit, total))
}

// GetComment returns a comment. Access is checked by RequireCommentAccess.
func (h *CommentHandler) GetComment(c *gin.Context) {
	comment, ok := commentFromContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(comment))
}

// UpdateComment edits a comment's text. Author only.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	comment, ok := commentFromContext(c)
	if !ok {
		return
	}

	type UpdateCommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.goalService.UpdateComment(userID, &comment, req.Text)
	if err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*updated))
}

// DeleteComment removes a comment. Author only.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	comment, ok := commentFromContext(c)
	if !ok {
		return
	}

	if err := h.goalService.DeleteComment(userID, &comment); err != nil {
		respondGoalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}

func commentFromContext(c *gin.Context) (models.GoalComment, bool) {
	commentInterface, exists := c.Get("comment")
	if !exists {
		apierrors.InternalError(c, "Comment not found in context")
		return models.GoalComment{}, false
	}
	comment, ok := commentInterface.(models.GoalComment)
	if !ok {
		apierrors.InternalError(c, "Invalid comment data")
		return models.GoalComment{}, false
	}
	return comment, true
}
