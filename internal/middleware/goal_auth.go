package middleware

import (
	"strconv"

	"github.com/ezubkova/todolist-api/internal/database"
	apierrors "github.com/ezubkova/todolist-api/internal/errors"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/gin-gonic/gin"
)

// checkRole loads the caller's participant row for the board and enforces the
// minimum role for write methods. Reads pass with any role. Missing membership
// hides the resource on reads and forbids on writes.
func checkRole(c *gin.Context, boardID, userID uint64, resource string) bool {
	var participant models.BoardParticipant
	err := database.GetDB().
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&participant).Error
	if err != nil {
		denyMembership(c, resource)
		return false
	}

	if isWriteMethod(c.Request.Method) && !participant.Role.AtLeast(models.RoleWriter) {
		apierrors.Forbidden(c, "You must be owner or writer")
		c.Abort()
		return false
	}

	c.Set("board_participant", participant)
	return true
}

func parseIDParam(c *gin.Context, resource string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+resource+" ID")
		c.Abort()
		return 0, false
	}
	return id, true
}

// RequireCategoryAccess checks if the user may act on a category. The board
// is derived from the category row; writes require owner or writer.
func RequireCategoryAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, ok := parseIDParam(c, "category")
		if !ok {
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Forbidden(c, "Authentication required")
			c.Abort()
			return
		}

		var category models.GoalCategory
		if err := database.GetDB().
			Preload("User").
			Where("is_deleted = ?", false).
			First(&category, categoryID).Error; err != nil {
			apierrors.NotFound(c, "Category not found")
			c.Abort()
			return
		}

		if !checkRole(c, category.BoardID, userID, "Category") {
			return
		}

		c.Set("category", category)
		c.Next()
	}
}

// RequireGoalAccess checks if the user may act on a goal. The board is derived
// transitively through the goal's category; writes require owner or writer.
// Archived goals and goals in deleted categories do not resolve.
func RequireGoalAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		goalID, ok := parseIDParam(c, "goal")
		if !ok {
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Forbidden(c, "Authentication required")
			c.Abort()
			return
		}

		var goal models.Goal
		err := database.GetDB().
			Preload("Category").Preload("User").
			Joins("JOIN goal_categories ON goal_categories.id = goals.category_id").
			Where("goals.status <> ?", models.StatusArchived).
			Where("goal_categories.is_deleted = ?", false).
			First(&goal, "goals.id = ?", goalID).Error
		if err != nil {
			apierrors.NotFound(c, "Goal not found")
			c.Abort()
			return
		}

		if !checkRole(c, goal.Category.BoardID, userID, "Goal") {
			return
		}

		c.Set("goal", goal)
		c.Next()
	}
}

// RequireCommentAccess checks if the user may act on a comment. Any board
// participant may read; author-only write rules are enforced by the service.
func RequireCommentAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID, ok := parseIDParam(c, "comment")
		if !ok {
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Forbidden(c, "Authentication required")
			c.Abort()
			return
		}

		var comment models.GoalComment
		if err := database.GetDB().
			Preload("User").
			First(&comment, commentID).Error; err != nil {
			apierrors.NotFound(c, "Comment not found")
			c.Abort()
			return
		}

		var category models.GoalCategory
		err := database.GetDB().
			Joins("JOIN goals ON goals.category_id = goal_categories.id").
			First(&category, "goals.id = ?", comment.GoalID).Error
		if err != nil {
			apierrors.NotFound(c, "Comment not found")
			c.Abort()
			return
		}

		var participant models.BoardParticipant
		err = database.GetDB().
			Where("board_id = ? AND user_id = ?", category.BoardID, userID).
			First(&participant).Error
		if err != nil {
			denyMembership(c, "Comment")
			return
		}

		c.Set("comment", comment)
		c.Set("board_participant", participant)
		c.Next()
	}
}
