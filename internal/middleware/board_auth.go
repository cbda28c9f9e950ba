package middleware

import (
	"net/http"
	"strconv"

	"github.com/ezubkova/todolist-api/internal/database"
	apierrors "github.com/ezubkova/todolist-api/internal/errors"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/gin-gonic/gin"
)

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodPost:
		return true
	default:
		return false
	}
}

// denyMembership ends the request for a caller with no participant row:
// reads get 404 so the resource stays invisible, writes get 403.
func denyMembership(c *gin.Context, resource string) {
	if isWriteMethod(c.Request.Method) {
		apierrors.Forbidden(c, "")
	} else {
		apierrors.NotFound(c, resource+" not found")
	}
	c.Abort()
}

// RequireBoardAccess checks if the user participates in the board. Reads are
// open to any role; board writes require the owner role.
func RequireBoardAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		boardIDStr := c.Param("id")
		boardID, err := strconv.ParseUint(boardIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid board ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Forbidden(c, "Authentication required")
			c.Abort()
			return
		}

		var board models.Board
		if err := database.GetDB().
			Where("is_deleted = ?", false).
			First(&board, boardID).Error; err != nil {
			apierrors.NotFound(c, "Board not found")
			c.Abort()
			return
		}

		var participant models.BoardParticipant
		err = database.GetDB().
			Where("board_id = ? AND user_id = ?", boardID, userID).
			First(&participant).Error
		if err != nil {
			denyMembership(c, "Board")
			return
		}

		if isWriteMethod(c.Request.Method) && participant.Role != models.RoleOwner {
			apierrors.Forbidden(c, "Only the board owner can perform this action")
			c.Abort()
			return
		}

		c.Set("board", board)
		c.Set("board_participant", participant)
		c.Next()
	}
}
