package handlers

import (
	"errors"
	"net/http"

	"github.com/ezubkova/todolist-api/internal/dto"
	apierrors "github.com/ezubkova/todolist-api/internal/errors"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/services"
	"github.com/gin-gonic/gin"
)

// BotHandler exposes the bot link verification endpoint.
type BotHandler struct {
	botService *services.BotService
}

// NewBotHandler creates a new BotHandler.
func NewBotHandler(botService *services.BotService) *BotHandler {
	return &BotHandler{
		botService: botService,
	}
}

// VerifyCode links the telegram chat holding the submitted code to the caller.
func (h *BotHandler) VerifyCode(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	type VerifyRequest struct {
		VerificationCode string `json:"verification_code" binding:"required"`
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tgUser, err := h.botService.VerifyCode(c.Request.Context(), userID, req.VerificationCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidVerificationCode) {
			apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{"verification_code": "Field is incorrect"})
			return
		}
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.ToTgUserDTO(*tgUser))
}
