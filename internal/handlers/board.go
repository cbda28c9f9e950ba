package handlers

import (
	"errors"
	"net/http"

	"github.com/ezubkova/todolist-api/internal/dto"
	apierrors "github.com/ezubkova/todolist-api/internal/errors"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/services"
	"github.com/gin-gonic/gin"
)

// BoardHandler coordinates board HTTP handlers.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// CreateBoard creates a board with the caller as its owner.
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	type CreateBoardRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.CreateBoard(req.Title, userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// ListBoards returns the boards the caller participates in.
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	boards, err := h.boardService.ListBoards(userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	boardDTOs := make([]dto.BoardDTO, len(boards))
	for i, board := range boards {
		boardDTOs[i] = dto.ToBoardDTO(board)
	}

	c.JSON(http.StatusOK, gin.H{
		"boards": boardDTOs,
	})
}

// GetBoard returns board details with participants.
// Access is checked by RequireBoardAccess.
func (h *BoardHandler) GetBoard(c *gin.Context) {
	board, participant, ok := boardFromContext(c)
	if !ok {
		return
	}

	participants, err := h.boardService.GetParticipants(board.ID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDetailDTO(board, participants, participant.Role))
}

// UpdateBoard renames the board and replaces its participant set.
// Only the owner reaches this handler.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	board, participant, ok := boardFromContext(c)
	if !ok {
		return
	}

	type ParticipantRequest struct {
		Username string           `json:"user" binding:"required"`
		Role     models.BoardRole `json:"role" binding:"required"`
	}
	type UpdateBoardRequest struct {
		Title        string               `json:"title" binding:"required"`
		Participants []ParticipantRequest `json:"participants"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateBoardInput{Title: req.Title}
	for _, p := range req.Participants {
		input.Participants = append(input.Participants, services.ParticipantInput{
			Username: p.Username,
			Role:     p.Role,
		})
	}

	updated, err := h.boardService.UpdateBoard(&board, participant.UserID, input)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	participants, err := h.boardService.GetParticipants(updated.ID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDetailDTO(*updated, participants, participant.Role))
}

// DeleteBoard soft-deletes the board, its categories and archives their
// goals. Only the owner reaches this handler.
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	board, _, ok := boardFromContext(c)
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(board.ID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Board deleted successfully",
	})
}

func boardFromContext(c *gin.Context) (models.Board, models.BoardParticipant, bool) {
	boardInterface, exists := c.Get("board")
	if !exists {
		apierrors.InternalError(c, "Board not found in context")
		return models.Board{}, models.BoardParticipant{}, false
	}
	board, ok := boardInterface.(models.Board)
	if !ok {
		apierrors.InternalError(c, "Invalid board data")
		return models.Board{}, models.BoardParticipant{}, false
	}

	participantInterface, exists := c.Get("board_participant")
	if !exists {
		apierrors.InternalError(c, "Participant not found in context")
		return models.Board{}, models.BoardParticipant{}, false
	}
	participant, ok := participantInterface.(models.BoardParticipant)
	if !ok {
		apierrors.InternalError(c, "Invalid participant data")
		return models.Board{}, models.BoardParticipant{}, false
	}

	return board, participant, true
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidBoardTitle),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrParticipantIsUser),
		errors.Is(err, services.ErrCannotEditOwnRole):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDuplicateParticipant):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{"participants": err.Error()})
	case errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
