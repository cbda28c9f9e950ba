package dto

import (
	"time"

	"github.com/ezubkova/todolist-api/internal/models"
)

// BoardDTO represents a board in API responses
type BoardDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// BoardParticipantDTO represents a board participant in API responses
type BoardParticipantDTO struct {
	User UserDTO          `json:"user"`
	Role models.BoardRole `json:"role"`
}

// BoardDetailDTO represents a board with its participants
type BoardDetailDTO struct {
	BoardDTO
	Participants []BoardParticipantDTO `json:"participants"`
	YourRole     models.BoardRole      `json:"your_role"`
}

// ToBoardDTO converts a Board model to BoardDTO
func ToBoardDTO(board models.Board) BoardDTO {
	return BoardDTO{
		ID:        board.ID,
		Title:     board.Title,
		IsDeleted: board.IsDeleted,
		CreatedAt: board.CreatedAt,
		UpdatedAt: board.UpdatedAt,
	}
}

// ToBoardParticipantDTO converts a participant to DTO
func ToBoardParticipantDTO(participant models.BoardParticipant) BoardParticipantDTO {
	return BoardParticipantDTO{
		User: ToUserDTO(participant.User),
		Role: participant.Role,
	}
}

// ToBoardDetailDTO converts a board with participants to a detailed DTO
func ToBoardDetailDTO(board models.Board, participants []models.BoardParticipant, yourRole models.BoardRole) BoardDetailDTO {
	participantDTOs := make([]BoardParticipantDTO, len(participants))
	for i, participant := range participants {
		participantDTOs[i] = ToBoardParticipantDTO(participant)
	}

	return BoardDetailDTO{
		BoardDTO:     ToBoardDTO(board),
		Participants: participantDTOs,
		YourRole:     yourRole,
	}
}
