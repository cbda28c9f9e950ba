package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound        = errors.New("board not found")
	ErrInvalidBoardTitle    = errors.New("board title cannot be empty")
	ErrInvalidRole          = errors.New("role must be writer or reader")
	ErrParticipantIsUser    = errors.New("participant user not found")
	ErrCannotEditOwnRole    = errors.New("cannot change your own role")
	ErrDuplicateParticipant = errors.New("participant listed more than once")
)

// BoardService provides business logic for board operations.
type BoardService struct {
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
}

// NewBoardService creates a new BoardService.
func NewBoardService(boardRepo repository.BoardRepository, userRepo repository.UserRepository) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
	}
}

// CreateBoard creates a new board with the creator as its owner.
func (s *BoardService) CreateBoard(title string, ownerID uint64) (*models.Board, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidBoardTitle
	}

	board := &models.Board{Title: title}
	if err := s.boardRepo.CreateWithOwner(board, ownerID); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// ListBoards returns the boards the user participates in.
func (s *BoardService) ListBoards(userID uint64) ([]models.Board, error) {
	boards, err := s.boardRepo.ListByParticipant(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// ParticipantInput names a user and the role to grant on the board.
type ParticipantInput struct {
	Username string
	Role     models.BoardRole
}

// UpdateBoardInput holds the editable board fields.
type UpdateBoardInput struct {
	Title        string
	Participants []ParticipantInput
}

// UpdateBoard renames the board and replaces its non-owner participants in a
// single transaction. The calling owner's row is preserved, so the board
// always keeps an owner, and the owner cannot demote themselves here.
func (s *BoardService) UpdateBoard(board *models.Board, ownerID uint64, input UpdateBoardInput) (*models.Board, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidBoardTitle
	}

	participants := make([]models.BoardParticipant, 0, len(input.Participants))
	seen := make(map[uint64]bool, len(input.Participants))
	for _, p := range input.Participants {
		if p.Role != models.RoleWriter && p.Role != models.RoleReader {
			return nil, ErrInvalidRole
		}

		user, err := s.userRepo.FindByUsername(p.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParticipantIsUser
			}
			return nil, fmt.Errorf("failed to resolve participant: %w", err)
		}
		if user.ID == ownerID {
			return nil, ErrCannotEditOwnRole
		}
		if seen[user.ID] {
			return nil, ErrDuplicateParticipant
		}
		seen[user.ID] = true

		participants = append(participants, models.BoardParticipant{
			UserID: user.ID,
			Role:   p.Role,
		})
	}

	board.Title = input.Title
	if err := s.boardRepo.UpdateWithParticipants(board, ownerID, participants); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	return board, nil
}

// DeleteBoard soft-deletes the board and cascades to its categories and goals.
func (s *BoardService) DeleteBoard(boardID uint64) error {
	if err := s.boardRepo.SoftDelete(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}

// GetParticipants lists the board's participants with user data.
func (s *BoardService) GetParticipants(boardID uint64) ([]models.BoardParticipant, error) {
	participants, err := s.boardRepo.ListParticipants(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}
