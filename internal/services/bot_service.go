package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/repository"
	"github.com/ezubkova/todolist-api/internal/tgbot"
	"github.com/ezubkova/todolist-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidVerificationCode = errors.New("verification code is incorrect")
)

// MessageSender sends text to a telegram chat. *tgbot.Client implements it;
// tests substitute a recorder.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// BotService links telegram chats to accounts and reacts to inbound chat events.
type BotService struct {
	tgUserRepo repository.TgUserRepository
	sender     MessageSender
}

// NewBotService creates a new BotService. sender may be nil when the process
// has no bot token configured; confirmations are then skipped.
func NewBotService(tgUserRepo repository.TgUserRepository, sender MessageSender) *BotService {
	return &BotService{
		tgUserRepo: tgUserRepo,
		sender:     sender,
	}
}

// VerifyCode links the chat holding the code to the calling user. An unknown
// code is a validation failure. A code on an already linked chat re-links it
// to the caller; codes are never regenerated.
func (s *BotService) VerifyCode(ctx context.Context, userID uint64, code string) (*models.TgUser, error) {
	tgUser, err := s.tgUserRepo.FindByVerificationCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidVerificationCode
		}
		return nil, fmt.Errorf("failed to find verification code: %w", err)
	}

	tgUser.UserID = &userID
	if err := s.tgUserRepo.Update(tgUser); err != nil {
		return nil, fmt.Errorf("failed to link chat: %w", err)
	}

	// The confirmation is best effort: a failed send must not fail the link.
	s.send(ctx, tgUser.ChatID, "Verification completed! Your account is now linked.")

	return tgUser, nil
}

// HandleUpdate processes one inbound chat event. An unseen chat gets a fresh
// verification code; a pending chat gets its code again; a linked chat gets
// an acknowledgement. Re-running the same update produces the same state, so
// redelivery is safe.
func (s *BotService) HandleUpdate(ctx context.Context, update tgbot.Update) error {
	if update.Message == nil {
		return nil
	}
	chat := update.Message.Chat

	tgUser, err := s.tgUserRepo.FindByChatID(chat.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find chat: %w", err)
		}
		return s.greetNewChat(ctx, chat)
	}

	if !tgUser.Linked() {
		s.send(ctx, chat.ID, fmt.Sprintf("Please verify your account. Verification code: %s", tgUser.VerificationCode))
		return nil
	}

	s.send(ctx, chat.ID, "Your account is already verified.")
	return nil
}

func (s *BotService) greetNewChat(ctx context.Context, chat tgbot.Chat) error {
	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	tgUser := &models.TgUser{
		ChatID:           chat.ID,
		TgUsername:       chat.Username,
		VerificationCode: code,
	}
	if err := s.tgUserRepo.Create(tgUser); err != nil {
		return fmt.Errorf("failed to create chat link: %w", err)
	}

	s.send(ctx, chat.ID, fmt.Sprintf("Hello! To link your account, submit this verification code in the app: %s", code))
	return nil
}

func (s *BotService) send(ctx context.Context, chatID int64, text string) {
	if s.sender == nil {
		return
	}
	if err := s.sender.SendMessage(ctx, chatID, text); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}
