package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ezubkova/todolist-api/internal/config"
	"github.com/ezubkova/todolist-api/internal/database"
	"github.com/ezubkova/todolist-api/internal/repository"
	"github.com/ezubkova/todolist-api/internal/services"
	"github.com/ezubkova/todolist-api/internal/tgbot"
)

func main() {
	cfg := config.Load()

	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	pollTimeout, err := strconv.Atoi(cfg.BotPollTimeout)
	if err != nil || pollTimeout <= 0 {
		log.Fatalf("Invalid BOT_POLL_TIMEOUT %q", cfg.BotPollTimeout)
	}

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	tgUserRepo := repository.NewTgUserRepository(database.GetDB())
	client := tgbot.NewClient(cfg.BotToken)
	botService := services.NewBotService(tgUserRepo, client)

	poller := tgbot.NewPoller(client, tgUserRepo, botService.HandleUpdate, pollTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("Bot poller starting")
	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot poller stopped: %v", err)
	}
	log.Println("Bot poller stopped")
}
