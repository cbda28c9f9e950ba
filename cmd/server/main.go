package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"

	"github.com/ezubkova/todolist-api/internal/config"
	"github.com/ezubkova/todolist-api/internal/constants"
	"github.com/ezubkova/todolist-api/internal/database"
	"github.com/ezubkova/todolist-api/internal/handlers"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/repository"
	"github.com/ezubkova/todolist-api/internal/services"
	"github.com/ezubkova/todolist-api/internal/tgbot"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	tgUserRepo := repository.NewTgUserRepository(db)

	authService := services.NewAuthService(userRepo)
	boardService := services.NewBoardService(boardRepo, userRepo)
	goalService := services.NewGoalService(goalRepo, boardRepo)

	// Verification confirmations go out over the bot channel when a token is
	// configured; without one the link still succeeds silently.
	var sender services.MessageSender
	if cfg.BotToken != "" {
		sender = tgbot.NewClient(cfg.BotToken)
	}
	botService := services.NewBotService(tgUserRepo, sender)

	authHandler := handlers.NewAuthHandler(authService)
	boardHandler := handlers.NewBoardHandler(boardService)
	categoryHandler := handlers.NewCategoryHandler(goalService)
	goalHandler := handlers.NewGoalHandler(goalService)
	commentHandler := handlers.NewCommentHandler(goalService)
	botHandler := handlers.NewBotHandler(botService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Todolist API is running",
		})
	})

	// Identity routes
	core := r.Group("/core")
	{
		core.POST("/signup", authHandler.Signup)
		core.POST("/login", authHandler.Login)
		core.PUT("/update_password", middleware.RequireAuth(), authHandler.UpdatePassword)
		core.GET("/profile", middleware.RequireAuth(), authHandler.GetProfile)
		core.PUT("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
		core.DELETE("/profile", middleware.RequireAuth(), authHandler.Logout)
	}

	// Goal tracking routes (protected)
	goals := r.Group("/goals")
	goals.Use(middleware.RequireAuth())
	{
		goals.POST("/board/create", boardHandler.CreateBoard)
		goals.GET("/board/list", boardHandler.ListBoards)
		goals.GET("/board/:id", middleware.RequireBoardAccess(), boardHandler.GetBoard)
		goals.PUT("/board/:id", middleware.RequireBoardAccess(), boardHandler.UpdateBoard)
		goals.DELETE("/board/:id", middleware.RequireBoardAccess(), boardHandler.DeleteBoard)

		goals.POST("/goal_category/create", categoryHandler.CreateCategory)
		goals.GET("/goal_category/list", categoryHandler.ListCategories)
		goals.GET("/goal_category/:id", middleware.RequireCategoryAccess(), categoryHandler.GetCategory)
		goals.PUT("/goal_category/:id", middleware.RequireCategoryAccess(), categoryHandler.UpdateCategory)
		goals.DELETE("/goal_category/:id", middleware.RequireCategoryAccess(), categoryHandler.DeleteCategory)

		goals.POST("/goal/create", goalHandler.CreateGoal)
		goals.GET("/goal/list", goalHandler.ListGoals)
		goals.GET("/goal/:id", middleware.RequireGoalAccess(), goalHandler.GetGoal)
		goals.PUT("/goal/:id", middleware.RequireGoalAccess(), goalHandler.UpdateGoal)
		goals.DELETE("/goal/:id", middleware.RequireGoalAccess(), goalHandler.DeleteGoal)

		goals.POST("/goal_comment/create", commentHandler.CreateComment)
		goals.GET("/goal_comment/list", commentHandler.ListComments)
		goals.GET("/goal_comment/:id", middleware.RequireCommentAccess(), commentHandler.GetComment)
		goals.PUT("/goal_comment/:id", middleware.RequireCommentAccess(), commentHandler.UpdateComment)
		goals.DELETE("/goal_comment/:id", middleware.RequireCommentAccess(), commentHandler.DeleteComment)
	}

	// Bot link verification
	bot := r.Group("/bot")
	bot.Use(middleware.RequireAuth())
	{
		bot.PATCH("/verify", botHandler.VerifyCode)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
