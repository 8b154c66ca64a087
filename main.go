package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"algo-journey/config"
	"algo-journey/handlers"
	"algo-journey/middleware"
	"algo-journey/models"
	"algo-journey/services"
	"algo-journey/utils"
	"algo-journey/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	// 🔐❗ GLOBAL: Only Gateway requests allowed, no exceptions
	app.Use(middleware.GatewayAuthMiddleware(cfg.GatewayServiceToken))

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, Cache-Control, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), models.GormConfig())
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := models.Migrate(db); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var archive services.Archiver
	if cfg.R2.Enabled() {
		store, err := utils.NewR2Store(ctx, cfg.R2)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		archive = store
	} else {
		log.Println("⚠️  R2 not configured, contest standings will not be archived")
	}

	contestService := services.NewContestService(db, cfg.GroupOrder, cfg.StreamInterval, archive)
	leaderboardService := services.NewLeaderboardService(db)
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	feedbackService := services.NewFeedbackService(db)
	questionService := services.NewQuestionService(db)

	sched, err := contestService.StartContestScheduler()
	if err != nil {
		log.Fatal("failed to start scheduler:", err)
	}

	syncWorker := workers.NewCodeforcesSyncWorker(db, contestService, cfg.CodeforcesAPIURL, cfg.CodeforcesSyncInterval, utils.HTTPClient)
	syncWorker.Start(ctx)

	handlers.SetupContestRoutes(app, contestService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService)
	handlers.SetupCommunityRoutes(app, db, userService, groupService, feedbackService)
	handlers.SetupArenaRoutes(app, questionService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Contest groups ordered by %s", cfg.GroupOrder)
	log.Println("✅ GatewayAuthMiddleware enforced globally, all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOrigins)

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
