package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/challenge-api/internal/config"
	"github.com/yourusername/challenge-api/internal/handler"
	"github.com/yourusername/challenge-api/internal/middleware"
	pgRepo "github.com/yourusername/challenge-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/challenge-api/internal/repository/redis"
	"github.com/yourusername/challenge-api/internal/service"
	"github.com/yourusername/challenge-api/internal/service/weekly"
	ws "github.com/yourusername/challenge-api/internal/websocket"
	"github.com/yourusername/challenge-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	challengeRepo := pgRepo.NewChallengeRepo(db)
	entryRepo := pgRepo.NewEntryRepo(db)
	voteRepo := pgRepo.NewVoteRepo(db)
	winnerRepo := pgRepo.NewWinnerRepo(db)
	bestOfRepo := pgRepo.NewBestOfRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Контекст жизни фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket хаб живого счетчика голосов
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// Настройки недельного цикла из конфигурации
	weeklyConfig := weekly.DefaultConfig()
	if cfg.Challenge.UTCOffsetHours != 0 {
		weeklyConfig.UTCOffsetHours = cfg.Challenge.UTCOffsetHours
	}
	if cfg.Challenge.SeedCount > 0 {
		weeklyConfig.SeedCount = cfg.Challenge.SeedCount
	}

	// Рассылка итогов недели: Resend при включенном email, иначе no-op
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.Recipients)
		if err != nil {
			log.Printf("Failed to initialize Resend email service: %v. Falling back to no-op.", err)
		} else {
			emailService = resendService
		}
	}

	promptProvider := service.NewStaticPromptProvider(weeklyConfig)

	// Инициализируем сервисы
	lifecycleService := service.NewLifecycleService(
		challengeRepo, entryRepo, voteRepo, winnerRepo, bestOfRepo,
		promptProvider, emailService, weeklyConfig,
	)
	challengeService := service.NewChallengeService(challengeRepo, entryRepo, winnerRepo)
	entryService := service.NewEntryService(challengeRepo, entryRepo, winnerRepo)
	voteService := service.NewVoteService(challengeRepo, entryRepo, voteRepo, cacheRepo, wsHub)
	archiveService := service.NewArchiveService(challengeRepo, bestOfRepo)

	// Инициализируем обработчики
	challengeHandler := handler.NewChallengeHandler(challengeService, voteService)
	entryHandler := handler.NewEntryHandler(entryService)
	voteHandler := handler.NewVoteHandler(voteService)
	cronHandler := handler.NewCronHandler(lifecycleService)
	archiveHandler := handler.NewArchiveHandler(archiveService)
	wsHandler := handler.NewWSHandler(wsHub)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()
	router.Use(middleware.RequestID())

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам
		// Если используете load balancer, замените nil на []string{"IP_БАЛАНСИРОВЩИКА"}
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Челленджи (чтение доступно анониму, токен лишь персонализирует ответ)
		challenges := api.Group("/challenges")
		challenges.Use(authMiddleware.OptionalAuth())
		{
			challenges.GET("", challengeHandler.ListChallenges)
			challenges.GET("/current", challengeHandler.GetCurrent)
			challenges.GET("/week/:weekKey", challengeHandler.GetByWeekKey)

			// Группа маршрутов, требующих challengeID
			challengeWithID := challenges.Group("/:id")
			challengeWithID.Use(middleware.ExtractUintParam("id", "challengeID"))
			{
				challengeWithID.GET("/total-votes", voteHandler.GetTotalVotes)

				// Маршруты для аутентифицированных участников
				authed := challengeWithID.Group("")
				authed.Use(authMiddleware.RequireAuth())
				{
					authed.GET("/my-entry", entryHandler.GetMyEntry)
					authed.GET("/my-votes", voteHandler.GetMyVotes)
					authed.POST("/entries",
						rateLimiter.Limit(middleware.DefaultWriteRateLimitConfig()),
						entryHandler.CreateDraft)
					authed.POST("/vote",
						rateLimiter.Limit(middleware.DefaultVoteRateLimitConfig()),
						voteHandler.SetVote)
				}
			}
		}

		// Заявки
		entries := api.Group("/entries/:id")
		entries.Use(authMiddleware.RequireAuth())
		entries.Use(middleware.ExtractUintParam("id", "entryID"))
		{
			entries.PUT("/draft",
				rateLimiter.Limit(middleware.DefaultWriteRateLimitConfig()),
				entryHandler.UpdateDraft)
			entries.POST("/publish", entryHandler.Publish)
			entries.PUT("/winner-notes", entryHandler.SetWinnerNotes)
		}

		// Архив "лучшее за неделю" (публичный)
		archive := api.Group("/archive")
		{
			archive.GET("", archiveHandler.ListArchive)
			archive.GET("/export", archiveHandler.ExportArchive)
		}

		// Фазовые переходы недельного цикла (внешний планировщик)
		cron := api.Group("/cron")
		cron.Use(middleware.RequireCronSecret(cfg.Cron.Secret))
		{
			cron.POST("/start-week", cronHandler.StartWeek)
			cron.POST("/freeze-week", cronHandler.FreezeWeek)
			cron.POST("/reveal-week", cronHandler.RevealWeek)
			cron.POST("/archive-week", cronHandler.ArchiveWeek)
		}

		// Административные маршруты (сброс тестовых данных)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdminToken(cfg.Admin.TokenHash))
		{
			admin.POST("/reset-week", archiveHandler.ResetWeek)
		}
	}

	// WebSocket маршрут живого счетчика
	router.GET("/ws", wsHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнал остановки, затем гасим горутины и сервер
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
