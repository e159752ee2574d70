// @title         interview-rally API
// @version       1.0
// @description   Генерация вопросов для собеседования по описанию вакансии, озвучка вопросов и пошаговый режим интервьюера.
// @BasePath      /api
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Токен клиента из POST /v1/clients. Поддерживаются форматы: "Bearer <JWT>" или "<JWT>".
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"

	_ "github.com/artem13815/interviewrally/docs"

	// внутренние пакеты
	"github.com/artem13815/interviewrally/api/http"
	"github.com/artem13815/interviewrally/api/http/handlers"
	"github.com/artem13815/interviewrally/pkg/config"
	"github.com/artem13815/interviewrally/pkg/events"
	"github.com/artem13815/interviewrally/pkg/health"
	"github.com/artem13815/interviewrally/pkg/health/checkers"
	"github.com/artem13815/interviewrally/pkg/history"
	"github.com/artem13815/interviewrally/pkg/interview"
	"github.com/artem13815/interviewrally/pkg/kv"
	"github.com/artem13815/interviewrally/pkg/llm"
	"github.com/artem13815/interviewrally/pkg/llm/gemini"
	"github.com/artem13815/interviewrally/pkg/llm/openai"
	"github.com/artem13815/interviewrally/pkg/questions"
	pgrepo "github.com/artem13815/interviewrally/pkg/repository/postgres"
	redisrepo "github.com/artem13815/interviewrally/pkg/repository/redis"
	s3repo "github.com/artem13815/interviewrally/pkg/repository/s3"
	"github.com/artem13815/interviewrally/pkg/security/jwt"
	"github.com/artem13815/interviewrally/pkg/session"
	"github.com/artem13815/interviewrally/pkg/speech"
	"github.com/artem13815/interviewrally/pkg/storage/postgres"
)

func main() {
	// Загружаем конфигурацию из env/.env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg := newLogger(cfg.LogLevel)
	slog.SetDefault(logg)

	ctx := context.Background()

	// Хранилище истории интервью и проверки готовности для него
	store, checks, closeStore := openStore(ctx, cfg)
	defer closeStore()
	historyStore := history.NewStore(store, history.WithLogger(logg))

	// OpenAI всегда озвучивает, а чат ведёт, если не выбран Gemini
	openaiClient := openai.New(
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		cfg.OpenAIModel,
		cfg.OpenAITTSModel,
		openai.WithTemperature(cfg.Prompts.Generation.Temperature),
		openai.WithMaxTokens(cfg.Prompts.Generation.MaxTokens),
	)
	var chat llm.ChatModel = openaiClient
	if cfg.LLMProvider == "gemini" {
		g, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Prompts.Generation.Temperature, cfg.Prompts.Generation.MaxTokens)
		if err != nil {
			log.Fatalf("gemini: %v", err)
		}
		chat = g
	}

	questionSvc := questions.NewService(chat, cfg.Prompts.Generation.SystemPrompt, cfg.UpstreamTimeout)
	speechSvc := speech.NewService(openaiClient, speech.Settings{
		Voice:     cfg.Prompts.Speech.Voice,
		Speed:     cfg.Prompts.Speech.Speed,
		Format:    cfg.Prompts.Speech.Format,
		Separator: cfg.Prompts.Speech.ReadAllSeparator,
		Timeout:   cfg.UpstreamTimeout,
	})

	sessions := session.NewManager(speechSvc, cfg.SessionTTL, logg,
		session.WithNavigationDelay(cfg.NavigationDelay),
		session.WithTimeout(cfg.UpstreamTimeout),
	)
	sessions.StartCleanup(time.Hour)
	defer sessions.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		rp, err := events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rp.Close()
		publisher = rp
	}

	interviewUC := interview.NewService(questionSvc, historyStore, sessions, publisher, logg)

	// Генератор токенов для анонимных клиентов
	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	authMW := jwt.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer)

	app := fiber.New(fiber.Config{
		AppName:   "interview-rally",
		BodyLimit: 12 << 20,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	// Регистрируем маршруты
	http.Register(app, http.Handlers{
		Health:     handlers.NewHealthHandler(health.NewService(checks...)),
		Compat:     handlers.NewCompatHandler(questionSvc, speechSvc, logg),
		AI:         handlers.NewAIHandler(questionSvc, speechSvc, logg),
		Clients:    handlers.NewClientHandler(jwtGen),
		Interviews: handlers.NewInterviewHandler(interviewUC, logg),
		Sessions:   handlers.NewSessionHandler(sessions),
	}, authMW)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logg.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Запуск сервера
	logg.Info("HTTP server listening", "port", cfg.Port, "storage", cfg.StorageDriver, "llm", cfg.LLMProvider)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// openStore выбирает kv-хранилище по STORAGE_DRIVER.
func openStore(ctx context.Context, cfg config.Config) (kv.Store, []health.Checker, func()) {
	switch cfg.StorageDriver {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		repo, err := pgrepo.NewKVRepository(pool)
		if err != nil {
			log.Fatalf("init kv repo: %v", err)
		}
		return repo, []health.Checker{checkers.NewPostgresChecker(pool)}, pool.Close
	case "redis":
		client, err := redisrepo.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		return redisrepo.NewKVRepository(client, "rally:"), []health.Checker{checkers.NewRedisChecker(client)}, func() { _ = client.Close() }
	case "s3":
		repo, err := s3repo.NewKVRepository(ctx, s3repo.Options{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		return repo, []health.Checker{checkers.NewS3Checker(repo.Client(), repo.Bucket())}, func() {}
	case "memory":
		return kv.NewMemory(), nil, func() {}
	default:
		f, err := kv.NewFile(cfg.HistoryDir)
		if err != nil {
			log.Fatalf("file storage: %v", err)
		}
		return f, nil, func() {}
	}
}
