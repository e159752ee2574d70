package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interviewrally/api/http/handlers"
)

// Handlers объединяет всё, что монтирует Register.
type Handlers struct {
	Health     *handlers.HealthHandler
	Compat     *handlers.CompatHandler
	AI         *handlers.AIHandler
	Clients    *handlers.ClientHandler
	Interviews *handlers.InterviewHandler
	Sessions   *handlers.SessionHandler
}

// Register регистрирует все HTTP-маршруты в приложении Fiber.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler) {
	api := app.Group("/api")

	// Исходные маршруты для браузера, формат ответов прежний
	api.Post("/generate-questions", h.Compat.GenerateQuestions)
	api.Post("/text-to-speech", h.Compat.TextToSpeech)

	v1 := api.Group("/v1")

	// Проверки живости и готовности для мониторинга
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	v1.Post("/clients", h.Clients.Create)

	v1.Post("/questions/generate", h.AI.Generate)
	v1.Post("/speech", h.AI.Speech)
	v1.Post("/speech/read-all", h.AI.ReadAll)
	v1.Post("/job-descriptions/extract", h.AI.ExtractJobDescription)

	iv := v1.Group("/interviews", authMW)
	iv.Post("/", h.Interviews.Create)
	iv.Get("/", h.Interviews.List)
	iv.Get("/:id", h.Interviews.Get)
	iv.Patch("/:id", h.Interviews.Update)
	iv.Delete("/:id", h.Interviews.Delete)
	iv.Post("/:id/sessions", h.Interviews.StartSession)

	// Сессии держат синтезированное аудио в памяти, поэтому только с токеном клиента
	s := v1.Group("/sessions", authMW)
	s.Post("/", h.Sessions.Create)
	s.Get("/:id", h.Sessions.Get)
	s.Get("/:id/audio", h.Sessions.Audio)
	s.Post("/:id/next", h.Sessions.Next)
	s.Post("/:id/previous", h.Sessions.Previous)
	s.Post("/:id/play", h.Sessions.Play)
	s.Post("/:id/pause", h.Sessions.Pause)
	s.Post("/:id/ended", h.Sessions.Ended)
	s.Post("/:id/complete", h.Sessions.Complete)
}
