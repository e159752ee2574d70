package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interviewrally/api/http/presenter"
	"github.com/artem13815/interviewrally/pkg/session"
)

// SessionHandler управляет сессиями режима интервьюера по HTTP.
type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(m *session.Manager) *SessionHandler { return &SessionHandler{sessions: m} }

type createSessionRequest struct {
	Questions   []string `json:"questions"`
	InterviewID string   `json:"interviewId"`
}

type sessionActionResponse struct {
	Moved    *bool            `json:"moved,omitempty"`
	Snapshot session.Snapshot `json:"session"`
}

// @Summary Открыть сессию по списку вопросов
// @Tags    sessions
// @Accept  json
// @Produce json
// @Param   input body createSessionRequest true "Вопросы"
// @Success 201 {object} session.Info
// @Failure 400 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /v1/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	id, _, err := h.sessions.Create(req.Questions, req.InterviewID)
	if err != nil {
		return respondError(c, err, "")
	}
	info, err := h.sessions.Info(id)
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusCreated, info)
}

// @Summary Состояние сессии
// @Tags    sessions
// @Produce json
// @Param   id path string true "ID сессии"
// @Success 200 {object} session.Info
// @Failure 404 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	if _, err := h.sessions.Get(c.Params("id")); err != nil {
		return respondError(c, err, "")
	}
	info, err := h.sessions.Info(c.Params("id"))
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusOK, info)
}

// @Summary Следующий вопрос
// @Tags    sessions
// @Produce json
// @Param   id path string true "ID сессии"
// @Success 200 {object} sessionActionResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id}/next [post]
func (h *SessionHandler) Next(c *fiber.Ctx) error {
	return h.navigate(c, (*session.Controller).Next)
}

// @Summary Предыдущий вопрос
// @Tags    sessions
// @Produce json
// @Param   id path string true "ID сессии"
// @Success 200 {object} sessionActionResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id}/previous [post]
func (h *SessionHandler) Previous(c *fiber.Ctx) error {
	return h.navigate(c, (*session.Controller).Previous)
}

// @Summary Воспроизвести
// @Tags    sessions
// @Produce json
// @Param   id path string true "ID сессии"
// @Success 200 {object} sessionActionResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id}/play [post]
func (h *SessionHandler) Play(c *fiber.Ctx) error {
	return h.act(c, (*session.Controller).Play)
}

// @Summary Пауза
// @Tags    sessions
// @Produce json
// @Param   id path string true "ID сессии"
// @Success 200 {object} sessionActionResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id}/pause [post]
func (h *SessionHandler) Pause(c *fiber.Ctx) error {
	return h.act(c, (*session.Controller).Pause)
}

// @Summary Воспроизведение завершено
// @Tags    sessions
// @Produce json
// @Param   id path string true "ID сессии"
// @Success 200 {object} sessionActionResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id}/ended [post]
func (h *SessionHandler) Ended(c *fiber.Ctx) error {
	return h.act(c, (*session.Controller).Ended)
}

// @Summary Завершить интервью
// @Description Доступно только на последнем вопросе.
// @Tags    sessions
// @Param   id path string true "ID сессии"
// @Success 204
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id}/complete [post]
func (h *SessionHandler) Complete(c *fiber.Ctx) error {
	if err := h.sessions.Complete(c.Params("id")); err != nil {
		return respondError(c, err, "")
	}
	return c.SendStatus(http.StatusNoContent)
}

// @Summary Аудио текущего вопроса
// @Tags    sessions
// @Produce audio/mpeg
// @Param   id path string true "ID сессии"
// @Success 200 {file} binary
// @Success 204 "Аудио ещё не готово"
// @Failure 404 {object} presenter.ErrorResponse
// @Security BearerAuth
// @Router  /v1/sessions/{id}/audio [get]
func (h *SessionHandler) Audio(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err, "")
	}
	audio, ok, err := ctrl.Audio()
	if err != nil {
		return respondError(c, err, "")
	}
	if !ok {
		return c.SendStatus(http.StatusNoContent)
	}
	return presenter.Audio(c, audio.ContentType, audio.Data)
}

func (h *SessionHandler) navigate(c *fiber.Ctx, move func(*session.Controller) (bool, error)) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err, "")
	}
	moved, err := move(ctrl)
	if err != nil {
		return respondError(c, err, "")
	}
	return h.respond(c, ctrl, &moved)
}

func (h *SessionHandler) act(c *fiber.Ctx, action func(*session.Controller) error) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err, "")
	}
	if err := action(ctrl); err != nil {
		return respondError(c, err, "")
	}
	return h.respond(c, ctrl, nil)
}

func (h *SessionHandler) respond(c *fiber.Ctx, ctrl *session.Controller, moved *bool) error {
	snap, err := ctrl.Snapshot()
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusOK, sessionActionResponse{Moved: moved, Snapshot: snap})
}
