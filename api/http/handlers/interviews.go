package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interviewrally/api/http/presenter"
	"github.com/artem13815/interviewrally/pkg/history"
	"github.com/artem13815/interviewrally/pkg/interview"
	"github.com/artem13815/interviewrally/pkg/security/jwt"
)

type InterviewHandler struct {
	uc  interview.UseCase
	log *slog.Logger
}

func NewInterviewHandler(uc interview.UseCase, log *slog.Logger) *InterviewHandler {
	return &InterviewHandler{uc: uc, log: log}
}

type interviewListResponse struct {
	Items  []history.Record `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type sessionCreatedResponse struct {
	SessionID string `json:"sessionId"`
}

// @Summary Создать интервью
// @Description Генерирует вопросы, сохраняет запись в историю и, в режиме interviewer, открывает сессию.
// @Tags        interviews
// @Accept      json
// @Produce     json
// @Param       input body interview.CreateInput true "Название, описание вакансии и режим"
// @Security    BearerAuth
// @Success     201 {object} interview.Interview
// @Failure     400 {object} presenter.ErrorResponse
// @Failure     500 {object} presenter.ErrorResponse
// @Router      /v1/interviews [post]
func (h *InterviewHandler) Create(c *fiber.Ctx) error {
	var in interview.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	out, err := h.uc.Create(c.Context(), jwt.ClientID(c), in)
	if err != nil {
		h.log.Error("create interview failed", "error", err)
		return respondError(c, err, msgGenerateFailed)
	}
	return presenter.JSON(c, http.StatusCreated, out)
}

// @Summary История интервью
// @Tags    interviews
// @Produce json
// @Param   limit  query int false "Лимит (1..200)"
// @Param   offset query int false "Смещение"
// @Security BearerAuth
// @Success 200 {object} interviewListResponse
// @Router  /v1/interviews [get]
func (h *InterviewHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 20)
	items, total, err := h.uc.List(c.Context(), jwt.ClientID(c), limit, offset)
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusOK, interviewListResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// @Summary Получить интервью
// @Tags    interviews
// @Produce json
// @Param   id path string true "ID интервью"
// @Security BearerAuth
// @Success 200 {object} history.Record
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /v1/interviews/{id} [get]
func (h *InterviewHandler) Get(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), jwt.ClientID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

// @Summary Изменить интервью
// @Tags    interviews
// @Accept  json
// @Produce json
// @Param   id    path string true "ID интервью"
// @Param   input body interview.UpdateInput true "Изменяемые поля"
// @Security BearerAuth
// @Success 200 {object} history.Record
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /v1/interviews/{id} [patch]
func (h *InterviewHandler) Update(c *fiber.Ctx) error {
	var in interview.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	rec, err := h.uc.Update(c.Context(), jwt.ClientID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusOK, rec)
}

// @Summary Удалить интервью
// @Tags    interviews
// @Param   id path string true "ID интервью"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /v1/interviews/{id} [delete]
func (h *InterviewHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), jwt.ClientID(c), c.Params("id")); err != nil {
		return respondError(c, err, "")
	}
	return c.SendStatus(http.StatusNoContent)
}

// @Summary Начать сессию по сохранённому интервью
// @Tags    interviews
// @Produce json
// @Param   id path string true "ID интервью"
// @Security BearerAuth
// @Success 201 {object} sessionCreatedResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /v1/interviews/{id}/sessions [post]
func (h *InterviewHandler) StartSession(c *fiber.Ctx) error {
	sid, err := h.uc.StartSession(c.Context(), jwt.ClientID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusCreated, sessionCreatedResponse{SessionID: sid})
}
