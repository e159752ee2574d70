package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interviewrally/api/http/presenter"
	"github.com/artem13815/interviewrally/pkg/questions"
	"github.com/artem13815/interviewrally/pkg/speech"
)

const (
	msgJobDescriptionRequired = "Job description is required"
	msgGenerateFailed         = "Failed to generate interview questions"
	msgTextRequired           = "Text is required"
	msgSpeechFailed           = "Failed to generate speech"
)

// CompatHandler обслуживает два исходных маршрута /api с прежним форматом ответов.
type CompatHandler struct {
	questions questions.UseCase
	speech    speech.UseCase
	log       *slog.Logger
}

func NewCompatHandler(q questions.UseCase, s speech.UseCase, log *slog.Logger) *CompatHandler {
	return &CompatHandler{questions: q, speech: s, log: log}
}

type generateQuestionsRequest struct {
	JobDescription string `json:"jobDescription"`
}

type generateQuestionsResponse struct {
	Questions string `json:"questions"`
}

type textToSpeechRequest struct {
	Text string `json:"text"`
}

// GenerateQuestions возвращает нумерованный список в том виде, в каком его выдала модель.
// @Summary Сгенерировать вопросы (исходный текст)
// @Tags    compat
// @Accept  json
// @Produce json
// @Param   input body generateQuestionsRequest true "Описание вакансии"
// @Success 200 {object} generateQuestionsResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /generate-questions [post]
func (h *CompatHandler) GenerateQuestions(c *fiber.Ctx) error {
	jd, err := stringField(c.Body(), "jobDescription")
	if err != nil {
		h.log.Error("generate questions: bad body", "error", err)
		return presenter.Error(c, http.StatusInternalServerError, msgGenerateFailed)
	}
	if strings.TrimSpace(jd) == "" {
		return presenter.Error(c, http.StatusBadRequest, msgJobDescriptionRequired)
	}
	raw, err := h.questions.Generate(c.Context(), jd)
	if err != nil {
		h.log.Error("generate questions failed", "error", err)
		return respondError(c, err, msgGenerateFailed)
	}
	return presenter.JSON(c, http.StatusOK, generateQuestionsResponse{Questions: raw})
}

// TextToSpeech возвращает MP3 для переданного текста.
// @Summary Озвучить текст (исходный маршрут)
// @Tags    compat
// @Accept  json
// @Produce audio/mpeg
// @Param   input body textToSpeechRequest true "Текст"
// @Success 200 {file} binary
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /text-to-speech [post]
func (h *CompatHandler) TextToSpeech(c *fiber.Ctx) error {
	text, err := stringField(c.Body(), "text")
	if err != nil {
		h.log.Error("text to speech: bad body", "error", err)
		return presenter.Error(c, http.StatusInternalServerError, msgSpeechFailed)
	}
	if strings.TrimSpace(text) == "" {
		return presenter.Error(c, http.StatusBadRequest, msgTextRequired)
	}
	audio, err := h.speech.Synthesize(c.Context(), text)
	if err != nil {
		h.log.Error("text to speech failed", "error", err)
		return respondError(c, err, msgSpeechFailed)
	}
	return presenter.Audio(c, audio.ContentType, audio.Data)
}

// stringField достаёт строковое поле из JSON-объекта. Отсутствующее поле или
// значение другого типа дают пустую строку; ошибка только для неразбираемого тела.
func stringField(body []byte, name string) (string, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(fields[name], &v); err != nil {
		return "", nil
	}
	return v, nil
}
