package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interviewrally/api/http/presenter"
	"github.com/artem13815/interviewrally/pkg/jobdesc"
	"github.com/artem13815/interviewrally/pkg/questions"
	"github.com/artem13815/interviewrally/pkg/speech"
)

// AIHandler отдаёт генерацию, озвучку и разбор файлов под /api/v1.
type AIHandler struct {
	questions questions.UseCase
	speech    speech.UseCase
	log       *slog.Logger
	// Лимит размера загружаемого файла в памяти (байты)
	maxBytes int64
}

func NewAIHandler(q questions.UseCase, s speech.UseCase, log *slog.Logger) *AIHandler {
	return &AIHandler{questions: q, speech: s, log: log, maxBytes: 10 << 20} // 10MB
}

type questionListResponse struct {
	Questions []string `json:"questions"`
}

type readAllRequest struct {
	Questions []string `json:"questions"`
}

// Generate возвращает список вопросов и ничего не сохраняет.
// @Summary Сгенерировать вопросы
// @Description Возвращает список вопросов без нумерации. В историю ничего не сохраняется.
// @Tags    questions
// @Accept  json
// @Produce json
// @Param   input body generateQuestionsRequest true "Описание вакансии"
// @Success 200 {object} questionListResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /v1/questions/generate [post]
func (h *AIHandler) Generate(c *fiber.Ctx) error {
	var req generateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	list, err := h.questions.GenerateList(c.Context(), req.JobDescription)
	if err != nil {
		h.log.Error("generate questions failed", "error", err)
		return respondError(c, err, msgGenerateFailed)
	}
	return presenter.JSON(c, http.StatusOK, questionListResponse{Questions: list})
}

// Speech озвучивает один вопрос.
// @Summary Озвучить текст
// @Tags    speech
// @Accept  json
// @Produce audio/mpeg
// @Param   input body textToSpeechRequest true "Текст"
// @Success 200 {file} binary
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /v1/speech [post]
func (h *AIHandler) Speech(c *fiber.Ctx) error {
	var req textToSpeechRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	audio, err := h.speech.Synthesize(c.Context(), req.Text)
	if err != nil {
		h.log.Error("speech failed", "error", err)
		return respondError(c, err, msgSpeechFailed)
	}
	return presenter.Audio(c, audio.ContentType, audio.Data)
}

// ReadAll озвучивает весь список одним клипом.
// @Summary Озвучить все вопросы
// @Tags    speech
// @Accept  json
// @Produce audio/mpeg
// @Param   input body readAllRequest true "Вопросы"
// @Success 200 {file} binary
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /v1/speech/read-all [post]
func (h *AIHandler) ReadAll(c *fiber.Ctx) error {
	var req readAllRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON")
	}
	audio, err := h.speech.ReadAll(c.Context(), req.Questions)
	if err != nil {
		h.log.Error("read all failed", "error", err)
		return respondError(c, err, msgSpeechFailed)
	}
	return presenter.Audio(c, audio.ContentType, audio.Data)
}

// ExtractJobDescription извлекает текст вакансии из загруженного файла.
// @Summary Извлечь текст вакансии из файла
// @Description Принимает PDF, DOCX, TXT или MD и возвращает нормализованный текст (не более 20000 символов).
// @Tags    questions
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Файл вакансии"
// @Success 200 {object} jobdesc.Result
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /v1/job-descriptions/extract [post]
func (h *AIHandler) ExtractJobDescription(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf, docx, txt or md)")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	res, err := jobdesc.Extract(fh.Filename, data)
	if err != nil {
		return respondError(c, err, "")
	}
	return presenter.JSON(c, http.StatusOK, res)
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
