package speech

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/artem13815/interviewrally/pkg/apperr"
	"github.com/artem13815/interviewrally/pkg/llm"
)

// Audio это готовый аудиоклип.
type Audio struct {
	Data        []byte
	ContentType string
}

// UseCase озвучивает вопросы.
type UseCase interface {
	Synthesize(ctx context.Context, text string) (Audio, error)
	ReadAll(ctx context.Context, questions []string) (Audio, error)
}

type Settings struct {
	Voice     string
	Speed     float64
	Format    string
	Separator string
	Timeout   time.Duration
}

type Service struct {
	model    llm.SpeechModel
	settings Settings
}

func NewService(model llm.SpeechModel, settings Settings) *Service {
	if settings.Voice == "" {
		settings.Voice = "shimmer"
	}
	if settings.Speed == 0 {
		settings.Speed = 1.0
	}
	if settings.Format == "" {
		settings.Format = "mp3"
	}
	if settings.Separator == "" {
		settings.Separator = ". Next question. "
	}
	return &Service{model: model, settings: settings}
}

// Synthesize ничего не кэширует: каждый вызов ровно один раз идёт к провайдеру.
func (s *Service) Synthesize(ctx context.Context, text string) (Audio, error) {
	if strings.TrimSpace(text) == "" {
		return Audio{}, apperr.Validation("text", "Text is required")
	}
	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}
	out, err := s.model.Speak(ctx, llm.SpeechRequest{
		Text:   text,
		Voice:  s.settings.Voice,
		Speed:  s.settings.Speed,
		Format: s.settings.Format,
	})
	if err != nil {
		return Audio{}, apperr.Upstream("synthesize speech", err)
	}
	if len(out.Data) == 0 {
		return Audio{}, apperr.Upstream("synthesize speech", errors.New("empty audio"))
	}
	ct := out.ContentType
	if ct == "" {
		ct = llm.ContentType(s.settings.Format)
	}
	return Audio{Data: out.Data, ContentType: ct}, nil
}

// ReadAll озвучивает весь список одним клипом.
func (s *Service) ReadAll(ctx context.Context, questions []string) (Audio, error) {
	parts := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			parts = append(parts, q)
		}
	}
	if len(parts) == 0 {
		return Audio{}, apperr.Validation("questions", "Questions are required")
	}
	return s.Synthesize(ctx, strings.Join(parts, s.settings.Separator))
}
