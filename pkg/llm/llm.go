package llm

import "context"

// ChatModel это минимальная абстракция чат-модели для домена.
// Конкретные провайдеры скрыты, зависимости направлены внутрь.
type ChatModel interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SpeechRequest описывает один вызов синтеза речи.
type SpeechRequest struct {
	Text   string
	Voice  string
	Speed  float64
	Format string
}

// Speech это аудио в том виде, в каком его вернул провайдер.
type Speech struct {
	Data        []byte
	ContentType string
}

// SpeechModel превращает текст в аудио.
type SpeechModel interface {
	Speak(ctx context.Context, req SpeechRequest) (Speech, error)
}

// ContentType возвращает MIME-тип для формата аудио.
func ContentType(format string) string {
	switch format {
	case "opus":
		return "audio/opus"
	case "aac":
		return "audio/aac"
	case "flac":
		return "audio/flac"
	case "wav":
		return "audio/wav"
	case "pcm":
		return "audio/pcm"
	default:
		return "audio/mpeg"
	}
}
