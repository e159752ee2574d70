package session

import (
	"context"
	"errors"

	"github.com/artem13815/interviewrally/pkg/speech"
)

// State это состояние воспроизведения текущего вопроса.
type State string

const (
	Idle      State = "idle"
	Preparing State = "preparing"
	Ready     State = "ready"
	Playing   State = "playing"
	Paused    State = "paused"
)

var (
	ErrNoQuestions     = errors.New("session requires at least one question")
	ErrClosed          = errors.New("session is closed")
	ErrNotLastQuestion = errors.New("session can only be completed on the last question")
	ErrNotFound        = errors.New("session not found")
)

// Synthesizer готовит аудио для одного вопроса.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (speech.Audio, error)
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice это сообщение для пользователя по итогам подготовки.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Index   int        `json:"index"`
}

var (
	readyNotice = Notice{
		Kind:    NoticeSuccess,
		Title:   "Question Ready",
		Message: "Click play to hear the question spoken aloud.",
	}
	failedNotice = Notice{
		Kind:    NoticeError,
		Title:   "Audio Generation Failed",
		Message: "We were unable to prepare the audio. Please try again.",
	}
)

// Snapshot это снимок состояния для слоя представления.
type Snapshot struct {
	Index    int     `json:"index"`
	Total    int     `json:"total"`
	Question string  `json:"question"`
	State    State   `json:"state"`
	Progress float64 `json:"progress"`
	IsFirst  bool    `json:"isFirst"`
	IsLast   bool    `json:"isLast"`
	HasAudio bool    `json:"hasAudio"`
	Notice   *Notice `json:"notice,omitempty"`
}
