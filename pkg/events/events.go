package events

import (
	"context"
	"time"
)

const (
	InterviewCreated = "interview.created"
	InterviewUpdated = "interview.updated"
	InterviewDeleted = "interview.deleted"
	SessionStarted   = "session.started"
)

// Event это факт об интервью, публикуемый для других сервисов.
type Event struct {
	Type        string         `json:"type"`
	ClientID    string         `json:"clientId,omitempty"`
	InterviewID string         `json:"interviewId,omitempty"`
	SessionID   string         `json:"sessionId,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Data        map[string]any `json:"data,omitempty"`
}

// Publisher доставляет события. Вызывающий логирует сбой и продолжает работу.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop отбрасывает все события.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
