package interview

import (
	"errors"

	"github.com/artem13815/interviewrally/pkg/history"
)

// Mode выбирает представление результата: пошаговое интервью или список.
type Mode string

const (
	ModeInterviewer Mode = "interviewer"
	ModeList        Mode = "list"
)

// ErrNotFound возвращается, когда у клиента нет интервью с таким id.
var ErrNotFound = errors.New("interview not found")

// CreateInput содержит данные формы нового интервью.
type CreateInput struct {
	Title          string `json:"title" validate:"required,min=3,max=100"`
	JobDescription string `json:"jobDescription" validate:"required,min=50,max=20000"`
	Mode           Mode   `json:"mode" validate:"omitempty,oneof=interviewer list"`
}

// UpdateInput содержит изменяемые поля; nil означает «без изменений».
type UpdateInput struct {
	Title          *string `json:"title" validate:"omitempty,min=3,max=100"`
	JobDescription *string `json:"jobDescription" validate:"omitempty,min=50,max=20000"`
}

// Interview содержит сохранённую запись, разобранный список вопросов
// и сессию, открытую в режиме интервьюера.
type Interview struct {
	Record    history.Record `json:"record"`
	Questions []string       `json:"questions"`
	Mode      Mode           `json:"mode"`
	Persisted bool           `json:"persisted"`
	SessionID string         `json:"sessionId,omitempty"`
}
