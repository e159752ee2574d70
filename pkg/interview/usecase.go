package interview

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/artem13815/interviewrally/pkg/apperr"
	"github.com/artem13815/interviewrally/pkg/events"
	"github.com/artem13815/interviewrally/pkg/history"
	"github.com/artem13815/interviewrally/pkg/questions"
	"github.com/artem13815/interviewrally/pkg/session"
)

// UseCase инкапсулирует сценарии работы с интервью одного клиента.
type UseCase interface {
	Create(ctx context.Context, clientID string, in CreateInput) (Interview, error)
	List(ctx context.Context, clientID string, limit, offset int) ([]history.Record, int, error)
	Get(ctx context.Context, clientID, id string) (history.Record, error)
	Update(ctx context.Context, clientID, id string, in UpdateInput) (history.Record, error)
	Delete(ctx context.Context, clientID, id string) error
	StartSession(ctx context.Context, clientID, id string) (string, error)
}

// QuestionSource возвращает ответ модели без обработки.
type QuestionSource interface {
	Generate(ctx context.Context, jobDescription string) (string, error)
}

// SessionStarter открывает сессию в режиме интервьюера.
type SessionStarter interface {
	Create(questions []string, interviewID string) (string, *session.Controller, error)
}

type service struct {
	questions QuestionSource
	history   *history.Store
	sessions  SessionStarter
	events    events.Publisher
	validate  *validator.Validate
	log       *slog.Logger
}

func NewService(questions QuestionSource, store *history.Store, sessions SessionStarter, pub events.Publisher, log *slog.Logger) UseCase {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{
		questions: questions,
		history:   store,
		sessions:  sessions,
		events:    pub,
		validate:  newValidator(),
		log:       log,
	}
}

func (s *service) Create(ctx context.Context, clientID string, in CreateInput) (Interview, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	if in.Mode == "" {
		in.Mode = ModeInterviewer
	}
	if err := s.validate.Struct(in); err != nil {
		return Interview{}, toValidationError(err)
	}

	raw, err := s.questions.Generate(ctx, in.JobDescription)
	if err != nil {
		return Interview{}, err
	}
	qs := questions.Format(raw)
	if len(qs) == 0 {
		return Interview{}, apperr.Upstream("generate questions", errors.New("model returned no questions"))
	}

	// Сохраняем ровно один раз, в момент генерации, и именно текст модели.
	// Ошибка хранилища не мешает показать вопросы.
	out := Interview{Mode: in.Mode, Questions: qs}
	if rec := s.history.ForClient(clientID).Save(ctx, history.Draft{
		Title:          in.Title,
		JobDescription: in.JobDescription,
		Questions:      raw,
	}); rec != nil {
		out.Record = *rec
		out.Persisted = true
	} else {
		out.Record = history.Record{
			Title:          in.Title,
			JobDescription: in.JobDescription,
			Questions:      raw,
			CreatedAt:      time.Now().UTC(),
		}
	}

	if in.Mode == ModeInterviewer {
		id, _, err := s.sessions.Create(qs, out.Record.ID)
		if err != nil {
			return Interview{}, err
		}
		out.SessionID = id
	}

	s.publish(ctx, events.Event{
		Type:        events.InterviewCreated,
		ClientID:    clientID,
		InterviewID: out.Record.ID,
		SessionID:   out.SessionID,
		Data: map[string]any{
			"title":     out.Record.Title,
			"questions": len(qs),
			"mode":      string(in.Mode),
		},
	})
	return out, nil
}

// List возвращает записи от новых к старым и общее количество.
func (s *service) List(ctx context.Context, clientID string, limit, offset int) ([]history.Record, int, error) {
	records := s.history.ForClient(clientID).List(ctx)
	slices.SortStableFunc(records, func(a, b history.Record) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	total := len(records)
	if offset >= total {
		return []history.Record{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return records[offset:end], total, nil
}

func (s *service) Get(ctx context.Context, clientID, id string) (history.Record, error) {
	rec, ok := s.history.ForClient(clientID).Get(ctx, id)
	if !ok {
		return history.Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *service) Update(ctx context.Context, clientID, id string, in UpdateInput) (history.Record, error) {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if in.JobDescription != nil {
		jd := strings.TrimSpace(*in.JobDescription)
		in.JobDescription = &jd
	}
	if err := s.validate.Struct(in); err != nil {
		return history.Record{}, toValidationError(err)
	}
	if in.Title != nil && *in.Title == "" {
		return history.Record{}, apperr.Validation("title", "Title is required")
	}
	if in.JobDescription != nil && *in.JobDescription == "" {
		return history.Record{}, apperr.Validation("jobDescription", "Job description is required")
	}

	store := s.history.ForClient(clientID)
	if !store.Update(ctx, id, history.Patch{Title: in.Title, JobDescription: in.JobDescription}) {
		return history.Record{}, ErrNotFound
	}
	rec, ok := store.Get(ctx, id)
	if !ok {
		return history.Record{}, ErrNotFound
	}
	s.publish(ctx, events.Event{Type: events.InterviewUpdated, ClientID: clientID, InterviewID: id})
	return rec, nil
}

func (s *service) Delete(ctx context.Context, clientID, id string) error {
	if !s.history.ForClient(clientID).Delete(ctx, id) {
		return ErrNotFound
	}
	s.publish(ctx, events.Event{Type: events.InterviewDeleted, ClientID: clientID, InterviewID: id})
	return nil
}

// StartSession открывает сохранённое интервью в режиме интервьюера.
func (s *service) StartSession(ctx context.Context, clientID, id string) (string, error) {
	rec, err := s.Get(ctx, clientID, id)
	if err != nil {
		return "", err
	}
	sid, _, err := s.sessions.Create(questions.Format(rec.Questions), rec.ID)
	if err != nil {
		return "", err
	}
	s.publish(ctx, events.Event{Type: events.SessionStarted, ClientID: clientID, InterviewID: id, SessionID: sid})
	return sid, nil
}

func (s *service) publish(ctx context.Context, e events.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", "type", e.Type, "error", err)
	}
}
