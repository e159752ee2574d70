package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager хранит живые контроллеры по id и выселяет простаивающие.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	synth Synthesizer
	opts  []Option
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	ctrl         *Controller
	interviewID  string
	lastActivity time.Time
}

// Info описывает зарегистрированную сессию.
type Info struct {
	ID          string   `json:"id"`
	InterviewID string   `json:"interviewId,omitempty"`
	Snapshot    Snapshot `json:"snapshot"`
}

func NewManager(synth Synthesizer, ttl time.Duration, log *slog.Logger, opts ...Option) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		sessions: make(map[string]*entry),
		synth:    synth,
		opts:     append([]Option{WithLogger(log)}, opts...),
		ttl:      ttl,
		now:      time.Now,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Create регистрирует контроллер для вопросов и начинает готовить первый.
func (m *Manager) Create(questions []string, interviewID string) (string, *Controller, error) {
	ctrl, err := NewController(questions, m.synth, m.opts...)
	if err != nil {
		return "", nil, err
	}
	if err := ctrl.Start(); err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &entry{ctrl: ctrl, interviewID: interviewID, lastActivity: m.now()}
	m.mu.Unlock()

	m.log.Info("session created", "session_id", id, "interview_id", interviewID, "questions", len(questions))
	return id, ctrl, nil
}

// Get возвращает контроллер и обновляет время активности.
func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastActivity = m.now()
	return e.ctrl, nil
}

func (m *Manager) Info(id string) (Info, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Info{}, ErrNotFound
	}
	snap, err := e.ctrl.Snapshot()
	if err != nil {
		return Info{}, err
	}
	return Info{ID: id, InterviewID: e.interviewID, Snapshot: snap}, nil
}

// Complete завершает сессию и забывает её.
func (m *Manager) Complete(id string) error {
	ctrl, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := ctrl.Complete(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	m.log.Info("session completed", "session_id", id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartCleanup раз в interval выселяет сессии, простаивающие дольше TTL, до вызова Close.
func (m *Manager) StartCleanup(interval time.Duration) {
	if m.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.EvictIdle()
			case <-m.stop:
				return
			}
		}
	}()
}

// EvictIdle закрывает и удаляет истёкшие сессии и возвращает их число.
func (m *Manager) EvictIdle() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Controller
	for id, e := range m.sessions {
		if e.lastActivity.Before(cutoff) {
			expired = append(expired, e.ctrl)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	if len(expired) > 0 {
		m.log.Info("evicted idle sessions", "count", len(expired))
	}
	return len(expired)
}

// Close останавливает очистку и закрывает все сессии.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()
	for _, e := range all {
		e.ctrl.Close()
	}
}
