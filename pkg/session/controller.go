package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/artem13815/interviewrally/pkg/speech"
)

const defaultNavigationDelay = 500 * time.Millisecond

// Controller ведёт один проход по списку вопросов в режиме интервьюера.
// Все методы безопасны для конкурентного вызова.
type Controller struct {
	mu sync.Mutex

	questions []string
	index     int
	state     State
	audio     *speech.Audio
	notice    *Notice

	synth   Synthesizer
	notify  func(Notice)
	log     *slog.Logger
	delay   time.Duration
	timeout time.Duration

	// seq растёт с каждым запросом подготовки; применить результат может только pending.
	seq           uint64
	pending       *request
	playWhenReady bool

	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type request struct {
	seq    uint64
	index  int
	timer  *time.Timer
	cancel context.CancelFunc
}

type Option func(*Controller)

// WithNavigationDelay задаёт паузу между навигацией и следующей подготовкой.
func WithNavigationDelay(d time.Duration) Option { return func(c *Controller) { c.delay = d } }

// WithTimeout ограничивает каждый вызов синтеза.
func WithTimeout(d time.Duration) Option { return func(c *Controller) { c.timeout = d } }

// WithNotifier получает уведомления вне блокировки контроллера.
func WithNotifier(f func(Notice)) Option { return func(c *Controller) { c.notify = f } }

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.log = l } }

func NewController(questions []string, synth Synthesizer, opts ...Option) (*Controller, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		questions: slices.Clone(questions),
		state:     Idle,
		synth:     synth,
		log:       slog.Default(),
		delay:     defaultNavigationDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Start сразу готовит первый вопрос. Повторный вызов ничего не делает.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.pending != nil || c.audio != nil {
		return nil
	}
	c.schedule(0, false)
	return nil
}

// Next переходит вперёд; false означает, что вопрос уже последний.
func (c *Controller) Next() (bool, error) {
	return c.move(1)
}

// Previous переходит назад; false означает, что вопрос уже первый.
func (c *Controller) Previous() (bool, error) {
	return c.move(-1)
}

func (c *Controller) move(step int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}
	target := c.index + step
	if target < 0 || target >= len(c.questions) {
		return false, nil
	}
	c.audio = nil
	c.notice = nil
	c.index = target
	c.state = Idle
	c.schedule(c.delay, false)
	return true, nil
}

// Play запускает или продолжает воспроизведение. Из Idle заново готовит аудио
// и играет, когда оно готово. Во время Preparing ничего не делает.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	switch c.state {
	case Ready, Paused:
		c.state = Playing
	case Idle:
		c.schedule(0, true)
	}
	return nil
}

func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state == Playing {
		c.state = Paused
	}
	return nil
}

// Ended отмечает, что воспроизведение дошло до конца клипа.
func (c *Controller) Ended() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state == Playing {
		c.state = Ready
	}
	return nil
}

// Complete завершает сессию. Допустимо только на последнем вопросе.
func (c *Controller) Complete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.index != len(c.questions)-1 {
		return ErrNotLastQuestion
	}
	c.shutdown()
	return nil
}

// Close закрывает сессию независимо от позиции.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.shutdown()
	}
}

func (c *Controller) Snapshot() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Snapshot{}, ErrClosed
	}
	total := len(c.questions)
	snap := Snapshot{
		Index:    c.index,
		Total:    total,
		Question: c.questions[c.index],
		State:    c.state,
		Progress: float64(c.index+1) / float64(total) * 100,
		IsFirst:  c.index == 0,
		IsLast:   c.index == total-1,
		HasAudio: c.audio != nil,
	}
	if c.notice != nil {
		n := *c.notice
		snap.Notice = &n
	}
	return snap, nil
}

// Audio возвращает готовый клип текущего вопроса, если он есть.
func (c *Controller) Audio() (speech.Audio, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return speech.Audio{}, false, ErrClosed
	}
	if c.audio == nil {
		return speech.Audio{}, false, nil
	}
	return *c.audio, true, nil
}

// Wait блокируется, пока идёт подготовка.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// schedule заменяет ожидающий запрос. Вызывающий держит mu.
func (c *Controller) schedule(delay time.Duration, play bool) {
	c.dropPending()
	c.seq++
	ctx, cancel := context.WithCancel(c.ctx)
	req := &request{seq: c.seq, index: c.index, cancel: cancel}
	c.pending = req
	c.playWhenReady = play

	c.wg.Add(1)
	if delay <= 0 {
		c.state = Preparing
		go c.prepare(ctx, req)
		return
	}
	req.timer = time.AfterFunc(delay, func() { c.prepare(ctx, req) })
}

// dropPending бросает ожидающий запрос. Вызывающий держит mu.
func (c *Controller) dropPending() {
	p := c.pending
	if p == nil {
		return
	}
	c.pending = nil
	c.playWhenReady = false
	if p.timer != nil && p.timer.Stop() {
		c.wg.Done()
	}
	p.cancel()
}

func (c *Controller) prepare(ctx context.Context, req *request) {
	defer c.wg.Done()

	c.mu.Lock()
	if c.pending != req {
		c.mu.Unlock()
		return
	}
	c.state = Preparing
	text := c.questions[req.index]
	c.mu.Unlock()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	audio, err := c.synth.Synthesize(ctx, text)
	c.finish(req, audio, err)
}

func (c *Controller) finish(req *request, audio speech.Audio, err error) {
	c.mu.Lock()
	if c.closed || c.pending != req || c.index != req.index {
		c.mu.Unlock()
		c.log.Debug("session: dropped stale audio", "index", req.index, "seq", req.seq)
		return
	}
	c.pending = nil
	req.cancel()

	var n Notice
	if err != nil {
		c.state = Idle
		c.audio = nil
		n = failedNotice
		c.log.Warn("session: audio preparation failed", "index", req.index, "error", err)
	} else {
		c.audio = &audio
		if c.playWhenReady {
			c.state = Playing
		} else {
			c.state = Ready
		}
		n = readyNotice
	}
	c.playWhenReady = false
	n.Index = req.index
	c.notice = &n
	notify := c.notify
	c.mu.Unlock()

	if notify != nil {
		notify(n)
	}
}

// shutdown останавливает аудио и ожидающую работу. Вызывающий держит mu.
func (c *Controller) shutdown() {
	c.closed = true
	c.dropPending()
	c.cancel()
	c.audio = nil
	c.notice = nil
	c.questions = nil
	c.state = Idle
}
