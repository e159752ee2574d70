package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interviewrally/pkg/speech"
)

type instantSynth struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (s *instantSynth) Synthesize(_ context.Context, text string) (speech.Audio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, text)
	if s.fail[text] {
		return speech.Audio{}, errors.New("tts unavailable")
	}
	return speech.Audio{Data: []byte(text), ContentType: "audio/mpeg"}, nil
}

func (s *instantSynth) setFail(text string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail == nil {
		s.fail = map[string]bool{}
	}
	s.fail[text] = fail
}

func (s *instantSynth) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// blockingSynth hands every call to the test and ignores cancellation,
// so results can arrive after the controller has moved on.
type blockingSynth struct{ calls chan *pendingCall }

type pendingCall struct {
	text    string
	release chan error
}

func newBlockingSynth() *blockingSynth { return &blockingSynth{calls: make(chan *pendingCall, 16)} }

func (s *blockingSynth) Synthesize(_ context.Context, text string) (speech.Audio, error) {
	c := &pendingCall{text: text, release: make(chan error, 1)}
	s.calls <- c
	if err := <-c.release; err != nil {
		return speech.Audio{}, err
	}
	return speech.Audio{Data: []byte(text), ContentType: "audio/mpeg"}, nil
}

func (s *blockingSynth) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a synthesis call")
		return nil
	}
}

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *noticeLog) add(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func (l *noticeLog) all() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notice(nil), l.notices...)
}

func quiet() Option { return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))) }

func questionList(n int) []string {
	qs := make([]string, n)
	for i := range qs {
		qs[i] = fmt.Sprintf("Q%d", i+1)
	}
	return qs
}

func state(t *testing.T, c *Controller) Snapshot {
	t.Helper()
	snap, err := c.Snapshot()
	require.NoError(t, err)
	return snap
}

func TestNewControllerRequiresQuestions(t *testing.T) {
	_, err := NewController(nil, &instantSynth{})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestStartPreparesFirstQuestion(t *testing.T) {
	synth := &instantSynth{}
	notices := &noticeLog{}
	c, err := NewController(questionList(3), synth, quiet(), WithNotifier(notices.add))
	require.NoError(t, err)
	assert.Equal(t, Idle, state(t, c).State)

	require.NoError(t, c.Start())
	c.Wait()

	snap := state(t, c)
	assert.Equal(t, Ready, snap.State)
	assert.True(t, snap.HasAudio)
	assert.Equal(t, []string{"Q1"}, synth.Calls())
	require.Len(t, notices.all(), 1)
	assert.Equal(t, "Question Ready", notices.all()[0].Title)
	assert.Equal(t, "Click play to hear the question spoken aloud.", notices.all()[0].Message)

	audio, ok, err := c.Audio()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("Q1"), audio.Data)
}

func TestNavigationBounds(t *testing.T) {
	synth := &instantSynth{}
	c, err := NewController(questionList(2), synth, quiet(), WithNavigationDelay(0))
	require.NoError(t, err)
	require.NoError(t, c.Start())
	c.Wait()

	moved, err := c.Previous()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 0, state(t, c).Index)
	assert.Equal(t, Ready, state(t, c).State)

	moved, err = c.Next()
	require.NoError(t, err)
	assert.True(t, moved)
	c.Wait()

	moved, err = c.Next()
	require.NoError(t, err)
	assert.False(t, moved)
	snap := state(t, c)
	assert.Equal(t, 1, snap.Index)
	assert.True(t, snap.IsLast)
	assert.Equal(t, Ready, snap.State)
	assert.Equal(t, []string{"Q1", "Q2"}, synth.Calls())
}

func TestNavigationWaitsBeforePreparing(t *testing.T) {
	synth := &instantSynth{}
	c, err := NewController(questionList(3), synth, quiet(), WithNavigationDelay(30*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, c.Start())
	c.Wait()
	require.NoError(t, c.Play())

	moved, err := c.Next()
	require.NoError(t, err)
	require.True(t, moved)

	snap := state(t, c)
	assert.Equal(t, Idle, snap.State)
	assert.False(t, snap.HasAudio)
	assert.Equal(t, 1, snap.Index)

	c.Wait()
	snap = state(t, c)
	assert.Equal(t, Ready, snap.State, "navigation never auto-plays")
	assert.Equal(t, []string{"Q1", "Q2"}, synth.Calls())
}

func TestRapidNavigationPreparesOnlyTheLastTarget(t *testing.T) {
	synth := &instantSynth{}
	c, err := NewController(questionList(4), synth, quiet(), WithNavigationDelay(50*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, c.Start())
	c.Wait()

	_, _ = c.Next()
	_, _ = c.Next()
	_, _ = c.Next()
	c.Wait()

	assert.Equal(t, []string{"Q1", "Q4"}, synth.Calls())
	snap := state(t, c)
	assert.Equal(t, 3, snap.Index)
	assert.Equal(t, Ready, snap.State)
}

func TestStaleResultIsDiscarded(t *testing.T) {
	synth := newBlockingSynth()
	notices := &noticeLog{}
	c, err := NewController(questionList(3), synth, quiet(), WithNavigationDelay(0), WithNotifier(notices.add))
	require.NoError(t, err)

	require.NoError(t, c.Start())
	first := synth.next(t)
	assert.Equal(t, "Q1", first.text)

	_, _ = c.Next()
	second := synth.next(t)
	assert.Equal(t, "Q2", second.text)

	first.release <- nil
	second.release <- nil
	c.Wait()

	snap := state(t, c)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, Ready, snap.State)
	audio, ok, err := c.Audio()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("Q2"), audio.Data)

	got := notices.all()
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)
}

func TestStaleResultForSameIndexAfterReturning(t *testing.T) {
	synth := newBlockingSynth()
	notices := &noticeLog{}
	c, err := NewController(questionList(3), synth, quiet(), WithNavigationDelay(0), WithNotifier(notices.add))
	require.NoError(t, err)

	require.NoError(t, c.Start())
	oldFirst := synth.next(t)
	_, _ = c.Next()
	second := synth.next(t)
	_, _ = c.Previous()
	newFirst := synth.next(t)
	require.Equal(t, "Q1", newFirst.text)

	oldFirst.release <- errors.New("late failure")
	second.release <- nil
	newFirst.release <- nil
	c.Wait()

	snap := state(t, c)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, Ready, snap.State)
	got := notices.all()
	require.Len(t, got, 1)
	assert.Equal(t, NoticeSuccess, got[0].Kind)
}

func TestSynthesisFailureLeavesIdle(t *testing.T) {
	synth := &instantSynth{}
	synth.setFail("Q2", true)
	notices := &noticeLog{}
	c, err := NewController(questionList(3), synth, quiet(), WithNavigationDelay(0), WithNotifier(notices.add))
	require.NoError(t, err)
	require.NoError(t, c.Start())
	c.Wait()

	_, _ = c.Next()
	c.Wait()

	snap := state(t, c)
	assert.Equal(t, Idle, snap.State)
	assert.Equal(t, 1, snap.Index)
	assert.False(t, snap.HasAudio)
	require.NotNil(t, snap.Notice)
	assert.Equal(t, "Audio Generation Failed", snap.Notice.Title)
	assert.Equal(t, "We were unable to prepare the audio. Please try again.", snap.Notice.Message)

	synth.setFail("Q2", false)
	require.NoError(t, c.Play())
	c.Wait()
	snap = state(t, c)
	assert.Equal(t, Playing, snap.State, "retry from idle plays once audio arrives")
	assert.Equal(t, 1, snap.Index)
}

func TestPlayWhilePreparingIsNoop(t *testing.T) {
	synth := newBlockingSynth()
	c, err := NewController(questionList(1), synth, quiet())
	require.NoError(t, err)
	require.NoError(t, c.Start())
	call := synth.next(t)

	require.NoError(t, c.Play())
	assert.Equal(t, Preparing, state(t, c).State)

	call.release <- nil
	c.Wait()
	assert.Equal(t, Ready, state(t, c).State)
}

func TestPlaybackTransitions(t *testing.T) {
	c, err := NewController(questionList(1), &instantSynth{}, quiet())
	require.NoError(t, err)
	require.NoError(t, c.Start())
	c.Wait()

	require.NoError(t, c.Pause())
	assert.Equal(t, Ready, state(t, c).State)

	require.NoError(t, c.Play())
	assert.Equal(t, Playing, state(t, c).State)
	require.NoError(t, c.Pause())
	assert.Equal(t, Paused, state(t, c).State)
	require.NoError(t, c.Play())
	assert.Equal(t, Playing, state(t, c).State)
	require.NoError(t, c.Ended())
	assert.Equal(t, Ready, state(t, c).State)
}

func TestCompleteOnlyOnLastQuestion(t *testing.T) {
	c, err := NewController(questionList(2), &instantSynth{}, quiet(), WithNavigationDelay(0))
	require.NoError(t, err)
	require.NoError(t, c.Start())
	c.Wait()

	assert.ErrorIs(t, c.Complete(), ErrNotLastQuestion)

	_, _ = c.Next()
	c.Wait()
	require.NoError(t, c.Complete())

	_, err = c.Next()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Play(), ErrClosed)
	assert.ErrorIs(t, c.Complete(), ErrClosed)
	_, err = c.Snapshot()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestCompleteCancelsPendingWork(t *testing.T) {
	synth := &instantSynth{}
	c, err := NewController(questionList(2), synth, quiet(), WithNavigationDelay(time.Hour))
	require.NoError(t, err)
	require.NoError(t, c.Start())
	c.Wait()

	_, _ = c.Next()
	require.NoError(t, c.Complete())
	c.Wait()
	assert.Equal(t, []string{"Q1"}, synth.Calls())
}

func TestSnapshotProgress(t *testing.T) {
	c, err := NewController(questionList(4), &instantSynth{}, quiet(), WithNavigationDelay(0))
	require.NoError(t, err)
	snap := state(t, c)
	assert.InDelta(t, 25.0, snap.Progress, 1e-9)
	assert.True(t, snap.IsFirst)
	assert.Equal(t, "Q1", snap.Question)
	assert.Equal(t, 4, snap.Total)
}
