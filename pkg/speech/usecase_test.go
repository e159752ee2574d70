package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/interviewrally/pkg/apperr"
	"github.com/artem13815/interviewrally/pkg/llm"
)

type fakeSpeech struct {
	calls []llm.SpeechRequest
	out   llm.Speech
	err   error
}

func (f *fakeSpeech) Speak(_ context.Context, req llm.SpeechRequest) (llm.Speech, error) {
	f.calls = append(f.calls, req)
	return f.out, f.err
}

func TestSynthesizeUsesFixedVoice(t *testing.T) {
	model := &fakeSpeech{out: llm.Speech{Data: []byte("mp3")}}
	s := NewService(model, Settings{})

	audio, err := s.Synthesize(context.Background(), "Why Go?")
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), audio.Data)
	assert.Equal(t, "audio/mpeg", audio.ContentType)

	require.Len(t, model.calls, 1)
	assert.Equal(t, llm.SpeechRequest{Text: "Why Go?", Voice: "shimmer", Speed: 1.0, Format: "mp3"}, model.calls[0])
}

func TestSynthesizeNeverCaches(t *testing.T) {
	model := &fakeSpeech{out: llm.Speech{Data: []byte("a")}}
	s := NewService(model, Settings{})
	_, _ = s.Synthesize(context.Background(), "same")
	_, _ = s.Synthesize(context.Background(), "same")
	assert.Len(t, model.calls, 2)
}

func TestSynthesizeErrors(t *testing.T) {
	_, err := NewService(&fakeSpeech{}, Settings{}).Synthesize(context.Background(), " ")
	assert.True(t, apperr.IsValidation(err))

	_, err = NewService(&fakeSpeech{err: errors.New("down")}, Settings{}).Synthesize(context.Background(), "q")
	assert.True(t, apperr.IsUpstream(err))

	_, err = NewService(&fakeSpeech{}, Settings{}).Synthesize(context.Background(), "q")
	assert.True(t, apperr.IsUpstream(err))
}

func TestReadAllJoinsQuestions(t *testing.T) {
	model := &fakeSpeech{out: llm.Speech{Data: []byte("a"), ContentType: "audio/mpeg"}}
	s := NewService(model, Settings{})

	_, err := s.ReadAll(context.Background(), []string{"First?", " ", "Second?"})
	require.NoError(t, err)
	require.Len(t, model.calls, 1)
	assert.Equal(t, "First?. Next question. Second?", model.calls[0].Text)

	_, err = s.ReadAll(context.Background(), nil)
	assert.True(t, apperr.IsValidation(err))
}
