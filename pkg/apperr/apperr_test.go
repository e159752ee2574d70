package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsSurviveWrapping(t *testing.T) {
	v := fmt.Errorf("generate: %w", Validation("jobDescription", "is required"))
	require.True(t, IsValidation(v))
	assert.False(t, IsUpstream(v))
	assert.Equal(t, "generate: jobDescription: is required", v.Error())

	u := fmt.Errorf("handler: %w", Upstream("chat completion", context.DeadlineExceeded))
	require.True(t, IsUpstream(u))
	assert.True(t, errors.Is(u, context.DeadlineExceeded))

	s := Storage("write", errors.New("disk full"))
	assert.True(t, IsStorage(s))
	assert.Equal(t, "storage write: disk full", s.Error())
}

func TestUpstreamWithoutCause(t *testing.T) {
	err := Upstream("speech", nil)
	assert.Equal(t, "speech: upstream failure", err.Error())
}
