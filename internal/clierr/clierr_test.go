package clierr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maxbolgarin/errm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, CodeOK},
		{"plain", base, CodeError},
		{"canceled", context.Canceled, CodeInterrupted},
		{"wrapped canceled", fmt.Errorf("run: %w", context.Canceled), CodeInterrupted},
		{"errm wrapped canceled", errm.Wrap(context.Canceled, "analyze"), CodeInterrupted},
		{"interrupted", Interrupted(context.Canceled), CodeInterrupted},
		{"explicit", New(3, "bad"), 3},
		{"zero code", New(0, "bad"), CodeError},
		{"wrapped exit error", fmt.Errorf("outer: %w", Wrap(2, "inner", base)), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	err := Wrap(CodeError, "analyze", base)
	assert.Equal(t, "analyze: boom", err.Error())
	assert.ErrorIs(t, err, base)

	var ee *ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, CodeError, ee.ExitCode())

	assert.Equal(t, "only message", Wrap(CodeError, "only message", nil).Error())
	assert.Equal(t, "boom", Wrap(CodeError, "", base).Error())
}
