package commands

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ExitFound, ExitCode(nil))
	assert.Equal(t, ExitExhausted, ExitCode(exitErr(ExitExhausted, ErrPasswordNotFound)))
	assert.Equal(t, ExitTarget, ExitCode(exitErr(ExitTarget, errors.New("no such file"))))
	assert.Equal(t, ExitConfig, ExitCode(errors.New("unknown flag: --frobnicate")))
}

func TestExitCode_WrappedExitError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", exitErr(ExitInterrupted, ErrInterrupted))

	assert.Equal(t, ExitInterrupted, ExitCode(err))
	require.ErrorIs(t, err, ErrInterrupted)
}

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bad config", exitErr(ExitConfig, errors.New("bad config")).Error())
	assert.Empty(t, exitErr(ExitInterrupted, nil).Error())
}
