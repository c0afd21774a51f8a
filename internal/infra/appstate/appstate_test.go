package appstate_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skillcoder/downscaler-controller/internal/infra/appstate"
)

func TestAppState_StateTransitions(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("full lifecycle", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := appstate.New(logger, time.Now(), "")

		require.Equal(t, appstate.StateInit, s.State())
		require.True(t, s.ReadyAt().IsZero())

		require.NoError(t, s.SetStarting(ctx))
		require.Equal(t, appstate.StateStarting, s.State())

		require.NoError(t, s.SetRunning(ctx))
		require.Equal(t, appstate.StateRunning, s.State())
		require.False(t, s.ReadyAt().IsZero())

		require.NoError(t, s.SetTerminating(ctx))
		require.Equal(t, appstate.StateTerminating, s.State())

		// repeated terminating is a no-op
		require.NoError(t, s.SetTerminating(ctx))

		require.NoError(t, s.SetTerminated(ctx))
		require.Equal(t, appstate.StateTerminated, s.State())
	})

	t.Run("init to running is invalid", func(t *testing.T) {
		t.Parallel()

		s := appstate.New(logger, time.Now(), "")

		require.ErrorIs(t, s.SetRunning(t.Context()), appstate.ErrInvalidStateTransition)
		require.Equal(t, appstate.StateInit, s.State())
	})

	t.Run("terminating during startup", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := appstate.New(logger, time.Now(), "")

		require.NoError(t, s.SetStarting(ctx))
		require.NoError(t, s.SetTerminating(ctx))
		require.ErrorIs(t, s.SetRunning(ctx), appstate.ErrInvalidStateTransition)
	})

	t.Run("terminated cannot change", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := appstate.New(logger, time.Now(), "")

		require.NoError(t, s.SetTerminating(ctx))
		require.NoError(t, s.SetTerminated(ctx))

		require.ErrorIs(t, s.SetStarting(ctx), appstate.ErrAlreadyTerminated)
		require.ErrorIs(t, s.SetTerminating(ctx), appstate.ErrAlreadyTerminated)
		require.Equal(t, appstate.StateTerminated, s.State())
	})
}

func TestAppState_Uptime(t *testing.T) {
	t.Parallel()

	startTime := time.Now().Add(-time.Minute)
	s := appstate.New(slog.Default(), startTime, "")

	require.Equal(t, startTime, s.StartedAt())
	require.GreaterOrEqual(t, s.Uptime(), time.Minute)
}
