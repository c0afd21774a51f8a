package shutdown_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown"
	"github.com/skillcoder/downscaler-controller/internal/infra/shutdown/mocks"
)

func TestCheckTerminationFile(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("empty path disables check", func(t *testing.T) {
		t.Parallel()

		require.False(t, shutdown.CheckTerminationFile(t.Context(), logger, ""))
	})

	t.Run("file missing returns false", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nonexistent")

		require.False(t, shutdown.CheckTerminationFile(t.Context(), logger, path))
	})

	t.Run("file exists returns true", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "terminating")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		require.True(t, shutdown.CheckTerminationFile(t.Context(), logger, path))
	})
}

func TestGracefulShutdown(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("empty list returns nil", func(t *testing.T) {
		t.Parallel()

		err := shutdown.GracefulShutdown(t.Context(), logger, time.Second, nil)
		require.NoError(t, err)
	})

	t.Run("one shutdowner error is returned", func(t *testing.T) {
		t.Parallel()

		m := mocks.NewMockShutdowner(t)
		m.EXPECT().Name().Return("test").Once()
		m.EXPECT().Shutdown(mock.Anything).Return(context.DeadlineExceeded).Once()

		err := shutdown.GracefulShutdown(t.Context(), logger, time.Second, []shutdown.Shutdowner{m})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("failures do not stop remaining shutdowners", func(t *testing.T) {
		t.Parallel()

		errFirst := errors.New("first failed")

		first := mocks.NewMockShutdowner(t)
		first.EXPECT().Name().Return("first").Once()
		first.EXPECT().Shutdown(mock.Anything).Return(errFirst).Once()

		second := mocks.NewMockShutdowner(t)
		second.EXPECT().Name().Return("second").Once()
		second.EXPECT().Shutdown(mock.Anything).Return(nil).Once()

		err := shutdown.GracefulShutdown(t.Context(), logger, time.Second, []shutdown.Shutdowner{first, second})
		require.ErrorIs(t, err, errFirst)
	})

	t.Run("shutdowners called in reverse order", func(t *testing.T) {
		t.Parallel()

		var order []string

		first := mocks.NewMockShutdowner(t)
		first.EXPECT().Name().Return("first").Once()
		first.EXPECT().Shutdown(mock.Anything).
			Run(func(context.Context) { order = append(order, "first") }).
			Return(nil).
			Once()

		second := mocks.NewMockShutdowner(t)
		second.EXPECT().Name().Return("second").Once()
		second.EXPECT().Shutdown(mock.Anything).
			Run(func(context.Context) { order = append(order, "second") }).
			Return(nil).
			Once()

		err := shutdown.GracefulShutdown(t.Context(), logger, time.Second, []shutdown.Shutdowner{first, second})
		require.NoError(t, err)
		require.Equal(t, []string{"second", "first"}, order)
	})

	t.Run("cancelled parent context still shuts down", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		m := mocks.NewMockShutdowner(t)
		m.EXPECT().Name().Return("test").Once()
		m.EXPECT().Shutdown(mock.Anything).
			RunAndReturn(func(ctx context.Context) error {
				return ctx.Err()
			}).
			Once()

		err := shutdown.GracefulShutdown(ctx, logger, time.Second, []shutdown.Shutdowner{m})
		require.NoError(t, err)
	})
}
